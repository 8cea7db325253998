// Package frame wraps packed messages in a length-tracked envelope. The bit
// cursor reads past the end of a buffer as zero, so anything crossing a
// transport carries an explicit total length and a CRC32 trailer instead of
// relying on message boundaries.
package frame

import "errors"

const (
	Magic0 byte = 0xB1
	Magic1 byte = 0x7E

	TypeData byte = 0x01

	// FlagZstd marks a zstd-compressed payload.
	FlagZstd byte = 0x01

	headerSize  = 2 + 1 + 4 + 1 // magic + type + total length + flags
	trailerSize = 4             // crc32
)

var (
	ErrShortFrame     = errors.New("frame too short")
	ErrBadMagic       = errors.New("bad frame magic")
	ErrBadType        = errors.New("unexpected frame type")
	ErrLengthMismatch = errors.New("frame length mismatch")
	ErrChecksum       = errors.New("frame crc mismatch")
)
