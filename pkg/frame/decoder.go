package frame

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/klauspost/compress/zstd"
)

// Decode validates a data frame and returns its payload and flags. The
// returned payload never aliases data.
func Decode(data []byte) ([]byte, byte, error) {
	if len(data) < headerSize+trailerSize {
		return nil, 0, ErrShortFrame
	}
	if data[0] != Magic0 || data[1] != Magic1 {
		return nil, 0, ErrBadMagic
	}
	if data[2] != TypeData {
		return nil, 0, fmt.Errorf("%w: 0x%02x", ErrBadType, data[2])
	}
	if int(binary.LittleEndian.Uint32(data[3:])) != len(data) {
		return nil, 0, ErrLengthMismatch
	}
	flags := data[7]

	payloadEnd := len(data) - trailerSize
	want := binary.LittleEndian.Uint32(data[payloadEnd:])
	if crc32.ChecksumIEEE(data[2:payloadEnd]) != want {
		return nil, 0, ErrChecksum
	}
	payload := data[headerSize:payloadEnd]

	if flags&FlagZstd != 0 {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, 0, err
		}
		defer dec.Close()
		raw, err := dec.DecodeAll(payload, nil)
		if err != nil {
			return nil, 0, fmt.Errorf("decompress payload: %w", err)
		}
		return raw, flags, nil
	}

	out := make([]byte, len(payload))
	copy(out, payload)
	return out, flags, nil
}
