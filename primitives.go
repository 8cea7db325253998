package bitwire

import (
	"fmt"
	"strconv"

	"github.com/rawbytedev/bitwire/internal/common"
)

// Primitive codec: fixed-width integers, booleans, raw blocks and strings,
// all built from the cursor's bit operations.

// WriteByte writes an 8-bit value through the bit path, legal mid-byte.
func (c *Cursor) WriteByte(b byte) error {
	return c.WriteBits(uint32(b), 8)
}

func (c *Cursor) ReadByte() (byte, error) {
	v, err := c.ReadBits(8)
	return byte(v), err
}

// WriteBlock writes a raw block of externally known length as consecutive
// 8-bit writes. No alignment is forced.
func (c *Cursor) WriteBlock(p []byte) error {
	for _, b := range p {
		if err := c.WriteBits(uint32(b), 8); err != nil {
			return err
		}
	}
	return nil
}

func (c *Cursor) ReadBlock(n int) ([]byte, error) {
	out := make([]byte, n)
	for i := range out {
		v, err := c.ReadBits(8)
		if err != nil {
			return nil, err
		}
		out[i] = byte(v)
	}
	return out, nil
}

// WriteCString writes each byte of s followed by a 0x00 terminator. Legal
// mid-byte, so the terminator itself may start mid-byte.
func (c *Cursor) WriteCString(s string) error {
	if err := c.WriteBlock([]byte(s)); err != nil {
		return err
	}
	return c.WriteBits(0, 8)
}

// ReadCString accumulates 8-bit reads until a zero byte. On an exhausted
// stream the zero fill terminates the string immediately.
func (c *Cursor) ReadCString() (string, error) {
	var out []byte
	for {
		v, err := c.ReadBits(8)
		if err != nil {
			return "", err
		}
		if v == 0 {
			return string(out), nil
		}
		out = append(out, byte(v))
	}
}

// WriteString writes a length-prefixed string: the cursor is byte-aligned
// first by truncating any pending byte, then one length byte (0-255) and the
// payload are appended verbatim. The caller trades sub-byte packing density
// for an aligned payload.
func (c *Cursor) WriteString(s string) error {
	if len(s) > 255 {
		return fmt.Errorf("%w: %d bytes", ErrStringTooLong, len(s))
	}
	c.Truncate()
	c.buf = append(c.buf, byte(len(s)))
	c.buf = append(c.buf, s...)
	return nil
}

// ReadString mirrors WriteString. A partially consumed byte is discarded
// outright before the length byte is read: that is the alignment contract of
// the length-prefixed encoding, not a partial read. Missing payload bytes
// read as zero.
func (c *Cursor) ReadString() (string, error) {
	c.discardPending()
	n := int(c.nextByte())
	out := make([]byte, n)
	for i := range out {
		out[i] = c.nextByte()
	}
	return string(out), nil
}

// WriteFloat encodes f as its decimal text form through the length-prefixed
// string path. Wire compactness and full IEEE precision are traded for
// debuggability on purpose.
func (c *Cursor) WriteFloat(f float64) error {
	return c.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
}

func (c *Cursor) ReadFloat() (float64, error) {
	s, err := c.ReadString()
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed float text %q: %w", s, err)
	}
	return f, nil
}

// WriteBool writes a single bit, 1 = true.
func (c *Cursor) WriteBool(v bool) error {
	var b uint32
	if v {
		b = 1
	}
	return c.WriteBits(b, 1)
}

func (c *Cursor) ReadBool() (bool, error) {
	v, err := c.ReadBits(1)
	return v == 1, err
}

// WriteUint writes the width low-order bits of v.
func (c *Cursor) WriteUint(v uint32, width int) error {
	return c.WriteBits(v, width)
}

func (c *Cursor) ReadUint(width int) (uint32, error) {
	return c.ReadBits(width)
}

// WriteInt writes a signed value with the same bit layout as WriteUint.
func (c *Cursor) WriteInt(v int32, width int) error {
	return c.WriteBits(uint32(v), width)
}

// ReadInt reads width bits and reinterprets them as a two's-complement value
// within that width.
func (c *Cursor) ReadInt(width int) (int32, error) {
	v, err := c.ReadBits(width)
	if err != nil {
		return 0, err
	}
	return common.SignExtend32(v, width), nil
}
