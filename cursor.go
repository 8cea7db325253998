// Package bitwire implements a bit-granular read/write cursor over a byte
// buffer and a schema-driven recursive pack/unpack on top of it. Bits within
// a byte fill from bit 0 upward and multi-bit integers are written
// least-significant-bit first, so fields of arbitrary width straddle byte
// boundaries by plain chunking.
package bitwire

import (
	"fmt"

	"github.com/rawbytedev/bitwire/internal/common"
)

// Cursor is the stateful bit position over a growable byte buffer. Finalized
// bytes form a FIFO: writes append at the back, reads consume from the front.
// At most one partially filled byte is pending; its fill count stays between
// 1 and 7 between calls and collapses into the buffer when it reaches 8.
//
// A Cursor is exclusively owned by its caller. It is not safe for concurrent
// use; own one cursor per in-flight message instead of locking.
type Cursor struct {
	buf     []byte
	pending byte
	fill    int // bits occupied in pending (writing) or left unconsumed (reading)
}

// NewCursor returns an empty cursor ready for writing.
func NewCursor() *Cursor {
	return &Cursor{}
}

// NewCursorBytes returns a read cursor over an independent copy of data.
func NewCursorBytes(data []byte) *Cursor {
	buf := make([]byte, len(data))
	copy(buf, data)
	return &Cursor{buf: buf}
}

// Clone returns an independent copy of c. The two cursors share no buffer.
func (c *Cursor) Clone() *Cursor {
	cp := &Cursor{
		buf:     make([]byte, len(c.buf)),
		pending: c.pending,
		fill:    c.fill,
	}
	copy(cp.buf, c.buf)
	return cp
}

// WriteBits writes the width low-order bits of value, least-significant bit
// first: bit 0 of value lands in the lowest unfilled bit of the pending
// byte. Width must be 1-32; value is masked to width.
func (c *Cursor) WriteBits(value uint32, width int) error {
	if width < 1 || width > 32 {
		return fmt.Errorf("%w: got %d", ErrBitWidth, width)
	}
	value &= common.Mask32(width)
	for width > 0 {
		n := 8 - c.fill
		if n > width {
			n = width
		}
		c.pending |= byte(value&common.Mask32(n)) << c.fill
		c.fill += n
		value >>= n
		width -= n
		if c.fill == 8 {
			c.buf = append(c.buf, c.pending)
			c.pending, c.fill = 0, 0
		}
	}
	return nil
}

// ReadBits is the symmetric inverse of WriteBits. Bytes missing past the end
// of the buffer read as zero rather than failing; callers that need exact
// message boundaries track BitsRemaining themselves.
func (c *Cursor) ReadBits(width int) (uint32, error) {
	if width < 1 || width > 32 {
		return 0, fmt.Errorf("%w: got %d", ErrBitWidth, width)
	}
	var out uint32
	shift := 0
	for width > 0 {
		if c.fill == 0 {
			if len(c.buf) == 0 {
				break // exhausted: remaining bits are zero
			}
			c.pending = c.buf[0]
			c.buf = c.buf[1:]
			c.fill = 8
		}
		n := c.fill
		if n > width {
			n = width
		}
		out |= uint32(c.pending&byte(common.Mask32(n))) << shift
		c.pending >>= n
		c.fill -= n
		shift += n
		width -= n
	}
	return out, nil
}

// Truncate finalizes a pending partial byte into the buffer with its unused
// high bits left zero. Used to force byte alignment before byte-oriented
// fields; a no-op when already aligned.
func (c *Cursor) Truncate() {
	if c.fill > 0 {
		c.buf = append(c.buf, c.pending)
		c.pending, c.fill = 0, 0
	}
}

// discardPending drops a partially consumed byte on the read side. The byte
// was already removed from the buffer, so its unread bits vanish with it.
func (c *Cursor) discardPending() {
	c.pending, c.fill = 0, 0
}

// nextByte consumes one finalized byte, reading zero past the end.
func (c *Cursor) nextByte() byte {
	if len(c.buf) == 0 {
		return 0
	}
	b := c.buf[0]
	c.buf = c.buf[1:]
	return b
}

// BitsWritten reports the stream size in bits, counting a pending byte's
// fill.
func (c *Cursor) BitsWritten() int {
	return len(c.buf)*8 + c.fill
}

// BitsRemaining reports unread bits, counting what is left of a partially
// consumed byte.
func (c *Cursor) BitsRemaining() int {
	return len(c.buf)*8 + c.fill
}

// BytesWritten rounds BitsWritten up to whole bytes.
func (c *Cursor) BytesWritten() int {
	return (c.BitsWritten() + 7) / 8
}

// BytesRemaining rounds BitsRemaining down to whole bytes.
func (c *Cursor) BytesRemaining() int {
	return c.BitsRemaining() / 8
}

// Clear resets to an empty buffer with no pending byte.
func (c *Cursor) Clear() {
	c.buf = c.buf[:0]
	c.pending, c.fill = 0, 0
}

// Bytes returns a snapshot of the stream: the finalized bytes plus the
// pending byte, if any, appended as a final not-yet-full byte. Equivalent to
// Truncate without mutating the live cursor.
func (c *Cursor) Bytes() []byte {
	out := make([]byte, len(c.buf), len(c.buf)+1)
	copy(out, c.buf)
	if c.fill > 0 {
		out = append(out, c.pending)
	}
	return out
}
