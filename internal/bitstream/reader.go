package bitstream

import (
	"errors"
	"fmt"
	"io"
	"math/bits"

	"github.com/icza/bitio"
)

// Reader reads bits from a byte slice in a configurable Order.
//
// The slice is not copied. A byte counts as consumed as soon as it is loaded,
// which is what lets callers reuse the memory behind a Reader's cursor.
type Reader struct {
	src  *cursor
	br   *bitio.Reader
	read int // bits returned so far
}

// NewReader returns a Reader over buf in order o.
func NewReader(buf []byte, o Order) *Reader {
	c := &cursor{order: o, buf: buf}
	if o.Bytes == Backward {
		c.pos = len(buf)
	}
	return &Reader{src: c, br: bitio.NewReader(c)}
}

// ReadBit returns the next bit.
func (r *Reader) ReadBit() (uint32, error) {
	return r.ReadBits(1)
}

// ReadBits returns the next n bits (n <= 32); the first bit read becomes the
// most significant bit of the result.
func (r *Reader) ReadBits(n uint8) (uint32, error) {
	if n > 32 {
		return 0, fmt.Errorf("bitstream: cannot read %d bits at once", n)
	}
	if n == 0 {
		return 0, nil
	}

	v, err := r.br.ReadBits(n)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, ErrExhausted
		}
		return 0, err
	}
	r.read += int(n)

	return uint32(v), nil //nolint:gosec // n <= 32
}

// Consumed returns the number of bytes loaded so far.
func (r *Reader) Consumed() int {
	return r.src.consumed()
}

// Remaining returns the number of bytes not loaded yet.
func (r *Reader) Remaining() int {
	return len(r.src.buf) - r.src.consumed()
}

// Buffered returns the number of unread bits left in the loaded bytes.
func (r *Reader) Buffered() uint {
	return uint(r.src.consumed()*8 - r.read) //nolint:gosec // never negative
}

// cursor hands bytes to bitio one at a time in o.Bytes order, oriented so that
// bitio's MSB-first reads visit them in o.Bits order.
type cursor struct {
	order Order
	buf   []byte
	pos   int // index of the next byte (Forward) or one past it (Backward)
}

func (c *cursor) consumed() int {
	if c.order.Bytes == Backward {
		return len(c.buf) - c.pos
	}
	return c.pos
}

func (c *cursor) ReadByte() (byte, error) {
	if c.consumed() == len(c.buf) {
		return 0, io.EOF
	}

	var b byte
	if c.order.Bytes == Backward {
		c.pos--
		b = c.buf[c.pos]
	} else {
		b = c.buf[c.pos]
		c.pos++
	}

	if c.order.Bits == LSBFirst {
		b = bits.Reverse8(b)
	}
	return b, nil
}

func (c *cursor) Read(p []byte) (int, error) {
	for i := range p {
		b, err := c.ReadByte()
		if err != nil {
			return i, err
		}
		p[i] = b
	}
	return len(p), nil
}
