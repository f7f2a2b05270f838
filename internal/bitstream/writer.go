package bitstream

import (
	"bytes"
	"fmt"

	"github.com/icza/bitio"
)

// Writer accumulates bits and materializes them in a configurable Order.
//
// Bits are collected forward and MSB-first; the requested orientation is applied
// once, when Bytes or AlignedBytes is called. After that the Writer is closed.
type Writer struct {
	order  Order
	buf    bytes.Buffer
	bw     *bitio.Writer
	n      int // bits written
	closed bool
}

// NewWriter returns an empty Writer producing bytes in order o.
func NewWriter(o Order) *Writer {
	w := &Writer{order: o}
	w.bw = bitio.NewWriter(&w.buf)
	return w
}

// Len returns the number of bits written so far.
func (w *Writer) Len() int {
	return w.n
}

// WriteBit writes the lowest bit of bit.
func (w *Writer) WriteBit(bit uint32) error {
	return w.WriteBits(bit, 1)
}

// WriteBits writes the n lowest bits of v, most significant first. n may be 0..32.
func (w *Writer) WriteBits(v uint32, n uint8) error {
	if w.closed {
		return ErrClosed
	}
	if n > 32 {
		return fmt.Errorf("bitstream: cannot write %d bits at once", n)
	}
	if n == 0 {
		return nil
	}

	if err := w.bw.WriteBits(uint64(v)&(1<<n-1), n); err != nil {
		return err
	}
	w.n += int(n)

	return nil
}

// Bytes closes the writer and returns its content. A partial final byte is
// padded with zero bits after the last bit written.
func (w *Writer) Bytes() ([]byte, error) {
	raw, err := w.close()
	if err != nil {
		return nil, err
	}

	return w.order.orient(raw), nil
}

// AlignedBytes closes the writer and returns its content preceded by enough zero
// bits to make the total a multiple of align bits. The number of padding bits is
// returned alongside; a reader must skip them before the first real bit.
func (w *Writer) AlignedBytes(align int) ([]byte, int, error) {
	if align < 1 || align > 64 {
		return nil, 0, fmt.Errorf("bitstream: alignment %d out of range 1..64", align)
	}

	total := w.n
	raw, err := w.close()
	if err != nil {
		return nil, 0, err
	}

	pad := (align - total%align) % align
	if pad == 0 {
		return w.order.orient(raw), 0, nil
	}

	var out bytes.Buffer
	out.Grow(len(raw) + 8)
	bw := bitio.NewWriter(&out)
	if err := bw.WriteBits(0, uint8(pad)); err != nil {
		return nil, 0, err
	}

	br := bitio.NewReader(bytes.NewReader(raw))
	for left := total; left > 0; {
		k := min(left, 64)
		v, err := br.ReadBits(uint8(k))
		if err != nil {
			return nil, 0, err
		}
		if err := bw.WriteBits(v, uint8(k)); err != nil {
			return nil, 0, err
		}
		left -= k
	}

	if err := bw.Close(); err != nil {
		return nil, 0, err
	}

	return w.order.orient(out.Bytes()), pad, nil
}

func (w *Writer) close() ([]byte, error) {
	if w.closed {
		return nil, ErrClosed
	}
	w.closed = true

	if err := w.bw.Close(); err != nil {
		return nil, err
	}

	return w.buf.Bytes(), nil
}
