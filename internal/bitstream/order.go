package bitstream

import (
	"errors"
	"math/bits"
)

var (
	// ErrExhausted is returned when a Reader runs past the end of its buffer.
	ErrExhausted = errors.New("bitstream: buffer exhausted")
	// ErrClosed is returned when a Writer is used after its bytes were materialized.
	ErrClosed = errors.New("bitstream: writer already materialized")
)

// ByteOrder selects the direction in which successive bytes are visited.
type ByteOrder int

const (
	// Forward visits bytes from the lowest address to the highest.
	Forward ByteOrder = iota
	// Backward visits bytes from the highest address to the lowest.
	Backward
)

// BitOrder selects which bit of a byte is visited first.
type BitOrder int

const (
	// MSBFirst visits bit 7 first.
	MSBFirst BitOrder = iota
	// LSBFirst visits bit 0 first.
	LSBFirst
)

// Order combines the byte and bit directions of a stream.
type Order struct {
	Bytes ByteOrder
	Bits  BitOrder
}

// PP20 is the order used by PP20 bodies: read from the last byte backwards,
// least significant bit first.
var PP20 = Order{Bytes: Backward, Bits: LSBFirst}

// orient converts a forward, MSB-first byte sequence into o in place.
func (o Order) orient(buf []byte) []byte {
	if o.Bits == LSBFirst {
		for i, b := range buf {
			buf[i] = bits.Reverse8(b)
		}
	}

	if o.Bytes == Backward {
		for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
			buf[i], buf[j] = buf[j], buf[i]
		}
	}

	return buf
}
