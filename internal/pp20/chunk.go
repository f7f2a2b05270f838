package pp20

import "fmt"

type bitReader interface {
	ReadBits(n uint8) (uint32, error)
}

type bitWriter interface {
	WriteBits(v uint32, n uint8) error
}

// chunkCode is a continuation-coded integer: width-bit chunks are summed, and a
// chunk holding the all-ones value means another chunk follows.
type chunkCode struct {
	width uint8
}

var (
	literalRunCode  = chunkCode{width: 2} // literal count minus one
	extraLengthCode = chunkCode{width: 3} // level-3 length beyond the minimum
)

func (c chunkCode) max() int {
	return 1<<c.width - 1
}

// bits returns the encoded size of v.
func (c chunkCode) bits(v int) int {
	return (v/c.max() + 1) * int(c.width)
}

func (c chunkCode) write(w bitWriter, v int) error {
	for ; v >= c.max(); v -= c.max() {
		if err := w.WriteBits(uint32(c.max()), c.width); err != nil {
			return err
		}
	}
	return w.WriteBits(uint32(v), c.width)
}

// read decodes a value, failing as soon as the running sum exceeds limit.
func (c chunkCode) read(r bitReader, limit int) (int, error) {
	sum := 0
	for {
		x, err := r.ReadBits(c.width)
		if err != nil {
			return 0, err
		}
		sum += int(x)
		if sum > limit {
			return 0, fmt.Errorf("%w: %d-bit chunked value exceeds %d", ErrSizeMismatch, c.width, limit)
		}
		if int(x) < c.max() {
			return sum, nil
		}
	}
}
