package pp20

import (
	"fmt"
	"slices"

	"github.com/yuanying/pp20/internal/bitstream"
)

// Compress packs src into a PP20 stream. opts may be nil (DefaultCompressOptions).
//
// The output never exceeds MaxCompressedLen(len(src)). Each call owns its
// dictionary and scratch buffers, so Compress is safe for concurrent use.
func Compress(src []byte, opts *CompressOptions) ([]byte, error) {
	if opts == nil {
		opts = DefaultCompressOptions()
	}
	if len(src) > MaxDecodedLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrInputTooLarge, len(src))
	}
	if err := opts.Efficiency.validate(); err != nil {
		return nil, err
	}

	e := newEncoder(src, opts.Efficiency, opts.searchLimit())
	body, skip, err := e.encode()
	if err != nil {
		return nil, fmt.Errorf("pp20: encode: %w", err)
	}

	out := make([]byte, 0, overhead+len(body))
	out = append(out, Magic...)
	out = append(out, opts.Efficiency[:]...)
	out = append(out, body...)
	n := len(src)
	out = append(out, byte(n>>16), byte(n>>8), byte(n), byte(skip))

	return out, nil
}

// encoder holds the state of one Compress call.
//
// The decoder rebuilds output from the last byte to the first, so the encoder
// walks the input reversed and emits bits in the order they will be read.
type encoder struct {
	data     []byte // input, reversed
	eff      Efficiency
	dict     *dictionary
	bw       *bitstream.Writer
	litStart int // first pending literal
}

func newEncoder(src []byte, eff Efficiency, searchLimit int) *encoder {
	data := slices.Clone(src)
	slices.Reverse(data)

	return &encoder{
		data: data,
		eff:  eff,
		dict: newDictionary(eff, searchLimit),
		bw:   bitstream.NewWriter(bitstream.PP20),
	}
}

// encode returns the aligned body and its leading pad bit count.
func (e *encoder) encode() ([]byte, int, error) {
	n := len(e.data)
	for i := 0; i < n; {
		m, ok := e.dict.findLongestMatch(e.data, i)
		if !ok {
			e.dict.index(e.data[i], i)
			i++
			continue
		}

		if err := e.writeSegmentStart(i); err != nil {
			return nil, 0, err
		}
		if err := e.writeMatch(m); err != nil {
			return nil, 0, err
		}

		for end := i + m.length; i < end; i++ {
			e.dict.index(e.data[i], i)
		}
		e.litStart = i
	}

	if e.litStart < n {
		if err := e.writeSegmentStart(n); err != nil {
			return nil, 0, err
		}
	}

	if e.bw.Len() > literalOnlyBits(n) {
		if err := e.restartAsLiterals(); err != nil {
			return nil, 0, err
		}
	}

	return e.bw.AlignedBytes(bodyAlignBits)
}

// writeSegmentStart writes the flag of the next segment and, when literals are
// pending before end, the literal run itself.
func (e *encoder) writeSegmentStart(end int) error {
	if e.litStart == end {
		return e.bw.WriteBit(1)
	}
	if err := e.bw.WriteBit(0); err != nil {
		return err
	}
	return e.writeLiteralRun(e.data[e.litStart:end])
}

func (e *encoder) writeLiteralRun(run []byte) error {
	if err := literalRunCode.write(e.bw, len(run)-1); err != nil {
		return err
	}
	for _, b := range run {
		if err := e.bw.WriteBits(uint32(b), 8); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) writeMatch(m match) error {
	level := levelFor(m.length)
	if err := e.bw.WriteBits(uint32(level), 2); err != nil {
		return err
	}

	width := e.eff[level]
	if level == maxLevel {
		small := uint32(1)
		if m.offset < 1<<smallOffsetBits {
			small, width = 0, smallOffsetBits
		}
		if err := e.bw.WriteBit(small); err != nil {
			return err
		}
	}

	if err := e.bw.WriteBits(uint32(m.offset), width); err != nil {
		return err
	}

	if level == maxLevel {
		return extraLengthCode.write(e.bw, m.length-maxLevel-minMatchLength)
	}
	return nil
}

// restartAsLiterals replaces everything written so far with one literal run.
func (e *encoder) restartAsLiterals() error {
	e.bw = bitstream.NewWriter(bitstream.PP20)
	e.litStart = 0
	return e.writeSegmentStart(len(e.data))
}
