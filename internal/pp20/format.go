package pp20

import (
	"bytes"
	"fmt"
)

// Magic is the marker at the start of every PP20 stream.
const Magic = "PP20"

// Stream layout and codec limits.
const (
	headerSize  = 8 // marker + efficiency table
	trailerSize = 4 // 24-bit decoded length + skip count
	overhead    = headerSize + trailerSize

	// MaxDecodedLen is the largest length the 24-bit trailer field can declare.
	MaxDecodedLen = 1<<24 - 1

	// WordSize is the unit, in bytes, of safety margins.
	WordSize = 4

	marginReserveWords = 2  // longword prefetch of word-oriented decrunchers
	bodyAlignBits      = 32 // bodies are padded to whole longwords
	smallOffsetBits    = 7  // level-3 short offset form
	minMatchLength     = 2
	maxLevel           = 3
	maxDecodeWidth     = 24
)

// Header holds the fixed fields of a PP20 stream.
type Header struct {
	Efficiency Efficiency
	DecodedLen int // length declared in the trailer
	SkipBits   int // padding bits read before the first real bit
	PackedLen  int // total stream length, header and trailer included
}

// IsCompressed reports whether src is long enough to be a PP20 stream and starts
// with the marker. It does not decode anything.
func IsCompressed(src []byte) bool {
	return len(src) >= overhead && bytes.Equal(src[:len(Magic)], []byte(Magic))
}

// ParseHeader validates and returns the header and trailer fields of src.
func ParseHeader(src []byte) (Header, error) {
	if !IsCompressed(src) {
		if len(src) < overhead {
			return Header{}, fmt.Errorf("%w: %d bytes is shorter than the %d-byte minimum", ErrFormat, len(src), overhead)
		}
		return Header{}, fmt.Errorf("%w: marker is %q", ErrFormat, src[:len(Magic)])
	}

	var eff Efficiency
	copy(eff[:], src[len(Magic):headerSize])
	for level, width := range eff {
		if width == 0 || width > maxDecodeWidth {
			return Header{}, fmt.Errorf("%w: level %d offset width %d", ErrInvalidField, level, width)
		}
	}

	tail := src[len(src)-trailerSize:]
	hdr := Header{
		Efficiency: eff,
		DecodedLen: int(tail[0])<<16 | int(tail[1])<<8 | int(tail[2]),
		SkipBits:   int(tail[3]),
		PackedLen:  len(src),
	}

	if bodyBits := (len(src) - overhead) * 8; hdr.SkipBits > bodyBits {
		return Header{}, fmt.Errorf("%w: skip of %d bits exceeds %d-bit body", ErrInvalidField, hdr.SkipBits, bodyBits)
	}

	return hdr, nil
}

// MaxCompressedLen returns the largest stream Compress can produce for n input bytes.
// It grows by roughly n/12 bytes over n, since a literal run spends two count bits
// per three bytes.
func MaxCompressedLen(n int) int {
	return overhead + (literalOnlyBits(n)+bodyAlignBits-1)/bodyAlignBits*(bodyAlignBits/8)
}

// InPlaceLen returns the buffer length needed to decompress a packedLen-byte stream
// in place, with packed bytes at the start of the buffer and output at its end.
func InPlaceLen(packedLen int, margin uint32) int {
	return packedLen + int(margin)*WordSize
}

// literalOnlyBits is the body size of n bytes coded as a single literal run.
func literalOnlyBits(n int) int {
	if n == 0 {
		return 0
	}
	return 1 + literalRunCode.bits(n-1) + 8*n
}

func levelFor(length int) int {
	return min(length-minMatchLength, maxLevel)
}
