package pp20

import (
	"errors"
	"fmt"

	"github.com/yuanying/pp20/internal/bitstream"
)

// Decompress unpacks a PP20 stream. It returns the decoded bytes and the safety
// margin, in words, that an in-place decompression of src needs. opts may be nil
// (DefaultOptions). No output is returned on error.
func Decompress(src []byte, opts *Options) ([]byte, uint32, error) {
	hdr, err := ParseHeader(src)
	if err != nil {
		return nil, 0, err
	}

	out := make([]byte, hdr.DecodedLen)
	d := newDecoder(hdr, src[headerSize:len(src)-trailerSize], out)
	if err := d.run(opts); err != nil {
		return nil, 0, err
	}

	return out, d.margin.words(), nil
}

// SafetyMargin decodes src and returns only its safety margin in words. Archive
// writers store this value next to each packed entry.
func SafetyMargin(src []byte, opts *Options) (uint32, error) {
	m, err := measureMargin(src, opts)
	if err != nil {
		return 0, err
	}
	return m.words(), nil
}

// DecompressInPlace unpacks the stream held in buf[:packedLen] into the end of buf
// and returns that output slice. buf must be at least
// InPlaceLen(packedLen, SafetyMargin(...)) bytes long to be safe; a shorter buffer
// fails with ErrMarginViolated before any unread packed byte is overwritten.
func DecompressInPlace(buf []byte, packedLen int, opts *Options) ([]byte, error) {
	if packedLen < 0 || packedLen > len(buf) {
		return nil, fmt.Errorf("%w: packed length %d outside %d-byte buffer", ErrTruncatedStream, packedLen, len(buf))
	}

	hdr, err := ParseHeader(buf[:packedLen])
	if err != nil {
		return nil, err
	}
	if hdr.DecodedLen > len(buf) {
		return nil, fmt.Errorf("%w: %d-byte buffer cannot hold %d decoded bytes", ErrMarginViolated, len(buf), hdr.DecodedLen)
	}

	base := len(buf) - hdr.DecodedLen
	d := newDecoder(hdr, buf[headerSize:packedLen-trailerSize], buf[base:])
	d.guard = func(i int) error {
		pos, unreadEnd := base+i, headerSize+d.br.Remaining()
		if pos >= headerSize && pos < unreadEnd {
			return fmt.Errorf("%w: write at %d precedes unread packed data ending at %d", ErrMarginViolated, pos, unreadEnd)
		}
		return nil
	}

	if err := d.run(opts); err != nil {
		return nil, err
	}

	return buf[base:], nil
}

func measureMargin(src []byte, opts *Options) (marginTracker, error) {
	hdr, err := ParseHeader(src)
	if err != nil {
		return marginTracker{}, err
	}

	d := newDecoder(hdr, src[headerSize:len(src)-trailerSize], make([]byte, hdr.DecodedLen))
	if err := d.run(opts); err != nil {
		return marginTracker{}, err
	}
	return d.margin, nil
}

// decoder rebuilds output from its last byte towards the first.
type decoder struct {
	hdr    Header
	br     *bitstream.Reader
	out    []byte
	w      int // out[w:] is decoded
	margin marginTracker
	guard  func(i int) error // checks a write to out[i]; nil when not in place
}

func newDecoder(hdr Header, body, out []byte) *decoder {
	return &decoder{
		hdr: hdr,
		br:  bitstream.NewReader(body, bitstream.PP20),
		out: out,
		w:   len(out),
	}
}

func (d *decoder) run(opts *Options) error {
	if opts == nil {
		opts = DefaultOptions()
	}

	for skip := d.hdr.SkipBits; skip > 0; skip -= 32 {
		if _, err := d.ReadBits(uint8(min(skip, 32))); err != nil {
			return err
		}
	}
	d.observe()

	for d.w > 0 {
		flag, err := d.ReadBits(1)
		if err != nil {
			return err
		}

		if flag == 0 {
			if err := d.raw(); err != nil {
				return err
			}
			d.observe()
			if d.w == 0 {
				break
			}
		}

		if err := d.backref(); err != nil {
			return err
		}
		d.observe()
	}

	if opts.VerifyEnd {
		if left := d.br.Remaining()*8 + int(d.br.Buffered()); left != 0 {
			return fmt.Errorf("%w: %d body bits left after %d bytes decoded", ErrSizeMismatch, left, len(d.out))
		}
	}

	return nil
}

// raw copies a literal run from the body.
func (d *decoder) raw() error {
	n, err := literalRunCode.read(d, d.w-1)
	if err != nil {
		return err
	}

	for range n + 1 {
		b, err := d.ReadBits(8)
		if err != nil {
			return err
		}
		if err := d.put(byte(b)); err != nil {
			return err
		}
	}
	return nil
}

// backref copies an earlier stretch of output. Source and destination may
// overlap, so the copy goes byte by byte in cursor order.
func (d *decoder) backref() error {
	level, err := d.ReadBits(2)
	if err != nil {
		return err
	}

	width := d.hdr.Efficiency[level]
	length := int(level) + minMatchLength
	if level == maxLevel {
		wide, err := d.ReadBits(1)
		if err != nil {
			return err
		}
		if wide == 0 {
			width = smallOffsetBits
		}
	}

	off, err := d.ReadBits(width)
	if err != nil {
		return err
	}
	offset := int(off)

	if level == maxLevel {
		extra, err := extraLengthCode.read(d, d.w-length)
		if err != nil {
			return err
		}
		length += extra
	}

	if length > d.w {
		return fmt.Errorf("%w: %d-byte match with %d bytes left to decode", ErrSizeMismatch, length, d.w)
	}
	if d.w+offset >= len(d.out) {
		return fmt.Errorf("%w: offset %d reaches past %d decoded bytes", ErrInvalidField, offset, len(d.out)-d.w)
	}

	for range length {
		if err := d.put(d.out[d.w+offset]); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) put(b byte) error {
	d.w--
	if d.guard != nil {
		if err := d.guard(d.w); err != nil {
			return err
		}
	}
	d.out[d.w] = b
	return nil
}

func (d *decoder) observe() {
	d.margin.observe(len(d.out)-d.w, trailerSize+d.br.Consumed())
}

// ReadBits reads from the body, reporting exhaustion as a truncated stream.
func (d *decoder) ReadBits(n uint8) (uint32, error) {
	v, err := d.br.ReadBits(n)
	if errors.Is(err, bitstream.ErrExhausted) {
		return 0, fmt.Errorf("%w: body exhausted with %d of %d bytes left to decode", ErrTruncatedStream, d.w, len(d.out))
	}
	return v, err
}
