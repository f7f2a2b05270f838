package bitstream

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/icza/bitio"
)

var allOrders = []Order{
	{Bytes: Forward, Bits: MSBFirst},
	{Bytes: Forward, Bits: LSBFirst},
	{Bytes: Backward, Bits: MSBFirst},
	{Bytes: Backward, Bits: LSBFirst},
}

type field struct {
	v uint32
	n uint8
}

func randomFields(seed int64, count int) []field {
	rng := rand.New(rand.NewSource(seed))
	fields := make([]field, count)
	for i := range fields {
		n := uint8(rng.Intn(33))
		v := rng.Uint32()
		if n < 32 {
			v &= 1<<n - 1
		}
		fields[i] = field{v: v, n: n}
	}
	return fields
}

func TestRoundTrip_AllOrders(t *testing.T) {
	fields := randomFields(7, 500)

	for _, o := range allOrders {
		t.Run(fmt.Sprintf("bytes=%d/bits=%d", o.Bytes, o.Bits), func(t *testing.T) {
			w := NewWriter(o)
			total := 0
			for _, f := range fields {
				if err := w.WriteBits(f.v, f.n); err != nil {
					t.Fatalf("WriteBits(%d, %d) error: %v", f.v, f.n, err)
				}
				total += int(f.n)
			}
			if w.Len() != total {
				t.Fatalf("Len() = %d, want %d", w.Len(), total)
			}

			buf, err := w.Bytes()
			if err != nil {
				t.Fatalf("Bytes() error: %v", err)
			}
			if want := (total + 7) / 8; len(buf) != want {
				t.Fatalf("len(Bytes()) = %d, want %d", len(buf), want)
			}

			r := NewReader(buf, o)
			for i, f := range fields {
				got, err := r.ReadBits(f.n)
				if err != nil {
					t.Fatalf("field %d: ReadBits(%d) error: %v", i, f.n, err)
				}
				if got != f.v {
					t.Fatalf("field %d: ReadBits(%d) = %#x, want %#x", i, f.n, got, f.v)
				}
			}
		})
	}
}

func TestWriter_PP20Layout(t *testing.T) {
	w := NewWriter(PP20)
	for _, f := range []field{{0xAB, 8}, {0xCD, 8}} {
		if err := w.WriteBits(f.v, f.n); err != nil {
			t.Fatalf("WriteBits error: %v", err)
		}
	}
	buf, err := w.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error: %v", err)
	}
	// First written byte sits at the end, bit-reversed.
	if !bytes.Equal(buf, []byte{0xB3, 0xD5}) {
		t.Fatalf("Bytes() = % x, want b3 d5", buf)
	}
}

func TestWriter_PartialByteIsZeroPadded(t *testing.T) {
	w := NewWriter(Order{Bytes: Forward, Bits: MSBFirst})
	if err := w.WriteBits(0b101, 3); err != nil {
		t.Fatalf("WriteBits error: %v", err)
	}
	buf, err := w.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error: %v", err)
	}
	if !bytes.Equal(buf, []byte{0xA0}) {
		t.Fatalf("Bytes() = % x, want a0", buf)
	}
}

func TestWriter_AlignedBytesPrependsPadding(t *testing.T) {
	w := NewWriter(PP20)
	if err := w.WriteBits(0b101, 3); err != nil {
		t.Fatalf("WriteBits error: %v", err)
	}
	buf, pad, err := w.AlignedBytes(8)
	if err != nil {
		t.Fatalf("AlignedBytes error: %v", err)
	}
	if pad != 5 {
		t.Fatalf("pad = %d, want 5", pad)
	}
	if !bytes.Equal(buf, []byte{0xA0}) {
		t.Fatalf("AlignedBytes() = % x, want a0", buf)
	}

	r := NewReader(buf, PP20)
	if skipped, err := r.ReadBits(uint8(pad)); err != nil || skipped != 0 {
		t.Fatalf("skip ReadBits = %d, %v", skipped, err)
	}
	got, err := r.ReadBits(3)
	if err != nil || got != 0b101 {
		t.Fatalf("ReadBits(3) = %b, %v; want 101", got, err)
	}
	if r.Remaining() != 0 || r.Buffered() != 0 {
		t.Fatalf("Remaining=%d Buffered=%d, want 0/0", r.Remaining(), r.Buffered())
	}
}

func TestWriter_AlignedBytesWordBoundary(t *testing.T) {
	fields := randomFields(11, 64)
	w := NewWriter(PP20)
	for _, f := range fields {
		if err := w.WriteBits(f.v, f.n); err != nil {
			t.Fatalf("WriteBits error: %v", err)
		}
	}
	total := w.Len()

	buf, pad, err := w.AlignedBytes(32)
	if err != nil {
		t.Fatalf("AlignedBytes error: %v", err)
	}
	if (total+pad)%32 != 0 || pad >= 32 {
		t.Fatalf("pad = %d does not align %d bits to 32", pad, total)
	}
	if len(buf)*8 != total+pad {
		t.Fatalf("len = %d bytes, want %d bits", len(buf), total+pad)
	}

	r := NewReader(buf, PP20)
	if _, err := r.ReadBits(uint8(pad)); err != nil {
		t.Fatalf("skip error: %v", err)
	}
	for i, f := range fields {
		got, err := r.ReadBits(f.n)
		if err != nil || got != f.v {
			t.Fatalf("field %d = %#x, %v; want %#x", i, got, err, f.v)
		}
	}
}

func TestWriter_ClosedAfterMaterialize(t *testing.T) {
	w := NewWriter(PP20)
	if err := w.WriteBit(1); err != nil {
		t.Fatalf("WriteBit error: %v", err)
	}
	if _, err := w.Bytes(); err != nil {
		t.Fatalf("Bytes() error: %v", err)
	}

	if err := w.WriteBit(1); !errors.Is(err, ErrClosed) {
		t.Fatalf("WriteBit after Bytes: got %v, want ErrClosed", err)
	}
	if _, err := w.Bytes(); !errors.Is(err, ErrClosed) {
		t.Fatalf("second Bytes: got %v, want ErrClosed", err)
	}
	if _, _, err := w.AlignedBytes(8); !errors.Is(err, ErrClosed) {
		t.Fatalf("AlignedBytes after Bytes: got %v, want ErrClosed", err)
	}
}

func TestWriter_RejectsWideFields(t *testing.T) {
	w := NewWriter(PP20)
	if err := w.WriteBits(0, 33); err == nil {
		t.Fatal("expected error for 33-bit write")
	}
	if _, _, err := NewWriter(PP20).AlignedBytes(0); err == nil {
		t.Fatal("expected error for zero alignment")
	}
}

func TestWriter_MatchesBitioForward(t *testing.T) {
	fields := randomFields(3, 200)
	w := NewWriter(Order{Bytes: Forward, Bits: MSBFirst})
	for _, f := range fields {
		if err := w.WriteBits(f.v, f.n); err != nil {
			t.Fatalf("WriteBits error: %v", err)
		}
	}
	buf, err := w.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error: %v", err)
	}

	br := bitio.NewReader(bytes.NewReader(buf))
	for i, f := range fields {
		if f.n == 0 {
			continue
		}
		got, err := br.ReadBits(f.n)
		if err != nil {
			t.Fatalf("field %d: bitio ReadBits error: %v", i, err)
		}
		if uint32(got) != f.v {
			t.Fatalf("field %d: bitio read %#x, want %#x", i, got, f.v)
		}
	}
}

func TestReader_Exhausted(t *testing.T) {
	r := NewReader([]byte{0xFF}, PP20)
	if _, err := r.ReadBits(8); err != nil {
		t.Fatalf("ReadBits(8) error: %v", err)
	}
	if _, err := r.ReadBit(); !errors.Is(err, ErrExhausted) {
		t.Fatalf("ReadBit past end: got %v, want ErrExhausted", err)
	}

	r = NewReader(nil, Order{})
	if _, err := r.ReadBits(1); !errors.Is(err, ErrExhausted) {
		t.Fatalf("ReadBits on empty: got %v, want ErrExhausted", err)
	}
}

func TestReader_ConsumedTracksLoads(t *testing.T) {
	r := NewReader([]byte{1, 2, 3}, PP20)
	if r.Consumed() != 0 || r.Remaining() != 3 {
		t.Fatalf("fresh reader: Consumed=%d Remaining=%d", r.Consumed(), r.Remaining())
	}

	if _, err := r.ReadBit(); err != nil {
		t.Fatalf("ReadBit error: %v", err)
	}
	if r.Consumed() != 1 || r.Buffered() != 7 {
		t.Fatalf("after 1 bit: Consumed=%d Buffered=%d", r.Consumed(), r.Buffered())
	}

	if _, err := r.ReadBits(8); err != nil {
		t.Fatalf("ReadBits error: %v", err)
	}
	if r.Consumed() != 2 || r.Buffered() != 7 {
		t.Fatalf("after 9 bits: Consumed=%d Buffered=%d", r.Consumed(), r.Buffered())
	}
}

func TestReader_MatchesBitioOverOrientedCopy(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	buf := make([]byte, 2048)
	rng.Read(buf)

	// The PP20 order is a forward MSB-first read of the reversed, bit-flipped body.
	oriented := PP20.orient(bytes.Clone(buf))
	ref := bytes.NewReader(oriented)
	want := bitio.NewReader(ref)

	r := NewReader(buf, PP20)
	for i := 0; i < 1000; i++ {
		n := uint8(rng.Intn(13) + 1)
		got, err := r.ReadBits(n)
		if err != nil {
			t.Fatalf("read %d: ReadBits(%d) error: %v", i, n, err)
		}
		v, err := want.ReadBits(n)
		if err != nil {
			t.Fatalf("read %d: bitio ReadBits(%d) error: %v", i, n, err)
		}
		if uint64(got) != v {
			t.Fatalf("read %d: ReadBits(%d) = %#x, bitio %#x", i, n, got, v)
		}
		if loaded := len(oriented) - ref.Len(); r.Consumed() != loaded {
			t.Fatalf("read %d: Consumed = %d, bitio loaded %d", i, r.Consumed(), loaded)
		}
	}
}

func TestReader_FieldWidths(t *testing.T) {
	r := NewReader([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, PP20)
	if _, err := r.ReadBits(33); err == nil {
		t.Fatal("expected error for 33-bit read")
	}

	v, err := r.ReadBits(0)
	if err != nil || v != 0 {
		t.Fatalf("ReadBits(0) = %d, %v", v, err)
	}
	if r.Consumed() != 0 {
		t.Fatalf("ReadBits(0) loaded %d bytes", r.Consumed())
	}

	v, err = r.ReadBits(32)
	if err != nil || v != 0xFFFFFFFF {
		t.Fatalf("ReadBits(32) = %#x, %v", v, err)
	}
	if r.Remaining() != 1 || r.Buffered() != 0 {
		t.Fatalf("after 32 bits: Remaining=%d Buffered=%d", r.Remaining(), r.Buffered())
	}
}
