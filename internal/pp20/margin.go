package pp20

// marginTracker records the largest distance by which the decoder's writes ran
// ahead of its reads, both measured from the end of their buffers.
//
// When packed bytes sit at the start of a buffer and output fills it from the
// end, a write can only land on an unread packed byte while
// written-consumed exceeds the gap between the two buffer ends. The peak of that
// difference is therefore the smallest gap that is always safe.
type marginTracker struct {
	peak int // bytes
}

// observe records the cursor positions after one segment.
func (m *marginTracker) observe(written, consumed int) {
	if gap := written - consumed; gap > m.peak {
		m.peak = gap
	}
}

// words returns the margin in whole words, including the fixed reserve.
func (m *marginTracker) words() uint32 {
	return uint32((m.peak+WordSize-1)/WordSize) + marginReserveWords //nolint:gosec // peak < 2^24
}
