package pp20

// Options configures Decompress, DecompressInPlace and SafetyMargin.
type Options struct {
	// VerifyEnd requires every body bit to be consumed when the output is complete.
	// Disable it for streams produced by packers that leave trailing bits behind.
	VerifyEnd bool
}

// DefaultOptions returns strict decoding options.
func DefaultOptions() *Options {
	return &Options{VerifyEnd: true}
}

// LenientOptions returns options that accept unconsumed body bits.
func LenientOptions() *Options {
	return &Options{VerifyEnd: false}
}

// DefaultSearchLimit is the number of earlier positions the encoder examines
// for each match when CompressOptions.SearchLimit is 0.
const DefaultSearchLimit = 512

// CompressOptions configures Compress.
type CompressOptions struct {
	// Efficiency is the per-level offset-width table written to the header.
	Efficiency Efficiency
	// SearchLimit caps the candidates examined per input position; 0 uses
	// DefaultSearchLimit. Higher values trade speed for smaller output.
	SearchLimit int
}

// DefaultCompressOptions returns options using EfficiencyBest and DefaultSearchLimit.
func DefaultCompressOptions() *CompressOptions {
	return &CompressOptions{Efficiency: EfficiencyBest, SearchLimit: DefaultSearchLimit}
}

func (o *CompressOptions) searchLimit() int {
	if o.SearchLimit <= 0 {
		return DefaultSearchLimit
	}
	return o.SearchLimit
}
