package pp20

import "errors"

// Sentinel errors. Callers match them with errors.Is; returned errors wrap them
// with the offending values.
var (
	// ErrFormat is returned when a buffer is too short or lacks the PP20 marker.
	ErrFormat = errors.New("pp20: not a PP20 stream")
	// ErrTruncatedStream is returned when the body runs out before decoding completes.
	ErrTruncatedStream = errors.New("pp20: truncated stream")
	// ErrSizeMismatch is returned when a stream decodes to a length other than the declared one.
	ErrSizeMismatch = errors.New("pp20: decoded size mismatch")
	// ErrInvalidField is returned when a decoded field cannot describe a valid stream.
	ErrInvalidField = errors.New("pp20: invalid field")
	// ErrInputTooLarge is returned when Compress input does not fit the 24-bit length field.
	ErrInputTooLarge = errors.New("pp20: input exceeds maximum decoded length")
	// ErrInvalidEfficiency is returned for offset-width tables the encoder cannot use.
	ErrInvalidEfficiency = errors.New("pp20: invalid efficiency table")
	// ErrMarginViolated is returned by DecompressInPlace when a write would land on
	// packed bytes that have not been read yet.
	ErrMarginViolated = errors.New("pp20: in-place safety margin violated")
)
