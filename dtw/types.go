package dtw

import (
	"errors"
	"math"
)

var (
	// ErrEmptySequence indicates one or both inputs are empty.
	ErrEmptySequence = errors.New("dtw: input sequences must be non-empty")

	// ErrBadWindow indicates a negative window.
	ErrBadWindow = errors.New("dtw: window must be >= 0")

	// ErrBadPenalty indicates a negative or non-finite slope penalty.
	ErrBadPenalty = errors.New("dtw: slope penalty must be finite and >= 0")
)

// Options configures Dynamic Time Warping.
//
// Fields:
//   - Window        maximum deviation |i−j| allowed (Sakoe–Chiba band).
//     0 means no band.
//   - SlopePenalty  cost added to insertion/deletion steps.
type Options struct {
	Window       int
	SlopePenalty float64
}

// DefaultOptions returns an unconstrained, penalty-free configuration.
func DefaultOptions() Options {
	return Options{}
}

// Validate checks the option ranges.
func (o Options) Validate() error {
	if o.Window < 0 {
		return ErrBadWindow
	}
	if math.IsNaN(o.SlopePenalty) || math.IsInf(o.SlopePenalty, 0) || o.SlopePenalty < 0 {
		return ErrBadPenalty
	}

	return nil
}
