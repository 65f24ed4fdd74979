package snf

import (
	"errors"
	"fmt"
)

// ErrConfiguration is the class of every parameter/shape error. Specific
// sentinels below wrap it, so errors.Is(err, ErrConfiguration) holds for all
// of them.
var ErrConfiguration = errors.New("snf: invalid configuration")

// ErrNumericDegeneracy is returned when a similarity row carries no
// off-diagonal mass after epsilon flooring (all affinities underflowed), so
// it cannot be normalised into a stochastic kernel.
var ErrNumericDegeneracy = errors.New("snf: numeric degeneracy")

var (
	// ErrNoViews indicates that Fuse was called without any view.
	ErrNoViews = fmt.Errorf("%w: at least one view is required", ErrConfiguration)

	// ErrViewMismatch indicates views with different sample counts.
	ErrViewMismatch = fmt.Errorf("%w: views must have the same number of samples", ErrConfiguration)

	// ErrTooFewSamples indicates n < K+1, which leaves neighbour sets undefined.
	ErrTooFewSamples = fmt.Errorf("%w: fewer samples than neighbours+1", ErrConfiguration)

	// ErrInvalidNeighbors indicates K < 1.
	ErrInvalidNeighbors = fmt.Errorf("%w: neighbours must be >= 1", ErrConfiguration)

	// ErrInvalidMu indicates a non-positive or non-finite kernel scale μ.
	ErrInvalidMu = fmt.Errorf("%w: mu must be finite and > 0", ErrConfiguration)

	// ErrInvalidIterations indicates T < 0.
	ErrInvalidIterations = fmt.Errorf("%w: iterations must be >= 0", ErrConfiguration)

	// ErrInvalidTolerance indicates a negative or non-finite early-exit tolerance.
	ErrInvalidTolerance = fmt.Errorf("%w: tolerance must be finite and >= 0", ErrConfiguration)

	// ErrInvalidMetric indicates an unknown distance metric or a negative DTW window.
	ErrInvalidMetric = fmt.Errorf("%w: unknown metric or negative window", ErrConfiguration)

	// ErrInvalidClusterRange indicates maxK outside [2, n-1] for EstimateClusters.
	ErrInvalidClusterRange = fmt.Errorf("%w: cluster range must satisfy 2 <= maxK < n", ErrConfiguration)
)
