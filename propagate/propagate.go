package propagate

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/simfuse/matrix"
)

// ErrConfiguration is the class of every input error.
var ErrConfiguration = errors.New("propagate: invalid configuration")

var (
	// ErrInvalidNetwork indicates a network that is not square, finite and
	// non-negative.
	ErrInvalidNetwork = fmt.Errorf("%w: network must be square, finite and non-negative", ErrConfiguration)

	// ErrSeedLength indicates a seed vector whose length differs from n.
	ErrSeedLength = fmt.Errorf("%w: seed vector length must match the network", ErrConfiguration)

	// ErrInvalidAlpha indicates α outside [0, 1).
	ErrInvalidAlpha = fmt.Errorf("%w: alpha must be in [0, 1)", ErrConfiguration)

	// ErrInvalidOptions indicates a negative tolerance or iteration budget.
	ErrInvalidOptions = fmt.Errorf("%w: invalid options", ErrConfiguration)
)

// Defaults for LabelPropagation.
const (
	DefaultAlpha     = 0.9
	DefaultTolerance = 1e-9
	DefaultMaxIter   = 1000
)

// Options configures LabelPropagation.
type Options struct {
	// Alpha ∈ [0,1) weighs the network against the seeds.
	Alpha float64
	// Tolerance stops iteration once max_i |F_i − F_i'| < Tolerance.
	Tolerance float64
	// MaxIter caps iterations; 0 selects DefaultMaxIter.
	MaxIter int
}

// DefaultOptions returns Options populated with the package defaults.
func DefaultOptions() Options {
	return Options{Alpha: DefaultAlpha, Tolerance: DefaultTolerance, MaxIter: DefaultMaxIter}
}

// Validate checks α, the tolerance and the iteration budget.
func (o Options) Validate() error {
	if math.IsNaN(o.Alpha) || o.Alpha < 0 || o.Alpha >= 1 {
		return ErrInvalidAlpha
	}
	if math.IsNaN(o.Tolerance) || math.IsInf(o.Tolerance, 0) || o.Tolerance < 0 || o.MaxIter < 0 {
		return ErrInvalidOptions
	}

	return nil
}

// Result is the outcome of LabelPropagation.
type Result struct {
	Scores     []float64
	Iterations int
	Converged  bool
}

// LabelPropagation spreads seed scores over the network W.
//
// Implementation:
//   - Stage 1: symmetrise W, drop its diagonal and build Ŝ = D^{-½}·W·D^{-½}.
//     Isolated samples (zero degree) keep a zero row.
//   - Stage 2: F⁰ = Y; iterate F ← α·Ŝ·F + (1−α)·Y.
//
// The fixed point is (1−α)·(I − α·Ŝ)^{-1}·Y; since the spectral radius of Ŝ
// is at most 1 the iteration contracts with rate α.
//
// Errors: ErrInvalidNetwork, ErrSeedLength, ErrInvalidAlpha, ErrInvalidOptions.
//
// Complexity: O(iterations · n²).
func LabelPropagation(W matrix.Matrix, seeds []float64, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	S, err := normalizedNetwork(W)
	if err != nil {
		return nil, err
	}
	n := S.Rows()
	if len(seeds) != n {
		return nil, fmt.Errorf("%d seeds for %d samples: %w", len(seeds), n, ErrSeedLength)
	}
	for i, y := range seeds {
		if math.IsNaN(y) || math.IsInf(y, 0) {
			return nil, fmt.Errorf("seed %d is not finite: %w", i, ErrInvalidOptions)
		}
	}
	maxIter := opts.MaxIter
	if maxIter == 0 {
		maxIter = DefaultMaxIter
	}

	F := append([]float64(nil), seeds...)
	res := &Result{}
	var (
		SF    []float64
		next  float64
		delta float64
	)
	for res.Iterations < maxIter {
		if SF, err = matrix.MatVec(S, F); err != nil {
			return nil, fmt.Errorf("LabelPropagation: %w", err)
		}
		delta = 0
		for i := range F {
			next = opts.Alpha*SF[i] + (1-opts.Alpha)*seeds[i]
			delta = math.Max(delta, math.Abs(next-F[i]))
			F[i] = next
		}
		res.Iterations++
		if delta < opts.Tolerance {
			res.Converged = true
			break
		}
	}
	res.Scores = F

	return res, nil
}

// NeighborVoting scores every sample i by
//
//	Σ_{j∈seeds, j≠i} W(i,j) / Σ_{j≠i} W(i,j)
//
// i.e. the share of i's similarity mass pointing at seeds. Samples with no
// off-diagonal mass score 0.
//
// Errors: ErrInvalidNetwork, ErrSeedLength.
//
// Complexity: O(n²).
func NeighborVoting(W matrix.Matrix, seeds []bool) ([]float64, error) {
	rows, err := networkRows(W)
	if err != nil {
		return nil, err
	}
	n := len(rows)
	if len(seeds) != n {
		return nil, fmt.Errorf("%d seeds for %d samples: %w", len(seeds), n, ErrSeedLength)
	}

	scores := make([]float64, n)
	var (
		i, j       int
		hit, total float64
	)
	for i = 0; i < n; i++ {
		hit, total = 0, 0
		for j = 0; j < n; j++ {
			if j == i {
				continue
			}
			total += rows[i][j]
			if seeds[j] {
				hit += rows[i][j]
			}
		}
		if total > 0 {
			scores[i] = hit / total
		}
	}

	return scores, nil
}

// networkRows validates W and returns it as rows.
func networkRows(W matrix.Matrix) ([][]float64, error) {
	for _, check := range []func(matrix.Matrix) error{
		matrix.ValidateSquare,
		matrix.ValidateFinite,
		matrix.ValidateNonNegative,
	} {
		if err := check(W); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidNetwork, err)
		}
	}
	n := W.Rows()
	rows := make([][]float64, n)
	var (
		i, j int
		err  error
	)
	for i = 0; i < n; i++ {
		rows[i] = make([]float64, n)
		for j = 0; j < n; j++ {
			if rows[i][j], err = W.At(i, j); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidNetwork, err)
			}
		}
	}

	return rows, nil
}

// normalizedNetwork returns Ŝ = D^{-½}·W'·D^{-½} where W' is the symmetrised
// W with a zero diagonal.
func normalizedNetwork(W matrix.Matrix) (*matrix.Dense, error) {
	if _, err := networkRows(W); err != nil {
		return nil, err
	}
	S, err := matrix.Symmetrize(W)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidNetwork, err)
	}
	n := S.Rows()
	for i := 0; i < n; i++ {
		if err = S.Set(i, i, 0); err != nil {
			return nil, err
		}
	}
	degree, err := matrix.RowSums(S)
	if err != nil {
		return nil, err
	}
	inv := make([]float64, n)
	for i, d := range degree {
		if d > 0 {
			inv[i] = 1 / math.Sqrt(d)
		}
	}
	err = S.Apply(func(i, j int, v float64) float64 { return v * inv[i] * inv[j] })
	if err != nil {
		return nil, err
	}

	return S, nil
}
