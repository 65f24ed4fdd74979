package snf

import (
	"fmt"
	"math"

	"github.com/katalvlaran/simfuse/matrix"
)

// LocalKernel derives the sparse k-NN kernel S from an affinity matrix W.
//
// Row i keeps W(i,j) only for j ∈ {i} ∪ N_i and is scaled to sum to 1.
// Neighbour sets are not symmetric, so neither is S.
//
// Errors: wrapped matrix sentinels for a nil or non-square W, ErrConfiguration
// when nbrs does not match W, ErrNumericDegeneracy when a row has no mass.
//
// Complexity: O(n·k) plus O(n²) for allocation.
func LocalKernel(W matrix.Matrix, nbrs [][]int) (*matrix.Dense, error) {
	w, err := squareRows("LocalKernel", W)
	if err != nil {
		return nil, err
	}
	n := len(w)
	if len(nbrs) != n {
		return nil, fmt.Errorf("%w: LocalKernel: %d neighbour lists for %d samples", ErrConfiguration, len(nbrs), n)
	}

	s := make([][]float64, n)
	var (
		i   int
		sum float64
	)
	for i = 0; i < n; i++ {
		s[i] = make([]float64, n)
		sum = w[i][i]
		for _, j := range nbrs[i] {
			if j < 0 || j >= n || j == i {
				return nil, fmt.Errorf("%w: LocalKernel: row %d: invalid neighbour %d", ErrConfiguration, i, j)
			}
			sum += w[i][j]
		}
		if !(sum > 0) || math.IsInf(sum, 0) {
			return nil, fmt.Errorf("LocalKernel: row %d: %w", i, ErrNumericDegeneracy)
		}
		s[i][i] = w[i][i] / sum
		for _, j := range nbrs[i] {
			s[i][j] = w[i][j] / sum
		}
	}

	S, err := matrix.NewFromRows(s)
	if err != nil {
		return nil, fmt.Errorf("LocalKernel: %w", err)
	}

	return S, nil
}

// GlobalKernel derives the dense kernel P from an affinity matrix W:
//
//	P(i,i) = ½
//	P(i,j) = W(i,j) / (2·Σ_{k≠i} W(i,k))
//
// Every row of P sums to 1. The diagonal of W is ignored, so a 1×1 W has
// no off-diagonal mass and is degenerate.
//
// Errors: ErrNumericDegeneracy when a row has zero off-diagonal mass.
//
// Complexity: O(n²).
func GlobalKernel(W matrix.Matrix) (*matrix.Dense, error) {
	w, err := squareRows("GlobalKernel", W)
	if err != nil {
		return nil, err
	}
	if err = toGlobalForm(w); err != nil {
		return nil, fmt.Errorf("GlobalKernel: %w", err)
	}
	P, err := matrix.NewFromRows(w)
	if err != nil {
		return nil, fmt.Errorf("GlobalKernel: %w", err)
	}

	return P, nil
}

// toGlobalForm rewrites rows in place into the ½-diagonal stochastic form.
func toGlobalForm(w [][]float64) error {
	n := len(w)
	var (
		i, j int
		off  float64
		inv  float64
	)
	for i = 0; i < n; i++ {
		off = 0
		for j = 0; j < n; j++ {
			if j != i {
				off += w[i][j]
			}
		}
		if !(off > 0) || math.IsInf(off, 0) {
			return fmt.Errorf("row %d: %w", i, ErrNumericDegeneracy)
		}
		inv = 1 / (2 * off)
		for j = 0; j < n; j++ {
			if j == i {
				w[i][j] = 0.5
				continue
			}
			w[i][j] *= inv
		}
	}

	return nil
}

// BuildKernels runs the whole per-view construction for one feature matrix:
// distances, neighbour lists, W, S and P.
func BuildKernels(X matrix.Matrix, opts Options) (Kernels, error) {
	if err := opts.Validate(); err != nil {
		return Kernels{}, err
	}
	dist, err := distances(X, opts)
	if err != nil {
		return Kernels{}, err
	}
	nbrs, err := Neighbors(dist, opts.Neighbors)
	if err != nil {
		return Kernels{}, err
	}
	W, err := affinityFromDistances(dist, nbrs, opts.Mu, opts.epsilonFloor())
	if err != nil {
		return Kernels{}, err
	}
	S, err := LocalKernel(W, nbrs)
	if err != nil {
		return Kernels{}, err
	}
	P, err := GlobalKernel(W)
	if err != nil {
		return Kernels{}, err
	}

	return Kernels{Distances: dist, Neighbors: nbrs, W: W, S: S, P: P}, nil
}

// squareRows validates a square matrix and copies it into rows.
func squareRows(op string, m matrix.Matrix) ([][]float64, error) {
	if err := matrix.ValidateSquare(m); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfiguration, op, err)
	}
	rows, err := denseRows(m)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rows, nil
}
