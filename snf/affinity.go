package snf

import (
	"fmt"
	"math"
	"slices"

	"github.com/katalvlaran/simfuse/dtw"
	"github.com/katalvlaran/simfuse/matrix"
)

// Neighbors returns, for every sample i, the k samples nearest to i (i itself
// excluded), ordered by ascending distance. Equal distances are ordered by
// the lower sample index, so the result is fully deterministic.
//
// dist must be a square n×n distance matrix with n ≥ k+1.
//
// Complexity: O(n² log n).
func Neighbors(dist matrix.Matrix, k int) ([][]int, error) {
	if k < 1 {
		return nil, ErrInvalidNeighbors
	}
	if err := matrix.ValidateSquare(dist); err != nil {
		return nil, fmt.Errorf("%w: Neighbors: %w", ErrConfiguration, err)
	}
	n := dist.Rows()
	if n < k+1 {
		return nil, fmt.Errorf("Neighbors: n=%d k=%d: %w", n, k, ErrTooFewSamples)
	}
	rows, err := denseRows(dist)
	if err != nil {
		return nil, fmt.Errorf("Neighbors: %w", err)
	}

	out := make([][]int, n)
	order := make([]int, 0, n-1)
	var i, j int
	for i = 0; i < n; i++ {
		order = order[:0]
		for j = 0; j < n; j++ {
			if j != i {
				order = append(order, j)
			}
		}
		row := rows[i]
		slices.SortStableFunc(order, func(a, b int) int {
			switch {
			case row[a] < row[b]:
				return -1
			case row[a] > row[b]:
				return 1
			default:
				return a - b
			}
		})
		out[i] = slices.Clone(order[:k])
	}

	return out, nil
}

// Affinity builds the scaled exponential similarity matrix of a feature
// matrix X (n samples × f features):
//
//	W(i,j) = exp(−d(i,j)² / (μ·ε(i,j)))
//	ε(i,j) = (mean d(i,N_i) + mean d(j,N_j) + d(i,j)) / 3
//
// d is the Euclidean distance and N_i the k nearest neighbours of i. ε is
// floored at DefaultEpsilonFloor, so duplicated samples get W = 1 instead of
// a division by zero. W is symmetric with a unit diagonal.
//
// Errors: ErrInvalidNeighbors, ErrInvalidMu, ErrTooFewSamples and wrapped
// matrix sentinels for nil or non-finite input.
func Affinity(X matrix.Matrix, k int, mu float64) (*matrix.Dense, error) {
	opts := DefaultOptions()
	opts.Neighbors = k
	opts.Mu = mu
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	dist, err := distances(X, opts)
	if err != nil {
		return nil, err
	}
	nbrs, err := Neighbors(dist, k)
	if err != nil {
		return nil, err
	}

	return affinityFromDistances(dist, nbrs, mu, opts.epsilonFloor())
}

// distances validates a feature matrix and returns its pairwise distances
// under opts.Metric.
func distances(X matrix.Matrix, opts Options) (*matrix.Dense, error) {
	if err := matrix.ValidateNotNil(X); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if err := matrix.ValidateFinite(X); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	var (
		dist *matrix.Dense
		err  error
	)
	if opts.Metric == DTW {
		dist, err = dtw.Pairwise(X, dtw.Options{Window: opts.Window})
	} else {
		dist, err = matrix.PairwiseEuclidean(X)
	}
	if err != nil {
		return nil, fmt.Errorf("Affinity: %w", err)
	}

	return dist, nil
}

// affinityFromDistances applies the scaled exponential kernel to a distance
// matrix with precomputed neighbour lists.
func affinityFromDistances(dist *matrix.Dense, nbrs [][]int, mu, floor float64) (*matrix.Dense, error) {
	d := dist.ToRows()
	n := len(d)

	meanNbr := make([]float64, n)
	var (
		i, j int
		s    float64
	)
	for i = 0; i < n; i++ {
		s = 0
		for _, j = range nbrs[i] {
			s += d[i][j]
		}
		meanNbr[i] = s / float64(len(nbrs[i]))
	}

	w := make([][]float64, n)
	for i = range w {
		w[i] = make([]float64, n)
		w[i][i] = 1
	}
	var dij, eps, v float64
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			dij = d[i][j]
			eps = (meanNbr[i] + meanNbr[j] + dij) / 3
			if eps < floor {
				eps = floor
			}
			v = math.Exp(-(dij * dij) / (mu * eps))
			w[i][j] = v
			w[j][i] = v
		}
	}

	W, err := matrix.NewFromRows(w)
	if err != nil {
		return nil, fmt.Errorf("Affinity: %w", err)
	}

	return W, nil
}

// denseRows copies any square Matrix into plain rows for index-heavy loops.
func denseRows(m matrix.Matrix) ([][]float64, error) {
	if d, ok := m.(*matrix.Dense); ok {
		return d.ToRows(), nil
	}
	r, c := m.Rows(), m.Cols()
	out := make([][]float64, r)
	var (
		i, j int
		err  error
	)
	for i = 0; i < r; i++ {
		out[i] = make([]float64, c)
		for j = 0; j < c; j++ {
			if out[i][j], err = m.At(i, j); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}
