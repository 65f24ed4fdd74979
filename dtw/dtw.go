package dtw

import (
	"fmt"
	"math"

	"github.com/katalvlaran/simfuse/matrix"
)

// Distance computes the DTW distance between a and b.
//
// Algorithm:
//  1. D[0][0] = 0, D[i][0] = D[0][j] = +∞.
//  2. For i = 1..n, j = 1..m (and |i−j| ≤ Window when banded):
//     D[i][j] = |a[i−1] − b[j−1]| + min(D[i−1][j]+p, D[i][j−1]+p, D[i−1][j−1]).
//  3. distance = D[n][m].
//
// Only two rows of D are kept. When the band is narrower than |n−m| no
// alignment exists and the distance is +∞.
//
// Complexity: O(n·m) time, O(m) memory.
func Distance(a, b []float64, opts Options) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, ErrEmptySequence
	}
	if err := opts.Validate(); err != nil {
		return 0, err
	}

	return distance(a, b, opts.Window, opts.SlopePenalty), nil
}

func distance(a, b []float64, window int, penalty float64) float64 {
	n, m := len(a), len(b)
	if window == 0 {
		window = max(n, m)
	}
	inf := math.Inf(1)
	prev := make([]float64, m+1)
	curr := make([]float64, m+1)
	for j := 1; j <= m; j++ {
		prev[j] = inf
	}

	var (
		i, j, lo, hi int
		best         float64
	)
	for i = 1; i <= n; i++ {
		for j = range curr {
			curr[j] = inf
		}
		lo, hi = max(1, i-window), min(m, i+window)
		for j = lo; j <= hi; j++ {
			best = min(prev[j]+penalty, curr[j-1]+penalty, prev[j-1])
			curr[j] = math.Abs(a[i-1]-b[j-1]) + best
		}
		prev, curr = curr, prev
	}

	return prev[m]
}

// Pairwise returns the n×n matrix of DTW distances between the rows of X
// (n samples × t time points). The result is symmetric with a zero diagonal.
//
// Errors: ErrBadWindow, ErrBadPenalty and wrapped matrix sentinels for nil or
// non-finite input.
//
// Complexity: O(n²·t²), or O(n²·t·w) with a band of width w.
func Pairwise(X matrix.Matrix, opts Options) (*matrix.Dense, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := matrix.ValidateFinite(X); err != nil {
		return nil, fmt.Errorf("dtw: Pairwise: %w", err)
	}
	n := X.Rows()
	series := make([][]float64, n)
	var err error
	for i := range series {
		if series[i], err = rowOf(X, i); err != nil {
			return nil, fmt.Errorf("dtw: Pairwise: %w", err)
		}
	}

	D, err := matrix.NewDense(n, n)
	if err != nil {
		return nil, fmt.Errorf("dtw: Pairwise: %w", err)
	}
	var d float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d = distance(series[i], series[j], opts.Window, opts.SlopePenalty)
			if err = D.Set(i, j, d); err != nil {
				return nil, fmt.Errorf("dtw: Pairwise: %w", err)
			}
			if err = D.Set(j, i, d); err != nil {
				return nil, fmt.Errorf("dtw: Pairwise: %w", err)
			}
		}
	}

	return D, nil
}

func rowOf(X matrix.Matrix, i int) ([]float64, error) {
	if d, ok := X.(*matrix.Dense); ok {
		return d.Row(i)
	}
	row := make([]float64, X.Cols())
	var err error
	for j := range row {
		if row[j], err = X.At(i, j); err != nil {
			return nil, err
		}
	}

	return row, nil
}
