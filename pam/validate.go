package pam

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/simfuse/matrix"
)

// distanceRows validates a dissimilarity matrix and returns it as rows.
//
// Checks run in the order: shape → finite → non-negative → zero diagonal →
// symmetry, so the reported violation is the most basic one.
func distanceRows(D matrix.Matrix, eps float64) ([][]float64, error) {
	checks := []func() error{
		func() error { return matrix.ValidateSquare(D) },
		func() error { return matrix.ValidateFinite(D) },
		func() error { return matrix.ValidateNonNegative(D) },
		func() error { return matrix.ValidateZeroDiagonal(D, eps) },
		func() error { return matrix.ValidateSymmetric(D, eps) },
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDistance, err)
		}
	}
	if d, ok := D.(*matrix.Dense); ok {
		return d.ToRows(), nil
	}
	n := D.Rows()
	rows := make([][]float64, n)
	var (
		i, j int
		err  error
	)
	for i = 0; i < n; i++ {
		rows[i] = make([]float64, n)
		for j = 0; j < n; j++ {
			if rows[i][j], err = D.At(i, j); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidDistance, err)
			}
		}
	}

	return rows, nil
}

// normalizeMedoids checks that medoids are k distinct indices in [0,n) and
// returns them sorted ascending.
func normalizeMedoids(medoids []int, k, n int) ([]int, error) {
	if len(medoids) != k || k == 0 {
		return nil, fmt.Errorf("got %d medoids, want %d: %w", len(medoids), k, ErrInvalidMedoids)
	}
	out := slices.Clone(medoids)
	slices.Sort(out)
	for i, m := range out {
		if m < 0 || m >= n {
			return nil, fmt.Errorf("medoid %d outside [0,%d): %w", m, n, ErrInvalidMedoids)
		}
		if i > 0 && out[i-1] == m {
			return nil, fmt.Errorf("duplicate medoid %d: %w", m, ErrInvalidMedoids)
		}
	}

	return out, nil
}
