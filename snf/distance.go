package snf

import (
	"fmt"

	"github.com/katalvlaran/simfuse/matrix"
)

// ToDistance converts a fused similarity matrix into a dissimilarity matrix
// suitable for medoid clustering.
//
// The input is symmetrised, its off-diagonal entries are min-max scaled to
// [0,1] and inverted (D = 1 − scaled); the diagonal is set to 0. The result is
// exactly symmetric with a zero diagonal.
//
// When every off-diagonal similarity is equal there is no structure to scale
// and every off-diagonal distance is 1. A 1×1 input yields [[0]].
//
// Complexity: O(n²).
func ToDistance(Pc matrix.Matrix) (*matrix.Dense, error) {
	if err := matrix.ValidateSquare(Pc); err != nil {
		return nil, fmt.Errorf("%w: ToDistance: %w", ErrConfiguration, err)
	}
	if err := matrix.ValidateFinite(Pc); err != nil {
		return nil, fmt.Errorf("%w: ToDistance: %w", ErrConfiguration, err)
	}
	n := Pc.Rows()
	if n == 1 {
		return matrix.NewDense(1, 1)
	}
	sym, err := matrix.Symmetrize(Pc)
	if err != nil {
		return nil, fmt.Errorf("ToDistance: %w", err)
	}
	lo, hi, err := matrix.MinMaxOffDiagonal(sym)
	if err != nil {
		return nil, fmt.Errorf("ToDistance: %w", err)
	}
	span := hi - lo

	err = sym.Apply(func(i, j int, v float64) float64 {
		if i == j {
			return 0
		}
		if span == 0 {
			return 1
		}

		return 1 - (v-lo)/span
	})
	if err != nil {
		return nil, fmt.Errorf("ToDistance: %w", err)
	}

	return sym, nil
}
