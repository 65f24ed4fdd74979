package pam

import (
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring"

	"github.com/katalvlaran/simfuse/matrix"
)

// Build runs the BUILD phase and returns k medoids, ascending.
//
// Implementation:
//   - Stage 1: the first medoid is argmin_i Σ_j d(i,j).
//   - Stage 2: while fewer than k medoids, add the unselected i maximising
//     Σ_j max(D_j − d(i,j), 0) over unselected j (i included, contributing
//     D_i), where D_j is the distance to the closest selected medoid.
//
// Ties go to the lowest object index.
//
// Errors: ErrInvalidK, ErrInvalidDistance.
//
// Complexity: O(k·n²).
func Build(D matrix.Matrix, k int) ([]int, error) {
	d, err := distanceRows(D, matrix.DefaultEpsilon)
	if err != nil {
		return nil, err
	}
	if k <= 0 || k > len(d) {
		return nil, fmt.Errorf("k=%d n=%d: %w", k, len(d), ErrInvalidK)
	}

	return medoidList(build(d, k)), nil
}

// build is the unchecked BUILD kernel; 1 ≤ k ≤ n.
func build(d [][]float64, k int) *roaring.Bitmap {
	n := len(d)
	selected := roaring.New()

	var (
		i, j, first int
		total, best float64
	)
	best = math.Inf(1)
	for i = 0; i < n; i++ {
		total = 0
		for j = 0; j < n; j++ {
			total += d[i][j]
		}
		if total < best {
			best, first = total, i
		}
	}
	selected.Add(uint32(first))

	nearest := make([]float64, n)
	copy(nearest, d[first])

	var (
		pick       int
		gain, diff float64
	)
	for int(selected.GetCardinality()) < k {
		pick, best = -1, math.Inf(-1)
		for i = 0; i < n; i++ {
			if selected.Contains(uint32(i)) {
				continue
			}
			gain = 0
			for j = 0; j < n; j++ {
				if selected.Contains(uint32(j)) {
					continue
				}
				if diff = nearest[j] - d[i][j]; diff > 0 {
					gain += diff
				}
			}
			if gain > best {
				best, pick = gain, i
			}
		}
		selected.Add(uint32(pick))
		for j = 0; j < n; j++ {
			if d[pick][j] < nearest[j] {
				nearest[j] = d[pick][j]
			}
		}
	}

	return selected
}
