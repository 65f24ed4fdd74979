package pam

import (
	"math"

	"github.com/RoaringBitmap/roaring"

	"github.com/katalvlaran/simfuse/matrix"
)

// Assignment records, for every object j, its closest and second-closest
// medoid together with the distances D_j and E_j.
//
// A medoid is always its own closest medoid (D_j = 0). With a single medoid
// there is no second one: Second[j] = −1 and E_j = +Inf.
type Assignment struct {
	Nearest []int
	Second  []int
	D       []float64
	E       []float64
}

// Cost returns the objective Σ_j D_j.
func (a *Assignment) Cost() float64 {
	var s float64
	for _, v := range a.D {
		s += v
	}

	return s
}

// Assign computes the nearest and second-nearest medoid of every object.
// Ties go to the lower medoid index.
//
// Errors: ErrInvalidDistance, ErrInvalidMedoids.
//
// Complexity: O(n·k).
func Assign(D matrix.Matrix, medoids []int) (*Assignment, error) {
	d, err := distanceRows(D, matrix.DefaultEpsilon)
	if err != nil {
		return nil, err
	}
	med, err := normalizeMedoids(medoids, len(medoids), len(d))
	if err != nil {
		return nil, err
	}

	return assign(d, med, medoidSet(med)), nil
}

// medoidSet returns the membership bitmap of an ascending medoid list.
func medoidSet(med []int) *roaring.Bitmap {
	bm := roaring.New()
	for _, m := range med {
		bm.Add(uint32(m))
	}

	return bm
}

// medoidList returns the members of bm, ascending.
func medoidList(bm *roaring.Bitmap) []int {
	raw := bm.ToArray()
	out := make([]int, len(raw))
	for i, v := range raw {
		out[i] = int(v)
	}

	return out
}

// nonMedoids returns every object of [0,n) not in bm, ascending.
func nonMedoids(bm *roaring.Bitmap, n int) []int {
	return medoidList(roaring.Flip(bm, 0, uint64(n)))
}

// assign is the unchecked kernel behind Assign; med must be ascending.
func assign(d [][]float64, med []int, bm *roaring.Bitmap) *Assignment {
	n := len(d)
	a := &Assignment{
		Nearest: make([]int, n),
		Second:  make([]int, n),
		D:       make([]float64, n),
		E:       make([]float64, n),
	}
	var (
		j, best, second int
		bd, sd, v       float64
	)
	for j = 0; j < n; j++ {
		best, second = -1, -1
		bd, sd = math.Inf(1), math.Inf(1)
		if bm.Contains(uint32(j)) {
			best, bd = j, 0
		}
		for _, m := range med {
			if m == best {
				continue
			}
			v = d[j][m]
			switch {
			case best == -1 || v < bd:
				second, sd = best, bd
				best, bd = m, v
			case second == -1 || v < sd:
				second, sd = m, v
			}
		}
		a.Nearest[j], a.Second[j] = best, second
		a.D[j], a.E[j] = bd, sd
	}

	return a
}
