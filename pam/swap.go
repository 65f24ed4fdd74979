package pam

import (
	"math"

	"github.com/RoaringBitmap/roaring"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/simfuse/matrix"
)

// Sweep evaluates T_ih for every (medoid i, non-medoid h) pair of the given
// medoid set and returns the pair with the smallest T_ih.
//
// T_ih is the exact change of Σ_j D_j when i is replaced by h:
//
//	non-medoid j ≠ h, nearest(j) ≠ i : min(d(j,h) − D_j, 0)
//	non-medoid j ≠ h, nearest(j) = i : min(d(j,h), E_j) − D_j
//	j = h                            : −D_h
//	j = i                            : min(d(i,h), E_i)
//
// Other medoids keep D_j = 0 and contribute nothing. Ties go to the lowest
// (i, h). It returns nil when every object is a medoid.
//
// Errors: ErrInvalidDistance, ErrInvalidMedoids.
//
// Complexity: O(k·(n−k)·n) spread over GOMAXPROCS workers.
func Sweep(D matrix.Matrix, medoids []int) (*Move, error) {
	d, err := distanceRows(D, matrix.DefaultEpsilon)
	if err != nil {
		return nil, err
	}
	med, err := normalizeMedoids(medoids, len(medoids), len(d))
	if err != nil {
		return nil, err
	}
	bm := medoidSet(med)

	return sweep(d, med, bm, assign(d, med, bm), DefaultOptions().workers()), nil
}

// sweep is the unchecked kernel behind Sweep. Each medoid's candidates are
// scored by one goroutine into its own slot; the reduction walks the slots
// in medoid order.
func sweep(d [][]float64, med []int, bm *roaring.Bitmap, a *Assignment, workers int) *Move {
	cand := nonMedoids(bm, len(d))
	if len(cand) == 0 {
		return nil
	}

	slots := make([]Move, len(med))
	var g errgroup.Group
	g.SetLimit(workers)
	for mi := range med {
		mi := mi
		g.Go(func() error {
			slots[mi] = bestForMedoid(d, med[mi], cand, bm, a)
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	best := slots[0]
	for _, mv := range slots[1:] {
		if mv.Delta < best.Delta {
			best = mv
		}
	}

	return &best
}

// bestForMedoid scores every candidate h against medoid i, ascending h.
func bestForMedoid(d [][]float64, i int, cand []int, bm *roaring.Bitmap, a *Assignment) Move {
	best := Move{Medoid: i, Candidate: -1, Delta: math.Inf(1)}
	var t float64
	for _, h := range cand {
		t = swapCost(d, i, h, bm, a)
		if t < best.Delta {
			best.Candidate, best.Delta = h, t
		}
	}

	return best
}

// swapCost returns T_ih for medoid i and non-medoid h.
func swapCost(d [][]float64, i, h int, bm *roaring.Bitmap, a *Assignment) float64 {
	var (
		j int
		t float64
	)
	dh := d[h]
	for j = 0; j < len(d); j++ {
		switch {
		case j == h:
			t -= a.D[h]
		case j == i:
			t += math.Min(dh[i], a.E[i])
		case bm.Contains(uint32(j)):
			// other medoids stay at distance 0
		case a.Nearest[j] == i:
			t += math.Min(dh[j], a.E[j]) - a.D[j]
		default:
			t += math.Min(dh[j]-a.D[j], 0)
		}
	}

	return t
}
