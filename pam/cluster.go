package pam

import (
	"fmt"

	"github.com/katalvlaran/simfuse/matrix"
)

// Cluster partitions n objects into opts.K clusters around medoids.
//
// Implementation:
//   - Stage 1: validate options and the distance matrix (square, finite,
//     non-negative, zero diagonal, symmetric within opts.Epsilon) and K ≤ n.
//   - Stage 2 (Building): Build, or opts.InitialMedoids when provided.
//   - Stage 3 (Swapping): Sweep; apply the best pair while T_ih < −Tolerance,
//     then recompute D_j/E_j and sweep again. At most MaxSwaps swaps.
//   - Stage 4 (Converged): final assignment, labels, cost and silhouette.
//
// When MaxSwaps stops the search while an improving swap remains, the result
// is still returned with Converged = false and Warning = ErrNonConvergence.
//
// Errors: ErrConfiguration family only.
func Cluster(D matrix.Matrix, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	d, err := distanceRows(D, opts.Epsilon)
	if err != nil {
		return nil, err
	}
	n := len(d)
	if opts.K > n {
		return nil, fmt.Errorf("k=%d n=%d: %w", opts.K, n, ErrInvalidK)
	}

	var med []int
	if opts.InitialMedoids != nil {
		if med, err = normalizeMedoids(opts.InitialMedoids, opts.K, n); err != nil {
			return nil, err
		}
	} else {
		opts.notify(Building)
		med = medoidList(build(d, opts.K))
	}
	bm := medoidSet(med)

	opts.notify(Swapping)
	var (
		a         *Assignment
		mv        *Move
		swaps     int
		converged bool
		limit     = opts.maxSwaps()
		workers   = opts.workers()
	)
	for {
		a = assign(d, med, bm)
		mv = sweep(d, med, bm, a, workers)
		if mv == nil || !(mv.Delta < -opts.Tolerance) {
			converged = true
			break
		}
		if swaps == limit {
			break
		}
		bm.Remove(uint32(mv.Medoid))
		bm.Add(uint32(mv.Candidate))
		med = medoidList(bm)
		swaps++
	}
	opts.notify(Converged)

	res := &Result{
		Medoids:    med,
		Assignment: a.Nearest,
		Labels:     labelsOf(a.Nearest, med),
		Cost:       a.Cost(),
		Swaps:      swaps,
		State:      Converged,
		Converged:  converged,
	}
	if !converged {
		res.Warning = ErrNonConvergence
	}
	res.Silhouette = silhouette(d, res.Labels)

	return res, nil
}

// labelsOf maps each object's medoid to its position in the ascending
// medoid list.
func labelsOf(nearest, med []int) []int {
	pos := make(map[int]int, len(med))
	for i, m := range med {
		pos[m] = i
	}
	labels := make([]int, len(nearest))
	for j, m := range nearest {
		labels[j] = pos[m]
	}

	return labels
}
