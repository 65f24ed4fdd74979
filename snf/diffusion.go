package snf

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/simfuse/matrix"
)

// Step performs one cross-diffusion update over all views:
//
//	P_v ← norm( sym( S_v · mean_{w≠v} P_w · S_vᵀ ) )
//
// sym is (M+Mᵀ)/2 and norm rewrites the result into global-kernel form
// (diagonal ½, rows summing to 1). The inputs are read only; the returned
// slice holds the new P for every view in input order. With a single view
// there is nothing to diffuse and a copy of its P is returned.
//
// Complexity: O(s·n³).
func Step(views []Kernels) ([]*matrix.Dense, error) {
	if len(views) == 0 {
		return nil, ErrNoViews
	}
	S := make([]*matrix.Dense, len(views))
	P := make([]*matrix.Dense, len(views))
	for v := range views {
		if views[v].S == nil || views[v].P == nil {
			return nil, fmt.Errorf("%w: Step: view %d has no kernels", ErrConfiguration, v)
		}
		S[v], P[v] = views[v].S, views[v].P
	}

	return step(context.Background(), S, P, 1)
}

// step computes the next P for every view concurrently. Each goroutine writes
// only its own slot of next and reads the immutable previous P set.
func step(ctx context.Context, S, P []*matrix.Dense, workers int) ([]*matrix.Dense, error) {
	s := len(P)
	next := make([]*matrix.Dense, s)
	if s == 1 {
		next[0] = P[0].Clone().(*matrix.Dense)
		return next, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for v := 0; v < s; v++ {
		v := v
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			updated, err := diffuseView(S[v], othersOf(P, v))
			if err != nil {
				return fmt.Errorf("view %d: %w", v, err)
			}
			next[v] = updated

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return next, nil
}

// othersOf returns every P except P[v], in index order.
func othersOf(P []*matrix.Dense, v int) []matrix.Matrix {
	out := make([]matrix.Matrix, 0, len(P)-1)
	for w := range P {
		if w != v {
			out = append(out, P[w])
		}
	}

	return out
}

// diffuseView applies the update for one view given the other views' P.
func diffuseView(S *matrix.Dense, others []matrix.Matrix) (*matrix.Dense, error) {
	avg, err := matrix.Mean(others...)
	if err != nil {
		return nil, err
	}
	M, err := matrix.Sandwich(S, avg)
	if err != nil {
		return nil, err
	}
	M, err = matrix.Symmetrize(M)
	if err != nil {
		return nil, err
	}
	rows := M.ToRows()
	if err = toGlobalForm(rows); err != nil {
		return nil, err
	}

	return matrix.NewFromRows(rows)
}

// Fuse builds the kernels of every view and cross-diffuses them into a
// consensus similarity matrix.
//
// Stages:
//  1. Validate options and views (count, nil, equal sample counts, n ≥ K+1).
//  2. Build W, S and P for every view concurrently; Wait is the barrier.
//  3. Run opts.Iterations diffusion steps. With opts.Tolerance > 0 the loop
//     stops early once every view moved less than Tolerance (relative
//     Frobenius change) in one step.
//  4. Consensus = element-wise mean of the diffused P matrices.
//
// A single view skips stage 3 and its P is the consensus.
//
// ctx is checked between stages and between iterations; cancellation returns
// ctx.Err().
//
// Errors: ErrConfiguration family (ErrNoViews, ErrViewMismatch,
// ErrTooFewSamples, ...), ErrNumericDegeneracy.
func Fuse(ctx context.Context, views []matrix.Matrix, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := checkViews(views, opts.Neighbors); err != nil {
		return nil, err
	}

	kernels := make([]Kernels, len(views))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for v := range views {
		v := v
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			k, err := BuildKernels(views[v], opts)
			if err != nil {
				return fmt.Errorf("view %d: %w", v, err)
			}
			kernels[v] = k

			return nil
		})
	}
	err := g.Wait()
	if err != nil {
		return nil, err
	}

	S := make([]*matrix.Dense, len(kernels))
	P := make([]*matrix.Dense, len(kernels))
	for v := range kernels {
		S[v], P[v] = kernels[v].S, kernels[v].P
	}

	res := &Result{Views: kernels}
	if len(views) > 1 {
		var next []*matrix.Dense
		for t := 0; t < opts.Iterations; t++ {
			if err = ctx.Err(); err != nil {
				return nil, err
			}
			if next, err = step(ctx, S, P, opts.workers()); err != nil {
				return nil, err
			}
			if res.LastDelta, err = maxRelativeChange(P, next); err != nil {
				return nil, err
			}
			P = next
			res.Iterations++
			if opts.Tolerance > 0 && res.LastDelta < opts.Tolerance {
				break
			}
		}
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	consensus := make([]matrix.Matrix, len(P))
	for v := range P {
		consensus[v] = P[v]
	}
	if res.Consensus, err = matrix.Mean(consensus...); err != nil {
		return nil, fmt.Errorf("Fuse: %w", err)
	}
	res.Diffused = P

	return res, nil
}

// checkViews validates the view set: count, nil entries, equal sample
// counts and n ≥ k+1.
func checkViews(views []matrix.Matrix, k int) error {
	if len(views) == 0 {
		return ErrNoViews
	}
	for v, X := range views {
		if err := matrix.ValidateNotNil(X); err != nil {
			return fmt.Errorf("%w: view %d: %w", ErrConfiguration, v, err)
		}
	}
	n := views[0].Rows()
	for v := 1; v < len(views); v++ {
		if views[v].Rows() != n {
			return fmt.Errorf("view %d has %d samples, view 0 has %d: %w", v, views[v].Rows(), n, ErrViewMismatch)
		}
	}
	if n < k+1 {
		return fmt.Errorf("n=%d k=%d: %w", n, k, ErrTooFewSamples)
	}

	return nil
}

// maxRelativeChange returns the largest per-view relative Frobenius change.
func maxRelativeChange(prev, next []*matrix.Dense) (float64, error) {
	var worst float64
	for v := range prev {
		d, err := matrix.RelativeChange(prev[v], next[v])
		if err != nil {
			return 0, err
		}
		if d > worst {
			worst = d
		}
	}

	return worst, nil
}
