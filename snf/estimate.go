package snf

import (
	"fmt"
	"math"

	"github.com/katalvlaran/simfuse/matrix"
)

// Estimate is the outcome of EstimateClusters.
type Estimate struct {
	// Clusters is the k in [2, maxK] with the largest eigengap.
	Clusters int
	// Gap is λ_k − λ_{k−1} (0-based eigenvalues) for the chosen k.
	Gap float64
	// Eigenvalues of the normalised Laplacian, ascending.
	Eigenvalues []float64
}

// EstimateClusters suggests a number of clusters for a similarity network
// with the eigengap heuristic.
//
// Implementation:
//   - Stage 1: symmetrise W and form the normalised Laplacian
//     L = I − D^{-½}·W·D^{-½}, D the diagonal degree matrix.
//   - Stage 2: eigenvalues of L (ascending) via matrix.EigenSym.
//   - Stage 3: k = argmax_{k∈[2,maxK]} λ_k − λ_{k−1}; ties go to the smaller k.
//
// A graph with c well-separated components has c eigenvalues near 0, so the
// largest gap sits right after them.
//
// Errors: ErrInvalidClusterRange (maxK < 2 or maxK ≥ n), ErrNumericDegeneracy
// (a sample with zero degree), wrapped matrix sentinels.
//
// Complexity: O(sweeps·n³).
func EstimateClusters(W matrix.Matrix, maxK int) (*Estimate, error) {
	if err := matrix.ValidateSquare(W); err != nil {
		return nil, fmt.Errorf("%w: EstimateClusters: %w", ErrConfiguration, err)
	}
	if err := matrix.ValidateFinite(W); err != nil {
		return nil, fmt.Errorf("%w: EstimateClusters: %w", ErrConfiguration, err)
	}
	n := W.Rows()
	if maxK < 2 || maxK >= n {
		return nil, fmt.Errorf("EstimateClusters: maxK=%d n=%d: %w", maxK, n, ErrInvalidClusterRange)
	}

	sym, err := matrix.Symmetrize(W)
	if err != nil {
		return nil, fmt.Errorf("EstimateClusters: %w", err)
	}
	degree, err := matrix.RowSums(sym)
	if err != nil {
		return nil, fmt.Errorf("EstimateClusters: %w", err)
	}
	inv := make([]float64, n)
	for i, d := range degree {
		if !(d > 0) {
			return nil, fmt.Errorf("EstimateClusters: sample %d: %w", i, ErrNumericDegeneracy)
		}
		inv[i] = 1 / math.Sqrt(d)
	}
	err = sym.Apply(func(i, j int, v float64) float64 {
		l := -v * inv[i] * inv[j]
		if i == j {
			l += 1
		}

		return l
	})
	if err != nil {
		return nil, fmt.Errorf("EstimateClusters: %w", err)
	}

	values, _, err := matrix.EigenSym(sym, matrix.DefaultEigenTol, matrix.DefaultEigenSweeps)
	if err != nil {
		return nil, fmt.Errorf("EstimateClusters: %w", err)
	}

	best := &Estimate{Clusters: 2, Gap: values[2] - values[1], Eigenvalues: values}
	var gap float64
	for k := 3; k <= maxK; k++ {
		gap = values[k] - values[k-1]
		if gap > best.Gap {
			best.Clusters, best.Gap = k, gap
		}
	}

	return best, nil
}
