// SPDX-License-Identifier: MIT
// Package matrix - statistics & distance kernels.
//
// Purpose:
//   - Row normalisation for stochastic kernels (NormalizeRowsL1).
//   - Column standardisation of feature matrices (ZScoreColumns).
//   - Pairwise Euclidean distances between rows (PairwiseEuclidean).
//   - Off-diagonal range scan used by similarity→distance conversion.
//
// Determinism:
//   - Fixed i→j passes; sums accumulate in index order.

package matrix

import "math"

// Operation tags for statistics kernels.
const (
	opNormalizeRowsL1   = "NormalizeRowsL1"
	opZScoreColumns     = "ZScoreColumns"
	opPairwiseEuclidean = "PairwiseEuclidean"
	opMinMaxOffDiagonal = "MinMaxOffDiagonal"
	opRowSums           = "RowSums"
)

// NormalizeRowsL1 returns Y where each row i is scaled to L1-norm = 1, and the
// original per-row L1 norms.
// MAIN DESCRIPTION:
//   - Produces row-stochastic matrices from non-negative weights.
//
// Implementation:
//   - Stage 1: compute Σ_j |x_ij| per row.
//   - Stage 2: scale each row by 1/norm; rows with norm==0 are left unchanged.
//
// Errors:
//   - ErrNilMatrix.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
//
// AI-Hints:
//   - Callers that cannot tolerate zero rows must check the returned norms.
func NormalizeRowsL1(X Matrix) (*Dense, []float64, error) {
	d, err := toDense(X)
	if err != nil {
		return nil, nil, matrixErrorf(opNormalizeRowsL1, err)
	}
	r, c := d.r, d.c
	Y := d.clone()
	norms := make([]float64, r)
	var (
		i, j, base int
		s, inv     float64
	)
	for i = 0; i < r; i++ {
		base = i * c
		s = ZeroSum
		for j = 0; j < c; j++ {
			s += math.Abs(d.data[base+j])
		}
		norms[i] = s
		if s == 0 {
			continue // degenerate row stays as-is
		}
		inv = 1.0 / s
		for j = 0; j < c; j++ {
			Y.data[base+j] *= inv
		}
	}

	return Y, norms, nil
}

// ZScoreColumns standardises every column to zero mean and unit sample
// standard deviation (n−1 denominator). Returns Z, the column means and the
// column standard deviations.
// MAIN DESCRIPTION:
//   - The usual preprocessing for expression-like features before building
//     Euclidean affinities.
//
// Behavior highlights:
//   - Columns with std == 0 become all-zero columns (no information) instead
//     of producing NaN.
//   - Requires at least 2 rows; otherwise ErrDimensionMismatch.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func ZScoreColumns(X Matrix) (*Dense, []float64, []float64, error) {
	d, err := toDense(X)
	if err != nil {
		return nil, nil, nil, matrixErrorf(opZScoreColumns, err)
	}
	r, c := d.r, d.c
	if r < 2 {
		return nil, nil, nil, matrixErrorf(opZScoreColumns, ErrDimensionMismatch)
	}
	means := make([]float64, c)
	stds := make([]float64, c)
	var (
		i, j int
		dv   float64
	)
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			means[j] += d.data[i*c+j]
		}
	}
	for j = 0; j < c; j++ {
		means[j] /= float64(r)
	}
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			dv = d.data[i*c+j] - means[j]
			stds[j] += dv * dv
		}
	}
	for j = 0; j < c; j++ {
		stds[j] = math.Sqrt(stds[j] / float64(r-1))
	}

	Z, err := NewDense(r, c)
	if err != nil {
		return nil, nil, nil, matrixErrorf(opZScoreColumns, err)
	}
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			if stds[j] == 0 {
				continue // degenerate column → zeros
			}
			Z.data[i*c+j] = (d.data[i*c+j] - means[j]) / stds[j]
		}
	}

	return Z, means, stds, nil
}

// PairwiseEuclidean returns the n×n matrix of Euclidean distances between the
// rows of X (n samples × f features).
// MAIN DESCRIPTION:
//   - Direct differences (not the Gram-matrix identity) so that identical rows
//     give exactly 0 and the result is exactly symmetric.
//
// Implementation:
//   - Stage 1: for i<j accumulate Σ_f (x_if − x_jf)² in feature order.
//   - Stage 2: write sqrt into both (i,j) and (j,i); diagonal stays 0.
//
// Errors:
//   - ErrNilMatrix.
//
// Complexity:
//   - Time O(n²·f), Space O(n²).
func PairwiseEuclidean(X Matrix) (*Dense, error) {
	d, err := toDense(X)
	if err != nil {
		return nil, matrixErrorf(opPairwiseEuclidean, err)
	}
	n, f := d.r, d.c
	D, err := NewDense(n, n)
	if err != nil {
		return nil, matrixErrorf(opPairwiseEuclidean, err)
	}
	var (
		i, j, k, bi, bj int
		s, diff, dist   float64
	)
	for i = 0; i < n; i++ {
		bi = i * f
		for j = i + 1; j < n; j++ {
			bj = j * f
			s = ZeroSum
			for k = 0; k < f; k++ {
				diff = d.data[bi+k] - d.data[bj+k]
				s += diff * diff
			}
			dist = math.Sqrt(s)
			D.data[i*n+j] = dist
			D.data[j*n+i] = dist
		}
	}

	return D, nil
}

// MinMaxOffDiagonal returns the minimum and maximum over all entries (i,j),
// i≠j, of a square matrix.
// Errors: ErrNilMatrix, ErrNonSquare, ErrInvalidDimensions (n < 2).
// Complexity: O(n²).
func MinMaxOffDiagonal(m Matrix) (lo, hi float64, err error) {
	if err = ValidateSquare(m); err != nil {
		return 0, 0, matrixErrorf(opMinMaxOffDiagonal, err)
	}
	d, err := toDense(m)
	if err != nil {
		return 0, 0, matrixErrorf(opMinMaxOffDiagonal, err)
	}
	n := d.r
	if n < 2 {
		return 0, 0, matrixErrorf(opMinMaxOffDiagonal, ErrInvalidDimensions)
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	var (
		i, j int
		v    float64
	)
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if i == j {
				continue
			}
			v = d.data[i*n+j]
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}

	return lo, hi, nil
}

// RowSums returns r[i] = Σ_j m[i,j].
// Errors: ErrNilMatrix.
// Complexity: O(r*c).
func RowSums(m Matrix) ([]float64, error) {
	d, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf(opRowSums, err)
	}
	out := make([]float64, d.r)
	var (
		i, j, base int
		s          float64
	)
	for i = 0; i < d.r; i++ {
		base = i * d.c
		s = ZeroSum
		for j = 0; j < d.c; j++ {
			s += d.data[base+j]
		}
		out[i] = s
	}

	return out, nil
}
