// SPDX-License-Identifier: MIT
// Package matrix provides universal operations on any Matrix implementation:
// element-wise addition/subtraction, scaling, matrix multiplication,
// transpose, matrix-vector product and a symmetric eigen-solver.
// All functions perform strict fail-fast validation and return wrapped
// sentinels on dimension mismatches.
//
// Purpose:
//   - Canonical kernels used by the SNF diffusion loop (Mul, Transpose, Add, Scale).
//   - Operation tags shared by error wrapping.
//
// Notes:
//   - Every kernel reads through toDense: *Dense operands are used as-is
//     (read-only), other implementations are materialised once via At.
//     Inner loops then run over flat slices with fixed orders.

package matrix

import (
	"fmt"
	"math"
	"sort"
)

// ZeroSum is the initial accumulator value for sums and dot products.
const ZeroSum = 0.0

// Operation name constants for unified error wrapping.
const (
	opAdd        = "Add"
	opSub        = "Sub"
	opMul        = "Mul"
	opTranspose  = "Transpose"
	opScale      = "Scale"
	opMatVec     = "MatVec"
	opEigenSym   = "EigenSym"
	opSymmetrize = "Symmetrize"
	opMean       = "Mean"
)

// matrixErrorf wraps err with an operation tag, preserving it via %w.
// Use only when err != nil.
// Complexity: O(1).
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// toDense returns m itself when it is a *Dense, otherwise a materialised copy.
// Callers must treat the result as read-only.
// Complexity: O(1) for *Dense, O(r*c) otherwise.
func toDense(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, err
	}
	if d, ok := m.(*Dense); ok {
		return d, nil
	}
	r, c := m.Rows(), m.Cols()
	out, err := NewDense(r, c)
	if err != nil {
		return nil, err
	}
	var (
		i, j int
		v    float64
	)
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, err
			}
			out.data[i*c+j] = v
		}
	}

	return out, nil
}

// addSub computes out = a + sign*b for sign ∈ {+1, −1}.
// Implementation:
//   - Stage 1: ValidateSameShape(a, b); allocate result.
//   - Stage 2: single flat loop 0..r*c−1.
//
// Complexity: Time O(r*c), Space O(r*c).
func addSub(a, b Matrix, sign float64, opTag string) (*Dense, error) {
	if err := ValidateSameShape(a, b); err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	da, err := toDense(a)
	if err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	db, err := toDense(b)
	if err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	res, err := NewDense(da.r, da.c)
	if err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	for i := range res.data {
		res.data[i] = da.data[i] + sign*db.data[i]
	}

	return res, nil
}

// Add returns a + b (element-wise). Inputs are not mutated.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(r*c).
func Add(a, b Matrix) (*Dense, error) { return addSub(a, b, +1, opAdd) }

// Sub returns a − b (element-wise). Inputs are not mutated.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(r*c).
func Sub(a, b Matrix) (*Dense, error) { return addSub(a, b, -1, opSub) }

// Scale returns alpha * m.
// Errors: ErrNilMatrix.
// Complexity: O(r*c).
func Scale(m Matrix, alpha float64) (*Dense, error) {
	d, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	res, err := NewDense(d.r, d.c)
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	for i, v := range d.data {
		res.data[i] = alpha * v
	}

	return res, nil
}

// Mul returns the matrix product a × b.
// MAIN DESCRIPTION:
//   - Classic triple loop in i→k→j order over flat buffers (row-friendly).
//
// Implementation:
//   - Stage 1: ValidateMulCompatible(a, b).
//   - Stage 2: for each (i,k) skip zero A[i,k]; accumulate A[i,k]*B[k,*] into R[i,*].
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Determinism:
//   - Fixed i→k→j order; identical inputs give bit-identical products.
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c). Skipping zero A[i,k] makes sparse local
//     kernels (k-NN rows) cheap.
//
// AI-Hints:
//   - Put the sparse operand on the left to benefit from the zero skip.
func Mul(a, b Matrix) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	da, err := toDense(a)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	db, err := toDense(b)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	aRows, aCols, bCols := da.r, da.c, db.c
	res, err := NewDense(aRows, bCols)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	var (
		i, j, k                            int
		av                                 float64
		rowOffsetA, rowOffsetB, rowOffsetR int
	)
	for i = 0; i < aRows; i++ {
		rowOffsetA = i * aCols
		rowOffsetR = i * bCols
		for k = 0; k < aCols; k++ {
			av = da.data[rowOffsetA+k]
			if av == 0 {
				continue // skip zero for performance
			}
			rowOffsetB = k * bCols
			for j = 0; j < bCols; j++ {
				res.data[rowOffsetR+j] += av * db.data[rowOffsetB+j]
			}
		}
	}

	return res, nil
}

// Transpose returns mᵀ as a new matrix.
// Errors: ErrNilMatrix.
// Complexity: O(r*c).
func Transpose(m Matrix) (*Dense, error) {
	d, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	rows, cols := d.r, d.c
	res, err := NewDense(cols, rows)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	var i, j, baseSrc int
	for i = 0; i < rows; i++ {
		baseSrc = i * cols
		for j = 0; j < cols; j++ {
			res.data[j*rows+i] = d.data[baseSrc+j]
		}
	}

	return res, nil
}

// MatVec returns y = m·x.
// Errors: ErrNilMatrix, ErrDimensionMismatch (len(x) != Cols).
// Complexity: O(r*c).
func MatVec(m Matrix, x []float64) ([]float64, error) {
	d, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err = ValidateVecLen(x, d.c); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	y := make([]float64, d.r)
	var (
		i, j, base int
		s          float64
	)
	for i = 0; i < d.r; i++ {
		base = i * d.c
		s = ZeroSum
		for j = 0; j < d.c; j++ {
			s += d.data[base+j] * x[j]
		}
		y[i] = s
	}

	return y, nil
}

// Symmetrize returns (m + mᵀ)/2.
// MAIN DESCRIPTION:
//   - Repairs floating-point asymmetry drift after products like S·P·Sᵀ.
//
// Implementation:
//   - Stage 1: ValidateSquare.
//   - Stage 2: one pass over the upper triangle writing both mirrors.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare.
//
// Complexity:
//   - Time O(n²), Space O(n²).
func Symmetrize(m Matrix) (*Dense, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf(opSymmetrize, err)
	}
	d, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf(opSymmetrize, err)
	}
	n := d.r
	res, err := NewDense(n, n)
	if err != nil {
		return nil, matrixErrorf(opSymmetrize, err)
	}
	var (
		i, j int
		avg  float64
	)
	for i = 0; i < n; i++ {
		res.data[i*n+i] = d.data[i*n+i]
		for j = i + 1; j < n; j++ {
			avg = 0.5 * (d.data[i*n+j] + d.data[j*n+i])
			res.data[i*n+j] = avg
			res.data[j*n+i] = avg
		}
	}

	return res, nil
}

// Mean returns the element-wise arithmetic mean of one or more equally shaped
// matrices. Summation runs in argument order, then divides once.
// Errors: ErrNilMatrix (no operands or a nil operand), ErrDimensionMismatch.
// Complexity: O(len(ms)*r*c).
func Mean(ms ...Matrix) (*Dense, error) {
	if len(ms) == 0 {
		return nil, matrixErrorf(opMean, ErrNilMatrix)
	}
	first, err := toDense(ms[0])
	if err != nil {
		return nil, matrixErrorf(opMean, err)
	}
	acc := first.clone()
	var d *Dense
	for _, m := range ms[1:] {
		if err = ValidateSameShape(acc, m); err != nil {
			return nil, matrixErrorf(opMean, err)
		}
		if d, err = toDense(m); err != nil {
			return nil, matrixErrorf(opMean, err)
		}
		for i, v := range d.data {
			acc.data[i] += v
		}
	}
	inv := 1.0 / float64(len(ms))
	for i := range acc.data {
		acc.data[i] *= inv
	}

	return acc, nil
}

// EigenSym computes eigenvalues (ascending) and eigenvectors of a symmetric
// matrix with cyclic Jacobi sweeps.
// MAIN DESCRIPTION:
//   - Each sweep rotates every (p,q), p<q, in fixed row-major order; stops when
//     the off-diagonal Frobenius norm drops below tol.
//
// Implementation:
//   - Stage 1: ValidateSymmetric(m, DefaultEpsilon); copy into A; Q = I.
//   - Stage 2: up to maxSweeps sweeps; skip rotations with |A[p,q]| ≤ tiny.
//   - Stage 3: sort eigenpairs by ascending eigenvalue (stable, ties by index).
//
// Returns:
//   - []float64: eigenvalues ascending.
//   - *Dense: Q whose column k is the eigenvector of values[k].
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrAsymmetry, ErrEigenFailed.
//
// Determinism:
//   - Fixed sweep order, no pivot search; identical inputs → identical output.
//
// Complexity:
//   - Time O(sweeps · n³), Space O(n²).
//
// AI-Hints:
//   - Good defaults: tol=DefaultEigenTol, maxSweeps=DefaultEigenSweeps.
//   - Symmetrize first if the input comes from noisy products.
func EigenSym(m Matrix, tol float64, maxSweeps int) ([]float64, *Dense, error) {
	if err := ValidateSymmetric(m, DefaultEpsilon); err != nil {
		return nil, nil, matrixErrorf(opEigenSym, err)
	}
	src, err := toDense(m)
	if err != nil {
		return nil, nil, matrixErrorf(opEigenSym, err)
	}
	if maxSweeps <= 0 {
		maxSweeps = DefaultEigenSweeps
	}
	if tol <= 0 {
		tol = DefaultEigenTol
	}
	n := src.r
	A := src.clone()
	Q, err := NewIdentity(n)
	if err != nil {
		return nil, nil, matrixErrorf(opEigenSym, err)
	}
	a, q := A.data, Q.data

	var (
		sweep, p, r, i         int
		app, aqq, apq          float64
		theta, t, c, s         float64
		aip, aiq, qip, qiq     float64
		converged              bool
		scale                  = frobenius(a)
		tiny                   = tol * 1e-3
	)
	if scale == 0 {
		scale = 1
	}
	for sweep = 0; sweep < maxSweeps; sweep++ {
		if offDiagonalNorm(a, n) <= tol*scale {
			converged = true
			break
		}
		for p = 0; p < n-1; p++ {
			for r = p + 1; r < n; r++ {
				apq = a[p*n+r]
				if math.Abs(apq) <= tiny*scale {
					continue
				}
				app = a[p*n+p]
				aqq = a[r*n+r]
				theta = (aqq - app) / (2 * apq)
				t = math.Copysign(1.0/(math.Abs(theta)+math.Hypot(theta, 1)), theta)
				c = 1.0 / math.Sqrt(t*t+1)
				s = t * c

				for i = 0; i < n; i++ {
					if i == p || i == r {
						continue
					}
					aip = a[i*n+p]
					aiq = a[i*n+r]
					a[i*n+p] = c*aip - s*aiq
					a[p*n+i] = a[i*n+p]
					a[i*n+r] = s*aip + c*aiq
					a[r*n+i] = a[i*n+r]
				}
				a[p*n+p] = app - t*apq
				a[r*n+r] = aqq + t*apq
				a[p*n+r], a[r*n+p] = 0, 0

				for i = 0; i < n; i++ {
					qip = q[i*n+p]
					qiq = q[i*n+r]
					q[i*n+p] = c*qip - s*qiq
					q[i*n+r] = s*qip + c*qiq
				}
			}
		}
	}
	if !converged && offDiagonalNorm(a, n) > tol*scale {
		return nil, nil, matrixErrorf(opEigenSym, ErrEigenFailed)
	}

	// Sort eigenpairs ascending; stable on index for equal values.
	order := make([]int, n)
	for i = 0; i < n; i++ {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool { return a[order[x]*n+order[x]] < a[order[y]*n+order[y]] })

	values := make([]float64, n)
	vectors, err := NewDense(n, n)
	if err != nil {
		return nil, nil, matrixErrorf(opEigenSym, err)
	}
	var col, row int
	for col = 0; col < n; col++ {
		values[col] = a[order[col]*n+order[col]]
		for row = 0; row < n; row++ {
			vectors.data[row*n+col] = q[row*n+order[col]]
		}
	}

	return values, vectors, nil
}

// frobenius returns sqrt(Σ v²) over a flat buffer.
func frobenius(data []float64) float64 {
	s := ZeroSum
	for _, v := range data {
		s += v * v
	}

	return math.Sqrt(s)
}

// offDiagonalNorm returns sqrt(Σ_{i≠j} a[i,j]²) for an n×n flat buffer.
func offDiagonalNorm(a []float64, n int) float64 {
	s := ZeroSum
	var i, j int
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if i != j {
				s += a[i*n+j] * a[i*n+j]
			}
		}
	}

	return math.Sqrt(s)
}
