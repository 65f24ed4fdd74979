// SPDX-License-Identifier: MIT
// Package matrix: public API facades.
//
// Purpose:
//   - Provide thin, intention-revealing entry points for common tasks.
//   - Each facade delegates to a canonical kernel.

package matrix

// NewZeros returns a new zero-initialized *Dense of size rows×cols.
// Thin alias of NewDense with an intention-revealing name.
func NewZeros(rows, cols int) (*Dense, error) { return NewDense(rows, cols) }

// ZerosLike returns a new zero matrix with the same shape as m.
// Complexity: O(r*c).
func ZerosLike(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, err
	}

	return NewDense(m.Rows(), m.Cols())
}

// IdentityLike returns I with dimension = Rows(m); requires square shape.
func IdentityLike(m Matrix) (*Dense, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf("IdentityLike", err)
	}

	return NewIdentity(m.Rows())
}

// T is an alias for Transpose.
func T(m Matrix) (*Dense, error) { return Transpose(m) }

// Product is an alias for Mul: a × b.
func Product(a, b Matrix) (*Dense, error) { return Mul(a, b) }

// Sandwich returns A · B · Aᵀ, the congruence used by cross-diffusion.
// Complexity: two products, O(n³) for square operands.
func Sandwich(a, b Matrix) (*Dense, error) {
	ab, err := Mul(a, b)
	if err != nil {
		return nil, matrixErrorf("Sandwich", err)
	}
	at, err := Transpose(a)
	if err != nil {
		return nil, matrixErrorf("Sandwich", err)
	}

	return Mul(ab, at)
}

// FrobeniusNorm returns ‖m‖_F = sqrt(Σ m[i,j]²).
// Errors: ErrNilMatrix.
func FrobeniusNorm(m Matrix) (float64, error) {
	d, err := toDense(m)
	if err != nil {
		return 0, matrixErrorf("FrobeniusNorm", err)
	}

	return frobenius(d.data), nil
}

// RelativeChange returns ‖next − prev‖_F / ‖prev‖_F, or the absolute
// Frobenius distance when prev is the zero matrix.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
func RelativeChange(prev, next Matrix) (float64, error) {
	diff, err := Sub(next, prev)
	if err != nil {
		return 0, matrixErrorf("RelativeChange", err)
	}
	base, err := FrobeniusNorm(prev)
	if err != nil {
		return 0, matrixErrorf("RelativeChange", err)
	}
	num := frobenius(diff.data)
	if base == 0 {
		return num, nil
	}

	return num / base, nil
}
