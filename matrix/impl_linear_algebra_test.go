package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/simfuse/matrix"
)

// TestAddSubScale checks the element-wise kernels on both paths.
func TestAddSubScale(t *testing.T) {
	a := mustRows(t, [][]float64{{1, 2}, {3, 4}})
	b := mustRows(t, [][]float64{{0.5, -1}, {2, 0}})

	sum, err := matrix.Add(a, hide{b})
	require.NoError(t, err)
	require.Equal(t, [][]float64{{1.5, 1}, {5, 4}}, sum.ToRows())

	diff, err := matrix.Sub(hide{a}, b)
	require.NoError(t, err)
	require.Equal(t, [][]float64{{0.5, 3}, {1, 4}}, diff.ToRows())

	sc, err := matrix.Scale(a, -2)
	require.NoError(t, err)
	require.Equal(t, [][]float64{{-2, -4}, {-6, -8}}, sc.ToRows())

	_, err = matrix.Add(a, mustDense(t, 2, 3))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.Sub(nil, a)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

// TestMulKnownProduct checks a hand-computed product and the shape contract.
func TestMulKnownProduct(t *testing.T) {
	a := mustRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	b := mustRows(t, [][]float64{{7, 8}, {9, 10}, {11, 12}})

	p, err := matrix.Mul(a, b)
	require.NoError(t, err)
	require.Equal(t, [][]float64{{58, 64}, {139, 154}}, p.ToRows())

	alias, err := matrix.Product(hide{a}, hide{b})
	require.NoError(t, err)
	require.Equal(t, p.ToRows(), alias.ToRows())

	_, err = matrix.Mul(a, a)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

// TestMulFastPathMatchesFallback compares *Dense and wrapped operands bitwise.
func TestMulFastPathMatchesFallback(t *testing.T) {
	a, b := mustDense(t, 7, 5), mustDense(t, 5, 6)
	fillRand(t, a, 1)
	fillRand(t, b, 2)

	fast, err := matrix.Mul(a, b)
	require.NoError(t, err)
	slow, err := matrix.Mul(hide{a}, hide{b})
	require.NoError(t, err)
	require.Equal(t, fast.ToRows(), slow.ToRows())
}

func TestTransposeAndMatVec(t *testing.T) {
	a := mustRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})

	at, err := matrix.T(a)
	require.NoError(t, err)
	require.Equal(t, [][]float64{{1, 4}, {2, 5}, {3, 6}}, at.ToRows())

	y, err := matrix.MatVec(a, []float64{1, 0, -1})
	require.NoError(t, err)
	require.Equal(t, []float64{-2, -2}, y)

	_, err = matrix.MatVec(a, []float64{1, 2})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.MatVec(a, nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

// TestSymmetrize averages mirrored entries and keeps the diagonal.
func TestSymmetrize(t *testing.T) {
	m := mustRows(t, [][]float64{{1, 2}, {4, 3}})
	s, err := matrix.Symmetrize(hide{m})
	require.NoError(t, err)
	require.Equal(t, [][]float64{{1, 3}, {3, 3}}, s.ToRows())
	require.NoError(t, matrix.ValidateSymmetric(s, 0))

	_, err = matrix.Symmetrize(mustDense(t, 2, 3))
	require.ErrorIs(t, err, matrix.ErrNonSquare)
}

func TestMean(t *testing.T) {
	a := mustRows(t, [][]float64{{1, 2}, {3, 4}})
	b := mustRows(t, [][]float64{{3, 2}, {1, 0}})

	m, err := matrix.Mean(a, hide{b})
	require.NoError(t, err)
	require.Equal(t, [][]float64{{2, 2}, {2, 2}}, m.ToRows())

	one, err := matrix.Mean(a)
	require.NoError(t, err)
	require.Equal(t, a.ToRows(), one.ToRows())
	require.NoError(t, a.Set(0, 0, 9))
	v, _ := one.At(0, 0)
	require.Equal(t, 1.0, v, "Mean must not alias its operand")

	_, err = matrix.Mean()
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
	_, err = matrix.Mean(a, mustDense(t, 3, 3))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

// TestSandwich checks A·B·Aᵀ against two explicit products.
func TestSandwich(t *testing.T) {
	a := mustRows(t, [][]float64{{0.5, 0.5, 0}, {0, 0.5, 0.5}, {0.5, 0, 0.5}})
	b := mustRows(t, [][]float64{{1, 2, 0}, {2, 1, 3}, {0, 3, 1}})

	got, err := matrix.Sandwich(a, b)
	require.NoError(t, err)

	ab, err := matrix.Mul(a, b)
	require.NoError(t, err)
	at, err := matrix.Transpose(a)
	require.NoError(t, err)
	want, err := matrix.Mul(ab, at)
	require.NoError(t, err)
	require.Equal(t, want.ToRows(), got.ToRows())
	require.NoError(t, matrix.ValidateSymmetric(got, 1e-12), "congruence keeps symmetry")
}

// TestEigenSymDiagonalisesKnownMatrix checks A·v = λ·v and ascending order.
func TestEigenSymDiagonalisesKnownMatrix(t *testing.T) {
	A := mustRows(t, [][]float64{
		{2, -1, 0},
		{-1, 2, -1},
		{0, -1, 2},
	})
	values, vectors, err := matrix.EigenSym(A, matrix.DefaultEigenTol, matrix.DefaultEigenSweeps)
	require.NoError(t, err)

	want := []float64{2 - math.Sqrt2, 2, 2 + math.Sqrt2}
	for k := range want {
		require.InDelta(t, want[k], values[k], 1e-10)

		v := make([]float64, 3)
		for i := range v {
			v[i], _ = vectors.At(i, k)
		}
		Av, err := matrix.MatVec(A, v)
		require.NoError(t, err)
		for i := range v {
			require.InDelta(t, values[k]*v[i], Av[i], 1e-10)
		}
	}
}

// TestEigenSymOrthonormal checks QᵀQ = I on a random symmetric matrix.
func TestEigenSymOrthonormal(t *testing.T) {
	R := mustDense(t, 6, 6)
	fillRand(t, R, 7)
	S, err := matrix.Symmetrize(R)
	require.NoError(t, err)

	_, Q, err := matrix.EigenSym(S, 0, 0) // defaults
	require.NoError(t, err)
	Qt, err := matrix.Transpose(Q)
	require.NoError(t, err)
	QtQ, err := matrix.Mul(Qt, Q)
	require.NoError(t, err)
	I, err := matrix.IdentityLike(S)
	require.NoError(t, err)
	requireClose(t, I, QtQ, 1e-9)
}

func TestEigenSymErrors(t *testing.T) {
	_, _, err := matrix.EigenSym(mustRows(t, [][]float64{{1, 2}, {0, 1}}), 0, 0)
	require.ErrorIs(t, err, matrix.ErrAsymmetry)

	_, _, err = matrix.EigenSym(mustDense(t, 2, 3), 0, 0)
	require.ErrorIs(t, err, matrix.ErrNonSquare)
}

// TestFrobeniusAndRelativeChange covers the norms used by early stopping.
func TestFrobeniusAndRelativeChange(t *testing.T) {
	a := mustRows(t, [][]float64{{3, 0}, {0, 4}})
	n, err := matrix.FrobeniusNorm(a)
	require.NoError(t, err)
	require.Equal(t, 5.0, n)

	b := mustRows(t, [][]float64{{3, 0}, {0, 1}})
	rel, err := matrix.RelativeChange(a, b)
	require.NoError(t, err)
	require.InDelta(t, 3.0/5.0, rel, 1e-15)

	z, err := matrix.ZerosLike(a)
	require.NoError(t, err)
	abs, err := matrix.RelativeChange(z, a)
	require.NoError(t, err)
	require.Equal(t, 5.0, abs, "zero base falls back to the absolute change")

	_, err = matrix.RelativeChange(a, mustDense(t, 3, 3))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}
