package pam_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/simfuse/matrix"
)

// rawMatrix is a bare Matrix without the NaN/Inf guard of Dense, used to
// feed invalid values to the validators.
type rawMatrix struct {
	rows [][]float64
}

func (m *rawMatrix) Rows() int { return len(m.rows) }
func (m *rawMatrix) Cols() int { return len(m.rows[0]) }
func (m *rawMatrix) At(i, j int) (float64, error) {
	if i < 0 || i >= len(m.rows) || j < 0 || j >= len(m.rows[i]) {
		return 0, matrix.ErrOutOfRange
	}

	return m.rows[i][j], nil
}
func (m *rawMatrix) Set(i, j int, v float64) error {
	if i < 0 || i >= len(m.rows) || j < 0 || j >= len(m.rows[i]) {
		return matrix.ErrOutOfRange
	}
	m.rows[i][j] = v

	return nil
}
func (m *rawMatrix) Clone() matrix.Matrix {
	cp := make([][]float64, len(m.rows))
	for i := range m.rows {
		cp[i] = append([]float64(nil), m.rows[i]...)
	}

	return &rawMatrix{rows: cp}
}

// mustDense builds a Dense from literal rows or fails the test.
func mustDense(t testing.TB, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewFromRows(rows)
	require.NoError(t, err)

	return m
}

// tightPairs is two 2-object clusters: 0.01 inside, 10 across.
func tightPairs(t testing.TB) *matrix.Dense {
	t.Helper()

	return mustDense(t, [][]float64{
		{0, 0.01, 10, 10},
		{0.01, 0, 10, 10},
		{10, 10, 0, 0.01},
		{10, 10, 0.01, 0},
	})
}

// lineDistances returns |x_i − x_j| for the given coordinates.
func lineDistances(t testing.TB, xs ...float64) *matrix.Dense {
	t.Helper()
	rows := make([][]float64, len(xs))
	for i := range xs {
		rows[i] = make([]float64, len(xs))
		for j := range xs {
			rows[i][j] = math.Abs(xs[i] - xs[j])
		}
	}

	return mustDense(t, rows)
}

// scattered returns n deterministic, irregular coordinates.
func scattered(n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = 10*math.Sin(1.7*float64(i)) + float64(i%4)
	}

	return xs
}
