package snf_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/simfuse/matrix"
)

// rowSumTol bounds the drift of a row sum from 1.
const rowSumTol = 1e-9

// mustDense builds a Dense from literal rows or fails the test.
func mustDense(t testing.TB, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewFromRows(rows)
	require.NoError(t, err)

	return m
}

// twoGroupViews returns two views over four samples where samples {0,1} and
// {2,3} form clearly separated groups in both views.
func twoGroupViews(t testing.TB) []matrix.Matrix {
	t.Helper()
	v1 := mustDense(t, [][]float64{
		{0, 0},
		{0, 0.1},
		{5, 5},
		{5, 5.1},
	})
	v2 := mustDense(t, [][]float64{
		{0},
		{0.2},
		{10},
		{10.3},
	})

	return []matrix.Matrix{v1, v2}
}

// lineView returns n samples on a line at 0, 1, 2, ...
func lineView(t testing.TB, n int) *matrix.Dense {
	t.Helper()
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = []float64{float64(i)}
	}

	return mustDense(t, rows)
}

// requireRowsSumToOne checks every row of m sums to 1 within rowSumTol.
func requireRowsSumToOne(t *testing.T, m matrix.Matrix) {
	t.Helper()
	sums, err := matrix.RowSums(m)
	require.NoError(t, err)
	for i, s := range sums {
		require.InDelta(t, 1.0, s, rowSumTol, "row %d", i)
	}
}
