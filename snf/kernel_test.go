package snf_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/simfuse/matrix"
	"github.com/katalvlaran/simfuse/snf"
)

// TestNeighbors_TieBreakByIndex verifies equal distances resolve to the lower
// sample index and that i is never its own neighbour.
func TestNeighbors_TieBreakByIndex(t *testing.T) {
	dist, err := matrix.PairwiseEuclidean(lineView(t, 4))
	require.NoError(t, err)

	nbrs, err := snf.Neighbors(dist, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 2}, {0, 2}, {1, 3}, {2, 1}}, nbrs)
}

// TestNeighbors_Errors covers k < 1, n < k+1 and non-square input.
func TestNeighbors_Errors(t *testing.T) {
	dist, err := matrix.PairwiseEuclidean(lineView(t, 3))
	require.NoError(t, err)

	_, err = snf.Neighbors(dist, 0)
	assert.ErrorIs(t, err, snf.ErrInvalidNeighbors)

	_, err = snf.Neighbors(dist, 3)
	assert.ErrorIs(t, err, snf.ErrTooFewSamples)
	assert.ErrorIs(t, err, snf.ErrConfiguration)

	rect := mustDense(t, [][]float64{{0, 1, 2}, {1, 0, 1}})
	_, err = snf.Neighbors(rect, 1)
	assert.ErrorIs(t, err, matrix.ErrNonSquare)
	assert.ErrorIs(t, err, snf.ErrConfiguration)
}

// TestAffinity_Shape checks symmetry, the unit diagonal and the (0,1] range.
func TestAffinity_Shape(t *testing.T) {
	W, err := snf.Affinity(twoGroupViews(t)[0], 1, 0.5)
	require.NoError(t, err)
	require.NoError(t, matrix.ValidateSymmetric(W, 0))

	n := W.Rows()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v, err := W.At(i, j)
			require.NoError(t, err)
			if i == j {
				assert.Equal(t, 1.0, v)
				continue
			}
			assert.Greater(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}

	within, _ := W.At(0, 1)
	across, _ := W.At(0, 2)
	assert.Greater(t, within, across, "close samples must be more similar")
}

// TestAffinity_DuplicateSamples verifies the ε floor: identical rows give
// W = 1 instead of NaN.
func TestAffinity_DuplicateSamples(t *testing.T) {
	X := mustDense(t, [][]float64{{1, 1}, {1, 1}, {1, 1}})
	W, err := snf.Affinity(X, 1, 0.5)
	require.NoError(t, err)
	v, err := W.At(0, 2)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
}

// TestAffinity_InvalidParameters covers μ and K validation.
func TestAffinity_InvalidParameters(t *testing.T) {
	X := lineView(t, 4)

	cases := []struct {
		name string
		k    int
		mu   float64
		want error
	}{
		{"ZeroK", 0, 0.5, snf.ErrInvalidNeighbors},
		{"ZeroMu", 2, 0, snf.ErrInvalidMu},
		{"NegativeMu", 2, -1, snf.ErrInvalidMu},
		{"KTooLarge", 4, 0.5, snf.ErrTooFewSamples},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := snf.Affinity(X, tc.k, tc.mu)
			assert.ErrorIs(t, err, tc.want)
			assert.ErrorIs(t, err, snf.ErrConfiguration)
		})
	}

	_, err := snf.Affinity(nil, 1, 0.5)
	assert.ErrorIs(t, err, matrix.ErrNilMatrix)
}

// TestLocalKernel_SupportAndRowSums checks that S rows are stochastic and
// carry mass only on {i} ∪ N_i.
func TestLocalKernel_SupportAndRowSums(t *testing.T) {
	k, err := snf.BuildKernels(lineView(t, 5), func() snf.Options {
		o := snf.DefaultOptions()
		o.Neighbors = 2
		return o
	}())
	require.NoError(t, err)

	requireRowsSumToOne(t, k.S)
	n := k.S.Rows()
	for i := 0; i < n; i++ {
		support := map[int]bool{i: true}
		for _, j := range k.Neighbors[i] {
			support[j] = true
		}
		for j := 0; j < n; j++ {
			v, err := k.S.At(i, j)
			require.NoError(t, err)
			if support[j] {
				assert.Greater(t, v, 0.0, "S(%d,%d)", i, j)
			} else {
				assert.Equal(t, 0.0, v, "S(%d,%d)", i, j)
			}
		}
	}
}

// TestLocalKernel_BadNeighbors rejects neighbour lists that do not fit W.
func TestLocalKernel_BadNeighbors(t *testing.T) {
	W := mustDense(t, [][]float64{{1, 0.5}, {0.5, 1}})

	_, err := snf.LocalKernel(W, [][]int{{1}})
	assert.ErrorIs(t, err, snf.ErrConfiguration)

	_, err = snf.LocalKernel(W, [][]int{{1}, {1}})
	assert.ErrorIs(t, err, snf.ErrConfiguration, "self is not a neighbour")

	_, err = snf.LocalKernel(W, [][]int{{2}, {0}})
	assert.ErrorIs(t, err, snf.ErrConfiguration)
}

// TestGlobalKernel_RowsAndDiagonal checks P(i,i) = ½ and rows summing to 1.
func TestGlobalKernel_RowsAndDiagonal(t *testing.T) {
	W := mustDense(t, [][]float64{
		{1, 0.9, 0.1},
		{0.9, 1, 0.3},
		{0.1, 0.3, 1},
	})
	P, err := snf.GlobalKernel(W)
	require.NoError(t, err)
	requireRowsSumToOne(t, P)

	for i := 0; i < 3; i++ {
		v, _ := P.At(i, i)
		assert.Equal(t, 0.5, v)
	}
	v, _ := P.At(0, 1)
	assert.InDelta(t, 0.9/2.0, v, 1e-12)
}

// TestGlobalKernel_Degenerate reports a row without off-diagonal mass.
func TestGlobalKernel_Degenerate(t *testing.T) {
	I, err := matrix.NewIdentity(3)
	require.NoError(t, err)

	_, err = snf.GlobalKernel(I)
	assert.True(t, errors.Is(err, snf.ErrNumericDegeneracy))
	assert.False(t, errors.Is(err, snf.ErrConfiguration))
}

// TestBuildKernels_PRowsSumToOne covers kernel-derived P on random-ish data.
func TestBuildKernels_PRowsSumToOne(t *testing.T) {
	X := mustDense(t, [][]float64{
		{0.3, 1.2, -0.7},
		{1.1, 0.4, 0.0},
		{-0.5, 2.2, 0.9},
		{0.8, -1.3, 0.2},
		{2.0, 0.1, -1.1},
		{-1.4, 0.6, 0.5},
	})
	opts := snf.DefaultOptions()
	opts.Neighbors = 3

	k, err := snf.BuildKernels(X, opts)
	require.NoError(t, err)
	requireRowsSumToOne(t, k.P)
	requireRowsSumToOne(t, k.S)
	require.NoError(t, matrix.ValidateSymmetric(k.W, 0))
}

// TestBuildKernels_DTW pairs samples whose peak is shifted in time.
func TestBuildKernels_DTW(t *testing.T) {
	X := mustDense(t, [][]float64{
		{0, 3, 1, 0, 0},
		{2, 2, 2, 2, 2},
		{0, 0, 3, 1, 0},
		{2, 2, 2, 2, 2.1},
	})
	opts := snf.DefaultOptions()
	opts.Neighbors = 1
	opts.Metric = snf.DTW
	opts.Window = 2

	k, err := snf.BuildKernels(X, opts)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{2}, {3}, {0}, {1}}, k.Neighbors)
	d, _ := k.Distances.At(0, 2)
	assert.Equal(t, 0.0, d)
	requireRowsSumToOne(t, k.P)
}

func TestMetric_ParseAndValidate(t *testing.T) {
	for _, m := range []snf.Metric{snf.Euclidean, snf.DTW} {
		got, err := snf.ParseMetric(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	got, err := snf.ParseMetric("")
	require.NoError(t, err)
	assert.Equal(t, snf.Euclidean, got)

	_, err = snf.ParseMetric("cosine")
	assert.ErrorIs(t, err, snf.ErrInvalidMetric)
	assert.Equal(t, "unknown", snf.Metric(9).String())

	opts := snf.DefaultOptions()
	opts.Metric = snf.Metric(9)
	assert.ErrorIs(t, opts.Validate(), snf.ErrInvalidMetric)
	opts = snf.DefaultOptions()
	opts.Window = -1
	assert.ErrorIs(t, opts.Validate(), snf.ErrConfiguration)
}
