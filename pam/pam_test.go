package pam_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/katalvlaran/simfuse/matrix"
	"github.com/katalvlaran/simfuse/pam"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func withK(k int) pam.Options {
	opts := pam.DefaultOptions()
	opts.K = k

	return opts
}

// TestCluster_TightPairs recovers two obvious clusters without any swap.
func TestCluster_TightPairs(t *testing.T) {
	D := tightPairs(t)

	res, err := pam.Cluster(D, withK(2))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, res.Medoids)
	assert.Equal(t, []int{0, 0, 2, 2}, res.Assignment)
	assert.Equal(t, []int{0, 0, 1, 1}, res.Labels)
	assert.Equal(t, 0, res.Swaps)
	assert.True(t, res.Converged)
	assert.NoError(t, res.Warning)
	assert.Equal(t, pam.Converged, res.State)
	assert.InDelta(t, 0.02, res.Cost, 1e-12)

	mv, err := pam.Sweep(D, res.Medoids)
	require.NoError(t, err)
	require.NotNil(t, mv)
	assert.GreaterOrEqual(t, mv.Delta, 0.0, "no improving swap in the first sweep")
	assert.Equal(t, 0, mv.Medoid)
	assert.Equal(t, 1, mv.Candidate)
}

// TestBuild_TieBreak picks the lowest index among equally central objects.
func TestBuild_TieBreak(t *testing.T) {
	med, err := pam.Build(tightPairs(t), 2)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, med)

	med, err = pam.Build(lineDistances(t, 0, 1, 2, 3, 4), 1)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, med, "the median is the most central point")
}

// TestCluster_KEqualsN makes every object its own medoid.
func TestCluster_KEqualsN(t *testing.T) {
	D := lineDistances(t, 0, 3, 7, 8)
	res, err := pam.Cluster(D, withK(4))
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2, 3}, res.Medoids)
	assert.Equal(t, []int{0, 1, 2, 3}, res.Assignment)
	assert.Equal(t, []int{0, 1, 2, 3}, res.Labels)
	assert.Equal(t, 0.0, res.Cost)
	assert.Equal(t, 0, res.Swaps)
	assert.True(t, res.Converged)
	assert.Equal(t, []float64{0, 0, 0, 0}, res.Silhouette.Widths)
}

// TestCluster_RestartIsIdempotent restarts from the converged medoids.
func TestCluster_RestartIsIdempotent(t *testing.T) {
	D := lineDistances(t, scattered(15)...)
	first, err := pam.Cluster(D, withK(3))
	require.NoError(t, err)
	require.True(t, first.Converged)

	opts := withK(3)
	opts.InitialMedoids = first.Medoids
	again, err := pam.Cluster(D, opts)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Swaps)
	assert.True(t, again.Converged)
	assert.Equal(t, first.Medoids, again.Medoids)
	assert.Equal(t, first.Cost, again.Cost)
}

// TestCluster_SwapImprovesBadStart moves all medoids out of one cluster.
func TestCluster_SwapImprovesBadStart(t *testing.T) {
	D := lineDistances(t, 0, 1, 2, 10, 11, 12, 20, 21, 22)
	opts := withK(3)
	opts.InitialMedoids = []int{2, 0, 1}

	res, err := pam.Cluster(D, opts)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4, 7}, res.Medoids)
	assert.Equal(t, []int{0, 0, 0, 1, 1, 1, 2, 2, 2}, res.Labels)
	assert.InDelta(t, 6.0, res.Cost, 1e-12)
	assert.GreaterOrEqual(t, res.Swaps, 2)
}

// TestCluster_NonConvergenceWarning stops at MaxSwaps and still returns
// the best state.
func TestCluster_NonConvergenceWarning(t *testing.T) {
	D := lineDistances(t, 0, 1, 2, 10, 11, 12, 20, 21, 22)
	opts := withK(3)
	opts.InitialMedoids = []int{0, 1, 2}
	opts.MaxSwaps = 1

	res, err := pam.Cluster(D, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Swaps)
	assert.False(t, res.Converged)
	assert.ErrorIs(t, res.Warning, pam.ErrNonConvergence)
	assert.Equal(t, pam.Converged, res.State)
	assert.Len(t, res.Medoids, 3)
}

// TestSweep_DeltaIsExactCostChange compares T_ih with recomputed costs for
// every pair.
func TestSweep_DeltaIsExactCostChange(t *testing.T) {
	D := lineDistances(t, scattered(12)...)
	medoids := []int{1, 5, 9}
	before, err := pam.Assign(D, medoids)
	require.NoError(t, err)

	mv, err := pam.Sweep(D, medoids)
	require.NoError(t, err)
	require.NotNil(t, mv)

	swapped := []int{}
	for _, m := range medoids {
		if m != mv.Medoid {
			swapped = append(swapped, m)
		}
	}
	swapped = append(swapped, mv.Candidate)
	after, err := pam.Assign(D, swapped)
	require.NoError(t, err)
	assert.InDelta(t, after.Cost()-before.Cost(), mv.Delta, 1e-9)

	// No other pair beats the reported one.
	for _, i := range medoids {
		for h := 0; h < D.Rows(); h++ {
			if h == 1 || h == 5 || h == 9 {
				continue
			}
			set := []int{h}
			for _, m := range medoids {
				if m != i {
					set = append(set, m)
				}
			}
			a, err := pam.Assign(D, set)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, a.Cost()-before.Cost(), mv.Delta-1e-9, "pair (%d,%d)", i, h)
		}
	}
}

// TestCluster_DeterministicAcrossWorkers compares serial and parallel sweeps.
func TestCluster_DeterministicAcrossWorkers(t *testing.T) {
	D := lineDistances(t, scattered(40)...)

	serial := withK(4)
	serial.Workers = 1
	parallel := withK(4)
	parallel.Workers = 8

	a, err := pam.Cluster(D, serial)
	require.NoError(t, err)
	b, err := pam.Cluster(D, parallel)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

// TestCluster_OnState observes the phase sequence.
func TestCluster_OnState(t *testing.T) {
	var seen []pam.State
	opts := withK(2)
	opts.OnState = func(s pam.State) { seen = append(seen, s) }

	_, err := pam.Cluster(tightPairs(t), opts)
	require.NoError(t, err)
	assert.Equal(t, []pam.State{pam.Building, pam.Swapping, pam.Converged}, seen)

	seen = nil
	opts.InitialMedoids = []int{0, 2}
	_, err = pam.Cluster(tightPairs(t), opts)
	require.NoError(t, err)
	assert.Equal(t, []pam.State{pam.Swapping, pam.Converged}, seen)
}

// TestState_String covers every phase name.
func TestState_String(t *testing.T) {
	assert.Equal(t, "unassigned", pam.Unassigned.String())
	assert.Equal(t, "building", pam.Building.String())
	assert.Equal(t, "swapping", pam.Swapping.String())
	assert.Equal(t, "converged", pam.Converged.String())
	assert.Equal(t, "unknown", pam.State(42).String())
}

// TestCluster_Validation rejects bad inputs before BUILD.
func TestCluster_Validation(t *testing.T) {
	good := tightPairs(t)
	cases := []struct {
		name string
		D    matrix.Matrix
		k    int
		want error
	}{
		{"ZeroK", good, 0, pam.ErrInvalidK},
		{"NegativeK", good, -1, pam.ErrInvalidK},
		{"KAboveN", good, 5, pam.ErrInvalidK},
		{"NonSquare", mustDense(t, [][]float64{{0, 1, 2}, {1, 0, 1}}), 1, matrix.ErrNonSquare},
		{"Asymmetric", mustDense(t, [][]float64{{0, 1}, {2, 0}}), 1, matrix.ErrAsymmetry},
		{"NonZeroDiagonal", mustDense(t, [][]float64{{1, 1}, {1, 0}}), 1, matrix.ErrNonZeroDiagonal},
		{"Negative", mustDense(t, [][]float64{{0, -1}, {-1, 0}}), 1, matrix.ErrNegative},
		{"NaN", &rawMatrix{rows: [][]float64{{0, math.NaN()}, {math.NaN(), 0}}}, 1, matrix.ErrNaNInf},
		{"Inf", &rawMatrix{rows: [][]float64{{0, math.Inf(1)}, {math.Inf(1), 0}}}, 1, matrix.ErrNaNInf},
		{"Nil", nil, 1, matrix.ErrNilMatrix},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := pam.Cluster(tc.D, withK(tc.k))
			assert.ErrorIs(t, err, tc.want)
			assert.ErrorIs(t, err, pam.ErrConfiguration)
		})
	}
}

// TestCluster_InvalidInitialMedoids covers duplicates, range and count.
func TestCluster_InvalidInitialMedoids(t *testing.T) {
	for name, med := range map[string][]int{
		"Duplicate":  {0, 0},
		"OutOfRange": {0, 4},
		"Negative":   {-1, 2},
		"WrongCount": {0, 1, 2},
	} {
		t.Run(name, func(t *testing.T) {
			opts := withK(2)
			opts.InitialMedoids = med
			_, err := pam.Cluster(tightPairs(t), opts)
			assert.ErrorIs(t, err, pam.ErrInvalidMedoids)
			assert.ErrorIs(t, err, pam.ErrConfiguration)
		})
	}
}

// TestOptions_Validate rejects negative budgets and tolerances.
func TestOptions_Validate(t *testing.T) {
	opts := withK(2)
	opts.MaxSwaps = -1
	assert.ErrorIs(t, opts.Validate(), pam.ErrInvalidOptions)

	opts = withK(2)
	opts.Tolerance = math.NaN()
	assert.ErrorIs(t, opts.Validate(), pam.ErrInvalidOptions)

	opts = withK(2)
	opts.Epsilon = -1
	assert.ErrorIs(t, opts.Validate(), pam.ErrInvalidOptions)

	assert.NoError(t, withK(2).Validate())
}

// TestAssign_SecondNearest checks D_j, E_j and the single-medoid case.
func TestAssign_SecondNearest(t *testing.T) {
	D := lineDistances(t, 0, 1, 5, 9)
	a, err := pam.Assign(D, []int{3, 0})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 3, 3}, a.Nearest)
	assert.Equal(t, []int{3, 3, 0, 0}, a.Second)
	assert.Equal(t, []float64{0, 1, 4, 0}, a.D)
	assert.Equal(t, []float64{9, 8, 5, 9}, a.E)

	one, err := pam.Assign(D, []int{1})
	require.NoError(t, err)
	assert.Equal(t, []int{-1, -1, -1, -1}, one.Second)
	assert.True(t, math.IsInf(one.E[0], 1))
	assert.Equal(t, 13.0, one.Cost())
}
