package snf

import (
	"fmt"
	"math"
	"runtime"

	"github.com/katalvlaran/simfuse/matrix"
)

// Defaults mirror the values recommended for SNF on expression-scale data.
const (
	// DefaultNeighbors is K, the neighbourhood size of the local kernel.
	DefaultNeighbors = 20

	// DefaultMu is μ, the scale of the exponential kernel (0.3–0.8 is typical).
	DefaultMu = 0.5

	// DefaultIterations is T, the number of cross-diffusion steps.
	DefaultIterations = 20

	// DefaultEpsilonFloor floors ε(i,j) so duplicate samples do not divide by zero.
	DefaultEpsilonFloor = 1e-12
)

// Metric selects the distance between the samples of one view.
type Metric int

const (
	// Euclidean compares feature vectors point-wise.
	Euclidean Metric = iota
	// DTW treats every row as a time series and aligns pairs of rows with
	// dynamic time warping.
	DTW
)

// String returns the config spelling of m.
func (m Metric) String() string {
	switch m {
	case Euclidean:
		return "euclidean"
	case DTW:
		return "dtw"
	default:
		return "unknown"
	}
}

// ParseMetric maps "euclidean" (or "") and "dtw" to a Metric.
func ParseMetric(s string) (Metric, error) {
	switch s {
	case "", "euclidean":
		return Euclidean, nil
	case "dtw":
		return DTW, nil
	default:
		return 0, fmt.Errorf("metric %q: %w", s, ErrInvalidMetric)
	}
}

// Options configures affinity construction and fusion.
//
// Fields:
//   - Neighbors     K, size of N_i (excluding i). Must satisfy 1 ≤ K ≤ n−1.
//   - Mu            μ > 0, kernel scale.
//   - Iterations    T ≥ 0, number of diffusion steps.
//   - Tolerance     optional early exit: stop once every view's relative
//     Frobenius change in one step is below Tolerance. 0 disables it and
//     exactly T steps run.
//   - EpsilonFloor  lower bound for ε(i,j); 0 selects DefaultEpsilonFloor.
//   - Workers       goroutines for per-view work; ≤ 0 selects GOMAXPROCS.
//   - Metric        per-view sample distance, Euclidean by default.
//   - Window        Sakoe–Chiba band for DTW; 0 means unconstrained.
type Options struct {
	Neighbors    int
	Mu           float64
	Iterations   int
	Tolerance    float64
	EpsilonFloor float64
	Workers      int
	Metric       Metric
	Window       int
}

// DefaultOptions returns Options populated with the package defaults.
func DefaultOptions() Options {
	return Options{
		Neighbors:    DefaultNeighbors,
		Mu:           DefaultMu,
		Iterations:   DefaultIterations,
		Tolerance:    0,
		EpsilonFloor: DefaultEpsilonFloor,
		Workers:      runtime.GOMAXPROCS(0),
	}
}

// Validate checks the sample-independent parameters.
func (o Options) Validate() error {
	if o.Neighbors < 1 {
		return ErrInvalidNeighbors
	}
	if math.IsNaN(o.Mu) || math.IsInf(o.Mu, 0) || o.Mu <= 0 {
		return ErrInvalidMu
	}
	if o.Iterations < 0 {
		return ErrInvalidIterations
	}
	if math.IsNaN(o.Tolerance) || math.IsInf(o.Tolerance, 0) || o.Tolerance < 0 {
		return ErrInvalidTolerance
	}
	if (o.Metric != Euclidean && o.Metric != DTW) || o.Window < 0 {
		return ErrInvalidMetric
	}

	return nil
}

func (o Options) epsilonFloor() float64 {
	if o.EpsilonFloor <= 0 || math.IsNaN(o.EpsilonFloor) {
		return DefaultEpsilonFloor
	}

	return o.EpsilonFloor
}

func (o Options) workers() int {
	if o.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}

	return o.Workers
}

// Kernels holds everything built once per view before diffusion.
// All matrices are n×n and must be treated as immutable.
type Kernels struct {
	// Distances are the pairwise sample distances under Options.Metric.
	Distances *matrix.Dense
	// Neighbors[i] lists N_i, the K nearest samples to i (excluding i),
	// nearest first.
	Neighbors [][]int
	// W is the scaled-exponential affinity (symmetric, diagonal 1).
	W *matrix.Dense
	// S is the local k-NN kernel (row-stochastic, possibly asymmetric).
	S *matrix.Dense
	// P is the global kernel (diagonal ½, row-stochastic).
	P *matrix.Dense
}

// Result is the outcome of Fuse.
type Result struct {
	// Consensus is P_c, the mean of the diffused per-view P matrices.
	Consensus *matrix.Dense
	// Views holds the per-view kernels as built before diffusion.
	Views []Kernels
	// Diffused holds the final per-view P matrices.
	Diffused []*matrix.Dense
	// Iterations is the number of diffusion steps actually run.
	Iterations int
	// LastDelta is the largest relative Frobenius change of the last step
	// (0 when no step ran).
	LastDelta float64
}
