package pam

import (
	"math"
	"runtime"

	"github.com/katalvlaran/simfuse/matrix"
)

// State is the lifecycle phase of a clustering run.
type State int

const (
	// Unassigned: inputs accepted, no medoid chosen yet.
	Unassigned State = iota
	// Building: greedy medoid selection in progress.
	Building
	// Swapping: local search over (medoid, non-medoid) exchanges.
	Swapping
	// Converged: no improving swap left, or the swap budget is spent.
	Converged
)

// String returns the lower-case phase name.
func (s State) String() string {
	switch s {
	case Unassigned:
		return "unassigned"
	case Building:
		return "building"
	case Swapping:
		return "swapping"
	case Converged:
		return "converged"
	default:
		return "unknown"
	}
}

// Defaults.
const (
	// DefaultMaxSwaps bounds the number of applied swaps.
	DefaultMaxSwaps = 1000

	// DefaultTolerance is the minimum objective decrease that counts as an
	// improvement; it absorbs float rounding in T_ih.
	DefaultTolerance = 1e-12
)

// Options configures Cluster.
type Options struct {
	// K is the number of clusters (1 ≤ K ≤ n).
	K int

	// MaxSwaps caps applied swaps; 0 selects DefaultMaxSwaps.
	MaxSwaps int

	// Tolerance: a swap is applied only when T_ih < −Tolerance.
	Tolerance float64

	// Epsilon is the tolerance of the symmetry and zero-diagonal checks.
	Epsilon float64

	// Workers used by the SWAP sweep; ≤ 0 selects GOMAXPROCS.
	Workers int

	// InitialMedoids, when set, skips BUILD and starts SWAP from these
	// K distinct objects.
	InitialMedoids []int

	// OnState, when non-nil, is called on every phase transition.
	OnState func(State)
}

// DefaultOptions returns Options with K unset (0); callers must choose K.
func DefaultOptions() Options {
	return Options{
		MaxSwaps:  DefaultMaxSwaps,
		Tolerance: DefaultTolerance,
		Epsilon:   matrix.DefaultEpsilon,
		Workers:   runtime.GOMAXPROCS(0),
	}
}

// Validate checks the parameters that do not depend on the matrix.
func (o Options) Validate() error {
	if o.K <= 0 {
		return ErrInvalidK
	}
	if o.MaxSwaps < 0 || badTol(o.Tolerance) || badTol(o.Epsilon) {
		return ErrInvalidOptions
	}

	return nil
}

func badTol(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0) || v < 0
}

func (o Options) maxSwaps() int {
	if o.MaxSwaps == 0 {
		return DefaultMaxSwaps
	}

	return o.MaxSwaps
}

func (o Options) workers() int {
	if o.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}

	return o.Workers
}

func (o Options) notify(s State) {
	if o.OnState != nil {
		o.OnState(s)
	}
}

// Move is one candidate exchange: medoid Medoid leaves, Candidate joins.
// Delta is T_ih, the exact change of the objective.
type Move struct {
	Medoid    int
	Candidate int
	Delta     float64
}

// Result is the outcome of Cluster.
type Result struct {
	// Medoids are the k medoid object indices, ascending.
	Medoids []int
	// Assignment[j] is the medoid object index closest to j.
	Assignment []int
	// Labels[j] is the cluster number of j: the position of Assignment[j]
	// in Medoids.
	Labels []int
	// Cost is Σ_j D_j for the final medoids.
	Cost float64
	// Swaps is the number of applied swaps.
	Swaps int
	// State is Converged on every successful return.
	State State
	// Converged is false when MaxSwaps stopped the search.
	Converged bool
	// Warning is ErrNonConvergence when Converged is false, nil otherwise.
	Warning error
	// Silhouette holds the silhouette widths of the final partition.
	Silhouette *Silhouette
}
