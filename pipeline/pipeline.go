package pipeline

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/katalvlaran/simfuse/internal/config"
	"github.com/katalvlaran/simfuse/matrix"
	"github.com/katalvlaran/simfuse/pam"
	"github.com/katalvlaran/simfuse/propagate"
	"github.com/katalvlaran/simfuse/snf"
)

var (
	// ErrNoViews indicates an empty view list.
	ErrNoViews = errors.New("pipeline: no views")
	// ErrSampleMismatch indicates views with different sample ids or order.
	ErrSampleMismatch = errors.New("pipeline: views are not sample-aligned")
)

// View is one feature matrix; row i describes Samples[i].
type View struct {
	Name     string
	Samples  []string
	Features *matrix.Dense
}

// Option customises a pipeline call.
type Option func(*settings)

type settings struct {
	log *zap.Logger
}

// WithLogger routes stage logs to l.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.log = l
		}
	}
}

func newSettings(opts []Option) *settings {
	s := &settings{log: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}

	return s
}

// Fused is the fused network of a set of views.
type Fused struct {
	RunID      string        `json:"run_id" yaml:"run_id" msgpack:"run_id"`
	Samples    []string      `json:"samples" yaml:"samples" msgpack:"samples"`
	Consensus  [][]float64   `json:"consensus" yaml:"consensus" msgpack:"consensus"`
	Distance   [][]float64   `json:"distance" yaml:"distance" msgpack:"distance"`
	Iterations int           `json:"iterations" yaml:"iterations" msgpack:"iterations"`
	LastDelta  float64       `json:"last_delta" yaml:"last_delta" msgpack:"last_delta"`
	Duration   time.Duration `json:"duration" yaml:"duration" msgpack:"duration"`

	// Network keeps the full snf result for further stages.
	Network *snf.Result `json:"-" yaml:"-" msgpack:"-"`
	// Dist is Distance as a matrix.
	Dist *matrix.Dense `json:"-" yaml:"-" msgpack:"-"`
}

// Fuse standardises (when configured) and fuses views, then converts the
// consensus into a distance matrix.
func Fuse(ctx context.Context, views []View, cfg *config.Config, opts ...Option) (*Fused, error) {
	s := newSettings(opts)
	start := time.Now()
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	samples, err := checkAligned(views)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := s.log.With(zap.String("run_id", runID))
	log.Info("fusing views",
		zap.Int("views", len(views)),
		zap.Int("samples", len(samples)),
		zap.Int("neighbors", cfg.SNF.Neighbors),
		zap.Int("iterations", cfg.SNF.Iterations))

	inputs := make([]matrix.Matrix, len(views))
	for v, view := range views {
		inputs[v] = view.Features
		if !cfg.SNF.Standardize {
			continue
		}
		z, _, _, err := matrix.ZScoreColumns(view.Features)
		if err != nil {
			return nil, fmt.Errorf("pipeline: standardize %s: %w", view.Name, err)
		}
		inputs[v] = z
	}

	res, err := snf.Fuse(ctx, inputs, cfg.SNFOptions())
	if err != nil {
		log.Error("fusion failed", zap.Error(err))
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	log.Debug("fusion done",
		zap.Int("iterations", res.Iterations),
		zap.Float64("last_delta", res.LastDelta),
		zap.Duration("elapsed", time.Since(start)))

	if err = ctx.Err(); err != nil {
		return nil, err
	}
	D, err := snf.ToDistance(res.Consensus)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	return &Fused{
		RunID:      runID,
		Samples:    samples,
		Consensus:  res.Consensus.ToRows(),
		Distance:   D.ToRows(),
		Iterations: res.Iterations,
		LastDelta:  res.LastDelta,
		Duration:   time.Since(start),
		Network:    res,
		Dist:       D,
	}, nil
}

// checkAligned returns the shared sample ids, synthesising "0".."n-1" when
// no view names its samples.
func checkAligned(views []View) ([]string, error) {
	if len(views) == 0 {
		return nil, ErrNoViews
	}
	var ids []string
	for _, v := range views {
		if v.Features == nil {
			return nil, fmt.Errorf("pipeline: view %q: %w", v.Name, matrix.ErrNilMatrix)
		}
		if len(v.Samples) > 0 && len(v.Samples) != v.Features.Rows() {
			return nil, fmt.Errorf("view %q: %d ids for %d rows: %w",
				v.Name, len(v.Samples), v.Features.Rows(), ErrSampleMismatch)
		}
		if ids == nil && len(v.Samples) > 0 {
			ids = v.Samples
		}
	}
	if ids == nil {
		ids = make([]string, views[0].Features.Rows())
		for i := range ids {
			ids[i] = strconv.Itoa(i)
		}
	}
	for _, v := range views {
		if len(v.Samples) == 0 {
			continue
		}
		if !slices.Equal(v.Samples, ids) {
			return nil, fmt.Errorf("view %q: %w", v.Name, ErrSampleMismatch)
		}
	}

	return slices.Clone(ids), nil
}

// Clustering is the serialisable outcome of the medoid stage.
type Clustering struct {
	Medoids    []int     `json:"medoids" yaml:"medoids" msgpack:"medoids"`
	MedoidIDs  []string  `json:"medoid_ids" yaml:"medoid_ids" msgpack:"medoid_ids"`
	Labels     []int     `json:"labels" yaml:"labels" msgpack:"labels"`
	Cost       float64   `json:"cost" yaml:"cost" msgpack:"cost"`
	Swaps      int       `json:"swaps" yaml:"swaps" msgpack:"swaps"`
	State      string    `json:"state" yaml:"state" msgpack:"state"`
	Converged  bool      `json:"converged" yaml:"converged" msgpack:"converged"`
	Warning    string    `json:"warning,omitempty" yaml:"warning,omitempty" msgpack:"warning,omitempty"`
	Silhouette float64   `json:"silhouette" yaml:"silhouette" msgpack:"silhouette"`
	Widths     []float64 `json:"silhouette_widths" yaml:"silhouette_widths" msgpack:"silhouette_widths"`
}

// Report is the outcome of Run.
type Report struct {
	Fusion     *Fused     `json:"fusion" yaml:"fusion" msgpack:"fusion"`
	Clustering Clustering `json:"clustering" yaml:"clustering" msgpack:"clustering"`
}

// Run fuses views and clusters the samples into cfg.PAM.Clusters groups.
func Run(ctx context.Context, views []View, cfg *config.Config, opts ...Option) (*Report, error) {
	s := newSettings(opts)
	if cfg == nil {
		cfg = config.Default()
	}
	f, err := Fuse(ctx, views, cfg, opts...)
	if err != nil {
		return nil, err
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	log := s.log.With(zap.String("run_id", f.RunID))
	popts := cfg.PAMOptions()
	popts.OnState = func(st pam.State) {
		log.Debug("pam state", zap.Stringer("state", st))
	}
	start := time.Now()
	res, err := pam.Cluster(f.Dist, popts)
	if err != nil {
		log.Error("clustering failed", zap.Error(err))
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	if res.Warning != nil {
		log.Warn("pam stopped early", zap.Int("swaps", res.Swaps), zap.Error(res.Warning))
	}
	log.Info("clustering done",
		zap.Int("k", popts.K),
		zap.Int("swaps", res.Swaps),
		zap.Float64("cost", res.Cost),
		zap.Duration("elapsed", time.Since(start)))

	f.Duration += time.Since(start)

	return &Report{Fusion: f, Clustering: clusteringOf(res, f.Samples)}, nil
}

func clusteringOf(res *pam.Result, samples []string) Clustering {
	c := Clustering{
		Medoids:   res.Medoids,
		MedoidIDs: make([]string, len(res.Medoids)),
		Labels:    res.Labels,
		Cost:      res.Cost,
		Swaps:     res.Swaps,
		State:     res.State.String(),
		Converged: res.Converged,
	}
	for i, m := range res.Medoids {
		c.MedoidIDs[i] = samples[m]
	}
	if res.Warning != nil {
		c.Warning = res.Warning.Error()
	}
	if res.Silhouette != nil {
		c.Silhouette = res.Silhouette.Average
		c.Widths = res.Silhouette.Widths
	}

	return c
}

// EstimateReport is the outcome of Estimate.
type EstimateReport struct {
	RunID       string    `json:"run_id" yaml:"run_id" msgpack:"run_id"`
	Clusters    int       `json:"clusters" yaml:"clusters" msgpack:"clusters"`
	Gap         float64   `json:"gap" yaml:"gap" msgpack:"gap"`
	Eigenvalues []float64 `json:"eigenvalues" yaml:"eigenvalues" msgpack:"eigenvalues"`
}

// Estimate fuses views and suggests a cluster count in [2, maxK].
func Estimate(ctx context.Context, views []View, cfg *config.Config, maxK int, opts ...Option) (*EstimateReport, error) {
	s := newSettings(opts)
	f, err := Fuse(ctx, views, cfg, opts...)
	if err != nil {
		return nil, err
	}
	est, err := snf.EstimateClusters(f.Network.Consensus, maxK)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	s.log.Info("estimated clusters",
		zap.String("run_id", f.RunID),
		zap.Int("clusters", est.Clusters),
		zap.Float64("gap", est.Gap))

	return &EstimateReport{
		RunID:       f.RunID,
		Clusters:    est.Clusters,
		Gap:         est.Gap,
		Eigenvalues: est.Eigenvalues,
	}, nil
}

// PropagationReport is the outcome of Propagate.
type PropagationReport struct {
	RunID      string    `json:"run_id" yaml:"run_id" msgpack:"run_id"`
	Samples    []string  `json:"samples" yaml:"samples" msgpack:"samples"`
	Scores     []float64 `json:"scores" yaml:"scores" msgpack:"scores"`
	Voting     []float64 `json:"voting" yaml:"voting" msgpack:"voting"`
	Iterations int       `json:"iterations" yaml:"iterations" msgpack:"iterations"`
	Converged  bool      `json:"converged" yaml:"converged" msgpack:"converged"`
}

// Propagate fuses views and spreads seed scores over the fused network.
// Voting holds the neighbour-voting score of every sample, counting seeds
// with a positive score as positives.
func Propagate(ctx context.Context, views []View, cfg *config.Config, seeds []float64, opts ...Option) (*PropagationReport, error) {
	s := newSettings(opts)
	if cfg == nil {
		cfg = config.Default()
	}
	f, err := Fuse(ctx, views, cfg, opts...)
	if err != nil {
		return nil, err
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	W := f.Network.Consensus
	res, err := propagate.LabelPropagation(W, seeds, cfg.PropagationOptions())
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	positive := make([]bool, len(seeds))
	for i, v := range seeds {
		positive[i] = v > 0
	}
	voting, err := propagate.NeighborVoting(W, positive)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	if !res.Converged {
		s.log.Warn("label propagation did not converge",
			zap.String("run_id", f.RunID), zap.Int("iterations", res.Iterations))
	}

	return &PropagationReport{
		RunID:      f.RunID,
		Samples:    f.Samples,
		Scores:     res.Scores,
		Voting:     voting,
		Iterations: res.Iterations,
		Converged:  res.Converged,
	}, nil
}
