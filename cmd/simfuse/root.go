package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/simfuse/internal/config"
)

// app carries the global flags and what PersistentPreRunE derives from them.
type app struct {
	configPath string
	verbose    bool
	format     string
	workers    int
	neighbors  int
	iterations int
	metric     string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "simfuse",
		Short: "Similarity network fusion and medoid clustering",
		Long: `simfuse builds one similarity network per feature matrix (view), fuses
them by cross-view diffusion and works on the fused network:

  run        cluster the samples with PAM
  fuse       write the fused network
  estimate   suggest a number of clusters
  propagate  spread seed labels over the network

Every view is a CSV file with a header row of feature names and one row per
sample whose first column is the sample id.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "YAML config file")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	pf.StringVarP(&a.format, "format", "f", "", "Output format (json, yaml, msgpack, text)")
	pf.IntVar(&a.workers, "workers", 0, "Goroutines per stage (0 = GOMAXPROCS)")
	pf.IntVarP(&a.neighbors, "neighbors", "K", 0, "Neighbours per sample in the affinity kernels")
	pf.IntVarP(&a.iterations, "iterations", "t", 0, "Diffusion iterations")
	pf.StringVar(&a.metric, "metric", "", "Per-view sample distance (euclidean, dtw)")

	root.AddCommand(
		newRunCmd(a),
		newFuseCmd(a),
		newEstimateCmd(a),
		newPropagateCmd(a),
	)

	return root
}

// setup loads the config, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output.Format = a.format
	}
	if flags.Changed("workers") {
		cfg.Workers = a.workers
	}
	if flags.Changed("neighbors") {
		cfg.SNF.Neighbors = a.neighbors
	}
	if flags.Changed("iterations") {
		cfg.SNF.Iterations = a.iterations
	}
	if flags.Changed("metric") {
		cfg.SNF.Metric = a.metric
	}
	if a.verbose {
		cfg.Logging.Level = "debug"
	}
	if err = cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	zc := zap.NewProductionConfig()
	zc.Encoding = cfg.Logging.Encoding
	if zc.Encoding == "console" {
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	if a.logger, err = zc.Build(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	return nil
}
