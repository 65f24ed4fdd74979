package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/simfuse/internal/dataio"
	"github.com/katalvlaran/simfuse/pipeline"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		views []string
		k     int
	)
	cmd := &cobra.Command{
		Use:   "run --view a.csv --view b.csv -k 3",
		Short: "Fuse the views and cluster the samples",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("clusters") {
				a.cfg.PAM.Clusters = k
			}
			vs, err := loadViews(views)
			if err != nil {
				return err
			}
			rep, err := pipeline.Run(cmd.Context(), vs, a.cfg, pipeline.WithLogger(a.logger))
			if err != nil {
				return err
			}

			return dataio.Encode(cmd.OutOrStdout(), a.cfg.Output.Format, rep)
		},
	}
	addViewFlag(cmd, &views)
	cmd.Flags().IntVarP(&k, "clusters", "k", 0, "Number of clusters")

	return cmd
}

func newFuseCmd(a *app) *cobra.Command {
	var (
		views []string
		out   string
	)
	cmd := &cobra.Command{
		Use:   "fuse --view a.csv --view b.csv [--out fused.csv]",
		Short: "Fuse the views into one similarity network",
		Long: `Fuses the views and prints the run summary. With --out the consensus
similarity matrix is also written as CSV with sample ids as header and first
column.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vs, err := loadViews(views)
			if err != nil {
				return err
			}
			f, err := pipeline.Fuse(cmd.Context(), vs, a.cfg, pipeline.WithLogger(a.logger))
			if err != nil {
				return err
			}
			if out != "" {
				if err = writeMatrixFile(out, f.Samples, f.Consensus); err != nil {
					return err
				}
				a.logger.Info("wrote consensus", zap.String("path", out), zap.String("run_id", f.RunID))
			}

			return dataio.Encode(cmd.OutOrStdout(), a.cfg.Output.Format, f)
		},
	}
	addViewFlag(cmd, &views)
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the consensus matrix to this CSV file")

	return cmd
}

func newEstimateCmd(a *app) *cobra.Command {
	var (
		views []string
		maxK  int
	)
	cmd := &cobra.Command{
		Use:   "estimate --view a.csv --view b.csv [--max-k 10]",
		Short: "Suggest a number of clusters from the eigengap of the fused network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vs, err := loadViews(views)
			if err != nil {
				return err
			}
			est, err := pipeline.Estimate(cmd.Context(), vs, a.cfg, maxK, pipeline.WithLogger(a.logger))
			if err != nil {
				return err
			}

			return dataio.Encode(cmd.OutOrStdout(), a.cfg.Output.Format, est)
		},
	}
	addViewFlag(cmd, &views)
	cmd.Flags().IntVar(&maxK, "max-k", 10, "Largest cluster count considered")

	return cmd
}

func newPropagateCmd(a *app) *cobra.Command {
	var (
		views  []string
		labels string
	)
	cmd := &cobra.Command{
		Use:   "propagate --view a.csv --view b.csv --labels seeds.csv",
		Short: "Spread seed scores over the fused network",
		Long: `Reads "sample,score" rows from --labels (samples not listed score 0) and
propagates them over the fused network. Neighbour-voting scores are reported
next to the propagated ones, counting every positive seed as a positive.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vs, err := loadViews(views)
			if err != nil {
				return err
			}
			f, err := os.Open(labels)
			if err != nil {
				return fmt.Errorf("failed to open labels: %w", err)
			}
			defer f.Close()
			seeds, err := dataio.ReadSeeds(f, vs[0].Samples)
			if err != nil {
				return fmt.Errorf("%s: %w", labels, err)
			}
			rep, err := pipeline.Propagate(cmd.Context(), vs, a.cfg, seeds, pipeline.WithLogger(a.logger))
			if err != nil {
				return err
			}

			return dataio.Encode(cmd.OutOrStdout(), a.cfg.Output.Format, rep)
		},
	}
	addViewFlag(cmd, &views)
	cmd.Flags().StringVarP(&labels, "labels", "l", "", "CSV of seed scores (sample,score)")
	_ = cmd.MarkFlagRequired("labels")

	return cmd
}

func addViewFlag(cmd *cobra.Command, views *[]string) {
	cmd.Flags().StringArrayVar(views, "view", nil, "Feature matrix CSV (repeat for each view)")
	_ = cmd.MarkFlagRequired("view")
}

// loadViews reads every view and aligns them to the sample order of the
// first one.
func loadViews(paths []string) ([]pipeline.View, error) {
	tables := make([]*dataio.Table, len(paths))
	var err error
	for i, p := range paths {
		if tables[i], err = dataio.ReadTableFile(p); err != nil {
			return nil, err
		}
	}
	if _, err = dataio.Align(tables...); err != nil {
		return nil, err
	}
	views := make([]pipeline.View, len(tables))
	for i, t := range tables {
		views[i] = pipeline.View{Name: t.Name, Samples: t.Samples, Features: t.Data}
	}

	return views, nil
}

func writeMatrixFile(path string, samples []string, rows [][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err = dataio.WriteMatrix(f, samples, rows); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return f.Close()
}
