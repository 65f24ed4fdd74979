package pipeline

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/katalvlaran/simfuse/internal/dataio"
)

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }

// Summary renders the fusion run as text.
func (f *Fused) Summary() string {
	return dataio.RenderFields("fusion", f.fields())
}

func (f *Fused) fields() []dataio.Field {
	return []dataio.Field{
		{Key: "run", Value: f.RunID},
		{Key: "samples", Value: strconv.Itoa(len(f.Samples))},
		{Key: "iterations", Value: strconv.Itoa(f.Iterations)},
		{Key: "last delta", Value: strconv.FormatFloat(f.LastDelta, 'g', 4, 64)},
		{Key: "elapsed", Value: f.Duration.Round(time.Millisecond).String()},
	}
}

// Summary renders the run and the per-sample assignment as text.
func (r *Report) Summary() string {
	c := r.Clustering
	fields := append(r.Fusion.fields(),
		dataio.Field{Key: "medoids", Value: strings.Join(c.MedoidIDs, ", ")},
		dataio.Field{Key: "cost", Value: ftoa(c.Cost)},
		dataio.Field{Key: "swaps", Value: strconv.Itoa(c.Swaps)},
		dataio.Field{Key: "state", Value: c.State},
		dataio.Field{Key: "silhouette", Value: ftoa(c.Silhouette)},
	)
	if c.Warning != "" {
		fields = append(fields, dataio.Field{Key: "warning", Value: c.Warning})
	}

	rows := make([][]string, len(r.Fusion.Samples))
	for i, id := range r.Fusion.Samples {
		rows[i] = []string{id, strconv.Itoa(c.Labels[i]), ""}
		if i < len(c.Widths) {
			rows[i][2] = ftoa(c.Widths[i])
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		dataio.RenderFields("clustering", fields),
		dataio.RenderTable([]string{"sample", "cluster", "silhouette"}, rows))
}

// Summary renders the estimate as text.
func (e *EstimateReport) Summary() string {
	vals := make([]string, len(e.Eigenvalues))
	for i, v := range e.Eigenvalues {
		vals[i] = ftoa(v)
	}

	return dataio.RenderFields("cluster estimate", []dataio.Field{
		{Key: "run", Value: e.RunID},
		{Key: "clusters", Value: strconv.Itoa(e.Clusters)},
		{Key: "gap", Value: ftoa(e.Gap)},
		{Key: "eigenvalues", Value: strings.Join(vals, " ")},
	})
}

// Summary renders the propagated scores as text.
func (p *PropagationReport) Summary() string {
	rows := make([][]string, len(p.Samples))
	for i, id := range p.Samples {
		rows[i] = []string{id, ftoa(p.Scores[i]), ftoa(p.Voting[i])}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		dataio.RenderFields("propagation", []dataio.Field{
			{Key: "run", Value: p.RunID},
			{Key: "iterations", Value: strconv.Itoa(p.Iterations)},
			{Key: "converged", Value: strconv.FormatBool(p.Converged)},
		}),
		dataio.RenderTable([]string{"sample", "score", "voting"}, rows))
}
