package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/simfuse/internal/config"
	"github.com/katalvlaran/simfuse/internal/dataio"
	"github.com/katalvlaran/simfuse/pipeline"
)

// writeViews stores two agreeing views; the second lists samples in a
// different order to exercise alignment.
func writeViews(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	a := filepath.Join(dir, "rna.csv")
	b := filepath.Join(dir, "methyl.csv")
	require.NoError(t, os.WriteFile(a, []byte("id,g1,g2\ns1,0,0\ns2,0,0.1\ns3,5,5\ns4,5,5.1\n"), 0o600))
	require.NoError(t, os.WriteFile(b, []byte("id,cpg\ns3,10\ns1,0\ns4,10.3\ns2,0.2\n"), 0o600))

	return a, b
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()

	return out.String(), err
}

func TestRunCmd_JSON(t *testing.T) {
	a, b := writeViews(t)
	out, err := execute(t, "run", "--view", a, "--view", b, "-k", "2", "-K", "1", "-t", "10", "--format", "json")
	require.NoError(t, err)

	var rep pipeline.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, []string{"s1", "s2", "s3", "s4"}, rep.Fusion.Samples)
	labels := rep.Clustering.Labels
	require.Len(t, labels, 4)
	assert.Equal(t, labels[0], labels[1])
	assert.Equal(t, labels[2], labels[3])
	assert.NotEqual(t, labels[0], labels[2])
}

func TestRunCmd_Text(t *testing.T) {
	a, b := writeViews(t)
	out, err := execute(t, "run", "--view", a, "--view", b, "-k", "2", "-K", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "clustering")
	assert.Contains(t, out, "s4")
}

func TestRunCmd_ConfigFile(t *testing.T) {
	a, b := writeViews(t)
	cfg := config.Default()
	cfg.SNF.Neighbors = 1
	cfg.PAM.Clusters = 2
	cfg.Output.Format = "yaml"
	path := filepath.Join(t.TempDir(), "simfuse.yaml")
	require.NoError(t, cfg.Save(path))

	out, err := execute(t, "run", "--config", path, "--view", a, "--view", b)
	require.NoError(t, err)

	var rep map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &rep))
	assert.Contains(t, rep, "clustering")
	assert.Contains(t, rep, "fusion")
}

func TestFuseCmd_Out(t *testing.T) {
	a, b := writeViews(t)
	path := filepath.Join(t.TempDir(), "fused.csv")
	_, err := execute(t, "fuse", "--view", a, "--view", b, "-K", "1", "--out", path, "--format", "json")
	require.NoError(t, err)

	tbl, err := dataio.ReadTableFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2", "s3", "s4"}, tbl.Samples)
	assert.Equal(t, tbl.Samples, tbl.Features)
	assert.Equal(t, 4, tbl.Data.Cols())
}

func TestEstimateCmd(t *testing.T) {
	a, b := writeViews(t)
	out, err := execute(t, "estimate", "--view", a, "--view", b, "-K", "1", "--max-k", "3", "--format", "json")
	require.NoError(t, err)

	var est pipeline.EstimateReport
	require.NoError(t, json.Unmarshal([]byte(out), &est))
	assert.Equal(t, 2, est.Clusters)
}

func TestPropagateCmd(t *testing.T) {
	a, b := writeViews(t)
	seeds := filepath.Join(t.TempDir(), "seeds.csv")
	require.NoError(t, os.WriteFile(seeds, []byte("sample,score\ns1,1\n"), 0o600))

	out, err := execute(t, "propagate", "--view", a, "--view", b, "-K", "1", "--labels", seeds, "--format", "json")
	require.NoError(t, err)

	var rep pipeline.PropagationReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Len(t, rep.Scores, 4)
	assert.Greater(t, rep.Scores[1], rep.Scores[2])
}

func TestCmd_Errors(t *testing.T) {
	a, b := writeViews(t)

	_, err := execute(t, "run", "--view", a, "--format", "xml")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = execute(t, "run", "-k", "2")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "view"), err.Error())

	_, err = execute(t, "propagate", "--view", a, "--view", b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "labels")

	_, err = execute(t, "run", "--view", filepath.Join(t.TempDir(), "missing.csv"), "-K", "1")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunCmd_DTWMetric(t *testing.T) {
	dir := t.TempDir()
	series := filepath.Join(dir, "series.csv")
	require.NoError(t, os.WriteFile(series, []byte(
		"id,t1,t2,t3,t4,t5\np1,0,3,1,0,0\nf1,2,2,2,2,2\np2,0,0,3,1,0\nf2,2,2,2,2,2.1\n"), 0o600))

	cfg := config.Default()
	cfg.SNF.Standardize = false
	path := filepath.Join(dir, "simfuse.yaml")
	require.NoError(t, cfg.Save(path))

	out, err := execute(t, "run", "-c", path, "--view", series, "--metric", "dtw", "-K", "1", "-k", "2", "--format", "json")
	require.NoError(t, err)

	var rep pipeline.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	labels := rep.Clustering.Labels
	assert.Equal(t, labels[0], labels[2])
	assert.Equal(t, labels[1], labels[3])
	assert.NotEqual(t, labels[0], labels[1])

	_, err = execute(t, "run", "--view", series, "--metric", "cosine")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
