// Package config holds the file-level configuration of simfuse runs.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/simfuse/pam"
	"github.com/katalvlaran/simfuse/propagate"
	"github.com/katalvlaran/simfuse/snf"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Output formats understood by the encoders.
var Formats = []string{"json", "yaml", "msgpack", "text"}

// Log levels understood by the CLI logger.
var Levels = []string{"debug", "info", "warn", "error"}

// Config is the root configuration.
type Config struct {
	// Workers bounds goroutines per stage; 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`

	SNF         SNFConfig         `yaml:"snf"`
	PAM         PAMConfig         `yaml:"pam"`
	Propagation PropagationConfig `yaml:"propagation"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// SNFConfig configures affinity construction and fusion.
type SNFConfig struct {
	Neighbors  int     `yaml:"neighbors"`
	Mu         float64 `yaml:"mu"`
	Iterations int     `yaml:"iterations"`
	Tolerance  float64 `yaml:"tolerance"` // 0 disables the early exit
	// Standardize z-scores every feature column before building affinities.
	Standardize bool `yaml:"standardize"`
	// Metric is the per-view sample distance: euclidean or dtw.
	Metric string `yaml:"metric"`
	// Window is the DTW band; 0 means unconstrained.
	Window int `yaml:"window"`
}

// PAMConfig configures medoid clustering.
type PAMConfig struct {
	Clusters  int     `yaml:"clusters"`
	MaxSwaps  int     `yaml:"max_swaps"`
	Tolerance float64 `yaml:"tolerance"`
}

// PropagationConfig configures label propagation.
type PropagationConfig struct {
	Alpha     float64 `yaml:"alpha"`
	Tolerance float64 `yaml:"tolerance"`
	MaxIter   int     `yaml:"max_iter"`
}

// OutputConfig selects how results are written.
type OutputConfig struct {
	Format string `yaml:"format"` // json, yaml, msgpack, text
}

// LoggingConfig configures the zap logger of the CLI.
type LoggingConfig struct {
	Level    string `yaml:"level"`    // debug, info, warn, error
	Encoding string `yaml:"encoding"` // json, console
}

// Default returns the built-in configuration.
func Default() *Config {
	so := snf.DefaultOptions()
	po := pam.DefaultOptions()
	lo := propagate.DefaultOptions()

	return &Config{
		SNF: SNFConfig{
			Neighbors:   so.Neighbors,
			Mu:          so.Mu,
			Iterations:  so.Iterations,
			Tolerance:   so.Tolerance,
			Standardize: true,
			Metric:      so.Metric.String(),
		},
		PAM: PAMConfig{
			Clusters:  2,
			MaxSwaps:  po.MaxSwaps,
			Tolerance: po.Tolerance,
		},
		Propagation: PropagationConfig{
			Alpha:     lo.Alpha,
			Tolerance: lo.Tolerance,
			MaxIter:   lo.MaxIter,
		},
		Output:  OutputConfig{Format: "text"},
		Logging: LoggingConfig{Level: "info", Encoding: "console"},
	}
}

// Load reads a YAML file on top of Default and applies environment
// overrides. A missing file or an empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err = yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies SIMFUSE_WORKERS, SIMFUSE_LOG_LEVEL and
// SIMFUSE_FORMAT.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("SIMFUSE_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: SIMFUSE_WORKERS=%q: %w", ErrInvalidConfig, v, err)
		}
		c.Workers = n
	}
	if v := os.Getenv("SIMFUSE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("SIMFUSE_FORMAT"); v != "" {
		c.Output.Format = v
	}

	return nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0", ErrInvalidConfig)
	}
	if _, err := snf.ParseMetric(c.SNF.Metric); err != nil {
		return fmt.Errorf("%w: snf: %w", ErrInvalidConfig, err)
	}
	if err := c.SNFOptions().Validate(); err != nil {
		return fmt.Errorf("%w: snf: %w", ErrInvalidConfig, err)
	}
	if err := c.PAMOptions().Validate(); err != nil {
		return fmt.Errorf("%w: pam: %w", ErrInvalidConfig, err)
	}
	if err := c.PropagationOptions().Validate(); err != nil {
		return fmt.Errorf("%w: propagation: %w", ErrInvalidConfig, err)
	}
	if !slices.Contains(Formats, c.Output.Format) {
		return fmt.Errorf("%w: output format %q not in %v", ErrInvalidConfig, c.Output.Format, Formats)
	}
	if !slices.Contains(Levels, c.Logging.Level) {
		return fmt.Errorf("%w: log level %q not in %v", ErrInvalidConfig, c.Logging.Level, Levels)
	}
	if c.Logging.Encoding != "json" && c.Logging.Encoding != "console" {
		return fmt.Errorf("%w: log encoding %q", ErrInvalidConfig, c.Logging.Encoding)
	}

	return nil
}

// SNFOptions converts the snf section.
func (c *Config) SNFOptions() snf.Options {
	opts := snf.DefaultOptions()
	opts.Neighbors = c.SNF.Neighbors
	opts.Mu = c.SNF.Mu
	opts.Iterations = c.SNF.Iterations
	opts.Tolerance = c.SNF.Tolerance
	opts.Workers = c.workers()
	opts.Metric, _ = snf.ParseMetric(c.SNF.Metric) // checked by Validate
	opts.Window = c.SNF.Window

	return opts
}

// PAMOptions converts the pam section.
func (c *Config) PAMOptions() pam.Options {
	opts := pam.DefaultOptions()
	opts.K = c.PAM.Clusters
	opts.MaxSwaps = c.PAM.MaxSwaps
	opts.Tolerance = c.PAM.Tolerance
	opts.Workers = c.workers()

	return opts
}

// PropagationOptions converts the propagation section.
func (c *Config) PropagationOptions() propagate.Options {
	return propagate.Options{
		Alpha:     c.Propagation.Alpha,
		Tolerance: c.Propagation.Tolerance,
		MaxIter:   c.Propagation.MaxIter,
	}
}

func (c *Config) workers() int {
	if c.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}

	return c.Workers
}
