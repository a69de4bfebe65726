// Package models defines data structures for configuration and benchmark
// records.
package models

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/dtnitsch/wordbench/pkg/errors"
)

// Defaults used when neither flags nor the config file set a value.
const (
	DefaultDataDir   = "data"
	DefaultStopwords = "english"
	DefaultReference = "naive"
	DefaultChunkSize = 64 * 1024
	DefaultDBName    = "wordbench.db"
)

// DefaultBackends is the run order used by the bench command.
var DefaultBackends = []string{"naive", "distributed", "chunked", "lines"}

// BenchConfig holds runtime configuration for a benchmark run. Values come
// from defaults, then the optional YAML file, then WB_* environment
// variables, then explicitly set CLI flags.
type BenchConfig struct {
	DataDir     string   `yaml:"data_dir"`
	Stopwords   string   `yaml:"stopwords"`
	Backends    []string `yaml:"backends"`
	Reference   string   `yaml:"reference"`
	ChunkSize   int      `yaml:"chunk_size"`
	Workers     int      `yaml:"workers"`
	DBPath      string   `yaml:"db"`
	MetricsFile string   `yaml:"metrics_file"`
}

// DefaultBenchConfig returns the built-in configuration.
func DefaultBenchConfig() *BenchConfig {
	return &BenchConfig{
		DataDir:   DefaultDataDir,
		Stopwords: DefaultStopwords,
		Backends:  append([]string(nil), DefaultBackends...),
		Reference: DefaultReference,
		ChunkSize: DefaultChunkSize,
		DBPath:    DefaultDBName,
	}
}

// LoadBenchConfig reads a YAML config file (if provided) over the defaults
// and applies environment overrides.
func LoadBenchConfig(path string) (*BenchConfig, error) {
	cfg := DefaultBenchConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrConfig, err, fmt.Sprintf("reading config file %s", path))
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrConfig, err, fmt.Sprintf("parsing config file %s", path))
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides reads WB_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *BenchConfig) {
	if v := os.Getenv("WB_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("WB_STOPWORDS"); v != "" {
		cfg.Stopwords = v
	}
	if v := os.Getenv("WB_BACKENDS"); v != "" {
		cfg.Backends = SplitList(v)
	}
	if v := os.Getenv("WB_REFERENCE"); v != "" {
		cfg.Reference = v
	}
	if v := os.Getenv("WB_CHUNK_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ChunkSize = n
		}
	}
	if v := os.Getenv("WB_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		}
	}
	if v := os.Getenv("WB_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("WB_METRICS_FILE"); v != "" {
		cfg.MetricsFile = v
	}
}

// Validate checks the fields a run cannot start without.
func (c *BenchConfig) Validate() error {
	if c.DataDir == "" {
		return apperrors.New(apperrors.ErrConfig, "data_dir is empty")
	}
	if c.Stopwords == "" {
		return apperrors.New(apperrors.ErrConfig, "stopwords is empty")
	}
	if len(c.Backends) == 0 {
		return apperrors.New(apperrors.ErrConfig, "no backends selected")
	}
	found := false
	for _, b := range c.Backends {
		if strings.EqualFold(b, c.Reference) {
			found = true
			break
		}
	}
	if !found {
		return apperrors.Newf(apperrors.ErrConfig, "reference backend %q is not among the selected backends %v", c.Reference, c.Backends)
	}
	if c.ChunkSize < 1 {
		return apperrors.Newf(apperrors.ErrConfig, "chunk_size must be positive, got %d", c.ChunkSize)
	}
	return nil
}

// PrepareConfig holds runtime configuration for corpus preparation.
// All values come from CLI flags, not external config files.
type PrepareConfig struct {
	MetadataPath string
	DataDir      string
	CacheDir     string
	SizesMB      []int
	Language     string
	WorkerCount  int
}

// SplitList splits a comma separated flag value, dropping blanks.
func SplitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
