// Package counter implements the word counting backends. Every backend
// satisfies Counter and must return the same table for the same input.
package counter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/dtnitsch/wordbench/pkg/analytics"
	"github.com/dtnitsch/wordbench/pkg/chunker"
	apperrors "github.com/dtnitsch/wordbench/pkg/errors"
)

// Backend names.
const (
	NameNaive       = "naive"
	NameChunked     = "chunked"
	NameLines       = "lines"
	NameDistributed = "distributed"
)

// Counter counts the words of the file at path, skipping stopwords.
// The returned table is owned by the caller.
type Counter interface {
	Name() string
	Count(ctx context.Context, path string, stopwords *analytics.StopwordSet) (analytics.FrequencyTable, error)
}

// Options configures the backends built by New.
type Options struct {
	ChunkSize int
	Cluster   *Cluster
	Logger    *slog.Logger
}

// Names lists the known backends, reference first.
func Names() []string {
	return []string{NameNaive, NameChunked, NameLines, NameDistributed}
}

// New builds the backend registered under name.
func New(name string, opts Options) (Counter, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameNaive:
		return &Naive{}, nil
	case NameChunked:
		return &Chunked{Budget: opts.ChunkSize, Logger: logger}, nil
	case NameLines:
		return &Lines{}, nil
	case NameDistributed:
		if opts.Cluster == nil {
			return nil, apperrors.New(apperrors.ErrConfig, "distributed backend needs a cluster")
		}
		return &Distributed{Cluster: opts.Cluster, Budget: opts.ChunkSize, Logger: logger}, nil
	default:
		return nil, apperrors.Newf(apperrors.ErrConfig, "unknown backend %q (known: %s)", name, strings.Join(Names(), ", "))
	}
}

// Build resolves every name in order. Duplicate names are rejected.
func Build(names []string, opts Options) ([]Counter, error) {
	counters := make([]Counter, 0, len(names))
	seen := make([]string, 0, len(names))
	for _, name := range names {
		c, err := New(name, opts)
		if err != nil {
			return nil, err
		}
		if slices.Contains(seen, c.Name()) {
			return nil, apperrors.Newf(apperrors.ErrConfig, "backend %q listed twice", c.Name())
		}
		seen = append(seen, c.Name())
		counters = append(counters, c)
	}
	return counters, nil
}

func requireStopwords(stopwords *analytics.StopwordSet) error {
	if stopwords == nil {
		return apperrors.New(apperrors.ErrConfig, "stopword set is missing")
	}
	return nil
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrIO, err, fmt.Sprintf("opening %s", path))
	}
	return f, nil
}

func chunkBudget(budget int) int {
	if budget <= 0 {
		return chunker.DefaultBudget
	}
	return budget
}
