// Package bench runs several counting backends over the same fixtures,
// times them and checks that they agree with a reference backend.
package bench

import (
	"context"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/dtnitsch/wordbench/models"
	"github.com/dtnitsch/wordbench/pkg/analytics"
	"github.com/dtnitsch/wordbench/pkg/corpus"
	"github.com/dtnitsch/wordbench/pkg/counter"
	apperrors "github.com/dtnitsch/wordbench/pkg/errors"
	"github.com/dtnitsch/wordbench/pkg/metrics"
)

// sampleKeys caps the differing keys kept on a Discrepancy.
const sampleKeys = 5

// Options configures a Harness.
type Options struct {
	Backends  []counter.Counter
	Reference string
	Stopwords *analytics.StopwordSet
	// Strict compares whole tables instead of unique counts only.
	Strict  bool
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// Harness runs every backend on every fixture, one count at a time.
type Harness struct {
	opts   Options
	logger *slog.Logger
}

func New(opts Options) *Harness {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Reference == "" {
		opts.Reference = counter.NameNaive
	}
	return &Harness{opts: opts, logger: logger}
}

// Speedup is ref divided by other. A zero other yields +Inf.
func Speedup(ref, other time.Duration) float64 {
	if other == 0 {
		return math.Inf(1)
	}
	return float64(ref) / float64(other)
}

// Run benchmarks the fixtures in the given order. Backend failures and
// discrepancies are recorded on the report and never stop the run; only a
// configuration problem or cancellation does. On cancellation the rows
// finished so far are returned with the context error.
func (h *Harness) Run(ctx context.Context, fixtures []corpus.Fixture) (*Report, error) {
	if err := h.validate(); err != nil {
		return nil, err
	}

	report := &Report{
		StartedAt: time.Now().UTC(),
		Reference: h.opts.Reference,
		Stopwords: h.opts.Stopwords.Source,
	}
	for _, c := range h.opts.Backends {
		report.Backends = append(report.Backends, c.Name())
	}

	start := time.Now()
	defer func() { report.Elapsed = time.Since(start) }()

	for _, fx := range fixtures {
		row, err := h.runFile(ctx, fx)
		if err != nil {
			return report, err
		}
		report.Rows = append(report.Rows, row)
	}
	return report, nil
}

func (h *Harness) validate() error {
	if h.opts.Stopwords == nil {
		return apperrors.New(apperrors.ErrConfig, "no stopword set")
	}
	if len(h.opts.Backends) == 0 {
		return apperrors.New(apperrors.ErrConfig, "no backends to run")
	}
	for _, c := range h.opts.Backends {
		if strings.EqualFold(c.Name(), h.opts.Reference) {
			h.opts.Reference = c.Name()
			return nil
		}
	}
	return apperrors.Newf(apperrors.ErrConfig, "reference backend %q is not being run", h.opts.Reference)
}

// runFile counts fx with every backend, then compares each successful table
// with the reference table. Tables are dropped when it returns.
func (h *Harness) runFile(ctx context.Context, fx corpus.Fixture) (FileRow, error) {
	row := FileRow{Fixture: fx}
	tables := make(map[string]analytics.FrequencyTable, len(h.opts.Backends))

	for _, c := range h.opts.Backends {
		if err := ctx.Err(); err != nil {
			return row, err
		}
		h.logger.Info("Running backend", "file", fx.Name(), "backend", c.Name())

		start := time.Now()
		table, err := c.Count(ctx, fx.Path, h.opts.Stopwords)
		elapsed := time.Since(start)

		rec := models.BenchmarkRecord{
			Backend: c.Name(),
			File:    fx.Name(),
			SizeMB:  fx.SizeMB,
			Elapsed: elapsed,
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return row, ctxErr
			}
			rec.Error = err
			rec.ErrorType = apperrors.ErrorType(err)
			rec.ErrorMessage = err.Error()
			h.logger.Error("Backend failed", "file", fx.Name(), "backend", c.Name(), "error_type", rec.ErrorType, "error", err)
		} else {
			rec.UniqueWords = table.Unique()
			rec.TotalWords = table.Total()
			tables[c.Name()] = table
			h.logger.Info("Backend finished", "file", fx.Name(), "backend", c.Name(), "elapsed", elapsed, "unique_words", rec.UniqueWords)
		}
		if h.opts.Metrics != nil {
			h.opts.Metrics.ObserveCount(fx.Name(), c.Name(), elapsed, rec.UniqueWords, rec.ErrorType)
		}
		row.Records = append(row.Records, rec)
	}

	ref, ok := tables[h.opts.Reference]
	if !ok {
		row.ReferenceFailed = true
		h.logger.Warn("Reference backend failed, skipping comparison", "file", fx.Name(), "reference", h.opts.Reference)
		return row, nil
	}
	row.Speedups = row.speedups(h.opts.Reference)
	for _, c := range h.opts.Backends {
		name := c.Name()
		table, ok := tables[name]
		if !ok || name == h.opts.Reference {
			continue
		}
		if d, found := h.compare(fx, name, ref, table); found {
			row.Discrepancies = append(row.Discrepancies, d)
			h.logger.Warn("Backend disagrees with reference",
				"file", fx.Name(),
				"backend", name,
				"reference", h.opts.Reference,
				"reference_unique", d.ReferenceUnique,
				"backend_unique", d.BackendUnique,
				"differing_keys", d.DifferingKeys,
			)
			if h.opts.Metrics != nil {
				h.opts.Metrics.RecordDiscrepancy(name)
			}
		}
	}
	return row, nil
}

func (h *Harness) compare(fx corpus.Fixture, backend string, ref, table analytics.FrequencyTable) (models.Discrepancy, bool) {
	if ref.Unique() == table.Unique() && (!h.opts.Strict || ref.Equal(table)) {
		return models.Discrepancy{}, false
	}
	diff := ref.Diff(table)
	return models.Discrepancy{
		File:            fx.Name(),
		Backend:         backend,
		Reference:       h.opts.Reference,
		ReferenceUnique: ref.Unique(),
		BackendUnique:   table.Unique(),
		DifferingKeys:   len(diff),
		SampleKeys:      slices.Clone(diff[:min(len(diff), sampleKeys)]),
	}, true
}
