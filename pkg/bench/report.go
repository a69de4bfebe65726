package bench

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dtnitsch/wordbench/models"
	"github.com/dtnitsch/wordbench/pkg/corpus"
)

// StatusReferenceFailed marks a row whose reference backend failed, so no
// comparison was made.
const StatusReferenceFailed = "reference_failed"

// FileRow holds the records of every backend on one fixture.
type FileRow struct {
	Fixture         corpus.Fixture           `json:"fixture" yaml:"fixture"`
	Records         []models.BenchmarkRecord `json:"records" yaml:"records"`
	Discrepancies   []models.Discrepancy     `json:"discrepancies,omitempty" yaml:"discrepancies,omitempty"`
	ReferenceFailed bool                     `json:"reference_failed,omitempty" yaml:"reference_failed,omitempty"`

	// Speedups maps each successful non-reference backend to its speedup
	// over the reference. An infinite speedup is stored as nil.
	Speedups map[string]*float64 `json:"speedups,omitempty" yaml:"speedups,omitempty"`
}

// Record returns the record of backend on this row.
func (r FileRow) Record(backend string) (models.BenchmarkRecord, bool) {
	for _, rec := range r.Records {
		if rec.Backend == backend {
			return rec, true
		}
	}
	return models.BenchmarkRecord{}, false
}

// Speedup returns the reference time divided by backend's time. It is false
// when either of them failed.
func (r FileRow) Speedup(reference, backend string) (float64, bool) {
	ref, ok := r.Record(reference)
	if !ok || ref.Failed() {
		return 0, false
	}
	other, ok := r.Record(backend)
	if !ok || other.Failed() {
		return 0, false
	}
	return Speedup(ref.Elapsed, other.Elapsed), true
}

func (r FileRow) speedups(reference string) map[string]*float64 {
	out := make(map[string]*float64)
	for _, rec := range r.Records {
		if rec.Backend == reference {
			continue
		}
		s, ok := r.Speedup(reference, rec.Backend)
		if !ok {
			continue
		}
		if math.IsInf(s, 1) {
			out[rec.Backend] = nil
			continue
		}
		out[rec.Backend] = &s
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Status summarises the row: "ok", StatusReferenceFailed, "discrepancy" or
// "failed" when a non-reference backend errored.
func (r FileRow) Status() string {
	switch {
	case r.ReferenceFailed:
		return StatusReferenceFailed
	case len(r.Discrepancies) > 0:
		return "discrepancy"
	}
	for _, rec := range r.Records {
		if rec.Failed() {
			return "failed"
		}
	}
	return "ok"
}

// Report is the outcome of one Harness.Run.
type Report struct {
	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Elapsed   time.Duration `json:"elapsed" yaml:"elapsed"`
	Reference string        `json:"reference" yaml:"reference"`
	Stopwords string        `json:"stopwords" yaml:"stopwords"`
	Backends  []string      `json:"backends" yaml:"backends"`
	Rows      []FileRow     `json:"rows" yaml:"rows"`
}

// Records flattens every row's records in run order.
func (r *Report) Records() []models.BenchmarkRecord {
	var out []models.BenchmarkRecord
	for _, row := range r.Rows {
		out = append(out, row.Records...)
	}
	return out
}

// Discrepancies flattens every row's discrepancies in run order.
func (r *Report) Discrepancies() []models.Discrepancy {
	var out []models.Discrepancy
	for _, row := range r.Rows {
		out = append(out, row.Discrepancies...)
	}
	return out
}

func (r *Report) HasDiscrepancies() bool {
	for _, row := range r.Rows {
		if len(row.Discrepancies) > 0 {
			return true
		}
	}
	return false
}

// WriteTable prints one line per fixture: size, the time of every backend,
// the speedup of every non-reference backend over the reference, the
// reference unique-word count and the row status.
func WriteTable(w io.Writer, r *Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	others := make([]string, 0, len(r.Backends))
	for _, b := range r.Backends {
		if b != r.Reference {
			others = append(others, b)
		}
	}

	header := append([]string{"FILE", "SIZE"}, r.Backends...)
	for _, b := range others {
		header = append(header, "x"+b)
	}
	header = append(header, "UNIQUE", "STATUS")
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, row := range r.Rows {
		cells := []string{row.Fixture.Name(), humanize.IBytes(uint64(row.Fixture.SizeBytes))}
		for _, b := range r.Backends {
			cells = append(cells, formatElapsed(row, b))
		}
		for _, b := range others {
			s, ok := row.Speedup(r.Reference, b)
			cells = append(cells, formatSpeedup(s, ok))
		}
		cells = append(cells, formatUnique(row, r.Reference), formatStatus(row))
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func formatElapsed(row FileRow, backend string) string {
	rec, ok := row.Record(backend)
	if !ok {
		return "-"
	}
	if rec.Failed() {
		return rec.ErrorType
	}
	return fmt.Sprintf("%.3fs", rec.Elapsed.Seconds())
}

func formatSpeedup(s float64, ok bool) string {
	switch {
	case !ok:
		return "-"
	case math.IsInf(s, 1):
		return "inf"
	default:
		return fmt.Sprintf("%.2fx", s)
	}
}

func formatUnique(row FileRow, reference string) string {
	rec, ok := row.Record(reference)
	if !ok || rec.Failed() {
		return "-"
	}
	return humanize.Comma(int64(rec.UniqueWords))
}

func formatStatus(row FileRow) string {
	status := row.Status()
	if status != "discrepancy" {
		return status
	}
	names := make([]string, len(row.Discrepancies))
	for i, d := range row.Discrepancies {
		names[i] = d.Backend
	}
	return "DISCREPANCY(" + strings.Join(names, ",") + ")"
}
