package counter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dtnitsch/wordbench/pkg/analytics"
	apperrors "github.com/dtnitsch/wordbench/pkg/errors"
	"github.com/dtnitsch/wordbench/pkg/mapreduce"
)

const probeSize = 4 * 1024

// Distributed splits the file into line-aligned byte ranges, one per cluster
// worker, counts each range independently and reduces the partial tables.
type Distributed struct {
	Cluster *Cluster
	Budget  int
	Logger  *slog.Logger
}

func (d *Distributed) Name() string { return NameDistributed }

func (d *Distributed) Count(ctx context.Context, path string, stopwords *analytics.StopwordSet) (analytics.FrequencyTable, error) {
	if err := requireStopwords(stopwords); err != nil {
		return nil, err
	}
	if d.Cluster == nil {
		return nil, apperrors.New(apperrors.ErrConfig, "distributed backend needs a cluster")
	}
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrIO, err, fmt.Sprintf("stat %s", path))
	}

	sections, err := splitLines(f, info.Size(), d.Cluster.Workers())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrIO, err, fmt.Sprintf("splitting %s", path))
	}

	partials := make([]analytics.FrequencyTable, len(sections))
	jobs := make([]Job, len(sections))
	budget := chunkBudget(d.Budget)
	for i, s := range sections {
		jobs[i] = func(ctx context.Context) error {
			agg := analytics.NewAggregator()
			if _, err := countStream(ctx, io.NewSectionReader(f, s.start, s.end-s.start), budget, stopwords, agg); err != nil {
				return fmt.Errorf("section [%d,%d): %w", s.start, s.end, err)
			}
			partials[i] = agg.Finalize()
			return nil
		}
	}

	if err := d.Cluster.Run(ctx, jobs); err != nil {
		if errors.Is(err, apperrors.ErrClosed) || ctx.Err() != nil {
			return nil, err
		}
		return nil, apperrors.Wrap(apperrors.ErrIO, err, fmt.Sprintf("counting %s", path))
	}

	table := mapreduce.Reduce(partials)
	if d.Logger != nil {
		d.Logger.Debug("distributed count finished", "file", path, "sections", len(sections), "unique_words", table.Unique())
	}
	return table, nil
}

type section struct {
	start, end int64
}

// splitLines cuts [0, size) into at most parts non-empty ranges. Every cut
// is moved forward to just after the next '\n', so no line spans two
// ranges.
func splitLines(r io.ReaderAt, size int64, parts int) ([]section, error) {
	if size == 0 {
		return nil, nil
	}
	if parts < 1 {
		parts = 1
	}

	var sections []section
	var start int64
	for i := 1; i <= parts && start < size; i++ {
		end := size
		if i < parts {
			target := max(size*int64(i)/int64(parts), start)
			var err error
			end, err = nextLineStart(r, target, size)
			if err != nil {
				return nil, err
			}
		}
		if end > start {
			sections = append(sections, section{start: start, end: end})
			start = end
		}
	}
	return sections, nil
}

// nextLineStart returns the smallest offset >= off that starts a line, or
// size when the rest of the input holds no newline.
func nextLineStart(r io.ReaderAt, off, size int64) (int64, error) {
	if off == 0 {
		return 0, nil
	}
	buf := make([]byte, probeSize)
	// the byte before off decides whether off already starts a line
	for pos := off - 1; pos < size; {
		n, err := r.ReadAt(buf, pos)
		if idx := bytes.IndexByte(buf[:n], '\n'); idx >= 0 {
			return pos + int64(idx) + 1, nil
		}
		pos += int64(n)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, err
		}
	}
	return size, nil
}
