package counter

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dtnitsch/wordbench/pkg/analytics"
	"github.com/dtnitsch/wordbench/pkg/chunker"
	apperrors "github.com/dtnitsch/wordbench/pkg/errors"
)

// Chunked streams the file through a chunker.Reader and counts each chunk
// before reading the next one. Memory stays near Budget plus the longest
// line regardless of file size.
type Chunked struct {
	Budget int
	Logger *slog.Logger
}

func (c *Chunked) Name() string { return NameChunked }

func (c *Chunked) Count(ctx context.Context, path string, stopwords *analytics.StopwordSet) (analytics.FrequencyTable, error) {
	if err := requireStopwords(stopwords); err != nil {
		return nil, err
	}
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	agg := analytics.NewAggregator()
	chunks, err := countStream(ctx, f, chunkBudget(c.Budget), stopwords, agg)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, apperrors.Wrap(apperrors.ErrIO, err, fmt.Sprintf("counting %s", path))
	}

	table := agg.Finalize()
	if c.Logger != nil {
		c.Logger.Debug("chunked count finished", "file", path, "chunks", chunks, "unique_words", table.Unique())
	}
	return table, nil
}

// countStream feeds every chunk of r into agg and returns the number of
// chunks seen. Cancellation is checked between chunks.
func countStream(ctx context.Context, r io.Reader, budget int, stopwords *analytics.StopwordSet, agg *analytics.Aggregator) (int, error) {
	chunks := 0
	err := chunker.New(r, budget).All(func(chunk []byte) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		agg.AddAll(analytics.Tokens(chunk), stopwords)
		chunks++
		return nil
	})
	return chunks, err
}
