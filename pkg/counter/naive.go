package counter

import (
	"context"
	"fmt"
	"os"

	"github.com/dtnitsch/wordbench/pkg/analytics"
	apperrors "github.com/dtnitsch/wordbench/pkg/errors"
)

// Naive reads the whole file into memory, lowercases it, strips
// punctuation, splits on whitespace and counts. It is the reference every
// other backend is checked against.
type Naive struct{}

func (n *Naive) Name() string { return NameNaive }

func (n *Naive) Count(ctx context.Context, path string, stopwords *analytics.StopwordSet) (analytics.FrequencyTable, error) {
	if err := requireStopwords(stopwords); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrIO, err, fmt.Sprintf("reading %s", path))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	agg := analytics.NewAggregator()
	for _, word := range analytics.Normalize(string(data)) {
		if stopwords.Contains(word) {
			continue
		}
		agg.Add(word)
	}
	return agg.Finalize(), nil
}
