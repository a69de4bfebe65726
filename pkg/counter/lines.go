package counter

import (
	"bufio"
	"context"
	"fmt"
	"math"

	"github.com/dtnitsch/wordbench/pkg/analytics"
	apperrors "github.com/dtnitsch/wordbench/pkg/errors"
)

const lineBufferSize = 64 * 1024

// Lines counts one line at a time with a bufio.Scanner. The scanner buffer
// grows without limit so an oversized line is counted instead of failing
// with bufio.ErrTooLong.
type Lines struct{}

func (l *Lines) Name() string { return NameLines }

func (l *Lines) Count(ctx context.Context, path string, stopwords *analytics.StopwordSet) (analytics.FrequencyTable, error) {
	if err := requireStopwords(stopwords); err != nil {
		return nil, err
	}
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	agg := analytics.NewAggregator()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, lineBufferSize), math.MaxInt)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		agg.AddAll(analytics.Tokens(scanner.Bytes()), stopwords)
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrIO, err, fmt.Sprintf("scanning %s", path))
	}
	return agg.Finalize(), nil
}
