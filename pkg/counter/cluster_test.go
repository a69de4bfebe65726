package counter

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dtnitsch/wordbench/pkg/errors"
)

func TestCluster_RunsEveryJob(t *testing.T) {
	cluster := NewCluster(3, nil)
	defer cluster.Close()

	var ran atomic.Int32
	jobs := make([]Job, 10)
	for i := range jobs {
		jobs[i] = func(context.Context) error {
			ran.Add(1)
			return nil
		}
	}

	require.NoError(t, cluster.Run(context.Background(), jobs))
	assert.Equal(t, int32(10), ran.Load())
}

func TestCluster_FirstErrorWins(t *testing.T) {
	cluster := NewCluster(2, nil)
	defer cluster.Close()

	boom := errors.New("worker crashed")
	err := cluster.Run(context.Background(), []Job{
		func(context.Context) error { return boom },
		func(ctx context.Context) error { return nil },
	})
	assert.ErrorIs(t, err, boom)
}

func TestCluster_CloseIsIdempotent(t *testing.T) {
	cluster := NewCluster(2, nil)
	require.NoError(t, cluster.Close())
	require.NoError(t, cluster.Close())

	err := cluster.Run(context.Background(), []Job{func(context.Context) error { return nil }})
	assert.ErrorIs(t, err, apperrors.ErrClosed)
}

func TestCluster_DefaultsToNumCPU(t *testing.T) {
	cluster := NewCluster(0, nil)
	defer cluster.Close()
	assert.Positive(t, cluster.Workers())
}

func TestSplitLines(t *testing.T) {
	inputs := []string{
		"",
		"no newline at all",
		"a\nb\nc\nd\ne\nf\n",
		"short\n" + strings.Repeat("y", 300) + "\nend",
		"\n\n\n\n",
	}

	for _, input := range inputs {
		for parts := 1; parts <= 9; parts++ {
			sections, err := splitLines(strings.NewReader(input), int64(len(input)), parts)
			require.NoError(t, err)
			assert.LessOrEqual(t, len(sections), parts)

			var rebuilt strings.Builder
			var prev int64
			for i, s := range sections {
				require.Equal(t, prev, s.start, "section %d does not continue the previous one", i)
				require.Greater(t, s.end, s.start)
				if s.end < int64(len(input)) {
					assert.Equal(t, byte('\n'), input[s.end-1], "section %d ends mid-line", i)
				}
				rebuilt.WriteString(input[s.start:s.end])
				prev = s.end
			}
			assert.Equal(t, input, rebuilt.String(), "parts=%d", parts)
		}
	}
}
