package count

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/wordbench/internal/common"
	"github.com/dtnitsch/wordbench/pkg/analytics"
	"github.com/dtnitsch/wordbench/pkg/counter"
	apperrors "github.com/dtnitsch/wordbench/pkg/errors"
	"github.com/dtnitsch/wordbench/pkg/mapreduce"
)

// Result is the structured output of the count command.
type Result struct {
	File        string                   `json:"file" yaml:"file"`
	Backend     string                   `json:"backend" yaml:"backend"`
	Stopwords   string                   `json:"stopwords" yaml:"stopwords"`
	Elapsed     time.Duration            `json:"elapsed_ns" yaml:"elapsed"`
	UniqueWords int                      `json:"unique_words" yaml:"unique_words"`
	TotalWords  int                      `json:"total_words" yaml:"total_words"`
	Top         []mapreduce.KeywordCount `json:"top" yaml:"top"`
}

// CountAction counts one file with one backend and prints the most frequent
// words. --top 0 prints the whole table.
func CountAction(c *cli.Context) error {
	logger := common.NewLogger(c.Bool("quiet"))

	path := c.Args().First()
	if path == "" {
		logger.Error("missing FILE argument")
		return cli.Exit("usage: wordbench count [flags] FILE", common.ExitConfig)
	}
	format, err := common.ParseFormat(c.String("format"))
	if err != nil {
		logger.Error("invalid format", "error", err)
		return cli.Exit("", common.ExitConfig)
	}

	stopwords, err := analytics.LoadStopwords(c.String("stopwords"))
	if err != nil {
		logger.Error("failed to load stopwords", "error", err)
		return cli.Exit("", common.ExitConfig)
	}

	opts := counter.Options{
		ChunkSize: c.Int("chunk-size"),
		Logger:    common.WithComponent(logger, "counter"),
	}
	if strings.EqualFold(strings.TrimSpace(c.String("backend")), counter.NameDistributed) {
		cluster := counter.NewCluster(c.Int("workers"), logger)
		defer cluster.Close()
		opts.Cluster = cluster
	}
	ctr, err := counter.New(c.String("backend"), opts)
	if err != nil {
		logger.Error("invalid backend", "error", err)
		return cli.Exit("", common.ExitConfig)
	}

	start := time.Now()
	table, err := ctr.Count(c.Context, path, stopwords)
	elapsed := time.Since(start)
	if err != nil {
		logger.Error("count failed", "file", path, "backend", ctr.Name(), "error_type", apperrors.ErrorType(err), "error", err)
		return cli.Exit("", common.ExitCode(err))
	}
	logger.Info("count finished", "file", path, "backend", ctr.Name(), "elapsed", elapsed, "unique_words", table.Unique())

	top := c.Int("top")
	if top == 0 {
		top = -1
	}
	result := Result{
		File:        path,
		Backend:     ctr.Name(),
		Stopwords:   stopwords.Source,
		Elapsed:     elapsed,
		UniqueWords: table.Unique(),
		TotalWords:  table.Total(),
		Top:         mapreduce.Top(table, top),
	}
	return writeResult(os.Stdout, format, result)
}

func writeResult(w io.Writer, format string, r Result) error {
	if format != common.FormatText {
		return common.WriteStructured(w, format, r)
	}
	fmt.Fprintf(w, "%s (%s, %.3fs): %d unique words, %d total\n",
		r.File, r.Backend, r.Elapsed.Seconds(), r.UniqueWords, r.TotalWords)
	return mapreduce.WriteRanked(w, r.Top)
}
