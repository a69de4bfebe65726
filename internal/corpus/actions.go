package corpus

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/wordbench/internal/common"
	"github.com/dtnitsch/wordbench/models"
	"github.com/dtnitsch/wordbench/pkg/caching"
	"github.com/dtnitsch/wordbench/pkg/corpus"
	"github.com/dtnitsch/wordbench/pkg/fetcher"
)

// PrepareAction downloads the books listed in the metadata CSV and writes
// the "<N>MB.txt" fixtures plus manifest.yaml into the data directory.
func PrepareAction(c *cli.Context) error {
	logger := common.NewLogger(c.Bool("quiet"))

	cfg := &models.PrepareConfig{
		MetadataPath: c.String("metadata"),
		DataDir:      c.String("data-dir"),
		CacheDir:     c.String("cache-dir"),
		SizesMB:      corpus.DefaultSizesMB,
		Language:     c.String("language"),
		WorkerCount:  c.Int("workers"),
	}
	if c.IsSet("sizes") {
		sizes, err := common.ParseSizes(c.String("sizes"))
		if err != nil {
			logger.Error("invalid --sizes", "error", err)
			return cli.Exit("", common.ExitConfig)
		}
		cfg.SizesMB = sizes
	}

	ids, err := corpus.LoadEbookIDs(cfg.MetadataPath)
	if err != nil {
		logger.Error("failed to load metadata", "error", err)
		return cli.Exit("", common.ExitCode(err))
	}
	if limit := c.Int("max-books"); limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	logger.Info("Loaded ebook ids", "metadata", cfg.MetadataPath, "books", len(ids))

	filter, err := corpus.NewLanguageFilter(cfg.Language)
	if err != nil {
		logger.Error("invalid --language", "error", err)
		return cli.Exit("", common.ExitConfig)
	}

	var cache *caching.Cache
	if cfg.CacheDir != "" {
		cache, err = caching.NewCache(cfg.CacheDir, c.Duration("cache-ttl"))
		if err != nil {
			logger.Error("failed to initialize cache", "error", err)
			return cli.Exit("", common.ExitFailure)
		}
	}

	p := &corpus.Preparer{
		Source:   fetcher.NewFetcher(c.Duration("timeout")),
		Cache:    cache,
		Filter:   filter,
		Workers:  cfg.WorkerCount,
		Logger:   common.WithComponent(logger, "corpus"),
		Language: cfg.Language,
	}
	manifest, err := p.Prepare(c.Context, cfg.DataDir, ids, cfg.SizesMB)
	if err != nil {
		logger.Error("corpus preparation failed", "error", err)
		return cli.Exit("", common.ExitCode(err))
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tSIZE\tBOOKS")
	for _, fx := range manifest.Fixtures {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", fx.Path, humanize.IBytes(uint64(fx.SizeBytes)), len(fx.BookIDs))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d fixtures written, %d books skipped\n", len(manifest.Fixtures), len(manifest.Skipped))
	return nil
}
