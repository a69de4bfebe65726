package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	benchcmd "github.com/dtnitsch/wordbench/internal/bench"
	corpuscmd "github.com/dtnitsch/wordbench/internal/corpus"
	countcmd "github.com/dtnitsch/wordbench/internal/count"
	dbcmd "github.com/dtnitsch/wordbench/internal/db"
	"github.com/dtnitsch/wordbench/models"
	"github.com/dtnitsch/wordbench/pkg/analytics"
	"github.com/dtnitsch/wordbench/pkg/chunker"
	"github.com/dtnitsch/wordbench/pkg/counter"
	"github.com/dtnitsch/wordbench/pkg/help"
)

func quietFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "quiet",
		Aliases: []string{"q"},
		Usage:   "Only log errors",
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "db",
		Value: models.DefaultDBName,
		Usage: "SQLite file holding the run history",
	}
}

func main() {
	app := &cli.App{
		Name:  "wordbench",
		Usage: "Count word frequencies in large text files and benchmark counting backends",
		Commands: []*cli.Command{
			{
				Name:      "count",
				Usage:     "Count the words of one file",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "stopwords",
						Value: analytics.BuiltinName,
						Usage: "Stopword file, one word per line, or 'builtin'",
					},
					&cli.StringFlag{
						Name:  "backend",
						Value: counter.NameChunked,
						Usage: "Backend: naive, chunked, lines or distributed",
					},
					&cli.IntFlag{
						Name:  "chunk-size",
						Value: chunker.DefaultBudget,
						Usage: "Read budget in bytes for the chunked and distributed backends",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Cluster workers for the distributed backend (0 = number of CPUs)",
					},
					&cli.IntFlag{
						Name:  "top",
						Value: 25,
						Usage: "Number of most frequent words to print (0 = all)",
					},
					&cli.StringFlag{
						Name:  "format",
						Value: "text",
						Usage: "Output format: text, json or yaml",
					},
					quietFlag(),
				},
				Action: countcmd.CountAction,
			},
			{
				Name:      "bench",
				Usage:     "Benchmark the backends over the <N>MB.txt fixtures",
				ArgsUsage: "[FILE...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "config",
						Usage: "YAML config file",
					},
					&cli.StringFlag{
						Name:  "data-dir",
						Value: models.DefaultDataDir,
						Usage: "Directory holding the fixtures",
					},
					&cli.StringFlag{
						Name:  "stopwords",
						Value: models.DefaultStopwords,
						Usage: "Stopword file, one word per line, or 'builtin'",
					},
					&cli.StringFlag{
						Name:  "backends",
						Usage: "Comma separated backends to run, in order (default: naive,distributed,chunked,lines)",
					},
					&cli.StringFlag{
						Name:  "reference",
						Value: models.DefaultReference,
						Usage: "Backend every other backend is compared with",
					},
					&cli.IntFlag{
						Name:  "chunk-size",
						Value: models.DefaultChunkSize,
						Usage: "Read budget in bytes",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Cluster workers (0 = number of CPUs)",
					},
					&cli.BoolFlag{
						Name:  "strict",
						Usage: "Compare whole frequency tables, not only unique-word counts",
					},
					&cli.StringFlag{
						Name:  "metrics-file",
						Usage: "Write Prometheus metrics in textfile format to this path",
					},
					&cli.StringFlag{
						Name:  "format",
						Value: "text",
						Usage: "Report format: text, json or yaml",
					},
					dbFlag(),
					quietFlag(),
				},
				Action: benchcmd.BenchAction,
			},
			{
				Name:  "prepare",
				Usage: "Download books and build the <N>MB.txt fixtures",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "metadata",
						Usage:    "Gutenberg catalogue CSV (ebook link in the third column)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "data-dir",
						Value: models.DefaultDataDir,
						Usage: "Directory the fixtures are written to",
					},
					&cli.StringFlag{
						Name:  "sizes",
						Usage: "Comma separated fixture sizes in MB (default: 1,2,4,...,512)",
					},
					&cli.StringFlag{
						Name:  "language",
						Value: "english",
						Usage: "Keep only books detected as this language (empty = keep all)",
					},
					&cli.StringFlag{
						Name:  "cache-dir",
						Value: ".wordbench-cache",
						Usage: "Download cache directory (empty = no cache)",
					},
					&cli.DurationFlag{
						Name:  "cache-ttl",
						Usage: "Cache entry lifetime (0 = never expire)",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Value: 2 * time.Minute,
						Usage: "Per-book download timeout",
					},
					&cli.IntFlag{
						Name:  "workers",
						Value: 4,
						Usage: "Concurrent downloads",
					},
					&cli.IntFlag{
						Name:  "max-books",
						Usage: "Only consider the first N catalogue entries (0 = all)",
					},
					quietFlag(),
				},
				Action: corpuscmd.PrepareAction,
			},
			{
				Name:  "history",
				Usage: "List stored benchmark runs",
				Flags: []cli.Flag{
					dbFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Value: 20,
						Usage: "Maximum runs to list (0 = all)",
					},
				},
				Action: dbcmd.RunsAction,
				Subcommands: []*cli.Command{
					{
						Name:      "show",
						Usage:     "Show the records of a run (default: latest)",
						ArgsUsage: "[RUN_ID]",
						Flags:     []cli.Flag{dbFlag()},
						Action:    dbcmd.ShowAction,
					},
				},
			},
			{
				Name:  "quickstart",
				Usage: "Print a quick start guide as YAML",
				Action: func(c *cli.Context) error {
					fmt.Print(help.ColdstartYAML)
					return nil
				},
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
