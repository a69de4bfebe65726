package bench

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/wordbench/internal/common"
	"github.com/dtnitsch/wordbench/models"
	"github.com/dtnitsch/wordbench/pkg/analytics"
	"github.com/dtnitsch/wordbench/pkg/bench"
	"github.com/dtnitsch/wordbench/pkg/corpus"
	"github.com/dtnitsch/wordbench/pkg/counter"
	"github.com/dtnitsch/wordbench/pkg/db"
	apperrors "github.com/dtnitsch/wordbench/pkg/errors"
	"github.com/dtnitsch/wordbench/pkg/metrics"
)

// BenchAction runs every selected backend over the fixtures, prints the
// table, stores the run and writes the metrics file. It exits with
// ExitDiscrepancy when any backend disagreed with the reference.
func BenchAction(c *cli.Context) error {
	logger := common.NewLogger(c.Bool("quiet"))

	format, err := common.ParseFormat(c.String("format"))
	if err != nil {
		logger.Error("invalid format", "error", err)
		return cli.Exit("", common.ExitConfig)
	}

	cfg, err := models.LoadBenchConfig(c.String("config"))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return cli.Exit("", common.ExitConfig)
	}
	applyFlags(c, cfg)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		return cli.Exit("", common.ExitConfig)
	}

	// the whole stopword list is in memory before the first count
	stopwords, err := analytics.LoadStopwords(cfg.Stopwords)
	if err != nil {
		logger.Error("failed to load stopwords", "error", err)
		return cli.Exit("", common.ExitConfig)
	}

	fixtures, err := loadFixtures(c, cfg)
	if err != nil {
		logger.Error("failed to find fixtures", "error", err)
		return cli.Exit("", common.ExitCode(err))
	}
	if len(fixtures) == 0 {
		logger.Error("no <N>MB.txt fixtures found", "data_dir", cfg.DataDir)
		return cli.Exit("", common.ExitConfig)
	}

	cluster := counter.NewCluster(cfg.Workers, logger)
	defer cluster.Close()

	backends, err := counter.Build(cfg.Backends, counter.Options{
		ChunkSize: cfg.ChunkSize,
		Cluster:   cluster,
		Logger:    common.WithComponent(logger, "counter"),
	})
	if err != nil {
		logger.Error("invalid backends", "error", err)
		return cli.Exit("", common.ExitConfig)
	}

	m := metrics.New()
	h := bench.New(bench.Options{
		Backends:  backends,
		Reference: cfg.Reference,
		Stopwords: stopwords,
		Strict:    c.Bool("strict"),
		Logger:    common.WithComponent(logger, "bench"),
		Metrics:   m,
	})

	logger.Info("Starting benchmark", "fixtures", len(fixtures), "backends", cfg.Backends, "reference", cfg.Reference, "stopwords", stopwords.Len())
	report, runErr := h.Run(c.Context, fixtures)
	if report == nil {
		logger.Error("benchmark failed", "error", runErr)
		return cli.Exit("", common.ExitCode(runErr))
	}

	if format == common.FormatText {
		err = bench.WriteTable(os.Stdout, report)
	} else {
		err = common.WriteStructured(os.Stdout, format, report)
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	exitCode := 0
	if cfg.DBPath != "" {
		if runID, err := saveRun(cfg.DBPath, report); err != nil {
			logger.Error("failed to save run", "db", cfg.DBPath, "error", err)
			exitCode = common.ExitFailure
		} else {
			logger.Info("Run saved", "db", cfg.DBPath, "run_id", runID)
		}
	}
	if cfg.MetricsFile != "" {
		if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Error("failed to write metrics", "error", err)
			exitCode = common.ExitFailure
		}
	}

	if runErr != nil {
		logger.Error("benchmark interrupted", "error", runErr, "rows", len(report.Rows))
		return cli.Exit("", common.ExitCode(runErr))
	}
	if report.HasDiscrepancies() {
		err := apperrors.Newf(apperrors.ErrDiscrepancy, "%d backend result(s) disagree with %s", len(report.Discrepancies()), report.Reference)
		return cli.Exit(err.Error(), common.ExitCode(err))
	}
	if exitCode != 0 {
		return cli.Exit("", exitCode)
	}
	return nil
}

// applyFlags overrides config values with the flags given explicitly.
func applyFlags(c *cli.Context, cfg *models.BenchConfig) {
	if c.IsSet("data-dir") {
		cfg.DataDir = c.String("data-dir")
	}
	if c.IsSet("stopwords") {
		cfg.Stopwords = c.String("stopwords")
	}
	if c.IsSet("backends") {
		cfg.Backends = models.SplitList(c.String("backends"))
	}
	if c.IsSet("reference") {
		cfg.Reference = c.String("reference")
	}
	if c.IsSet("chunk-size") {
		cfg.ChunkSize = c.Int("chunk-size")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}
	if c.IsSet("metrics-file") {
		cfg.MetricsFile = c.String("metrics-file")
	}
}

// loadFixtures uses the FILE arguments when given, otherwise every
// "<N>MB.txt" in the data directory.
func loadFixtures(c *cli.Context, cfg *models.BenchConfig) ([]corpus.Fixture, error) {
	if c.Args().Present() {
		return corpus.FromPaths(c.Args().Slice())
	}
	return corpus.Discover(cfg.DataDir)
}

func saveRun(path string, report *bench.Report) (int64, error) {
	database, err := db.Open(path)
	if err != nil {
		return 0, err
	}
	defer database.Close()

	run := db.Run{
		StartedAt: report.StartedAt,
		Elapsed:   report.Elapsed,
		Reference: report.Reference,
		Stopwords: report.Stopwords,
		Backends:  report.Backends,
		FileCount: len(report.Rows),
	}
	return database.InsertRun(run, report.Records(), report.Discrepancies())
}
