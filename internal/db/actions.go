package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	dbpkg "github.com/dtnitsch/wordbench/pkg/db"
)

// RunsAction lists the stored benchmark runs, newest first.
func RunsAction(c *cli.Context) error {
	database, err := dbpkg.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs found")
		return nil
	}

	// Print table header
	fmt.Printf("%-6s %-20s %-16s %-10s %-6s %-7s %-13s %s\n",
		"ID", "Started", "Age", "Elapsed", "Files", "Failed", "Discrepancies", "Backends")
	fmt.Println(strings.Repeat("-", 110))

	for _, r := range runs {
		fmt.Printf("%-6d %-20s %-16s %-10s %-6d %-7d %-13d %s\n",
			r.RunID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			humanize.Time(r.StartedAt),
			r.Elapsed.Round(time.Millisecond),
			r.FileCount,
			r.FailedCount,
			r.DiscrepancyCount,
			strings.Join(r.Backends, ","),
		)
	}

	fmt.Printf("\nTotal: %d runs\n", len(runs))
	fmt.Printf("\nTip: Use 'wordbench history show <id>' to see details\n")

	return nil
}

// ShowAction prints the records and discrepancies of one run.
func ShowAction(c *cli.Context) error {
	database, err := dbpkg.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	runID, err := GetRunIDOrLatest(c, database)
	if err != nil {
		return err
	}

	run, err := database.GetRun(runID)
	if err != nil {
		return err
	}
	records, err := database.GetRunRecords(runID)
	if err != nil {
		return err
	}
	discrepancies, err := database.GetRunDiscrepancies(runID)
	if err != nil {
		return err
	}

	fmt.Printf("Run %d\n", run.RunID)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Started:     %s (%s)\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"), humanize.Time(run.StartedAt))
	fmt.Printf("Elapsed:     %s\n", run.Elapsed.Round(time.Millisecond))
	fmt.Printf("Reference:   %s\n", run.Reference)
	fmt.Printf("Stopwords:   %s\n", run.Stopwords)
	fmt.Printf("Backends:    %s\n", strings.Join(run.Backends, ", "))

	fmt.Printf("\nRecords (%d):\n", len(records))
	fmt.Println(strings.Repeat("-", 60))
	for _, r := range records {
		if r.Failed() {
			fmt.Printf("%-12s %-12s [%s] %s\n", r.File, r.Backend, r.ErrorType, r.ErrorMessage)
			continue
		}
		fmt.Printf("%-12s %-12s %9.3fs  %s unique  %s total\n",
			r.File, r.Backend, r.Elapsed.Seconds(),
			humanize.Comma(int64(r.UniqueWords)), humanize.Comma(int64(r.TotalWords)))
	}

	if len(discrepancies) > 0 {
		fmt.Printf("\nDiscrepancies (%d):\n", len(discrepancies))
		fmt.Println(strings.Repeat("-", 60))
		for _, d := range discrepancies {
			fmt.Printf("%s: %s has %d unique words, %s has %d (%d keys differ, e.g. %s)\n",
				d.File, d.Backend, d.BackendUnique, d.Reference, d.ReferenceUnique,
				d.DifferingKeys, strings.Join(d.SampleKeys, ", "))
		}
	}

	return nil
}
