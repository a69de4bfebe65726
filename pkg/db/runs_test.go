package db

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dtnitsch/wordbench/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	database, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	return database
}

func sampleRun(started time.Time) (Run, []models.BenchmarkRecord, []models.Discrepancy) {
	run := Run{
		StartedAt: started,
		Elapsed:   3 * time.Second,
		Reference: "naive",
		Stopwords: "english",
		Backends:  []string{"naive", "chunked"},
		FileCount: 1,
	}
	records := []models.BenchmarkRecord{
		{Backend: "naive", File: "1MB.txt", SizeMB: 1, Elapsed: 2 * time.Second, UniqueWords: 10, TotalWords: 40},
		{Backend: "chunked", File: "1MB.txt", SizeMB: 1, Elapsed: time.Second, ErrorType: "io_error", ErrorMessage: "i/o failure: boom"},
	}
	discrepancies := []models.Discrepancy{
		{File: "1MB.txt", Backend: "lines", Reference: "naive", ReferenceUnique: 10, BackendUnique: 11, DifferingKeys: 1, SampleKeys: []string{"don"}},
	}
	return run, records, discrepancies
}

func TestInsertRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	run, records, discrepancies := sampleRun(started)

	runID, err := db.InsertRun(run, records, discrepancies)
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}
	if runID == 0 {
		t.Fatal("InsertRun() returned 0 run ID")
	}

	got, err := db.GetRun(runID)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if !got.StartedAt.Equal(started) {
		t.Errorf("run.StartedAt = %v, want %v", got.StartedAt, started)
	}
	if got.Elapsed != 3*time.Second {
		t.Errorf("run.Elapsed = %v, want 3s", got.Elapsed)
	}
	if got.Reference != "naive" || got.Stopwords != "english" {
		t.Errorf("run reference/stopwords = %q/%q, want naive/english", got.Reference, got.Stopwords)
	}
	if len(got.Backends) != 2 || got.Backends[1] != "chunked" {
		t.Errorf("run.Backends = %v, want [naive chunked]", got.Backends)
	}
	if got.FailedCount != 1 {
		t.Errorf("run.FailedCount = %d, want 1", got.FailedCount)
	}
	if got.DiscrepancyCount != 1 {
		t.Errorf("run.DiscrepancyCount = %d, want 1", got.DiscrepancyCount)
	}
}

func TestGetRunRecords(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	run, records, discrepancies := sampleRun(time.Now())
	runID, err := db.InsertRun(run, records, discrepancies)
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}

	got, err := db.GetRunRecords(runID)
	if err != nil {
		t.Fatalf("GetRunRecords() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("GetRunRecords() returned %d records, want 2", len(got))
	}
	if got[0].Backend != "naive" || got[0].UniqueWords != 10 || got[0].TotalWords != 40 {
		t.Errorf("records[0] = %+v", got[0])
	}
	if got[0].Elapsed != 2*time.Second {
		t.Errorf("records[0].Elapsed = %v, want 2s", got[0].Elapsed)
	}
	if got[0].Failed() {
		t.Error("records[0].Failed() = true, want false")
	}
	if !got[1].Failed() || got[1].ErrorType != "io_error" {
		t.Errorf("records[1] error type = %q, want io_error", got[1].ErrorType)
	}

	ds, err := db.GetRunDiscrepancies(runID)
	if err != nil {
		t.Fatalf("GetRunDiscrepancies() error = %v", err)
	}
	if len(ds) != 1 || ds[0].Backend != "lines" || ds[0].BackendUnique != 11 {
		t.Errorf("GetRunDiscrepancies() = %+v", ds)
	}
	if len(ds[0].SampleKeys) != 1 || ds[0].SampleKeys[0] != "don" {
		t.Errorf("SampleKeys = %v, want [don]", ds[0].SampleKeys)
	}
}

func TestListRuns(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	var ids []int64
	for i := 0; i < 3; i++ {
		run, records, _ := sampleRun(time.Now())
		id, err := db.InsertRun(run, records, nil)
		if err != nil {
			t.Fatalf("InsertRun() error = %v", err)
		}
		ids = append(ids, id)
	}

	runs, err := db.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("ListRuns() returned %d runs, want 3", len(runs))
	}
	if runs[0].RunID != ids[2] {
		t.Errorf("ListRuns()[0].RunID = %d, want most recent %d", runs[0].RunID, ids[2])
	}

	limited, err := db.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns(2) error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("ListRuns(2) returned %d runs, want 2", len(limited))
	}

	latest, err := db.LatestRunID()
	if err != nil {
		t.Fatalf("LatestRunID() error = %v", err)
	}
	if latest != ids[2] {
		t.Errorf("LatestRunID() = %d, want %d", latest, ids[2])
	}
}

func TestGetRun_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := db.GetRun(42); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("GetRun() error = %v, want ErrRunNotFound", err)
	}
	if _, err := db.LatestRunID(); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("LatestRunID() error = %v, want ErrRunNotFound", err)
	}
}

func TestOpen_CreatesSchemaOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.db")

	first, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	run, records, _ := sampleRun(time.Now())
	if _, err := first.InsertRun(run, records, nil); err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}
	first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer second.Close()
	if second.Path() != path {
		t.Errorf("Path() = %q, want %q", second.Path(), path)
	}
	runs, err := second.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("ListRuns() after reopen = %d runs, want 1", len(runs))
	}
}

func TestOpen_ForeignKeysCascade(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	run, records, discrepancies := sampleRun(time.Now())
	id, err := database.InsertRun(run, records, discrepancies)
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}
	if _, err := database.Exec("DELETE FROM runs WHERE run_id = ?", id); err != nil {
		t.Fatalf("delete run: %v", err)
	}

	got, err := database.GetRunRecords(id)
	if err != nil {
		t.Fatalf("GetRunRecords() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("GetRunRecords() after delete = %d records, want 0", len(got))
	}
}
