package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dtnitsch/wordbench/models"
)

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = errors.New("run not found")

// Run is the summary row of one benchmark invocation.
type Run struct {
	RunID            int64
	StartedAt        time.Time
	Elapsed          time.Duration
	Reference        string
	Stopwords        string
	Backends         []string
	FileCount        int
	FailedCount      int
	DiscrepancyCount int
}

// InsertRun stores a run with its records and discrepancies in one
// transaction and returns the new run id. FailedCount and DiscrepancyCount
// are derived from the slices.
func (db *DB) InsertRun(run Run, records []models.BenchmarkRecord, discrepancies []models.Discrepancy) (int64, error) {
	failed := 0
	for _, r := range records {
		if r.Failed() {
			failed++
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after Commit

	result, err := tx.Exec(`
		INSERT INTO runs (started_at, elapsed_ns, reference, stopwords, backends,
		                  file_count, failed_count, discrepancy_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.StartedAt.UTC(), int64(run.Elapsed), run.Reference, NewNullString(run.Stopwords),
		strings.Join(run.Backends, ","), run.FileCount, failed, len(discrepancies))
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	for _, r := range records {
		_, err := tx.Exec(`
			INSERT INTO records (run_id, file, size_mb, backend, elapsed_ns,
			                     unique_words, total_words, error_type, error_message)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, runID, r.File, r.SizeMB, r.Backend, int64(r.Elapsed), r.UniqueWords, r.TotalWords,
			NewNullString(r.ErrorType), NewNullString(r.ErrorMessage))
		if err != nil {
			return 0, fmt.Errorf("failed to insert record %s/%s: %w", r.File, r.Backend, err)
		}
	}

	for _, d := range discrepancies {
		keysJSON, err := json.Marshal(d.SampleKeys)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal sample keys: %w", err)
		}
		_, err = tx.Exec(`
			INSERT INTO discrepancies (run_id, file, backend, reference, reference_unique,
			                           backend_unique, differing_keys, sample_keys)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, runID, d.File, d.Backend, d.Reference, d.ReferenceUnique, d.BackendUnique,
			d.DifferingKeys, string(keysJSON))
		if err != nil {
			return 0, fmt.Errorf("failed to insert discrepancy %s/%s: %w", d.File, d.Backend, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

const runColumns = `run_id, started_at, elapsed_ns, reference, stopwords, backends,
	file_count, failed_count, discrepancy_count`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var r Run
	var elapsed int64
	var stopwords sql.NullString
	var backends string
	if err := row.Scan(&r.RunID, &r.StartedAt, &elapsed, &r.Reference, &stopwords, &backends,
		&r.FileCount, &r.FailedCount, &r.DiscrepancyCount); err != nil {
		return Run{}, err
	}
	r.Elapsed = time.Duration(elapsed)
	r.Stopwords = stopwords.String
	if backends != "" {
		r.Backends = strings.Split(backends, ",")
	}
	return r, nil
}

// GetRun retrieves one run by id.
func (db *DB) GetRun(runID int64) (*Run, error) {
	row := db.QueryRow("SELECT "+runColumns+" FROM runs WHERE run_id = ?", runID)
	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %d: %w", runID, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &r, nil
}

// ListRuns retrieves runs, most recent first. A limit <= 0 returns all.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY run_id DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LatestRunID returns the id of the most recent run.
func (db *DB) LatestRunID() (int64, error) {
	var runID int64
	err := db.QueryRow("SELECT run_id FROM runs ORDER BY run_id DESC LIMIT 1").Scan(&runID)
	if err == sql.ErrNoRows {
		return 0, ErrRunNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get latest run: %w", err)
	}
	return runID, nil
}

// GetRunRecords retrieves the records of a run in insertion order.
func (db *DB) GetRunRecords(runID int64) ([]models.BenchmarkRecord, error) {
	rows, err := db.Query(`
		SELECT file, size_mb, backend, elapsed_ns, unique_words, total_words,
		       error_type, error_message
		FROM records
		WHERE run_id = ?
		ORDER BY record_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run records: %w", err)
	}
	defer rows.Close()

	var records []models.BenchmarkRecord
	for rows.Next() {
		var r models.BenchmarkRecord
		var elapsed int64
		var errorType, errorMessage sql.NullString
		if err := rows.Scan(&r.File, &r.SizeMB, &r.Backend, &elapsed, &r.UniqueWords,
			&r.TotalWords, &errorType, &errorMessage); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		r.Elapsed = time.Duration(elapsed)
		r.ErrorType = errorType.String
		r.ErrorMessage = errorMessage.String
		records = append(records, r)
	}
	return records, rows.Err()
}

// GetRunDiscrepancies retrieves the discrepancies of a run.
func (db *DB) GetRunDiscrepancies(runID int64) ([]models.Discrepancy, error) {
	rows, err := db.Query(`
		SELECT file, backend, reference, reference_unique, backend_unique,
		       differing_keys, sample_keys
		FROM discrepancies
		WHERE run_id = ?
		ORDER BY discrepancy_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run discrepancies: %w", err)
	}
	defer rows.Close()

	var out []models.Discrepancy
	for rows.Next() {
		var d models.Discrepancy
		var keysJSON sql.NullString
		if err := rows.Scan(&d.File, &d.Backend, &d.Reference, &d.ReferenceUnique,
			&d.BackendUnique, &d.DifferingKeys, &keysJSON); err != nil {
			return nil, fmt.Errorf("failed to scan discrepancy: %w", err)
		}
		if keysJSON.Valid && keysJSON.String != "" {
			if err := json.Unmarshal([]byte(keysJSON.String), &d.SampleKeys); err != nil {
				return nil, fmt.Errorf("failed to parse sample keys: %w", err)
			}
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// NewNullString returns a NULL for the empty string.
func NewNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
