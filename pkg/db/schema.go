package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- One row per bench invocation
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at TIMESTAMP NOT NULL,
    elapsed_ns INTEGER NOT NULL DEFAULT 0,
    reference TEXT NOT NULL,
    stopwords TEXT,
    backends TEXT NOT NULL,           -- comma separated, in run order
    file_count INTEGER NOT NULL DEFAULT 0,
    failed_count INTEGER NOT NULL DEFAULT 0,
    discrepancy_count INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

-- One row per (file, backend) count
CREATE TABLE IF NOT EXISTS records (
    record_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    file TEXT NOT NULL,
    size_mb INTEGER NOT NULL,
    backend TEXT NOT NULL,
    elapsed_ns INTEGER NOT NULL,
    unique_words INTEGER NOT NULL DEFAULT 0,
    total_words INTEGER NOT NULL DEFAULT 0,
    error_type TEXT,                  -- io_error, config_error, count_error, ...
    error_message TEXT,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_records_run ON records(run_id);
CREATE INDEX IF NOT EXISTS idx_records_backend ON records(backend);

-- Backends whose table disagreed with the reference on a file
CREATE TABLE IF NOT EXISTS discrepancies (
    discrepancy_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    file TEXT NOT NULL,
    backend TEXT NOT NULL,
    reference TEXT NOT NULL,
    reference_unique INTEGER NOT NULL,
    backend_unique INTEGER NOT NULL,
    differing_keys INTEGER NOT NULL,
    sample_keys TEXT,                 -- JSON array
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_discrepancies_run ON discrepancies(run_id);
`
