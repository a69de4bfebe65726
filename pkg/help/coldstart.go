package help

const ColdstartYAML = `# wordbench Quick Start

backends:
  naive: "Whole file in memory, lowercase, strip punctuation, split (reference)"
  chunked: "64 KiB newline-aligned chunks, one pass, bounded memory"
  lines: "Line by line with a growing scanner buffer"
  distributed: "File split on line boundaries across a worker cluster, results reduced"

commands:
  prepare_corpus: |
    wordbench prepare --metadata gutenberg_metadata.csv --data-dir data --sizes 1,2,4,8

  count_one_file: |
    wordbench count --stopwords builtin --top 25 data/8MB.txt

  count_as_yaml: |
    wordbench count --backend distributed --workers 8 --format yaml data/8MB.txt

  run_benchmark: |
    wordbench bench --data-dir data --stopwords english

  strict_benchmark: |
    wordbench bench --strict --backends naive,chunked --metrics-file wordbench.prom

  list_runs: |
    wordbench history

  show_run: |
    wordbench history show 3

config_file:
  precedence: "defaults < --config YAML < WB_* environment < explicit flags"
  keys: [data_dir, stopwords, backends, reference, chunk_size, workers, db, metrics_file]
  env: [WB_DATA_DIR, WB_STOPWORDS, WB_BACKENDS, WB_REFERENCE, WB_CHUNK_SIZE, WB_WORKERS, WB_DB, WB_METRICS_FILE]

stopwords:
  file: "One word per line, trimmed and lowercased; blank lines ignored"
  builtin: "--stopwords builtin uses the embedded English list"
  missing_file: "Configuration error, exit code 2"
  empty_file: "Valid, nothing is filtered"

tokens:
  - "Maximal runs of letters, marks, decimal digits, letter numbers and connector punctuation"
  - "Lowercased rune by rune before classification"
  - "Apostrophes split words: don't counts as don + t"

exit_codes:
  0: "Success"
  1: "Count, I/O or persistence failure"
  2: "Configuration error (flags, config file, stopwords, fixtures)"
  3: "At least one backend disagreed with the reference"

key_files:
  - "data/<N>MB.txt (fixtures, sorted by N)"
  - "data/manifest.yaml (books in each fixture, skipped books)"
  - "wordbench.db (run history)"
`
