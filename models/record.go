package models

import "time"

// BenchmarkRecord is the outcome of one backend on one input file.
type BenchmarkRecord struct {
	Backend      string        `json:"backend" yaml:"backend"`
	File         string        `json:"file" yaml:"file"`
	SizeMB       int           `json:"size_mb" yaml:"size_mb"`
	Elapsed      time.Duration `json:"elapsed" yaml:"elapsed"`
	UniqueWords  int           `json:"unique_words" yaml:"unique_words"`
	TotalWords   int           `json:"total_words" yaml:"total_words"`
	Error        error         `json:"-" yaml:"-"`
	ErrorType    string        `json:"error_type,omitempty" yaml:"error_type,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty" yaml:"error_message,omitempty"`
}

// Failed reports whether the backend returned an error.
func (r BenchmarkRecord) Failed() bool {
	return r.Error != nil || r.ErrorType != ""
}

// Discrepancy flags a backend whose table disagrees with the reference
// backend's table on the same file.
type Discrepancy struct {
	File            string   `json:"file" yaml:"file"`
	Backend         string   `json:"backend" yaml:"backend"`
	Reference       string   `json:"reference" yaml:"reference"`
	ReferenceUnique int      `json:"reference_unique" yaml:"reference_unique"`
	BackendUnique   int      `json:"backend_unique" yaml:"backend_unique"`
	DifferingKeys   int      `json:"differing_keys" yaml:"differing_keys"`
	SampleKeys      []string `json:"sample_keys,omitempty" yaml:"sample_keys,omitempty"`
}
