package count

import (
	"bytes"
	"testing"
	"time"

	"github.com/dtnitsch/wordbench/internal/common"
	"github.com/dtnitsch/wordbench/pkg/mapreduce"
)

func TestWriteResult_Text(t *testing.T) {
	r := Result{
		File:        "1MB.txt",
		Backend:     "chunked",
		Elapsed:     1500 * time.Millisecond,
		UniqueWords: 2,
		TotalWords:  3,
		Top:         []mapreduce.KeywordCount{{Word: "cat", Count: 2}, {Word: "dog", Count: 1}},
	}
	var buf bytes.Buffer
	if err := writeResult(&buf, common.FormatText, r); err != nil {
		t.Fatalf("writeResult() error = %v", err)
	}
	want := "1MB.txt (chunked, 1.500s): 2 unique words, 3 total\n1. cat: 2\n2. dog: 1\n"
	if buf.String() != want {
		t.Errorf("writeResult() = %q, want %q", buf.String(), want)
	}
}

func TestWriteResult_YAML(t *testing.T) {
	r := Result{File: "a.txt", Backend: "naive", UniqueWords: 1, TotalWords: 1,
		Top: []mapreduce.KeywordCount{{Word: "cat", Count: 1}}}
	var buf bytes.Buffer
	if err := writeResult(&buf, common.FormatYAML, r); err != nil {
		t.Fatalf("writeResult() error = %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("- word: cat\n")) {
		t.Errorf("yaml output missing top entry:\n%s", buf.String())
	}
}
