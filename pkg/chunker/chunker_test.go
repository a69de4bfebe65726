package chunker

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

var inputs = map[string]string{
	"empty":               "",
	"single newline":      "\n",
	"no trailing newline": "alpha beta\ngamma",
	"trailing newline":    "alpha beta\ngamma\n",
	"blank lines":         "\n\n\nx\n\n",
	"long line":           strings.Repeat("word ", 50) + "\nshort\n" + strings.Repeat("z", 97),
	"multibyte":           "καλημέρα κόσμε\nnaïve café\n日本語のテキスト",
	"crlf":                "one\r\ntwo\r\nthree",
}

func collect(t *testing.T, r *Reader) [][]byte {
	t.Helper()
	var chunks [][]byte
	for {
		chunk, err := r.Next()
		if errors.Is(err, io.EOF) {
			return chunks
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		chunks = append(chunks, chunk)
	}
}

func checkChunks(t *testing.T, input string, chunks [][]byte) {
	t.Helper()
	joined := bytes.Join(chunks, nil)
	if string(joined) != input {
		t.Fatalf("concatenated chunks = %q, want %q", joined, input)
	}
	for i, c := range chunks {
		if len(c) == 0 {
			t.Errorf("chunk %d is empty", i)
		}
		if i < len(chunks)-1 && c[len(c)-1] != '\n' {
			t.Errorf("chunk %d = %q does not end at a newline", i, c)
		}
	}
}

func TestReader_ReconstructsInput(t *testing.T) {
	for name, input := range inputs {
		for budget := 1; budget <= len(input)+2; budget++ {
			chunks := collect(t, New(strings.NewReader(input), budget))
			checkChunks(t, input, chunks)
			if t.Failed() {
				t.Fatalf("input %q failed with budget %d", name, budget)
			}
		}
	}
}

func TestReader_AdversarialReaders(t *testing.T) {
	input := inputs["long line"]
	readers := map[string]func() io.Reader{
		"one byte":   func() io.Reader { return iotest.OneByteReader(strings.NewReader(input)) },
		"half":       func() io.Reader { return iotest.HalfReader(strings.NewReader(input)) },
		"data + eof": func() io.Reader { return iotest.DataErrReader(strings.NewReader(input)) },
	}
	for name, mk := range readers {
		t.Run(name, func(t *testing.T) {
			checkChunks(t, input, collect(t, New(mk(), 16)))
		})
	}
}

func TestReader_LongLineGrowsPastBudget(t *testing.T) {
	line := strings.Repeat("x", 100) + "\n"
	chunks := collect(t, New(strings.NewReader(line+"tail"), 8))

	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if string(chunks[0]) != line {
		t.Errorf("chunk 0 = %q, want the whole long line", chunks[0])
	}
	if string(chunks[1]) != "tail" {
		t.Errorf("chunk 1 = %q, want %q", chunks[1], "tail")
	}
}

func TestReader_ChunksAreNotReused(t *testing.T) {
	r := New(strings.NewReader("aa\nbb\ncc\n"), 3)
	first, err := r.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	saved := string(first)
	_ = collect(t, r)
	if string(first) != saved {
		t.Errorf("first chunk changed to %q, want %q", first, saved)
	}
}

func TestReader_ReadErrorIsSticky(t *testing.T) {
	boom := errors.New("disk on fire")
	src := io.MultiReader(strings.NewReader("ok line\npartial"), iotest.ErrReader(boom))
	r := New(src, 4)

	var err error
	for err == nil {
		_, err = r.Next()
	}
	if !errors.Is(err, boom) {
		t.Fatalf("Next() error = %v, want %v", err, boom)
	}
	if _, again := r.Next(); !errors.Is(again, boom) {
		t.Errorf("second Next() error = %v, want %v", again, boom)
	}
}

func TestReader_EmptyInput(t *testing.T) {
	r := New(strings.NewReader(""), DefaultBudget)
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next() error = %v, want io.EOF", err)
	}
}

func TestReader_All(t *testing.T) {
	var n int
	err := New(strings.NewReader("a\nb\nc"), 2).All(func(chunk []byte) error {
		n++
		return nil
	})
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if n != 3 {
		t.Errorf("All() visited %d chunks, want 3", n)
	}

	stop := errors.New("stop")
	err = New(strings.NewReader("a\nb\n"), 2).All(func([]byte) error { return stop })
	if !errors.Is(err, stop) {
		t.Errorf("All() error = %v, want %v", err, stop)
	}
}

func TestNew_ClampsBudget(t *testing.T) {
	r := New(strings.NewReader("x\n"), 0)
	if r.budget != 1 {
		t.Errorf("budget = %d, want 1", r.budget)
	}
}
