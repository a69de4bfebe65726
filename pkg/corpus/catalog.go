package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	apperrors "github.com/dtnitsch/wordbench/pkg/errors"
)

// linkColumn is the catalogue column holding the ebook link, e.g.
// "http://www.gutenberg.org/ebooks/2701".
const linkColumn = 2

// ReadEbookIDs returns the ebook ids of a Gutenberg metadata CSV in file
// order. Rows whose link does not end in a numeric id (the header, blank
// rows) are skipped. Duplicate ids are kept once.
func ReadEbookIDs(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var ids []string
	seen := make(map[string]struct{})
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing metadata csv: %w", err)
		}
		if len(row) <= linkColumn {
			continue
		}
		id := ebookID(row[linkColumn])
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// LoadEbookIDs opens path and reads its ebook ids.
func LoadEbookIDs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrConfig, err, fmt.Sprintf("opening metadata %s", path))
	}
	defer f.Close()
	return ReadEbookIDs(f)
}

func ebookID(link string) string {
	link = strings.TrimRight(strings.TrimSpace(link), "/")
	id := link[strings.LastIndex(link, "/")+1:]
	if id == "" {
		return ""
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return id
}
