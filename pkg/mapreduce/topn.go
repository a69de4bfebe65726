package mapreduce

import (
	"fmt"
	"io"
	"sort"

	"github.com/dtnitsch/wordbench/pkg/analytics"
)

// KeywordCount is one row of a ranked frequency table.
type KeywordCount struct {
	Word  string `json:"word" yaml:"word"`
	Count int    `json:"count" yaml:"count"`
}

// Top returns the n most frequent words, ties broken alphabetically so the
// output is stable across runs. A negative n returns every word.
func Top(wordCounts analytics.FrequencyTable, n int) []KeywordCount {
	ss := make([]KeywordCount, 0, len(wordCounts))
	for k, v := range wordCounts {
		ss = append(ss, KeywordCount{k, v})
	}

	sort.Slice(ss, func(i, j int) bool {
		if ss[i].Count != ss[j].Count {
			return ss[i].Count > ss[j].Count
		}
		return ss[i].Word < ss[j].Word
	})

	if n >= 0 && n < len(ss) {
		ss = ss[:n]
	}
	return ss
}

// WriteRanked prints ranked rows as a numbered list, one "n. word: count"
// line per row.
func WriteRanked(w io.Writer, rows []KeywordCount) error {
	for i, kc := range rows {
		if _, err := fmt.Fprintf(w, "%d. %s: %d\n", i+1, kc.Word, kc.Count); err != nil {
			return err
		}
	}
	return nil
}
