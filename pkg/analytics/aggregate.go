package analytics

import (
	"iter"
	"sort"
)

// FrequencyTable maps a token to its number of occurrences.
type FrequencyTable map[string]int

// Unique returns the number of distinct tokens.
func (t FrequencyTable) Unique() int {
	return len(t)
}

// Total returns the sum of all counts.
func (t FrequencyTable) Total() int {
	total := 0
	for _, c := range t {
		total += c
	}
	return total
}

// Equal reports whether both tables hold the same keys with the same counts.
func (t FrequencyTable) Equal(other FrequencyTable) bool {
	if len(t) != len(other) {
		return false
	}
	for k, c := range t {
		if oc, ok := other[k]; !ok || oc != c {
			return false
		}
	}
	return true
}

// Diff returns the sorted keys whose counts differ between the two tables,
// including keys present in only one of them.
func (t FrequencyTable) Diff(other FrequencyTable) []string {
	var keys []string
	for k, c := range t {
		if other[k] != c {
			keys = append(keys, k)
		}
	}
	for k := range other {
		if _, ok := t[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Aggregator accumulates token occurrences during a single counting pass.
// It is not safe for concurrent use; each pass owns its own Aggregator.
type Aggregator struct {
	table FrequencyTable
}

func NewAggregator() *Aggregator {
	return &Aggregator{table: make(FrequencyTable)}
}

// Add increments the count of token, creating the entry at 1.
func (a *Aggregator) Add(token string) {
	a.table[token]++
}

// AddAll adds every token of seq that is not in stopwords.
func (a *Aggregator) AddAll(seq iter.Seq[string], stopwords *StopwordSet) {
	for token := range seq {
		if stopwords.Contains(token) {
			continue
		}
		a.table[token]++
	}
}

// Finalize hands the accumulated table to the caller. The aggregator starts
// over with an empty table, so the returned one is never written again.
func (a *Aggregator) Finalize() FrequencyTable {
	out := a.table
	a.table = make(FrequencyTable)
	return out
}
