package mapreduce

import (
	"github.com/dtnitsch/wordbench/pkg/analytics"
)

// Reduce aggregates a slice of word frequency tables into a single table.
// The inputs are left untouched.
func Reduce(intermediate []analytics.FrequencyTable) analytics.FrequencyTable {
	size := 0
	for _, counts := range intermediate {
		size = max(size, len(counts))
	}
	finalResults := make(analytics.FrequencyTable, size)

	for _, counts := range intermediate {
		for word, count := range counts {
			finalResults[word] += count
		}
	}

	return finalResults
}
