// Package stats contains statistics calculations and reporting.
package stats

import "github.com/verte-zerg/vocatype/internal/model"

// TopKeysByErrors returns the n keys with the most errors.
func TopKeysByErrors(aggs []model.KeyErrorAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	sorted := make([]model.KeyErrorAggregate, len(aggs))
	copy(sorted, aggs)
	sortByErrors(sorted)
	if n > len(sorted) {
		n = len(sorted)
	}
	out := make([]string, 0, n)
	for _, agg := range sorted[:n] {
		out = append(out, agg.Key)
	}
	return out
}

// TopKeysFromCounts ranks a single session's error counts.
func TopKeysFromCounts(counts map[string]int, n int) []string {
	aggs := make([]model.KeyErrorAggregate, 0, len(counts))
	for key, errs := range counts {
		aggs = append(aggs, model.KeyErrorAggregate{Key: key, Errors: errs})
	}
	return TopKeysByErrors(aggs, n)
}
