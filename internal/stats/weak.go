package stats

import (
	"github.com/verte-zerg/vocatype/internal/model"
)

// SelectWeakKeys selects the most mistyped keys from aggregates.
// Keys without errors are never weak.
func SelectWeakKeys(aggs []model.KeyErrorAggregate, top int) map[rune]struct{} {
	weakSet := map[rune]struct{}{}
	if len(aggs) == 0 {
		return weakSet
	}
	candidates := make([]model.KeyErrorAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Errors > 0 {
			candidates = append(candidates, agg)
		}
	}
	sortByErrors(candidates)
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	for i := 0; i < top; i++ {
		runes := []rune(candidates[i].Key)
		if len(runes) > 0 {
			weakSet[runes[0]] = struct{}{}
		}
	}
	return weakSet
}
