package stats

import (
	"testing"

	"github.com/verte-zerg/vocatype/internal/model"
)

func TestTopKeysByErrors(t *testing.T) {
	aggs := []model.KeyErrorAggregate{
		{Key: "b", Errors: 4},
		{Key: "a", Errors: 4},
		{Key: "c", Errors: 1},
	}
	top := TopKeysByErrors(aggs, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(top))
	}
	if top[0] != "a" || top[1] != "b" {
		t.Fatalf("unexpected order: %v", top)
	}
}

func TestTopKeysFromCounts(t *testing.T) {
	top := TopKeysFromCounts(map[string]int{"x": 1, " ": 9, "q": 3}, 5)
	if len(top) != 3 || top[0] != " " || top[1] != "q" || top[2] != "x" {
		t.Fatalf("unexpected order: %v", top)
	}
}

func TestSelectWeakKeys(t *testing.T) {
	aggs := []model.KeyErrorAggregate{
		{Key: "e", Errors: 12},
		{Key: "r", Errors: 0},
		{Key: "t", Errors: 3},
		{Key: "y", Errors: 5},
	}
	weak := SelectWeakKeys(aggs, 2)
	if len(weak) != 2 {
		t.Fatalf("expected 2 weak keys, got %v", weak)
	}
	for _, r := range []rune{'e', 'y'} {
		if _, ok := weak[r]; !ok {
			t.Fatalf("expected %q to be weak: %v", r, weak)
		}
	}
	all := SelectWeakKeys(aggs, 0)
	if _, ok := all['r']; ok || len(all) != 3 {
		t.Fatalf("keys without errors must not be weak: %v", all)
	}
}
