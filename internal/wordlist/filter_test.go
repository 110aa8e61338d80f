package wordlist

import (
	"testing"

	"github.com/verte-zerg/vocatype/internal/model"
)

func TestFilterEnglishASCII(t *testing.T) {
	filter := FilterForLang("en")
	if !filter(model.Word{Text: "hello"}) {
		t.Fatalf("expected hello to pass english filter")
	}
	for _, word := range []string{"résumé", "naïve", "don’t", "co-op", ""} {
		if filter(model.Word{Text: word}) {
			t.Fatalf("expected %q to be rejected", word)
		}
	}
}

func TestFilterTypeable(t *testing.T) {
	filter := FilterForLang("de")
	for _, word := range []string{"Straße", "Übung", "Hals-Nasen"} {
		if !filter(model.Word{Text: word}) {
			t.Fatalf("expected %q to pass", word)
		}
	}
	for _, word := range []string{"zwei Wörter", "abc1", ""} {
		if filter(model.Word{Text: word}) {
			t.Fatalf("expected %q to be rejected", word)
		}
	}
}

func TestFilter(t *testing.T) {
	words := []model.Word{{Text: "ok"}, {Text: "Nope"}, {Text: "fine"}}
	got := Filter(words, FilterForLang("en"))
	if len(got) != 2 || got[0].Text != "ok" || got[1].Text != "fine" {
		t.Fatalf("unexpected filter result: %+v", got)
	}
}
