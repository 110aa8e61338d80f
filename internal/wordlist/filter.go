package wordlist

import (
	"strings"
	"unicode"

	"github.com/verte-zerg/vocatype/internal/model"
)

// FilterFunc returns true when a word should be kept for typing practice.
type FilterFunc func(model.Word) bool

// FilterForLang returns a language-specific filter for decks.
func FilterForLang(lang string) FilterFunc {
	switch strings.ToLower(lang) {
	case "en":
		return filterEnglishASCII
	default:
		return filterTypeable
	}
}

// Filter keeps the words accepted by fn.
func Filter(words []model.Word, fn FilterFunc) []model.Word {
	out := make([]model.Word, 0, len(words))
	for _, w := range words {
		if fn(w) {
			out = append(out, w)
		}
	}
	return out
}

func filterEnglishASCII(w model.Word) bool {
	if w.Text == "" {
		return false
	}
	for i := 0; i < len(w.Text); i++ {
		ch := w.Text[i]
		if ch < 'a' || ch > 'z' {
			return false
		}
	}
	return true
}

// filterTypeable rejects words containing spaces, digits or control characters.
func filterTypeable(w model.Word) bool {
	if w.Text == "" {
		return false
	}
	for _, r := range w.Text {
		if !unicode.IsLetter(r) && r != '\'' && r != '-' {
			return false
		}
	}
	return true
}
