package tui

import (
	"strings"
	"testing"
)

func TestBuildGlyphsCursor(t *testing.T) {
	target, words := layoutWords([]string{"ab"})
	glyphs := buildGlyphs(target, []rune("a"), words, 1)
	if len(glyphs) != 2 {
		t.Fatalf("expected 2 glyphs, got %d", len(glyphs))
	}
	if glyphs[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if glyphs[1].s != cursorStyle.Render("b") {
		t.Fatalf("expected cursor style for second rune")
	}
}

func TestBuildGlyphsKeepsTargetOnMistype(t *testing.T) {
	target, words := layoutWords([]string{"ab"})
	glyphs := buildGlyphs(target, []rune("ax"), words, -1)
	if glyphs[1].s != incorrectStyle.Render("b") {
		t.Fatalf("expected incorrect style showing the target rune")
	}
}

func TestBuildGlyphsWordHighlighting(t *testing.T) {
	target, words := layoutWords([]string{"one", "two"})
	glyphs := buildGlyphs(target, []rune("o"), words, 1)
	if glyphs[2].s != currentWordStyle.Render("e") {
		t.Fatalf("expected current word style for untyped in current word")
	}
	if glyphs[4].s != pendingStyle.Render("t") {
		t.Fatalf("expected pending style for next word")
	}
}

func TestBuildGlyphsWrongSpaceMark(t *testing.T) {
	target, words := layoutWords([]string{"a", "b"})
	glyphs := buildGlyphs(target, []rune("ax"), words, 2)
	if glyphs[1].s != incorrectStyle.Render(string(wrongSpaceMark)) {
		t.Fatalf("expected mark for wrong space")
	}
}

func TestLayoutWordsAndIndex(t *testing.T) {
	target, words := layoutWords([]string{"hi", "über", "x"})
	if string(target) != "hi über x" {
		t.Fatalf("unexpected target %q", string(target))
	}
	want := []int{0, 0, 0, 1, 1, 1, 1, 1, 2}
	for pos, w := range want {
		if got := wordIndexAt(words, pos); got != w {
			t.Fatalf("pos %d: expected word %d, got %d", pos, w, got)
		}
	}
}

func TestWrapGlyphsBreaksAtSpaces(t *testing.T) {
	target, words := layoutWords([]string{"aaa", "bbb", "ccc"})
	glyphs := buildGlyphs(target, nil, words, -1)
	out := wrapGlyphs(glyphs, 7)
	if lines := strings.Split(out, "\n"); len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out)
	}
}
