package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// glyph is one rendered target rune.
type glyph struct {
	s       string
	width   int
	isSpace bool
}

const wrongSpaceMark = '•'

func buildGlyphs(target, input []rune, words []wordRange, cursor int) []glyph {
	current := wordForCursor(words, cursor)

	out := make([]glyph, 0, len(target))
	for i, want := range target {
		shown := want
		style := pendingStyle
		switch {
		case i < len(input):
			switch {
			case want == ' ' && input[i] != ' ':
				shown = wrongSpaceMark
				style = incorrectStyle
			case input[i] == want:
				style = correctStyle
			default:
				style = incorrectStyle
			}
		case want != ' ' && current != nil && current.contains(i):
			style = currentWordStyle
		}
		if i == cursor && i >= len(input) {
			style = style.Underline(true)
		}
		out = append(out, glyph{
			s:       style.Render(string(shown)),
			width:   runewidth.RuneWidth(shown),
			isSpace: want == ' ',
		})
	}
	return out
}

// wordRange is the half-open rune span of one word in the target text.
type wordRange struct {
	start int
	end   int
}

func (w wordRange) contains(i int) bool {
	return i >= w.start && i < w.end
}

// layoutWords joins texts with single spaces and records each word's span.
func layoutWords(texts []string) ([]rune, []wordRange) {
	var target []rune
	ranges := make([]wordRange, 0, len(texts))
	for i, text := range texts {
		if i > 0 {
			target = append(target, ' ')
		}
		start := len(target)
		target = append(target, []rune(text)...)
		ranges = append(ranges, wordRange{start: start, end: len(target)})
	}
	return target, ranges
}

// wordIndexAt maps a rune position to its word. The separator after a word
// belongs to that word.
func wordIndexAt(words []wordRange, pos int) int {
	for i, w := range words {
		if pos < w.end || (i+1 < len(words) && pos < words[i+1].start) {
			return i
		}
	}
	return max(len(words)-1, 0)
}

func wordForCursor(words []wordRange, cursor int) *wordRange {
	if len(words) == 0 {
		return nil
	}
	if cursor < 0 {
		return &words[0]
	}
	for i := range words {
		if words[i].contains(cursor) || cursor < words[i].start {
			return &words[i]
		}
	}
	return &words[len(words)-1]
}

func renderGlyphs(glyphs []glyph) string {
	var b strings.Builder
	for _, g := range glyphs {
		b.WriteString(g.s)
	}
	return b.String()
}

// wrapGlyphs breaks lines at the last space that fits width, or mid-word when none does.
func wrapGlyphs(glyphs []glyph, width int) string {
	if width <= 0 {
		return renderGlyphs(glyphs)
	}
	var out strings.Builder
	line := make([]glyph, 0, len(glyphs))
	lineWidth := 0
	lastSpace := -1

	flush := func(upTo, resume int) {
		out.WriteString(renderGlyphs(line[:upTo]))
		out.WriteRune('\n')
		line = append([]glyph{}, line[resume:]...)
		lineWidth = 0
		lastSpace = -1
		for i, g := range line {
			lineWidth += g.width
			if g.isSpace {
				lastSpace = i
			}
		}
	}

	for i := 0; i < len(glyphs); {
		g := glyphs[i]
		if lineWidth+g.width > width && len(line) > 0 {
			if lastSpace >= 0 {
				flush(lastSpace, lastSpace+1)
			} else {
				flush(len(line), len(line))
			}
			continue
		}
		line = append(line, g)
		lineWidth += g.width
		if g.isSpace {
			lastSpace = len(line) - 1
		}
		i++
	}
	out.WriteString(renderGlyphs(line))
	return out.String()
}
