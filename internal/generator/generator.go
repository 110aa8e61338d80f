// Package generator builds typing sequences from a vocabulary deck.
package generator

import (
	"math/rand"
	"time"
	"unicode"

	"github.com/verte-zerg/vocatype/internal/model"
)

// Options controls selection and mutation of practice words.
type Options struct {
	Count    int
	CapsPct  float64
	PunctPct float64
	PunctSet []rune

	// WeakKeys biases selection toward words containing these keys.
	WeakKeys   map[rune]struct{}
	WeakFactor float64

	// Missed holds texts of recently mistyped words; each gets MissedBoost extra weight.
	Missed      map[string]bool
	MissedBoost float64
}

// Generator produces randomized typing text.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate selects opts.Count words. Selection is uniform unless weak keys or
// missed words are given. The returned words keep their IDs and translations;
// only Text is mutated by caps and punctuation rules.
func (g *Generator) Generate(words []model.Word, opts Options) []model.Word {
	if len(words) == 0 || opts.Count <= 0 {
		return nil
	}
	weights, total := weigh(words, opts)

	result := make([]model.Word, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		w := words[g.pick(weights, total)]
		w.Text = applyCaps(g.rnd, w.Text, opts.CapsPct)
		w.Text = applyPunct(g.rnd, w.Text, opts.PunctPct, opts.PunctSet)
		result = append(result, w)
	}
	return result
}

func weigh(words []model.Word, opts Options) ([]float64, float64) {
	weights := make([]float64, len(words))
	total := 0.0
	for i, word := range words {
		weakCount := 0
		for _, r := range word.Text {
			if _, ok := opts.WeakKeys[r]; ok {
				weakCount++
			}
		}
		w := 1.0 + float64(weakCount)*opts.WeakFactor
		if opts.Missed[word.Text] {
			w += opts.MissedBoost
		}
		weights[i] = w
		total += w
	}
	return weights, total
}

func (g *Generator) pick(weights []float64, total float64) int {
	r := g.rnd.Float64() * total
	acc := 0.0
	for j, w := range weights {
		acc += w
		if r <= acc {
			return j
		}
	}
	return len(weights) - 1
}

func applyCaps(rnd *rand.Rand, word string, capsPct float64) string {
	if capsPct <= 0 {
		return word
	}
	if rnd.Float64() > capsPct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func applyPunct(rnd *rand.Rand, word string, punctPct float64, punctSet []rune) string {
	if punctPct <= 0 || len(punctSet) == 0 {
		return word
	}
	if rnd.Float64() > punctPct {
		return word
	}
	punct := punctSet[rnd.Intn(len(punctSet))]
	return word + string(punct)
}
