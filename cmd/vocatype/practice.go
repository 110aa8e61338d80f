package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/vocatype/internal/config"
	"github.com/verte-zerg/vocatype/internal/generator"
	"github.com/verte-zerg/vocatype/internal/model"
	"github.com/verte-zerg/vocatype/internal/stats"
	"github.com/verte-zerg/vocatype/internal/store"
	"github.com/verte-zerg/vocatype/internal/tui"
	"github.com/verte-zerg/vocatype/internal/wordlist"
)

var (
	practiceLang       string
	practiceDeck       string
	practiceWords      int
	practiceCaps       float64
	practicePunct      float64
	practicePunctSet   string
	practiceFocusWeak  bool
	practiceWeakTop    int
	practiceWeakFactor float64
	practiceWeakWindow int
)

func addPracticeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&practiceLang, "lang", defaultLang, "language code")
	cmd.Flags().StringVar(&practiceDeck, "deck", "", "deck file (default: <config>/vocatype/decks/<lang>.tsv, then imported words)")
	cmd.Flags().IntVar(&practiceWords, "words", defaultWords, "words per chapter")
	cmd.Flags().Float64Var(&practiceCaps, "caps", defaultCaps, "probability of capitalized first letter (0-1)")
	cmd.Flags().Float64Var(&practicePunct, "punct", defaultPunct, "punctuation probability per word (0-1)")
	cmd.Flags().StringVar(&practicePunctSet, "punct-set", defaultPunctSet, "punctuation set")
	cmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias practice toward keys with many errors")
	cmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak keys to focus on")
	cmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak keys")
	cmd.Flags().IntVar(&practiceWeakWindow, "weak-window", defaultWeakWindow, "number of recent sessions used for weak keys and missed words")
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	a := current
	p := a.file.Practice
	applyStringConfig(cmd, "lang", &practiceLang, p.Lang)
	applyIntConfig(cmd, "words", &practiceWords, p.Words)
	applyFloatConfig(cmd, "caps", &practiceCaps, p.CapsPct)
	applyFloatConfig(cmd, "punct", &practicePunct, p.PunctPct)
	applyStringConfig(cmd, "punct-set", &practicePunctSet, p.PunctSet)
	applyBoolConfig(cmd, "focus-weak", &practiceFocusWeak, p.FocusWeak)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, p.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &practiceWeakFactor, p.WeakFactor)
	applyIntConfig(cmd, "weak-window", &practiceWeakWindow, p.WeakWindow)

	cfg := model.Config{
		Lang:       practiceLang,
		Words:      practiceWords,
		CapsPct:    practiceCaps,
		PunctPct:   practicePunct,
		PunctSet:   practicePunctSet,
		FocusWeak:  practiceFocusWeak,
		WeakTop:    practiceWeakTop,
		WeakFactor: practiceWeakFactor,
		WeakWindow: practiceWeakWindow,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	st, closeStore, err := a.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	deck, deckPath, err := loadDeck(cmd, st, cfg.Lang)
	if err != nil {
		return err
	}

	weakSet := map[rune]struct{}{}
	if cfg.FocusWeak {
		aggs, err := st.GetWeakKeys(cmd.Context(), cfg.WeakWindow, cfg.Lang)
		if err != nil {
			a.log.Error("failed to load weak keys", zap.Error(err))
		} else {
			weakSet = stats.SelectWeakKeys(aggs, cfg.WeakTop)
			if len(weakSet) == 0 {
				a.log.Info("no key errors recorded yet; using the normal generator")
			}
		}
	}

	m := tui.NewModel(tui.Options{
		Config:   cfg,
		Store:    st,
		Gen:      generator.New(),
		Deck:     deck,
		DeckPath: deckPath,
		PunctSet: []rune(cfg.PunctSet),
		WeakSet:  weakSet,
		Log:      a.log,
	})
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// loadDeck prefers a deck file and falls back to words imported into the store.
func loadDeck(cmd *cobra.Command, st *store.Store, lang string) ([]model.Word, string, error) {
	path := practiceDeck
	if path == "" {
		path = config.DefaultDeckPath(lang)
	}
	words, err := wordlist.LoadWords(path, lang)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist) && practiceDeck == "":
		words, err = st.ListWords(cmd.Context(), lang)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load imported words: %w", err)
		}
		path = "db:" + lang
	default:
		return nil, "", deckLoadError(lang, path, err)
	}

	words = wordlist.Filter(words, wordlist.FilterForLang(lang))
	if len(words) == 0 {
		return nil, "", deckLoadError(lang, path, fmt.Errorf("no typeable words"))
	}
	return words, path, nil
}

func deckLoadError(lang, path string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load deck: %v", err),
		fmt.Sprintf("expected deck at: %s", path),
		"Run: vocatype langs",
		fmt.Sprintf("Import: vocatype import <file.xlsx|csv|tsv> --lang %s", lang),
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func validateConfig(cfg model.Config) error {
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.CapsPct < 0 || cfg.CapsPct > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	if cfg.PunctPct < 0 || cfg.PunctPct > 1 {
		return fmt.Errorf("--punct must be between 0 and 1")
	}
	if cfg.PunctPct > 0 && cfg.PunctSet == "" {
		return fmt.Errorf("--punct-set must not be empty")
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	return nil
}
