// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/vocatype/internal/generator"
	"github.com/verte-zerg/vocatype/internal/model"
	"github.com/verte-zerg/vocatype/internal/practice"
	"github.com/verte-zerg/vocatype/internal/stats"
	"github.com/verte-zerg/vocatype/internal/summary"
)

// SessionStore is the persistence the typing UI needs.
type SessionStore interface {
	ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error)
	InsertSession(ctx context.Context, meta model.SessionMeta, sum model.SessionSummary) (int64, error)
	GetWeakKeys(ctx context.Context, window int, lang string) ([]model.KeyErrorAggregate, error)
	RecentWrongWords(ctx context.Context, window int, lang string) ([]string, error)
}

// missedBoost is the extra selection weight of a recently mistyped word.
const missedBoost = 2.0

// Model implements the Bubble Tea typing UI.
type Model struct {
	config   model.Config
	store    SessionStore
	gen      *generator.Generator
	deck     []model.Word
	deckPath string
	punctSet []rune
	weakSet  map[rune]struct{}
	missed   map[string]bool
	log      *zap.Logger
	now      func() time.Time

	width  int
	height int

	words   []model.Word
	target  []rune
	ranges  []wordRange
	input   []rune
	tracker *practice.Tracker

	started   bool
	startedAt time.Time

	// result is set while the chapter summary is on screen.
	result *model.SessionSummary

	lastWPM float64
	lastAcc float64
	hasLast bool

	allChars   int
	allErrors  int
	allElapsed int64
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = pendingStyle.Underline(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	boxStyle         = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#6E6E6E")).Padding(1, 3)
)

// Options carries the dependencies of the typing UI.
type Options struct {
	Config   model.Config
	Store    SessionStore
	Gen      *generator.Generator
	Deck     []model.Word
	DeckPath string
	PunctSet []rune
	WeakSet  map[rune]struct{}
	Log      *zap.Logger
}

// NewModel constructs a typing TUI model.
func NewModel(opts Options) *Model {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	m := &Model{
		config:   opts.Config,
		store:    opts.Store,
		gen:      opts.Gen,
		deck:     opts.Deck,
		deckPath: opts.DeckPath,
		punctSet: opts.PunctSet,
		weakSet:  opts.WeakSet,
		log:      log,
		now:      time.Now,
	}
	m.refreshMissed()
	m.resetSession()
	m.loadFooterStats()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.result != nil {
			return m.updateSummary(msg)
		}
		switch msg.Type {
		case tea.KeyBackspace, tea.KeyDelete:
			m.handleBackspace()
		case tea.KeySpace:
			m.handleRunes([]rune{' '})
		case tea.KeyRunes:
			m.handleRunes(msg.Runes)
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) updateSummary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter, tea.KeySpace:
		m.result = nil
		m.resetSession()
	case tea.KeyRunes:
		if string(msg.Runes) == "q" {
			return m, tea.Quit
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.result != nil {
		content := renderSummary(*m.result)
		if m.width == 0 || m.height == 0 {
			return content
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	if len(m.target) == 0 {
		return ""
	}
	cursor := -1
	if len(m.input) < len(m.target) {
		cursor = len(m.input)
	}
	glyphs := buildGlyphs(m.target, m.input, m.ranges, cursor)
	if m.width == 0 || m.height == 0 {
		return renderGlyphs(glyphs)
	}
	contentWidth := max(int(float64(m.width)*0.70), 1)
	content := lipgloss.NewStyle().Width(contentWidth).Render(wrapGlyphs(glyphs, contentWidth))
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) handleBackspace() {
	if len(m.input) == 0 {
		return
	}
	m.input = m.input[:len(m.input)-1]
}

func (m *Model) handleRunes(runes []rune) {
	for _, r := range runes {
		if m.result != nil || len(m.input) >= len(m.target) {
			return
		}
		now := m.now()
		if !m.started {
			m.started = true
			m.startedAt = now
			m.tracker = practice.NewTracker(practice.NewSession(m.words, now.UnixMilli()))
		}
		pos := len(m.input)
		expected := m.target[pos]
		if err := m.tracker.FocusWord(wordIndexAt(m.ranges, pos)); err != nil {
			m.log.Warn("focus word", zap.Error(err))
		}
		if _, err := m.tracker.RecordKeystroke(expected, r, now.UnixMilli()); err != nil {
			m.log.Warn("record keystroke", zap.Error(err))
		}
		m.input = append(m.input, r)
		if len(m.input) == len(m.target) {
			m.finishSession()
		}
	}
}

func (m *Model) loadFooterStats() {
	if m.store == nil {
		return
	}
	sessions, err := m.store.ListSessions(context.Background(), model.StatsConfig{Lang: m.config.Lang})
	if err != nil {
		m.log.Error("failed to load session stats", zap.Error(err))
		return
	}
	if len(sessions) == 0 {
		return
	}
	last := sessions[len(sessions)-1]
	m.lastWPM = last.WPM
	m.lastAcc = last.Accuracy
	m.hasLast = true
	for _, s := range sessions {
		m.addAllTime(s.TotalChars, s.TotalErrors, s.ElapsedMs)
	}
}

func (m *Model) addAllTime(chars, errors int, elapsedMs int64) {
	m.allChars += chars
	m.allErrors += errors
	m.allElapsed += elapsedMs
}

// allTime recomputes WPM and accuracy over every stored session.
func (m *Model) allTime() (wpm, acc float64) {
	if m.allChars > 0 {
		acc = max(0, float64(m.allChars-m.allErrors)/float64(m.allChars)) * 100
	}
	if m.allElapsed > 0 {
		wpm = (float64(m.allChars) / 5) / (float64(m.allElapsed) / 60000)
	}
	return wpm, acc
}

func (m *Model) renderFooter() string {
	if len(m.target) == 0 {
		return ""
	}
	progress := int(float64(len(m.input)) / float64(len(m.target)) * 100)
	segments := []string{fmt.Sprintf("Progress %d%%", progress)}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %.1f WPM · %.0f%%", m.lastWPM, m.lastAcc))
	}
	wpm, acc := m.allTime()
	segments = append(segments, fmt.Sprintf("All-time %.1f WPM · %.1f%%", wpm, acc))
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) resetSession() {
	m.input = nil
	m.started = false
	m.startedAt = time.Time{}
	m.tracker = nil

	m.words = m.gen.Generate(m.deck, generator.Options{
		Count:       m.config.Words,
		CapsPct:     m.config.CapsPct,
		PunctPct:    m.config.PunctPct,
		PunctSet:    m.punctSet,
		WeakKeys:    m.activeWeakSet(),
		WeakFactor:  m.config.WeakFactor,
		Missed:      m.missed,
		MissedBoost: missedBoost,
	})
	texts := make([]string, len(m.words))
	for i, w := range m.words {
		texts[i] = w.Text
	}
	m.target, m.ranges = layoutWords(texts)
}

func (m *Model) activeWeakSet() map[rune]struct{} {
	if !m.config.FocusWeak {
		return nil
	}
	return m.weakSet
}

func (m *Model) finishSession() {
	if !m.started {
		return
	}
	endedAt := m.now()
	if err := m.tracker.Complete(endedAt.UnixMilli()); err != nil {
		m.log.Error("failed to complete session", zap.Error(err))
		m.resetSession()
		return
	}
	sum, err := summary.Summarize(m.tracker.Session())
	if err != nil {
		m.log.Error("failed to summarize session", zap.Error(err))
		m.resetSession()
		return
	}
	m.result = &sum

	meta := model.SessionMeta{
		StartedAt: m.startedAt,
		EndedAt:   endedAt,
		Lang:      m.config.Lang,
		Words:     m.config.Words,
		CapsPct:   m.config.CapsPct,
		PunctPct:  m.config.PunctPct,
		PunctSet:  m.config.PunctSet,
		DeckPath:  m.deckPath,
	}
	if m.store != nil {
		if _, err := m.store.InsertSession(context.Background(), meta, sum); err != nil {
			m.log.Error("failed to save session", zap.Error(err))
		}
	}
	m.lastWPM = sum.WPM
	m.lastAcc = sum.AccuracyPercent
	m.hasLast = true
	m.addAllTime(sum.TotalChars, sum.TotalErrors, sum.ElapsedMs)

	if m.config.FocusWeak {
		m.refreshWeakSet()
	}
	m.refreshMissed()
}

func (m *Model) refreshWeakSet() {
	if m.store == nil {
		return
	}
	aggs, err := m.store.GetWeakKeys(context.Background(), m.config.WeakWindow, m.config.Lang)
	if err != nil {
		m.log.Error("failed to load weak keys", zap.Error(err))
		return
	}
	m.weakSet = stats.SelectWeakKeys(aggs, m.config.WeakTop)
}

func (m *Model) refreshMissed() {
	if m.store == nil || m.config.WeakWindow <= 0 {
		return
	}
	texts, err := m.store.RecentWrongWords(context.Background(), m.config.WeakWindow, m.config.Lang)
	if err != nil {
		m.log.Error("failed to load missed words", zap.Error(err))
		return
	}
	m.missed = make(map[string]bool, len(texts))
	for _, t := range texts {
		m.missed[t] = true
	}
}

func renderSummary(sum model.SessionSummary) string {
	lines := []string{
		titleStyle.Render("Chapter complete"),
		"",
		fmt.Sprintf("%s %3.0f%%   %s %5.1f   %s %s",
			labelStyle.Render("Accuracy"), sum.AccuracyPercent,
			labelStyle.Render("WPM"), sum.WPM,
			labelStyle.Render("Time"), stats.FormatElapsed(sum.ElapsedMs)),
	}
	if len(sum.WrongWords) > 0 {
		texts := make([]string, len(sum.WrongWords))
		for i, w := range sum.WrongWords {
			texts[i] = w.Text
		}
		lines = append(lines, "", labelStyle.Render("Missed words"), strings.Join(texts, "  "))
	}
	if top := stats.TopKeysFromCounts(sum.KeyErrorCounts, 5); len(top) > 0 {
		keys := make([]string, len(top))
		for i, k := range top {
			keys[i] = fmt.Sprintf("%s×%d", stats.KeyLabel(k), sum.KeyErrorCounts[k])
		}
		lines = append(lines, "", labelStyle.Render("Worst keys"), strings.Join(keys, "  "))
	}
	lines = append(lines, "", footerStyle.Render("enter: next chapter · esc: quit"))
	return boxStyle.Render(strings.Join(lines, "\n"))
}
