// Package reviewui provides the Bubble Tea flashcard review screen.
package reviewui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/vocatype/internal/model"
	"github.com/verte-zerg/vocatype/internal/srs"
)

var (
	cardStyle = lipgloss.NewStyle().
			Padding(1, 4).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	wordStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	answerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	tierStyles  = map[string]lipgloss.Style{
		string(srs.TierSuccess): lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")),
		string(srs.TierWarning): lipgloss.NewStyle().Foreground(lipgloss.Color("#FAAD14")),
		string(srs.TierDanger):  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")),
	}
)

// Reviewer applies one rating.
type Reviewer interface {
	Submit(ctx context.Context, userID, wordID int64, bucket srs.Bucket) (model.LearningProgress, error)
}

type keyMap struct {
	Reveal key.Binding
	Hard   key.Binding
	Medium key.Binding
	Easy   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Reveal, k.Hard, k.Medium, k.Easy, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Reveal, k.Help, k.Quit}, {k.Hard, k.Medium, k.Easy}}
}

func defaultKeys() keyMap {
	return keyMap{
		Reveal: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "reveal")),
		Hard:   key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "hard")),
		Medium: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "medium")),
		Easy:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "easy")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Model walks through due items one card at a time.
type Model struct {
	ctx      context.Context
	reviewer Reviewer
	userID   int64
	log      *zap.Logger

	items    []model.DueItem
	idx      int
	revealed bool
	counts   map[srs.Bucket]int
	updated  []model.LearningProgress
	errMsg   string

	keys keyMap
	help help.Model
	bar  progress.Model

	width int
}

// NewModel creates a review screen for items, which should already be in due order.
func NewModel(ctx context.Context, reviewer Reviewer, userID int64, items []model.DueItem, log *zap.Logger) *Model {
	if log == nil {
		log = zap.NewNop()
	}
	return &Model{
		ctx:      ctx,
		reviewer: reviewer,
		userID:   userID,
		log:      log,
		items:    items,
		counts:   map[srs.Bucket]int{},
		keys:     defaultKeys(),
		help:     help.New(),
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Done reports whether every item has been rated.
func (m *Model) Done() bool {
	return m.idx >= len(m.items)
}

// Reviewed returns the updated progress records in rating order.
func (m *Model) Reviewed() []model.LearningProgress {
	return m.updated
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.bar.Width = minInt(60, maxInt(10, msg.Width-4))
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		if m.Done() {
			if key.Matches(msg, m.keys.Reveal) {
				return m, tea.Quit
			}
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Reveal):
			m.revealed = true
		case key.Matches(msg, m.keys.Hard):
			m.rate(srs.BucketHard)
		case key.Matches(msg, m.keys.Medium):
			m.rate(srs.BucketMedium)
		case key.Matches(msg, m.keys.Easy):
			m.rate(srs.BucketEasy)
		}
	}
	return m, nil
}

func (m *Model) rate(bucket srs.Bucket) {
	if !m.revealed {
		return
	}
	item := m.items[m.idx]
	p, err := m.reviewer.Submit(m.ctx, m.userID, item.Word.ID, bucket)
	if err != nil {
		m.log.Error("review failed", zap.Int64("word_id", item.Word.ID), zap.Error(err))
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.counts[bucket]++
	m.updated = append(m.updated, p)
	m.idx++
	m.revealed = false
}

// View implements tea.Model.
func (m *Model) View() string {
	if len(m.items) == 0 {
		return "Nothing is due. Come back later.\n"
	}
	var b strings.Builder
	b.WriteString(m.bar.ViewAs(float64(m.idx) / float64(len(m.items))))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d/%d", m.idx, len(m.items))))
	b.WriteString("\n\n")
	if m.Done() {
		b.WriteString(m.renderSummary())
	} else {
		b.WriteString(m.renderCard())
	}
	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderCard() string {
	item := m.items[m.idx]
	lines := []string{wordStyle.Render(item.Word.Text)}
	if m.revealed {
		answer := item.Word.Translation
		if answer == "" {
			answer = "(no translation)"
		}
		lines = append(lines, "", answerStyle.Render(answer))
	} else {
		lines = append(lines, "", mutedStyle.Render("press space to reveal"))
	}
	tier := item.Tier
	if style, ok := tierStyles[tier]; ok {
		tier = style.Render(tier)
	}
	lines = append(lines, "", mutedStyle.Render(fmt.Sprintf("mastery %.0f%% ", item.Progress.MasteryLevel*100))+tier)
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderSummary() string {
	lines := []string{
		wordStyle.Render(fmt.Sprintf("Reviewed %d words", len(m.updated))),
		fmt.Sprintf("hard %d  medium %d  easy %d",
			m.counts[srs.BucketHard], m.counts[srs.BucketMedium], m.counts[srs.BucketEasy]),
	}
	if len(m.updated) > 0 {
		next := m.updated[0].NextReviewAt
		for _, p := range m.updated[1:] {
			if p.NextReviewAt.Before(next) {
				next = p.NextReviewAt
			}
		}
		lines = append(lines, mutedStyle.Render("Next review: "+next.Local().Format("2006-01-02 15:04")))
	}
	lines = append(lines, mutedStyle.Render("press space or q to exit"))
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
