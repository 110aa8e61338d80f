// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/vocatype/internal/model"
	"github.com/verte-zerg/vocatype/internal/review"
	"github.com/verte-zerg/vocatype/internal/stats"
	"github.com/verte-zerg/vocatype/internal/store"
)

const (
	tabOverview = iota
	tabKeyErrors
	tabVocabulary
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Source loads the data shown by the stats UI.
type Source interface {
	Report(ctx context.Context, cfg model.StatsConfig) (stats.Report, error)
	Vocabulary(ctx context.Context, userID int64) ([]model.DueItem, error)
}

type storeSource struct {
	st  *store.Store
	svc *review.Service
}

// NewSource reads sessions from st and learning progress through svc.
func NewSource(st *store.Store, svc *review.Service) Source {
	return storeSource{st: st, svc: svc}
}

func (s storeSource) Report(ctx context.Context, cfg model.StatsConfig) (stats.Report, error) {
	return stats.BuildReport(ctx, s.st, cfg)
}

func (s storeSource) Vocabulary(ctx context.Context, userID int64) ([]model.DueItem, error) {
	return s.svc.Overview(ctx, userID)
}

// Model implements the Bubble Tea stats UI.
type Model struct {
	src Source
	cfg model.StatsConfig
	now func() time.Time

	report     stats.Report
	vocabulary []model.DueItem
	errMsg     string

	tabs      []string
	activeTab int
	overview  viewport.Model
	keyTable  table.Model
	vocTable  table.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

// NewModel constructs a stats UI model.
func NewModel(src Source, cfg model.StatsConfig) *Model {
	m := &Model{
		src:  src,
		cfg:  cfg,
		now:  time.Now,
		tabs: []string{"Overview", "Key Errors", "Vocabulary"},
	}
	m.overview = viewport.New(0, 0)
	m.keyTable = newTable(keyColumns())
	m.vocTable = newTable(vocColumns())
	m.initInputs()
	m.refresh()
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
		m.updateLayout()
		m.renderContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (!m.filterMode && msg.String() == "q") {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
			m.refresh()
			return m, nil
		case "-":
			m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
			m.refresh()
			return m, nil
		case "r":
			m.refresh()
			return m, nil
		case "/":
			return m.startFilter()
		}
		var cmd tea.Cmd
		switch m.activeTab {
		case tabKeyErrors:
			m.keyTable, cmd = m.keyTable.Update(msg)
		case tabVocabulary:
			m.vocTable, cmd = m.vocTable.Update(msg)
		default:
			m.overview, cmd = m.overview.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Lang: "),
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Last: "),
		newFilterInput("Curve window: "),
	}
	m.setInputsFromConfig()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromConfig() {
	m.filterInputs[0].SetValue(m.cfg.Lang)
	m.filterInputs[1].SetValue("")
	if m.cfg.Since != nil {
		m.filterInputs[1].SetValue(m.cfg.Since.Format("2006-01-02"))
	}
	m.filterInputs[2].SetValue("")
	if m.cfg.Last > 0 {
		m.filterInputs[2].SetValue(strconv.Itoa(m.cfg.Last))
	}
	m.filterInputs[3].SetValue(strconv.Itoa(m.cfg.CurveWindow))
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = lipgloss.Height(activeNavStyle.Render("X")) + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	for _, t := range []*table.Model{&m.keyTable, &m.vocTable} {
		t.SetWidth(m.width)
		t.SetHeight(maxInt(1, bodyHeight-1))
	}
	for i := range m.filterInputs {
		m.filterInputs[i].Width = maxInt(10, m.width-lipgloss.Width(m.filterInputs[i].Prompt)-2)
	}
}

func (m *Model) moveTab(delta int) {
	m.activeTab = (m.activeTab + delta + len(m.tabs)) % len(m.tabs)
	m.keyTable.Blur()
	m.vocTable.Blur()
	switch m.activeTab {
	case tabKeyErrors:
		m.keyTable.Focus()
	case tabVocabulary:
		m.vocTable.Focus()
	}
}

func (m *Model) refresh() {
	ctx := context.Background()
	report, err := m.src.Report(ctx, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		m.renderContents()
		return
	}
	vocabulary, err := m.src.Vocabulary(ctx, m.cfg.UserID)
	if err != nil {
		m.errMsg = err.Error()
		m.renderContents()
		return
	}
	m.errMsg = ""
	m.report = report
	m.vocabulary = vocabulary
	m.keyTable.SetRows(keyRows(report.KeyErrorsWindow))
	m.vocTable.SetRows(vocRows(vocabulary, m.now()))
	m.updateLayout()
	m.renderContents()
}

func (m *Model) renderContents() {
	if m.errMsg != "" {
		m.overview.SetContent("Failed to load stats.")
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.report, m.cfg.CurveWindow, width))
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	lang := m.cfg.Lang
	if lang == "" {
		lang = "any"
	}
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	settings := fmt.Sprintf("Settings: lang=%s  since=%s  last=%s  window=%d  user=%d",
		lang, since, last, m.cfg.CurveWindow, m.cfg.UserID)
	return m.renderTabs() + "\n" + headerStyle.Render(truncateLine(settings, m.width))
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	help := headerStyle.Render("Nav: left/right  Scroll: up/down  Window: -/=  Reload: r  Settings: /  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody() string {
	if m.filterMode {
		lines := []string{"Settings (enter to apply, esc to cancel)"}
		for _, input := range m.filterInputs {
			lines = append(lines, input.View())
		}
		if m.filterError != "" {
			lines = append(lines, errorStyle.Render(m.filterError))
		}
		return strings.Join(lines, "\n")
	}
	switch m.activeTab {
	case tabKeyErrors:
		if len(m.report.KeyErrorsWindow) == 0 {
			return "No key errors found."
		}
		return tableMutedStyle.Render(m.keyTable.View())
	case tabVocabulary:
		if len(m.vocabulary) == 0 {
			return "No words enrolled for review."
		}
		return tableMutedStyle.Render(m.vocTable.View())
	}
	return m.overview.View()
}

func renderOverview(report stats.Report, window, width int) string {
	if len(report.Sessions) == 0 {
		return "No sessions found."
	}
	var buf bytes.Buffer
	buf.WriteString(renderSummaryCards(report.Sessions, width))
	buf.WriteString("\n\n")
	if err := stats.RenderCurves(&buf, report.Sessions, window, maxInt(10, width-20)); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	if err := stats.RenderWrongWords(&buf, report.RecentWrongWords, width); err != nil {
		return fmt.Sprintf("Failed to render missed words: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderSummaryCards(sessions []model.SessionAggregate, width int) string {
	t := stats.Totals(sessions)
	cards := []string{
		metricCard("Sessions", strconv.Itoa(t.Sessions)),
		metricCard("Avg WPM", fmt.Sprintf("%.1f", t.AvgWPM)),
		metricCard("Best WPM", fmt.Sprintf("%.1f", t.BestWPM)),
		metricCard("Avg Acc", fmt.Sprintf("%.1f%%", t.AvgAccuracy)),
		metricCard("Practiced", stats.FormatElapsed(t.TotalMs)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func newTable(cols []table.Column) table.Model {
	t := table.New(table.WithColumns(cols), table.WithHeight(1))
	t.SetStyles(tableStyles())
	return t
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func keyColumns() []table.Column {
	return []table.Column{
		{Title: "Key", Width: 8},
		{Title: "Errors", Width: 7},
		{Title: "Level", Width: 6},
	}
}

func keyRows(aggs []model.KeyErrorAggregate) []table.Row {
	src := stats.KeyRows(aggs)
	rows := make([]table.Row, len(src))
	for i, r := range src {
		rows[i] = table.Row(r)
	}
	return rows
}

func vocColumns() []table.Column {
	return []table.Column{
		{Title: "Word", Width: 18},
		{Title: "Translation", Width: 18},
		{Title: "Mastery", Width: 8},
		{Title: "Ease", Width: 5},
		{Title: "Interval", Width: 8},
		{Title: "Next Review", Width: 12},
		{Title: "Tier", Width: 8},
	}
}

func vocRows(items []model.DueItem, now time.Time) []table.Row {
	rows := make([]table.Row, 0, len(items))
	for _, it := range items {
		p := it.Progress
		next := p.NextReviewAt.Local().Format("2006-01-02")
		if !now.Before(p.NextReviewAt) {
			next = "due"
		}
		rows = append(rows, table.Row{
			it.Word.Text,
			it.Word.Translation,
			fmt.Sprintf("%.0f%%", p.MasteryLevel*100),
			fmt.Sprintf("%.2f", p.EaseFactor),
			fmt.Sprintf("%dd", p.IntervalDays),
			next,
			it.Tier,
		})
	}
	return rows
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromConfig()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.refresh()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	m.filterIndex = (idx + count) % count
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyFilter() error {
	lang := strings.TrimSpace(m.filterInputs[0].Value())

	var since *time.Time
	if v := strings.TrimSpace(m.filterInputs[1].Value()); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			return fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		since = &parsed
	}

	last := 0
	if v := strings.TrimSpace(m.filterInputs[2].Value()); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		last = parsed
	}

	window := m.cfg.CurveWindow
	if v := strings.TrimSpace(m.filterInputs[3].Value()); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return fmt.Errorf("invalid curve window (use integer >= 1)")
		}
		window = parsed
	}

	m.cfg.Lang = lang
	m.cfg.Since = since
	m.cfg.Last = last
	m.cfg.CurveWindow = window
	return nil
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLine(line string, width int) string {
	if w := lipgloss.Width(line); w < width {
		return line + strings.Repeat(" ", width-w)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
