package main

import (
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/vocatype/internal/model"
	"github.com/verte-zerg/vocatype/internal/stats"
	"github.com/verte-zerg/vocatype/internal/statsui"
)

const (
	plainFallbackWidth = 80
	plainLabelWidth    = 20
)

var (
	statsLang        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show typing and vocabulary stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsLang, "lang", "", "language filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	a := current
	var since *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		since = &parsed
	}
	if statsCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}
	cfg := model.StatsConfig{
		Lang:        statsLang,
		Since:       since,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		UserID:      a.userID,
	}

	st, closeStore, err := a.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if statsPlain {
		report, err := stats.BuildReport(cmd.Context(), st, cfg)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		return renderPlain(cmd.OutOrStdout(), report, cfg.CurveWindow, terminalWidth())
	}

	m := statsui.NewModel(statsui.NewSource(st, a.reviewService(st)), cfg)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func renderPlain(w io.Writer, report stats.Report, window, width int) error {
	if err := stats.RenderSummary(w, report.Sessions); err != nil {
		return err
	}
	if err := stats.RenderCurves(w, report.Sessions, window, max(10, width-plainLabelWidth)); err != nil {
		return err
	}
	if err := stats.RenderKeyTable(w, report.KeyErrorsWindow); err != nil {
		return err
	}
	return stats.RenderWrongWords(w, report.RecentWrongWords, width)
}

// terminalWidth reports the stdout width, or a fallback when stdout is not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return plainFallbackWidth
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return plainFallbackWidth
	}
	return width
}
