package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/vocatype/internal/model"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Resample stretches or squeezes values to width points by bucket averaging.
func Resample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	step := float64(len(values)) / float64(width)
	for i := 0; i < width; i++ {
		start := int(float64(i) * step)
		end := int(float64(i+1) * step)
		if end <= start {
			end = start + 1
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

// SessionTotals is the overall summary of a set of sessions.
type SessionTotals struct {
	Sessions    int
	AvgWPM      float64
	BestWPM     float64
	AvgAccuracy float64
	TotalMs     int64
}

// Totals aggregates stored sessions.
func Totals(sessions []model.SessionAggregate) SessionTotals {
	t := SessionTotals{Sessions: len(sessions)}
	if len(sessions) == 0 {
		return t
	}
	var wpm, acc float64
	for _, s := range sessions {
		wpm += s.WPM
		acc += s.Accuracy
		t.TotalMs += s.ElapsedMs
		if s.WPM > t.BestWPM {
			t.BestWPM = s.WPM
		}
	}
	count := float64(len(sessions))
	t.AvgWPM = wpm / count
	t.AvgAccuracy = acc / count
	return t
}

// RenderSummary prints a summary block for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	t := Totals(sessions)
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", t.Sessions),
		fmt.Sprintf("Avg WPM: %.2f", t.AvgWPM),
		fmt.Sprintf("Best WPM: %.2f", t.BestWPM),
		fmt.Sprintf("Avg Accuracy: %.2f%%", t.AvgAccuracy),
		fmt.Sprintf("Time practiced: %s", FormatElapsed(t.TotalMs)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints WPM and accuracy sparklines smoothed over window sessions.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window, width int) error {
	if len(sessions) == 0 {
		return nil
	}
	wpms := make([]float64, len(sessions))
	accs := make([]float64, len(sessions))
	for i, s := range sessions {
		wpms[i] = s.WPM
		accs[i] = s.Accuracy
	}
	wpms = Resample(MovingAverage(wpms, window), width)
	accs = Resample(MovingAverage(accs, window), width)
	lines := []string{
		"Learning Curves",
		fmt.Sprintf("WPM      %s  %.1f", Sparkline(wpms), wpms[len(wpms)-1]),
		fmt.Sprintf("Accuracy %s  %.1f%%", Sparkline(accs), accs[len(accs)-1]),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// KeyLabel renders a key for display.
func KeyLabel(key string) string {
	if key == " " {
		return "<space>"
	}
	return key
}

// KeyRows returns table rows for key error aggregates, worst first.
func KeyRows(aggs []model.KeyErrorAggregate) [][]string {
	sorted := make([]model.KeyErrorAggregate, len(aggs))
	copy(sorted, aggs)
	sortByErrors(sorted)
	rows := make([][]string, 0, len(sorted))
	for _, agg := range sorted {
		rows = append(rows, []string{
			KeyLabel(agg.Key),
			fmt.Sprintf("%d", agg.Errors),
			fmt.Sprintf("%d", ErrorLevelFor(agg.Errors)),
		})
	}
	return rows
}

// RenderKeyTable prints per-key error aggregates.
func RenderKeyTable(w io.Writer, aggs []model.KeyErrorAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No key errors found.")
		return err
	}
	headers := []string{"Key", "Errors", "Level"}
	return writeTable(w, "Key Errors (Windowed)", headers, KeyRows(aggs), map[int]bool{1: true, 2: true})
}

// RenderWrongWords prints recently missed words, wrapped to width.
func RenderWrongWords(w io.Writer, words []string, width int) error {
	if len(words) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Recently Missed Words"); err != nil {
		return err
	}
	line := ""
	for _, word := range words {
		if line != "" && width > 0 && len(line)+1+len(word) > width {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
			line = ""
		}
		if line != "" {
			line += " "
		}
		line += word
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// FormatElapsed renders milliseconds as m:ss.
func FormatElapsed(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	secs := ms / 1000
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func sortByErrors(aggs []model.KeyErrorAggregate) {
	sort.Slice(aggs, func(i, j int) bool {
		if aggs[i].Errors == aggs[j].Errors {
			return aggs[i].Key < aggs[j].Key
		}
		return aggs[i].Errors > aggs[j].Errors
	})
}
