// Package summary builds the end-of-chapter report for a finished practice session.
package summary

import (
	"fmt"
	"math"

	"github.com/verte-zerg/vocatype/internal/model"
	"github.com/verte-zerg/vocatype/internal/stats"
)

// Summarize derives the report for a completed session.
func Summarize(s *model.PracticeSession) (model.SessionSummary, error) {
	if s == nil || !s.Completed() {
		return model.SessionSummary{}, model.ErrSessionNotComplete
	}
	accuracy, err := stats.ComputeAccuracy(s)
	if err != nil {
		return model.SessionSummary{}, fmt.Errorf("summarize %s: %w", s.ID, err)
	}
	wpm, err := stats.ComputeWPM(s)
	if err != nil {
		return model.SessionSummary{}, fmt.Errorf("summarize %s: %w", s.ID, err)
	}
	heatmap, err := stats.ComputeKeyErrorHeatmap(s)
	if err != nil {
		return model.SessionSummary{}, fmt.Errorf("summarize %s: %w", s.ID, err)
	}

	levels := make(map[string]int, len(heatmap.Levels))
	for key, level := range heatmap.Levels {
		levels[key] = int(level)
	}

	return model.SessionSummary{
		SessionID:       s.ID,
		AccuracyPercent: math.Round(accuracy),
		WPM:             wpm,
		ElapsedMs:       stats.ElapsedMs(s),
		TotalChars:      stats.TotalChars(s),
		TotalErrors:     stats.TotalErrors(s),
		WrongWords:      WrongWords(s),
		KeyErrorCounts:  heatmap.Counts,
		KeyErrorLevels:  levels,
	}, nil
}

// WrongWords lists the words with at least one mistyped keystroke, once per text,
// in the order they appear in the session.
func WrongWords(s *model.PracticeSession) []model.Word {
	missed := map[int]bool{}
	for _, ev := range s.Keystrokes {
		if !ev.Correct {
			missed[ev.WordIndex] = true
		}
	}
	out := []model.Word{}
	seen := map[string]bool{}
	for i, w := range s.Words {
		if !missed[i] || seen[w.Text] {
			continue
		}
		seen[w.Text] = true
		out = append(out, w)
	}
	return out
}
