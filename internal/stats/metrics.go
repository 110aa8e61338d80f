// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"unicode/utf8"

	"github.com/verte-zerg/vocatype/internal/model"
)

// charsPerWord is the standard typed-word length used for WPM.
const charsPerWord = 5.0

// ErrorLevel bands a per-key error count by severity.
type ErrorLevel int

// Error level bands.
const (
	LevelNone ErrorLevel = iota
	LevelLow
	LevelMedium
	LevelHigh
	LevelSevere
)

// Upper bounds (inclusive) of the low, medium and high bands.
const (
	LowMaxErrors    = 3
	MediumMaxErrors = 10
	HighMaxErrors   = 20
)

// ErrorLevelFor maps an error count to its band.
func ErrorLevelFor(count int) ErrorLevel {
	switch {
	case count <= 0:
		return LevelNone
	case count <= LowMaxErrors:
		return LevelLow
	case count <= MediumMaxErrors:
		return LevelMedium
	case count <= HighMaxErrors:
		return LevelHigh
	default:
		return LevelSevere
	}
}

// Heatmap holds per-key error counts and their bands.
type Heatmap struct {
	Counts map[string]int
	Levels map[string]ErrorLevel
}

// ValidateSession rejects negative or inverted timestamps.
func ValidateSession(s *model.PracticeSession) error {
	if s == nil {
		return fmt.Errorf("nil session: %w", model.ErrInvalidSession)
	}
	if s.StartedAtMs < 0 {
		return fmt.Errorf("negative start %d: %w", s.StartedAtMs, model.ErrInvalidSession)
	}
	if s.EndedAtMs != nil {
		if *s.EndedAtMs < 0 {
			return fmt.Errorf("negative end %d: %w", *s.EndedAtMs, model.ErrInvalidSession)
		}
		if *s.EndedAtMs < s.StartedAtMs {
			return fmt.Errorf("end %d before start %d: %w", *s.EndedAtMs, s.StartedAtMs, model.ErrInvalidSession)
		}
	}
	for i, ev := range s.Keystrokes {
		if ev.TimestampMs < 0 {
			return fmt.Errorf("keystroke %d has negative timestamp: %w", i, model.ErrInvalidSession)
		}
	}
	return nil
}

// TotalChars counts the characters expected to be typed, spaces excluded.
func TotalChars(s *model.PracticeSession) int {
	total := 0
	for _, w := range s.Words {
		total += utf8.RuneCountInString(w.Text)
	}
	return total
}

// TotalErrors sums the per-key error counters.
func TotalErrors(s *model.PracticeSession) int {
	total := 0
	for _, n := range s.KeyErrorCounts {
		total += n
	}
	return total
}

// ComputeAccuracy returns accuracy in percent, clamped to [0, 100].
func ComputeAccuracy(s *model.PracticeSession) (float64, error) {
	if err := ValidateSession(s); err != nil {
		return 0, err
	}
	totalChars := TotalChars(s)
	if totalChars == 0 {
		return 0, nil
	}
	ratio := float64(totalChars-TotalErrors(s)) / float64(totalChars)
	if ratio < 0 {
		ratio = 0
	}
	return ratio * 100, nil
}

// ElapsedMs returns the session duration, 0 while in progress.
func ElapsedMs(s *model.PracticeSession) int64 {
	if s.EndedAtMs == nil {
		return 0
	}
	return *s.EndedAtMs - s.StartedAtMs
}

// ComputeWPM returns typed-word speed. In-progress sessions report 0.
func ComputeWPM(s *model.PracticeSession) (float64, error) {
	if err := ValidateSession(s); err != nil {
		return 0, err
	}
	elapsed := ElapsedMs(s)
	if elapsed == 0 {
		return 0, nil
	}
	minutes := float64(elapsed) / 60000.0
	return (float64(TotalChars(s)) / charsPerWord) / minutes, nil
}

// ComputeKeyErrorHeatmap copies the error counts and bands each key.
func ComputeKeyErrorHeatmap(s *model.PracticeSession) (Heatmap, error) {
	if err := ValidateSession(s); err != nil {
		return Heatmap{}, err
	}
	h := Heatmap{
		Counts: make(map[string]int, len(s.KeyErrorCounts)),
		Levels: make(map[string]ErrorLevel, len(s.KeyErrorCounts)),
	}
	for key, n := range s.KeyErrorCounts {
		h.Counts[key] = n
		h.Levels[key] = ErrorLevelFor(n)
	}
	return h, nil
}
