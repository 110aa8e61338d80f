// Package model defines shared data structures.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Config defines practice settings.
type Config struct {
	Lang       string
	Words      int
	CapsPct    float64
	PunctPct   float64
	PunctSet   string
	FocusWeak  bool
	WeakTop    int
	WeakFactor float64
	WeakWindow int
}

// ReviewConfig defines vocabulary review settings.
type ReviewConfig struct {
	UserID      int64
	Limit       int
	RemindEvery time.Duration
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Lang        string
	Since       *time.Time
	Last        int
	CurveWindow int
	UserID      int64
}

// Word is a vocabulary item. Text is never empty.
type Word struct {
	ID          int64  `json:"id" db:"id"`
	Text        string `json:"text" db:"text"`
	Translation string `json:"translation,omitempty" db:"translation"`
	Difficulty  int    `json:"difficulty,omitempty" db:"difficulty"`
	Lang        string `json:"lang,omitempty" db:"lang"`
}

// KeystrokeEvent is one recorded keystroke outcome.
type KeystrokeEvent struct {
	Expected    rune  `json:"expected"`
	Typed       rune  `json:"typed"`
	Correct     bool  `json:"correct"`
	TimestampMs int64 `json:"timestamp_ms"`
	WordIndex   int   `json:"word_index"`
}

// PracticeSession is the raw log of one typing run.
// EndedAtMs is nil while the session is in progress.
type PracticeSession struct {
	ID             uuid.UUID
	Words          []Word
	StartedAtMs    int64
	EndedAtMs      *int64
	Keystrokes     []KeystrokeEvent
	KeyErrorCounts map[string]int
}

// Completed reports whether the session has an end time.
func (s *PracticeSession) Completed() bool {
	return s.EndedAtMs != nil
}

// SessionSummary is the immutable result of a finished session.
type SessionSummary struct {
	SessionID       uuid.UUID      `json:"session_id"`
	AccuracyPercent float64        `json:"accuracy_percent"`
	WPM             float64        `json:"wpm"`
	ElapsedMs       int64          `json:"elapsed_ms"`
	TotalChars      int            `json:"total_chars"`
	TotalErrors     int            `json:"total_errors"`
	WrongWords      []Word         `json:"wrong_words"`
	KeyErrorCounts  map[string]int `json:"key_error_counts"`
	KeyErrorLevels  map[string]int `json:"key_error_levels"`
}

// SessionMeta carries practice settings stored alongside a summary.
type SessionMeta struct {
	StartedAt time.Time
	EndedAt   time.Time
	Lang      string
	Words     int
	CapsPct   float64
	PunctPct  float64
	PunctSet  string
	DeckPath  string
}

// ReviewRecord is one entry of a progress review history.
type ReviewRecord struct {
	Quality    int       `json:"quality"`
	ReviewedAt time.Time `json:"reviewed_at"`
}

// LearningProgress is the spaced-repetition state of one (user, word) pair.
type LearningProgress struct {
	UserID        int64          `json:"user_id"`
	WordID        int64          `json:"word_id"`
	MasteryLevel  float64        `json:"mastery_level"`
	EaseFactor    float64        `json:"ease_factor"`
	IntervalDays  int            `json:"interval_days"`
	NextReviewAt  time.Time      `json:"next_review_at"`
	ReviewHistory []ReviewRecord `json:"review_history"`
}

// DueItem pairs due progress with its word.
type DueItem struct {
	Word     Word             `json:"word"`
	Progress LearningProgress `json:"progress"`
	Tier     string           `json:"tier"`
}

// KeyErrorAggregate aggregates key errors across sessions.
type KeyErrorAggregate struct {
	Key    string `db:"key"`
	Errors int    `db:"errors"`
}

// SessionAggregate summarizes a stored session for reporting.
type SessionAggregate struct {
	SessionID   int64
	EndedAt     time.Time
	Accuracy    float64
	WPM         float64
	ElapsedMs   int64
	TotalChars  int
	TotalErrors int
}
