// Package practice records keystrokes for a typing session.
package practice

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/verte-zerg/vocatype/internal/model"
)

// NewSession starts a session over the given words.
func NewSession(words []model.Word, startMs int64) *model.PracticeSession {
	copied := make([]model.Word, len(words))
	copy(copied, words)
	return &model.PracticeSession{
		ID:             uuid.New(),
		Words:          copied,
		StartedAtMs:    startMs,
		KeyErrorCounts: map[string]int{},
	}
}

// Tracker is the single owner allowed to mutate a session.
type Tracker struct {
	session *model.PracticeSession
	word    int
}

// NewTracker wraps a session for recording.
func NewTracker(session *model.PracticeSession) *Tracker {
	if session.KeyErrorCounts == nil {
		session.KeyErrorCounts = map[string]int{}
	}
	return &Tracker{session: session}
}

// Session returns the tracked session.
func (t *Tracker) Session() *model.PracticeSession {
	return t.session
}

// CurrentWord returns the index of the word keystrokes are attributed to.
func (t *Tracker) CurrentWord() int {
	return t.word
}

// FocusWord attributes subsequent keystrokes to the word at index i.
func (t *Tracker) FocusWord(i int) error {
	if i < 0 || i >= len(t.session.Words) {
		return fmt.Errorf("word index %d out of range [0,%d): %w", i, len(t.session.Words), model.ErrInvalidInput)
	}
	t.word = i
	return nil
}

// RecordKeystroke appends one keystroke and counts a miss against the expected key.
func (t *Tracker) RecordKeystroke(expected, typed rune, timestampMs int64) (model.KeystrokeEvent, error) {
	if t.session.Completed() {
		return model.KeystrokeEvent{}, fmt.Errorf("session %s is complete: %w", t.session.ID, model.ErrInvalidInput)
	}
	if timestampMs < 0 {
		return model.KeystrokeEvent{}, fmt.Errorf("negative timestamp %d: %w", timestampMs, model.ErrInvalidInput)
	}
	ev := model.KeystrokeEvent{
		Expected:    expected,
		Typed:       typed,
		Correct:     expected == typed,
		TimestampMs: timestampMs,
		WordIndex:   t.word,
	}
	t.session.Keystrokes = append(t.session.Keystrokes, ev)
	if !ev.Correct {
		t.session.KeyErrorCounts[string(expected)]++
	}
	return ev, nil
}

// Complete marks the session finished; it is read-only afterwards.
func (t *Tracker) Complete(endMs int64) error {
	if t.session.Completed() {
		return fmt.Errorf("session %s already complete: %w", t.session.ID, model.ErrInvalidInput)
	}
	if endMs < t.session.StartedAtMs {
		return fmt.Errorf("end %d before start %d: %w", endMs, t.session.StartedAtMs, model.ErrInvalidSession)
	}
	end := endMs
	t.session.EndedAtMs = &end
	return nil
}

// Replay records a full keystroke log into a fresh session and completes it.
// WordIndex on each event selects the focused word.
// Words must have text. Negative timestamps in the log are timing errors.
func Replay(words []model.Word, startMs, endMs int64, events []model.KeystrokeEvent) (*model.PracticeSession, error) {
	for i, w := range words {
		if w.Text == "" {
			return nil, fmt.Errorf("word %d has no text: %w", i, model.ErrInvalidInput)
		}
	}
	if startMs < 0 {
		return nil, fmt.Errorf("negative start %d: %w", startMs, model.ErrInvalidSession)
	}
	for i, ev := range events {
		if ev.TimestampMs < 0 {
			return nil, fmt.Errorf("keystroke %d negative timestamp %d: %w", i, ev.TimestampMs, model.ErrInvalidSession)
		}
	}
	session := NewSession(words, startMs)
	tracker := NewTracker(session)
	for i, ev := range events {
		if len(words) > 0 {
			if err := tracker.FocusWord(ev.WordIndex); err != nil {
				return nil, fmt.Errorf("keystroke %d: %w", i, err)
			}
		}
		if _, err := tracker.RecordKeystroke(ev.Expected, ev.Typed, ev.TimestampMs); err != nil {
			return nil, fmt.Errorf("keystroke %d: %w", i, err)
		}
	}
	if err := tracker.Complete(endMs); err != nil {
		return nil, err
	}
	return session, nil
}
