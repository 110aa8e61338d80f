package practice

import (
	"errors"
	"testing"

	"github.com/verte-zerg/vocatype/internal/model"
)

func words(texts ...string) []model.Word {
	out := make([]model.Word, len(texts))
	for i, t := range texts {
		out[i] = model.Word{ID: int64(i + 1), Text: t}
	}
	return out
}

func TestRecordKeystrokeCountsMisses(t *testing.T) {
	tr := NewTracker(NewSession(words("hi", "bye"), 0))
	if _, err := tr.RecordKeystroke('h', 'h', 10); err != nil {
		t.Fatalf("record: %v", err)
	}
	ev, err := tr.RecordKeystroke('i', 'o', 20)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if ev.Correct {
		t.Fatalf("expected incorrect keystroke")
	}
	if _, err := tr.RecordKeystroke(' ', 'x', 30); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := tr.RecordKeystroke('I', 'i', 40); err != nil {
		t.Fatalf("record: %v", err)
	}
	s := tr.Session()
	if len(s.Keystrokes) != 4 {
		t.Fatalf("expected 4 keystrokes, got %d", len(s.Keystrokes))
	}
	if s.KeyErrorCounts["i"] != 1 || s.KeyErrorCounts[" "] != 1 || s.KeyErrorCounts["I"] != 1 {
		t.Fatalf("unexpected error counts: %v", s.KeyErrorCounts)
	}
	if _, ok := s.KeyErrorCounts["h"]; ok {
		t.Fatalf("correct key must not be counted: %v", s.KeyErrorCounts)
	}
}

func TestRecordKeystrokeRepeatedMistakesCountEach(t *testing.T) {
	tr := NewTracker(NewSession(words("a"), 0))
	for i := 0; i < 3; i++ {
		if _, err := tr.RecordKeystroke('a', 's', int64(i)); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if got := tr.Session().KeyErrorCounts["a"]; got != 3 {
		t.Fatalf("expected 3 errors on a, got %d", got)
	}
}

func TestRecordKeystrokeAfterCompleteFails(t *testing.T) {
	tr := NewTracker(NewSession(words("go"), 100))
	if err := tr.Complete(200); err != nil {
		t.Fatalf("complete: %v", err)
	}
	_, err := tr.RecordKeystroke('g', 'g', 250)
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(tr.Session().Keystrokes) != 0 {
		t.Fatalf("closed session must not grow")
	}
}

func TestCompleteValidation(t *testing.T) {
	tr := NewTracker(NewSession(words("go"), 100))
	if err := tr.Complete(50); !errors.Is(err, model.ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
	if err := tr.Complete(100); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := tr.Complete(300); !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput on second complete, got %v", err)
	}
}

func TestFocusWordAttributesKeystrokes(t *testing.T) {
	tr := NewTracker(NewSession(words("hi", "bye"), 0))
	if err := tr.FocusWord(1); err != nil {
		t.Fatalf("focus: %v", err)
	}
	ev, err := tr.RecordKeystroke('b', 'v', 5)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if ev.WordIndex != 1 {
		t.Fatalf("expected word index 1, got %d", ev.WordIndex)
	}
	if err := tr.FocusWord(2); !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestNegativeTimestampRejected(t *testing.T) {
	tr := NewTracker(NewSession(words("a"), 0))
	if _, err := tr.RecordKeystroke('a', 'a', -1); !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestReplay(t *testing.T) {
	events := []model.KeystrokeEvent{
		{Expected: 'h', Typed: 'j', TimestampMs: 10, WordIndex: 0},
		{Expected: 'b', Typed: 'b', TimestampMs: 20, WordIndex: 1},
	}
	s, err := Replay(words("hi", "bye"), 0, 1000, events)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !s.Completed() || *s.EndedAtMs != 1000 {
		t.Fatalf("expected completed session")
	}
	if s.KeyErrorCounts["h"] != 1 {
		t.Fatalf("unexpected counts: %v", s.KeyErrorCounts)
	}
	if s.Keystrokes[0].WordIndex != 0 || s.Keystrokes[1].WordIndex != 1 {
		t.Fatalf("unexpected word indexes: %+v", s.Keystrokes)
	}

	bad := []model.KeystrokeEvent{{Expected: 'h', Typed: 'h', WordIndex: 5}}
	if _, err := Replay(words("hi"), 0, 10, bad); !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestReplayValidatesInput(t *testing.T) {
	if _, err := Replay([]model.Word{{Text: "hi"}, {Text: ""}}, 0, 10, nil); !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("empty word: expected ErrInvalidInput, got %v", err)
	}
	if _, err := Replay(words("hi"), -5, 10, nil); !errors.Is(err, model.ErrInvalidSession) {
		t.Fatalf("negative start: expected ErrInvalidSession, got %v", err)
	}
	neg := []model.KeystrokeEvent{{Expected: 'h', Typed: 'h', TimestampMs: -1}}
	if _, err := Replay(words("hi"), 0, 10, neg); !errors.Is(err, model.ErrInvalidSession) {
		t.Fatalf("negative keystroke: expected ErrInvalidSession, got %v", err)
	}
}
