package summary

import (
	"errors"
	"math"
	"testing"

	"github.com/verte-zerg/vocatype/internal/model"
	"github.com/verte-zerg/vocatype/internal/practice"
)

func words(texts ...string) []model.Word {
	out := make([]model.Word, len(texts))
	for i, t := range texts {
		out[i] = model.Word{ID: int64(i + 1), Text: t}
	}
	return out
}

func TestSummarizeRequiresCompletion(t *testing.T) {
	s := practice.NewSession(words("hi"), 0)
	if _, err := Summarize(s); !errors.Is(err, model.ErrSessionNotComplete) {
		t.Fatalf("expected ErrSessionNotComplete, got %v", err)
	}
	if _, err := Summarize(nil); !errors.Is(err, model.ErrSessionNotComplete) {
		t.Fatalf("expected ErrSessionNotComplete for nil, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	events := []model.KeystrokeEvent{
		{Expected: 'h', Typed: 'h', TimestampMs: 100, WordIndex: 0},
		{Expected: 'i', Typed: 'u', TimestampMs: 200, WordIndex: 0},
		{Expected: 'b', Typed: 'b', TimestampMs: 300, WordIndex: 1},
		{Expected: 'y', Typed: 'y', TimestampMs: 400, WordIndex: 1},
		{Expected: 'e', Typed: 'e', TimestampMs: 500, WordIndex: 1},
		{Expected: 'h', Typed: 'g', TimestampMs: 600, WordIndex: 2},
	}
	s, err := practice.Replay(words("hi", "bye", "hi"), 0, 12000, events)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}

	sum, err := Summarize(s)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if sum.SessionID != s.ID {
		t.Fatalf("unexpected session id %s", sum.SessionID)
	}
	// 7 chars, 2 errors: 71.43% rounds to 71.
	if sum.AccuracyPercent != 71 {
		t.Fatalf("expected 71%%, got %v", sum.AccuracyPercent)
	}
	if sum.ElapsedMs != 12000 {
		t.Fatalf("expected 12000ms, got %d", sum.ElapsedMs)
	}
	if math.Abs(sum.WPM-7.0) > 1e-9 {
		t.Fatalf("expected 7 wpm, got %v", sum.WPM)
	}
	if len(sum.WrongWords) != 1 || sum.WrongWords[0].Text != "hi" {
		t.Fatalf("expected one wrong word hi, got %+v", sum.WrongWords)
	}
	if sum.KeyErrorCounts["i"] != 1 || sum.KeyErrorCounts["h"] != 1 {
		t.Fatalf("unexpected counts %v", sum.KeyErrorCounts)
	}
	if sum.KeyErrorLevels["i"] != 1 {
		t.Fatalf("unexpected levels %v", sum.KeyErrorLevels)
	}

	sum.KeyErrorCounts["i"] = 50
	if s.KeyErrorCounts["i"] != 1 {
		t.Fatalf("summary must not alias session counts")
	}
}

func TestSummarizePerfectSession(t *testing.T) {
	events := []model.KeystrokeEvent{
		{Expected: 'o', Typed: 'o', TimestampMs: 10},
		{Expected: 'k', Typed: 'k', TimestampMs: 20},
	}
	s, err := practice.Replay(words("ok"), 0, 0, events)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	sum, err := Summarize(s)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if sum.AccuracyPercent != 100 || sum.WPM != 0 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if sum.WrongWords == nil || len(sum.WrongWords) != 0 {
		t.Fatalf("expected empty wrong words, got %#v", sum.WrongWords)
	}
	if len(sum.KeyErrorCounts) != 0 {
		t.Fatalf("expected no key errors, got %v", sum.KeyErrorCounts)
	}
}

func TestSummarizeMalformedTiming(t *testing.T) {
	s := practice.NewSession(words("a"), 0)
	end := int64(10)
	s.EndedAtMs = &end
	s.Keystrokes = []model.KeystrokeEvent{{Expected: 'a', Typed: 'a', TimestampMs: -1}}
	if _, err := Summarize(s); !errors.Is(err, model.ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}
