package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/vocatype/internal/config"
	"github.com/verte-zerg/vocatype/internal/model"
	"github.com/verte-zerg/vocatype/internal/stats"
)

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	commented := regexp.MustCompile(`(?m)^# ([a-z-]+ = )`)
	enabled := commented.ReplaceAllString(defaultConfigTemplate(), "$1")
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(enabled), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("template does not decode: %v\n%s", err, enabled)
	}
	if *cfg.Practice.Words != defaultWords || *cfg.Practice.PunctSet != defaultPunctSet {
		t.Fatalf("unexpected practice defaults: %+v", cfg.Practice)
	}
	if *cfg.Review.UserID != defaultUserID || *cfg.Review.Limit != defaultReviewLimit {
		t.Fatalf("unexpected review defaults: %+v", cfg.Review)
	}
	every, err := cfg.Review.RemindInterval()
	if err != nil || every != time.Hour {
		t.Fatalf("unexpected remind interval %s (%v)", every, err)
	}
	if *cfg.Server.Addr != config.DefaultAddr || *cfg.Log.Level != "info" {
		t.Fatalf("unexpected server/log defaults: %+v %+v", cfg.Server, cfg.Log)
	}
}

func TestValidateConfig(t *testing.T) {
	base := model.Config{Words: 10, CapsPct: 0.5, PunctPct: 0.5, PunctSet: ".,"}
	if err := validateConfig(base); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	cases := map[string]func(*model.Config){
		"words": func(c *model.Config) { c.Words = 0 },
		"caps":  func(c *model.Config) { c.CapsPct = 1.5 },
		"punct": func(c *model.Config) { c.PunctPct = -0.1 },
		"set":   func(c *model.Config) { c.PunctSet = "" },
		"top":   func(c *model.Config) { c.WeakTop = -1 },
	}
	for name, mutate := range cases {
		cfg := base
		mutate(&cfg)
		if err := validateConfig(cfg); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}

	noPunct := base
	noPunct.PunctPct = 0
	noPunct.PunctSet = ""
	if err := validateConfig(noPunct); err != nil {
		t.Fatalf("empty punct set is fine without punctuation: %v", err)
	}
}

func TestRenderPlain(t *testing.T) {
	report := stats.Report{
		Sessions: []model.SessionAggregate{
			{SessionID: 1, WPM: 30, Accuracy: 90, ElapsedMs: 60000},
			{SessionID: 2, WPM: 40, Accuracy: 95, ElapsedMs: 60000},
		},
		KeyErrorsWindow:  []model.KeyErrorAggregate{{Key: "e", Errors: 5}},
		RecentWrongWords: []string{"cat", "dog"},
	}
	var buf bytes.Buffer
	if err := renderPlain(&buf, report, 5, 60); err != nil {
		t.Fatalf("render plain: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Sessions: 2", "Time practiced: 2:00", "Learning Curves", "Key Errors", "cat dog"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}
