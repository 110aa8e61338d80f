package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/vocatype/internal/model"
	"github.com/verte-zerg/vocatype/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "vocatype.db")
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []int64
	for i := 0; i < 3; i++ {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		end := start.Add(30 * time.Second)
		meta := model.SessionMeta{
			StartedAt: start,
			EndedAt:   end,
			Lang:      "en",
			Words:     10,
			PunctSet:  ".,?!",
			DeckPath:  "dummy",
		}
		sum := model.SessionSummary{
			SessionID:       uuid.New(),
			AccuracyPercent: 91,
			WPM:             40 + float64(i),
			ElapsedMs:       end.Sub(start).Milliseconds(),
			TotalChars:      11,
			TotalErrors:     1,
			WrongWords:      []model.Word{{Text: "lamp"}},
			KeyErrorCounts:  map[string]int{"b": 1},
		}
		id, err := st.InsertSession(ctx, meta, sum)
		if err != nil {
			t.Fatalf("insert session: %v", err)
		}
		ids = append(ids, id)
	}

	cfg := model.StatsConfig{
		Lang:        "en",
		Last:        2,
		CurveWindow: 1,
	}
	report, err := BuildReport(ctx, st, cfg)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(report.Sessions))
	}
	if report.Sessions[0].SessionID != ids[1] || report.Sessions[1].SessionID != ids[2] {
		t.Fatalf("unexpected session ids: %+v", report.Sessions)
	}
	if len(report.WindowSessionIDs) != 1 || report.WindowSessionIDs[0] != ids[2] {
		t.Fatalf("unexpected window session ids: %v", report.WindowSessionIDs)
	}
	if len(report.KeyErrorsAll) != 1 || report.KeyErrorsAll[0].Errors != 2 {
		t.Fatalf("expected 2 errors on b across sessions, got %+v", report.KeyErrorsAll)
	}
	if len(report.KeyErrorsWindow) != 1 || report.KeyErrorsWindow[0].Errors != 1 {
		t.Fatalf("expected 1 error on b in window, got %+v", report.KeyErrorsWindow)
	}
	if len(report.RecentWrongWords) != 1 || report.RecentWrongWords[0] != "lamp" {
		t.Fatalf("unexpected wrong words: %v", report.RecentWrongWords)
	}
}
