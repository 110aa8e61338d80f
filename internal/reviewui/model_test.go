package reviewui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/vocatype/internal/model"
	"github.com/verte-zerg/vocatype/internal/srs"
)

type fakeReviewer struct {
	now   time.Time
	calls []srs.Bucket
	err   error
}

func (f *fakeReviewer) Submit(_ context.Context, userID, wordID int64, bucket srs.Bucket) (model.LearningProgress, error) {
	if f.err != nil {
		return model.LearningProgress{}, f.err
	}
	f.calls = append(f.calls, bucket)
	return srs.Review(srs.NewProgress(userID, wordID, f.now), bucket.Quality(), f.now)
}

func items() []model.DueItem {
	return []model.DueItem{
		{Word: model.Word{ID: 1, Text: "Haus", Translation: "house"}, Tier: "danger"},
		{Word: model.Word{ID: 2, Text: "Baum", Translation: "tree"}, Tier: "warning"},
	}
}

func press(m *Model, s string) tea.Cmd {
	var msg tea.KeyMsg
	switch s {
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func TestRatingRequiresReveal(t *testing.T) {
	r := &fakeReviewer{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewModel(context.Background(), r, 1, items(), nil)

	press(m, "3")
	assert.Empty(t, r.calls)
	assert.NotContains(t, m.View(), "house")

	press(m, " ")
	assert.Contains(t, m.View(), "house")
	press(m, "3")
	require.Equal(t, []srs.Bucket{srs.BucketEasy}, r.calls)
	assert.Contains(t, m.View(), "Baum")
	assert.NotContains(t, m.View(), "tree")
}

func TestSessionSummaryAfterLastCard(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := &fakeReviewer{now: now}
	m := NewModel(context.Background(), r, 1, items(), nil)

	press(m, " ")
	press(m, "1")
	press(m, " ")
	press(m, "2")

	require.True(t, m.Done())
	require.Len(t, m.Reviewed(), 2)
	assert.Equal(t, 1, m.Reviewed()[0].IntervalDays)
	out := m.View()
	assert.Contains(t, out, "Reviewed 2 words")
	assert.Contains(t, out, "hard 1  medium 1  easy 0")

	assert.NotNil(t, press(m, " "), "space quits once finished")
}

func TestSubmitErrorKeepsCard(t *testing.T) {
	r := &fakeReviewer{err: errors.New("db locked")}
	m := NewModel(context.Background(), r, 1, items(), nil)

	press(m, " ")
	press(m, "2")
	assert.False(t, m.Done())
	assert.Contains(t, m.View(), "db locked")
	assert.Contains(t, m.View(), "Haus")
}

func TestEmptyQueue(t *testing.T) {
	m := NewModel(context.Background(), &fakeReviewer{}, 1, nil, nil)
	assert.True(t, strings.HasPrefix(m.View(), "Nothing is due"))
}
