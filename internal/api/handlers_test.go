package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/vocatype/internal/api"
	"github.com/verte-zerg/vocatype/internal/model"
	"github.com/verte-zerg/vocatype/internal/review"
	"github.com/verte-zerg/vocatype/internal/srs"
	"github.com/verte-zerg/vocatype/internal/testutil/mocks"
)

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestHealth(t *testing.T) {
	h := api.NewServer(new(mocks.MockReviews), nil, nil).Routes()
	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSubmitReviews(t *testing.T) {
	reviews := new(mocks.MockReviews)
	next := time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)
	reviews.On("SubmitBatch", mock.Anything, int64(7), []review.Item{
		{WordID: 1, Bucket: srs.BucketEasy},
		{WordID: 2, Bucket: srs.BucketHard},
	}).Return([]model.LearningProgress{
		{UserID: 7, WordID: 1, IntervalDays: 1, EaseFactor: 2.6, MasteryLevel: 0.25, NextReviewAt: next},
		{UserID: 7, WordID: 2, IntervalDays: 1, EaseFactor: 2.3, NextReviewAt: next},
	}, nil)
	h := api.NewServer(reviews, nil, nil).Routes()

	rec := do(t, h, http.MethodPost, "/users/7/reviews",
		`{"items":[{"word_id":1,"bucket":"easy"},{"word_id":2,"bucket":"hard"}]}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		Progress []model.LearningProgress `json:"progress"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Progress, 2)
	assert.InDelta(t, 2.6, body.Progress[0].EaseFactor, 1e-9)
	reviews.AssertExpectations(t)
}

func TestSubmitReviewsErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"quality", fmt.Errorf("bucket: %w", model.ErrInvalidQuality), http.StatusBadRequest, "invalid_quality"},
		{"missing word", fmt.Errorf("word 9: %w", model.ErrNotFound), http.StatusNotFound, "not_found"},
		{"internal", fmt.Errorf("disk full"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reviews := new(mocks.MockReviews)
			reviews.On("SubmitBatch", mock.Anything, int64(1), mock.Anything).Return(nil, tc.err)
			h := api.NewServer(reviews, nil, nil).Routes()

			rec := do(t, h, http.MethodPost, "/users/1/reviews", `{"items":[{"word_id":9,"bucket":"meh"}]}`)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.code, decodeError(t, rec).Error.Code)
		})
	}
}

func TestSubmitReviewsRejectsBadRequests(t *testing.T) {
	reviews := new(mocks.MockReviews)
	h := api.NewServer(reviews, nil, nil).Routes()

	rec := do(t, h, http.MethodPost, "/users/abc/reviews", `{"items":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/users/1/reviews", `{"items":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_input", decodeError(t, rec).Error.Code)

	rec = do(t, h, http.MethodPost, "/users/1/reviews", `{"items":[],"extra":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	reviews.AssertNotCalled(t, "SubmitBatch", mock.Anything, mock.Anything, mock.Anything)
}

func TestDue(t *testing.T) {
	reviews := new(mocks.MockReviews)
	reviews.On("Due", mock.Anything, int64(3), 5).Return([]model.DueItem{
		{Word: model.Word{ID: 4, Text: "Haus"}, Tier: "danger"},
	}, nil)
	reviews.On("Due", mock.Anything, int64(4), 0).Return(nil, nil)
	h := api.NewServer(reviews, nil, nil).Routes()

	rec := do(t, h, http.MethodGet, "/users/3/due?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"text":"Haus"`)

	rec = do(t, h, http.MethodGet, "/users/4/due", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/users/3/due?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionSummary(t *testing.T) {
	h := api.NewServer(new(mocks.MockReviews), nil, nil).Routes()
	body := `{
		"words":[{"text":"cat"},{"text":"dog"}],
		"started_at_ms":0,
		"ended_at_ms":60000,
		"keystrokes":[
			{"expected":"c","typed":"c","timestamp_ms":100,"word_index":0},
			{"expected":"a","typed":"x","timestamp_ms":200,"word_index":0},
			{"expected":"t","typed":"t","timestamp_ms":300,"word_index":0},
			{"expected":" ","typed":" ","timestamp_ms":400,"word_index":0},
			{"expected":"d","typed":"d","timestamp_ms":500,"word_index":1},
			{"expected":"o","typed":"o","timestamp_ms":600,"word_index":1},
			{"expected":"g","typed":"g","timestamp_ms":700,"word_index":1}
		]
	}`

	rec := do(t, h, http.MethodPost, "/sessions/summary", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var sum model.SessionSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	assert.Equal(t, 83.0, sum.AccuracyPercent)
	assert.InDelta(t, 1.2, sum.WPM, 1e-9)
	assert.Equal(t, int64(60000), sum.ElapsedMs)
	assert.Equal(t, map[string]int{"a": 1}, sum.KeyErrorCounts)
	require.Len(t, sum.WrongWords, 1)
	assert.Equal(t, "cat", sum.WrongWords[0].Text)
}

func TestSessionSummaryErrors(t *testing.T) {
	h := api.NewServer(new(mocks.MockReviews), nil, nil).Routes()

	rec := do(t, h, http.MethodPost, "/sessions/summary", `{"words":[{"text":"a"}],"started_at_ms":0,"keystrokes":[]}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "session_not_complete", decodeError(t, rec).Error.Code)

	rec = do(t, h, http.MethodPost, "/sessions/summary", `{"words":[{"text":"a"}],"started_at_ms":500,"ended_at_ms":100}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_session", decodeError(t, rec).Error.Code)

	rec = do(t, h, http.MethodPost, "/sessions/summary",
		`{"words":[{"text":"a"}],"started_at_ms":0,"ended_at_ms":100,"keystrokes":[{"expected":"ab","typed":"a"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_input", decodeError(t, rec).Error.Code)

	rec = do(t, h, http.MethodPost, "/sessions/summary",
		`{"words":[{"text":"a"},{"text":""}],"started_at_ms":0,"ended_at_ms":100}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_input", decodeError(t, rec).Error.Code)

	rec = do(t, h, http.MethodPost, "/sessions/summary",
		`{"words":[{"text":"a"}],"started_at_ms":0,"ended_at_ms":100,"keystrokes":[{"expected":"a","typed":"a","timestamp_ms":-3}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_session", decodeError(t, rec).Error.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := api.NewServer(new(mocks.MockReviews), nil, []string{"http://localhost:3000"}).Routes()
	req := httptest.NewRequest(http.MethodOptions, "/users/1/due", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
