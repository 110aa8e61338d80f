package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/verte-zerg/vocatype/internal/logger"
	"github.com/verte-zerg/vocatype/internal/model"
	"github.com/verte-zerg/vocatype/internal/practice"
	"github.com/verte-zerg/vocatype/internal/review"
	"github.com/verte-zerg/vocatype/internal/summary"
)

type reviewRequest struct {
	Items []review.Item `json:"items"`
}

type reviewResponse struct {
	Progress []model.LearningProgress `json:"progress"`
}

type dueResponse struct {
	Items []model.DueItem `json:"items"`
}

// keystrokeRequest carries keys as one-character strings.
type keystrokeRequest struct {
	Expected    string `json:"expected"`
	Typed       string `json:"typed"`
	TimestampMs int64  `json:"timestamp_ms"`
	WordIndex   int    `json:"word_index"`
}

type summaryRequest struct {
	Words       []model.Word       `json:"words"`
	StartedAtMs int64              `json:"started_at_ms"`
	EndedAtMs   *int64             `json:"ended_at_ms"`
	Keystrokes  []keystrokeRequest `json:"keystrokes"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDue(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeError(w, r, fmt.Errorf("limit %q: %w", v, model.ErrInvalidInput))
			return
		}
	}
	items, err := s.reviews.Due(r.Context(), userID, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []model.DueItem{}
	}
	writeJSON(w, r, http.StatusOK, dueResponse{Items: items})
}

func (s *Server) handleSubmitReviews(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req reviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	updated, err := s.reviews.SubmitBatch(r.Context(), userID, req.Items)
	if err != nil {
		writeError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Debug("reviews submitted", zap.Int64("user_id", userID), zap.Int("items", len(updated)))
	writeJSON(w, r, http.StatusOK, reviewResponse{Progress: updated})
}

// handleSessionSummary replays a keystroke log and returns its summary. Nothing is stored.
func (s *Server) handleSessionSummary(w http.ResponseWriter, r *http.Request) {
	var req summaryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.EndedAtMs == nil {
		writeError(w, r, fmt.Errorf("missing ended_at_ms: %w", model.ErrSessionNotComplete))
		return
	}
	events := make([]model.KeystrokeEvent, len(req.Keystrokes))
	for i, k := range req.Keystrokes {
		expected, err := singleRune(k.Expected)
		if err != nil {
			writeError(w, r, fmt.Errorf("keystroke %d expected: %w", i, err))
			return
		}
		typed, err := singleRune(k.Typed)
		if err != nil {
			writeError(w, r, fmt.Errorf("keystroke %d typed: %w", i, err))
			return
		}
		events[i] = model.KeystrokeEvent{
			Expected:    expected,
			Typed:       typed,
			TimestampMs: k.TimestampMs,
			WordIndex:   k.WordIndex,
		}
	}
	session, err := practice.Replay(req.Words, req.StartedAtMs, *req.EndedAtMs, events)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sum, err := summary.Summarize(session)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sum)
}

func userIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "userID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("user id %q: %w", raw, model.ErrInvalidInput)
	}
	return id, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode body: %v: %w", err, model.ErrInvalidInput)
	}
	return nil
}

func singleRune(s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("want one character, got %q: %w", s, model.ErrInvalidInput)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
