package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/verte-zerg/vocatype/internal/logger"
	"github.com/verte-zerg/vocatype/internal/model"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusFor maps a domain error onto an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrInvalidQuality):
		return http.StatusBadRequest, "invalid_quality"
	case errors.Is(err, model.ErrInvalidSession):
		return http.StatusBadRequest, "invalid_session"
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, model.ErrSessionNotComplete):
		return http.StatusConflict, "session_not_complete"
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, "not_found"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	status, code := statusFor(err)
	msg := err.Error()
	if status >= 500 {
		log.Error("server error", zap.Error(err))
		msg = http.StatusText(status)
	} else {
		log.Warn("client error", zap.Error(err))
	}
	writeJSON(w, r, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("encode response failed", zap.Error(err))
	}
}
