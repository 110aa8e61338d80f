package api

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/verte-zerg/vocatype/internal/logger"
)

// loggingMiddleware stores a request-scoped logger in the context and logs completion.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := s.log.With(
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		r = r.WithContext(logger.NewContext(r.Context(), log))

		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		fields := []zap.Field{
			zap.Int("status", status),
			zap.Int("size", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
		}
		switch {
		case status >= 500:
			log.Error("request completed with server error", fields...)
		case status >= 400:
			log.Warn("request completed with client error", fields...)
		default:
			log.Info("request completed", fields...)
		}
	})
}
