// Package api exposes review and summary operations over HTTP for other frontends.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/verte-zerg/vocatype/internal/model"
	"github.com/verte-zerg/vocatype/internal/review"
)

const (
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 5 * time.Second
	maxBodyBytes    = 1 << 20
)

// Reviews is the review service surface the handlers need.
type Reviews interface {
	SubmitBatch(ctx context.Context, userID int64, items []review.Item) ([]model.LearningProgress, error)
	Due(ctx context.Context, userID int64, limit int) ([]model.DueItem, error)
}

// Server holds handler dependencies.
type Server struct {
	reviews        Reviews
	log            *zap.Logger
	allowedOrigins []string
}

// NewServer creates a Server. An empty origin list allows any origin.
func NewServer(reviews Reviews, log *zap.Logger, allowedOrigins []string) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{reviews: reviews, log: log, allowedOrigins: allowedOrigins}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(s.corsHandler().Handler)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(requestTimeout))

	r.Get("/health", s.handleHealth)
	r.Route("/users/{userID}", func(r chi.Router) {
		r.Get("/due", s.handleDue)
		r.Post("/reviews", s.handleSubmitReviews)
	})
	r.Post("/sessions/summary", s.handleSessionSummary)
	return r
}

func (s *Server) corsHandler() *cors.Cors {
	origins := s.allowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	})
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info("server shutting down")
	return srv.Shutdown(shutdownCtx)
}
