// Package review applies spaced-repetition ratings to stored learning progress.
package review

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/vocatype/internal/logger"
	"github.com/verte-zerg/vocatype/internal/model"
	"github.com/verte-zerg/vocatype/internal/srs"
)

// Repository is the persistence the service needs.
type Repository interface {
	GetWordsByID(ctx context.Context, ids []int64) (map[int64]model.Word, error)
	ListProgress(ctx context.Context, userID int64) ([]model.LearningProgress, error)
	SaveProgressBatch(ctx context.Context, batch []model.LearningProgress) error
}

// Item is one rating submitted from a review screen or the HTTP boundary.
type Item struct {
	WordID int64      `json:"word_id"`
	Bucket srs.Bucket `json:"bucket"`
}

// Service serializes reviews per user so concurrent submissions for the
// same records never interleave.
type Service struct {
	repo Repository
	now  func() time.Time

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewService creates a Service. A nil clock uses time.Now.
func NewService(repo Repository, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo, now: now, locks: map[int64]*sync.Mutex{}}
}

func (s *Service) lockUser(userID int64) func() {
	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// Submit rates a single word.
func (s *Service) Submit(ctx context.Context, userID, wordID int64, bucket srs.Bucket) (model.LearningProgress, error) {
	out, err := s.SubmitBatch(ctx, userID, []Item{{WordID: wordID, Bucket: bucket}})
	if err != nil {
		return model.LearningProgress{}, err
	}
	return out[0], nil
}

// SubmitBatch rates words in order and persists the result in one transaction.
// Nothing is stored when any item is invalid.
func (s *Service) SubmitBatch(ctx context.Context, userID int64, items []Item) ([]model.LearningProgress, error) {
	log := logger.FromContext(ctx).With(zap.Int64("user_id", userID))
	if userID <= 0 {
		return nil, fmt.Errorf("user id %d: %w", userID, model.ErrInvalidInput)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("empty review batch: %w", model.ErrInvalidInput)
	}

	subs := make([]srs.Submission, len(items))
	ids := make([]int64, 0, len(items))
	for i, item := range items {
		q := item.Bucket.Quality()
		if q < 0 {
			return nil, fmt.Errorf("item %d bucket %q: %w", i, item.Bucket, model.ErrInvalidQuality)
		}
		subs[i] = srs.Submission{WordID: item.WordID, Quality: q}
		ids = append(ids, item.WordID)
	}

	unlock := s.lockUser(userID)
	defer unlock()

	words, err := s.repo.GetWordsByID(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load words: %w", err)
	}
	for _, id := range ids {
		if _, ok := words[id]; !ok {
			return nil, fmt.Errorf("word %d: %w", id, model.ErrNotFound)
		}
	}

	existing, err := s.repo.ListProgress(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	progress := make(map[int64]model.LearningProgress, len(existing))
	for _, p := range existing {
		progress[p.WordID] = p
	}

	updated, err := srs.SubmitBatch(progress, subs, userID, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveProgressBatch(ctx, updated); err != nil {
		log.Error("persist reviews failed", zap.Error(err))
		return nil, fmt.Errorf("save progress: %w", err)
	}
	log.Debug("reviews applied", zap.Int("items", len(updated)))
	return updated, nil
}

// Enroll creates initial progress for words the user has not seen yet.
// It returns how many words were enrolled.
func (s *Service) Enroll(ctx context.Context, userID int64, words []model.Word) (int, error) {
	if userID <= 0 {
		return 0, fmt.Errorf("user id %d: %w", userID, model.ErrInvalidInput)
	}
	unlock := s.lockUser(userID)
	defer unlock()

	existing, err := s.repo.ListProgress(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("load progress: %w", err)
	}
	known := make(map[int64]bool, len(existing))
	for _, p := range existing {
		known[p.WordID] = true
	}
	now := s.now()
	var fresh []model.LearningProgress
	for _, w := range words {
		if known[w.ID] {
			continue
		}
		known[w.ID] = true
		fresh = append(fresh, srs.NewProgress(userID, w.ID, now))
	}
	if err := s.repo.SaveProgressBatch(ctx, fresh); err != nil {
		return 0, fmt.Errorf("save progress: %w", err)
	}
	return len(fresh), nil
}

// Due returns up to limit due words in review order. A limit <= 0 means no limit.
func (s *Service) Due(ctx context.Context, userID int64, limit int) ([]model.DueItem, error) {
	all, err := s.repo.ListProgress(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	due := srs.DueList(all, s.now())
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return s.withWords(ctx, due)
}

// Overview returns every progress record of the user with its word and tier.
func (s *Service) Overview(ctx context.Context, userID int64) ([]model.DueItem, error) {
	all, err := s.repo.ListProgress(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	return s.withWords(ctx, all)
}

func (s *Service) withWords(ctx context.Context, progress []model.LearningProgress) ([]model.DueItem, error) {
	ids := make([]int64, len(progress))
	for i, p := range progress {
		ids[i] = p.WordID
	}
	words, err := s.repo.GetWordsByID(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load words: %w", err)
	}
	items := make([]model.DueItem, 0, len(progress))
	for _, p := range progress {
		w, ok := words[p.WordID]
		if !ok {
			continue
		}
		items = append(items, model.DueItem{Word: w, Progress: p, Tier: string(srs.TierFor(p.MasteryLevel))})
	}
	return items, nil
}
