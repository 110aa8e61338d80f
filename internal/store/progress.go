package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/verte-zerg/vocatype/internal/logger"
	"github.com/verte-zerg/vocatype/internal/model"
)

type progressRow struct {
	UserID       int64   `db:"user_id"`
	WordID       int64   `db:"word_id"`
	MasteryLevel float64 `db:"mastery_level"`
	EaseFactor   float64 `db:"ease_factor"`
	IntervalDays int     `db:"interval_days"`
	NextReviewAt int64   `db:"next_review_at"`
}

type historyRow struct {
	WordID     int64 `db:"word_id"`
	Quality    int   `db:"quality"`
	ReviewedAt int64 `db:"reviewed_at"`
}

func (r progressRow) toModel() model.LearningProgress {
	return model.LearningProgress{
		UserID:       r.UserID,
		WordID:       r.WordID,
		MasteryLevel: r.MasteryLevel,
		EaseFactor:   r.EaseFactor,
		IntervalDays: r.IntervalDays,
		NextReviewAt: fromMillis(r.NextReviewAt),
	}
}

// GetProgress loads one progress record with its review history.
func (s *Store) GetProgress(ctx context.Context, userID, wordID int64) (model.LearningProgress, error) {
	var row progressRow
	err := s.db.GetContext(ctx, &row,
		`SELECT user_id, word_id, mastery_level, ease_factor, interval_days, next_review_at
		 FROM learning_progress WHERE user_id = ? AND word_id = ?`, userID, wordID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.LearningProgress{}, fmt.Errorf("progress user=%d word=%d: %w", userID, wordID, model.ErrNotFound)
	}
	if err != nil {
		return model.LearningProgress{}, err
	}
	p := row.toModel()
	history, err := s.loadHistory(ctx, userID, []int64{wordID})
	if err != nil {
		return model.LearningProgress{}, err
	}
	p.ReviewHistory = history[wordID]
	return p, nil
}

// ListProgress returns every progress record of a user with review histories.
func (s *Store) ListProgress(ctx context.Context, userID int64) ([]model.LearningProgress, error) {
	var rows []progressRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT user_id, word_id, mastery_level, ease_factor, interval_days, next_review_at
		 FROM learning_progress WHERE user_id = ? ORDER BY word_id`, userID); err != nil {
		return nil, err
	}
	ids := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.WordID
	}
	history, err := s.loadHistory(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	out := make([]model.LearningProgress, 0, len(rows))
	for _, r := range rows {
		p := r.toModel()
		p.ReviewHistory = history[r.WordID]
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) loadHistory(ctx context.Context, userID int64, wordIDs []int64) (map[int64][]model.ReviewRecord, error) {
	out := map[int64][]model.ReviewRecord{}
	if len(wordIDs) == 0 {
		return out, nil
	}
	sqlStr, args, err := sqlBuilder.
		Select("word_id", "quality", "reviewed_at").
		From("review_history").
		Where(squirrel.Eq{"user_id": userID, "word_id": wordIDs}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}
	var rows []historyRow
	if err := s.db.SelectContext(ctx, &rows, sqlStr, args...); err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.WordID] = append(out[r.WordID], model.ReviewRecord{Quality: r.Quality, ReviewedAt: fromMillis(r.ReviewedAt)})
	}
	return out, nil
}

// SaveProgress persists one updated record. See SaveProgressBatch.
func (s *Store) SaveProgress(ctx context.Context, p model.LearningProgress) error {
	return s.SaveProgressBatch(ctx, []model.LearningProgress{p})
}

// SaveProgressBatch upserts records in order inside one transaction and appends
// the newest history entry of each. Records are expected to come straight from a
// single review, so only the last history entry is new.
func (s *Store) SaveProgressBatch(ctx context.Context, batch []model.LearningProgress) error {
	if len(batch) == 0 {
		return nil
	}
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, p := range batch {
			row := progressRow{
				UserID:       p.UserID,
				WordID:       p.WordID,
				MasteryLevel: p.MasteryLevel,
				EaseFactor:   p.EaseFactor,
				IntervalDays: p.IntervalDays,
				NextReviewAt: toMillis(p.NextReviewAt),
			}
			if _, err := tx.NamedExecContext(ctx,
				`INSERT INTO learning_progress (user_id, word_id, mastery_level, ease_factor, interval_days, next_review_at)
				 VALUES (:user_id, :word_id, :mastery_level, :ease_factor, :interval_days, :next_review_at)
				 ON CONFLICT (user_id, word_id) DO UPDATE SET
					mastery_level = excluded.mastery_level,
					ease_factor = excluded.ease_factor,
					interval_days = excluded.interval_days,
					next_review_at = excluded.next_review_at`, row); err != nil {
				return err
			}
			if n := len(p.ReviewHistory); n > 0 {
				last := p.ReviewHistory[n-1]
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO review_history (user_id, word_id, quality, reviewed_at) VALUES (?, ?, ?, ?)`,
					p.UserID, p.WordID, last.Quality, toMillis(last.ReviewedAt)); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		logger.FromContext(ctx).Error("save progress failed", zap.Int("records", len(batch)), zap.Error(err))
		return err
	}
	logger.FromContext(ctx).Debug("progress saved", zap.Int("records", len(batch)))
	return nil
}

// CountDue counts the user's records due at now.
func (s *Store) CountDue(ctx context.Context, userID int64, now time.Time) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM learning_progress WHERE user_id = ? AND next_review_at <= ?`,
		userID, toMillis(now))
	if err != nil {
		return 0, err
	}
	return n, nil
}
