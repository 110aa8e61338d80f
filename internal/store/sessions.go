package store

import (
	"context"
	"sort"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/verte-zerg/vocatype/internal/logger"
	"github.com/verte-zerg/vocatype/internal/model"
)

type sessionRow struct {
	UUID        string  `db:"uuid"`
	StartedAt   string  `db:"started_at"`
	EndedAt     string  `db:"ended_at"`
	Lang        string  `db:"lang"`
	Words       int     `db:"words"`
	CapsPct     float64 `db:"caps_pct"`
	PunctPct    float64 `db:"punct_pct"`
	PunctSet    string  `db:"punct_set"`
	DeckPath    string  `db:"deck_path"`
	TotalChars  int     `db:"total_chars"`
	TotalErrors int     `db:"total_errors"`
	Accuracy    float64 `db:"accuracy"`
	WPM         float64 `db:"wpm"`
	ElapsedMs   int64   `db:"elapsed_ms"`
}

type sessionAggRow struct {
	ID          int64   `db:"id"`
	EndedAt     string  `db:"ended_at"`
	Accuracy    float64 `db:"accuracy"`
	WPM         float64 `db:"wpm"`
	ElapsedMs   int64   `db:"elapsed_ms"`
	TotalChars  int     `db:"total_chars"`
	TotalErrors int     `db:"total_errors"`
}

// InsertSession stores a finished session summary with its key errors and wrong words.
func (s *Store) InsertSession(ctx context.Context, meta model.SessionMeta, sum model.SessionSummary) (int64, error) {
	row := sessionRow{
		UUID:        sum.SessionID.String(),
		StartedAt:   formatTime(meta.StartedAt),
		EndedAt:     formatTime(meta.EndedAt),
		Lang:        meta.Lang,
		Words:       meta.Words,
		CapsPct:     meta.CapsPct,
		PunctPct:    meta.PunctPct,
		PunctSet:    meta.PunctSet,
		DeckPath:    meta.DeckPath,
		TotalChars:  sum.TotalChars,
		TotalErrors: sum.TotalErrors,
		Accuracy:    sum.AccuracyPercent,
		WPM:         sum.WPM,
		ElapsedMs:   sum.ElapsedMs,
	}

	var id int64
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.NamedExecContext(ctx,
			`INSERT INTO sessions (uuid, started_at, ended_at, lang, words, caps_pct, punct_pct, punct_set, deck_path, total_chars, total_errors, accuracy, wpm, elapsed_ms)
			 VALUES (:uuid, :started_at, :ended_at, :lang, :words, :caps_pct, :punct_pct, :punct_set, :deck_path, :total_chars, :total_errors, :accuracy, :wpm, :elapsed_ms)`,
			row)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		if err != nil {
			return err
		}

		keys := make([]string, 0, len(sum.KeyErrorCounts))
		for key := range sum.KeyErrorCounts {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO session_key_errors (session_id, key_name, errors) VALUES (?, ?, ?)`,
				id, key, sum.KeyErrorCounts[key]); err != nil {
				return err
			}
		}
		for i, w := range sum.WrongWords {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO session_wrong_words (session_id, position, text) VALUES (?, ?, ?)`,
				id, i, w.Text); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.FromContext(ctx).Error("insert session failed", zap.String("uuid", row.UUID), zap.Error(err))
		return 0, err
	}
	return id, nil
}

// ListSessions returns session aggregates filtered by stats config, oldest first.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	query := sqlBuilder.
		Select("id", "ended_at", "accuracy", "wpm", "elapsed_ms", "total_chars", "total_errors").
		From("sessions").
		OrderBy("ended_at ASC", "id ASC")
	if cfg.Lang != "" {
		query = query.Where(squirrel.Eq{"lang": cfg.Lang})
	}
	if cfg.Since != nil {
		query = query.Where(squirrel.GtOrEq{"ended_at": formatTime(*cfg.Since)})
	}
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var rows []sessionAggRow
	if err := s.db.SelectContext(ctx, &rows, sqlStr, args...); err != nil {
		return nil, err
	}
	sessions := make([]model.SessionAggregate, 0, len(rows))
	for _, r := range rows {
		endedAt, err := parseTime(r.EndedAt)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, model.SessionAggregate{
			SessionID:   r.ID,
			EndedAt:     endedAt,
			Accuracy:    r.Accuracy,
			WPM:         r.WPM,
			ElapsedMs:   r.ElapsedMs,
			TotalChars:  r.TotalChars,
			TotalErrors: r.TotalErrors,
		})
	}
	return sessions, nil
}

// ListKeyErrorsForSessions sums key errors across the given sessions.
func (s *Store) ListKeyErrorsForSessions(ctx context.Context, sessionIDs []int64) ([]model.KeyErrorAggregate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	sqlStr, args, err := sqlBuilder.
		Select("key_name AS key", "SUM(errors) AS errors").
		From("session_key_errors").
		Where(squirrel.Eq{"session_id": sessionIDs}).
		GroupBy("key_name").
		ToSql()
	if err != nil {
		return nil, err
	}
	var result []model.KeyErrorAggregate
	if err := s.db.SelectContext(ctx, &result, sqlStr, args...); err != nil {
		return nil, err
	}
	return result, nil
}

// GetWeakKeys aggregates key errors over the most recent window sessions.
func (s *Store) GetWeakKeys(ctx context.Context, window int, lang string) ([]model.KeyErrorAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	query := `WITH recent_sessions AS (
		SELECT id FROM sessions
		WHERE (? = '' OR lang = ?)
		ORDER BY ended_at DESC, id DESC
		LIMIT ?
	)
	SELECT ke.key_name AS key, SUM(ke.errors) AS errors
	FROM session_key_errors ke
	JOIN recent_sessions r ON r.id = ke.session_id
	GROUP BY ke.key_name`

	var result []model.KeyErrorAggregate
	if err := s.db.SelectContext(ctx, &result, query, lang, lang, window); err != nil {
		return nil, err
	}
	return result, nil
}

// RecentWrongWords returns the distinct words missed in the last window sessions,
// most recent first.
func (s *Store) RecentWrongWords(ctx context.Context, window int, lang string) ([]string, error) {
	if window <= 0 {
		return nil, nil
	}
	query := `WITH recent_sessions AS (
		SELECT id, ended_at FROM sessions
		WHERE (? = '' OR lang = ?)
		ORDER BY ended_at DESC, id DESC
		LIMIT ?
	)
	SELECT ww.text
	FROM session_wrong_words ww
	JOIN recent_sessions r ON r.id = ww.session_id
	GROUP BY ww.text
	ORDER BY MAX(r.ended_at) DESC, MIN(ww.position) ASC`

	var words []string
	if err := s.db.SelectContext(ctx, &words, query, lang, lang, window); err != nil {
		return nil, err
	}
	return words, nil
}
