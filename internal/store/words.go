package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/verte-zerg/vocatype/internal/model"
)

// UpsertWords inserts words that are not yet known for their language.
// Existing (lang, text) pairs are left untouched and counted as skipped.
func (s *Store) UpsertWords(ctx context.Context, words []model.Word) (created, skipped int, err error) {
	err = s.inTx(ctx, func(tx *sqlx.Tx) error {
		stmt, err := tx.PreparexContext(ctx,
			`INSERT INTO words (text, translation, difficulty, lang) VALUES (?, ?, ?, ?)
			 ON CONFLICT (lang, text) DO NOTHING`)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, w := range words {
			if w.Text == "" {
				return fmt.Errorf("empty word text: %w", model.ErrInvalidInput)
			}
			res, err := stmt.ExecContext(ctx, w.Text, w.Translation, w.Difficulty, w.Lang)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if n == 0 {
				skipped++
			} else {
				created++
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return created, skipped, nil
}

// ListWords returns the stored words of a language, or all words when lang is empty.
func (s *Store) ListWords(ctx context.Context, lang string) ([]model.Word, error) {
	query := sqlBuilder.
		Select("id", "text", "translation", "difficulty", "lang").
		From("words").
		OrderBy("id ASC")
	if lang != "" {
		query = query.Where(squirrel.Eq{"lang": lang})
	}
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}
	var words []model.Word
	if err := s.db.SelectContext(ctx, &words, sqlStr, args...); err != nil {
		return nil, err
	}
	return words, nil
}

// GetWord loads one word by ID.
func (s *Store) GetWord(ctx context.Context, id int64) (model.Word, error) {
	var w model.Word
	err := s.db.GetContext(ctx, &w,
		`SELECT id, text, translation, difficulty, lang FROM words WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Word{}, fmt.Errorf("word %d: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return model.Word{}, err
	}
	return w, nil
}

// GetWordsByID loads the words with the given IDs. Missing IDs are absent from the map.
func (s *Store) GetWordsByID(ctx context.Context, ids []int64) (map[int64]model.Word, error) {
	out := make(map[int64]model.Word, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	sqlStr, args, err := sqlBuilder.
		Select("id", "text", "translation", "difficulty", "lang").
		From("words").
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, err
	}
	var words []model.Word
	if err := s.db.SelectContext(ctx, &words, sqlStr, args...); err != nil {
		return nil, err
	}
	for _, w := range words {
		out[w.ID] = w
	}
	return out, nil
}

// ListLangs returns the languages that have stored words.
func (s *Store) ListLangs(ctx context.Context) ([]string, error) {
	var langs []string
	if err := s.db.SelectContext(ctx, &langs, `SELECT DISTINCT lang FROM words ORDER BY lang`); err != nil {
		return nil, err
	}
	return langs, nil
}
