// Package srs implements the SM-2 style review scheduler for vocabulary words.
package srs

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/verte-zerg/vocatype/internal/model"
)

// Review qualities on the 0..5 scale.
const (
	MinQuality    = 0
	MaxQuality    = 5
	PassQuality   = 3
	QualityHard   = 2
	QualityMedium = 3
	QualityEasy   = 5
)

// Scheduling parameters.
const (
	DefaultEase  = 2.5
	MinEase      = 1.3
	FailInterval = 1

	// MaxIntervalDays keeps interval growth inside int range on long success chains.
	MaxIntervalDays = math.MaxInt32

	failEasePenalty    = 0.2
	failMasteryPenalty = 0.2
	passMasteryGain    = 0.15
	qualityMasteryStep = 0.05
)

// Mastery thresholds for tiers.
const (
	SuccessThreshold = 0.8
	WarningThreshold = 0.5
)

// Bucket is the coarse rating a learner gives after seeing a word.
type Bucket string

// Supported buckets.
const (
	BucketHard   Bucket = "hard"
	BucketMedium Bucket = "medium"
	BucketEasy   Bucket = "easy"
)

// ParseBucket accepts "hard", "medium" or "easy", case-insensitive.
func ParseBucket(s string) (Bucket, error) {
	switch b := Bucket(strings.ToLower(strings.TrimSpace(s))); b {
	case BucketHard, BucketMedium, BucketEasy:
		return b, nil
	default:
		return "", fmt.Errorf("unknown bucket %q: %w", s, model.ErrInvalidQuality)
	}
}

// Quality maps the bucket onto the 0..5 scale.
func (b Bucket) Quality() int {
	switch b {
	case BucketHard:
		return QualityHard
	case BucketMedium:
		return QualityMedium
	case BucketEasy:
		return QualityEasy
	default:
		return -1
	}
}

// Tier is a display category for mastery.
type Tier string

// Tiers.
const (
	TierSuccess Tier = "success"
	TierWarning Tier = "warning"
	TierDanger  Tier = "danger"
)

// TierFor classifies a mastery level.
func TierFor(mastery float64) Tier {
	switch {
	case mastery >= SuccessThreshold:
		return TierSuccess
	case mastery >= WarningThreshold:
		return TierWarning
	default:
		return TierDanger
	}
}

// ValidQuality reports whether q is on the 0..5 scale.
func ValidQuality(q int) bool {
	return q >= MinQuality && q <= MaxQuality
}

// NewProgress returns the initial state for a word never reviewed; it is due immediately.
func NewProgress(userID, wordID int64, now time.Time) model.LearningProgress {
	return model.LearningProgress{
		UserID:       userID,
		WordID:       wordID,
		MasteryLevel: 0,
		EaseFactor:   DefaultEase,
		IntervalDays: 0,
		NextReviewAt: now,
	}
}

// Review applies one rating and returns the updated progress.
// The input is not modified.
func Review(p model.LearningProgress, quality int, now time.Time) (model.LearningProgress, error) {
	if !ValidQuality(quality) {
		return p, fmt.Errorf("quality %d: %w", quality, model.ErrInvalidQuality)
	}

	next := p
	next.ReviewHistory = make([]model.ReviewRecord, len(p.ReviewHistory), len(p.ReviewHistory)+1)
	copy(next.ReviewHistory, p.ReviewHistory)

	if quality < PassQuality {
		next.IntervalDays = FailInterval
		next.EaseFactor = math.Max(MinEase, p.EaseFactor-failEasePenalty)
		next.MasteryLevel = math.Max(0, p.MasteryLevel-failMasteryPenalty)
	} else {
		miss := float64(MaxQuality - quality)
		ease := p.EaseFactor + (0.1 - miss*(0.08+miss*0.02))
		next.EaseFactor = math.Max(MinEase, ease)
		if p.IntervalDays == 0 {
			next.IntervalDays = 1
		} else {
			next.IntervalDays = int(math.Min(MaxIntervalDays, math.Round(float64(p.IntervalDays)*next.EaseFactor)))
		}
		gain := passMasteryGain + qualityMasteryStep*float64(quality-PassQuality)
		next.MasteryLevel = math.Min(1, p.MasteryLevel+gain)
	}

	next.NextReviewAt = now.AddDate(0, 0, next.IntervalDays)
	next.ReviewHistory = append(next.ReviewHistory, model.ReviewRecord{Quality: quality, ReviewedAt: now})
	return next, nil
}

// IsDue reports whether the word should be reviewed at now.
func IsDue(p model.LearningProgress, now time.Time) bool {
	return !now.Before(p.NextReviewAt)
}

// Submission is one rating in a batch.
type Submission struct {
	WordID  int64
	Quality int
}

// SubmitBatch applies submissions in order against the progress map and returns
// the updated records in submission order. All qualities are checked before any
// update is made. A word submitted twice chains on its first update.
func SubmitBatch(progress map[int64]model.LearningProgress, subs []Submission, userID int64, now time.Time) ([]model.LearningProgress, error) {
	for i, sub := range subs {
		if !ValidQuality(sub.Quality) {
			return nil, fmt.Errorf("submission %d (word %d) quality %d: %w", i, sub.WordID, sub.Quality, model.ErrInvalidQuality)
		}
	}

	out := make([]model.LearningProgress, 0, len(subs))
	for _, sub := range subs {
		current, ok := progress[sub.WordID]
		if !ok {
			current = NewProgress(userID, sub.WordID, now)
		}
		updated, err := Review(current, sub.Quality, now)
		if err != nil {
			return nil, err
		}
		progress[sub.WordID] = updated
		out = append(out, updated)
	}
	return out, nil
}

// DueList returns due records ordered by NextReviewAt, then lowest mastery, then word ID.
func DueList(progress []model.LearningProgress, now time.Time) []model.LearningProgress {
	due := make([]model.LearningProgress, 0, len(progress))
	for _, p := range progress {
		if IsDue(p, now) {
			due = append(due, p)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		a, b := due[i], due[j]
		if !a.NextReviewAt.Equal(b.NextReviewAt) {
			return a.NextReviewAt.Before(b.NextReviewAt)
		}
		if a.MasteryLevel != b.MasteryLevel {
			return a.MasteryLevel < b.MasteryLevel
		}
		return a.WordID < b.WordID
	})
	return due
}
