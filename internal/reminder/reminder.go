// Package reminder periodically tells the learner when vocabulary reviews are due.
package reminder

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/verte-zerg/vocatype/internal/logger"
	"github.com/verte-zerg/vocatype/internal/model"
)

// Counter counts due progress records.
type Counter interface {
	CountDue(ctx context.Context, userID int64, now time.Time) (int, error)
}

// Notifier delivers a reminder.
type Notifier interface {
	Notify(ctx context.Context, userID int64, due int) error
}

// TerminalNotifier rings the terminal bell and prints a line.
type TerminalNotifier struct {
	W io.Writer
}

// Notify implements Notifier.
func (n TerminalNotifier) Notify(ctx context.Context, userID int64, due int) error {
	logger.FromContext(ctx).Info("reviews due", zap.Int64("user_id", userID), zap.Int("due", due))
	_, err := fmt.Fprintf(n.W, "\a%d word(s) due for review. Run `vocatype review`.\n", due)
	return err
}

// Reminder checks for due reviews on a fixed interval.
type Reminder struct {
	counter  Counter
	notifier Notifier
	userID   int64
	now      func() time.Time

	scheduler *gocron.Scheduler
}

// New creates a Reminder for one user.
func New(counter Counter, notifier Notifier, userID int64) *Reminder {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Reminder{
		counter:   counter,
		notifier:  notifier,
		userID:    userID,
		now:       time.Now,
		scheduler: s,
	}
}

// RunOnce counts due reviews and notifies when there are any.
func (r *Reminder) RunOnce(ctx context.Context) (int, error) {
	due, err := r.counter.CountDue(ctx, r.userID, r.now())
	if err != nil {
		return 0, fmt.Errorf("count due: %w", err)
	}
	if due == 0 {
		logger.FromContext(ctx).Debug("nothing due", zap.Int64("user_id", r.userID))
		return 0, nil
	}
	if err := r.notifier.Notify(ctx, r.userID, due); err != nil {
		return due, fmt.Errorf("notify: %w", err)
	}
	return due, nil
}

// Start runs RunOnce immediately and then every interval until Stop.
func (r *Reminder) Start(ctx context.Context, every time.Duration) error {
	if every <= 0 {
		return fmt.Errorf("reminder interval %s: %w", every, model.ErrInvalidInput)
	}
	log := logger.FromContext(ctx)
	_, err := r.scheduler.Every(every).Do(func() {
		if _, err := r.RunOnce(ctx); err != nil {
			log.Error("reminder run failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule reminder: %w", err)
	}
	r.scheduler.StartAsync()
	log.Info("reminder started", zap.Duration("every", every), zap.Int64("user_id", r.userID))
	return nil
}

// Stop halts the schedule.
func (r *Reminder) Stop() {
	r.scheduler.Stop()
}
