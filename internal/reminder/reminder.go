// Package reminder notifies users about unpaid bills that are overdue or
// due soon. A cron schedule drives the scans; each scan hands every due
// bill to every configured Notifier.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mmynk/mefinance/internal/metrics"
	"github.com/mmynk/mefinance/internal/models"
)

// ErrNoRecipient is returned by a Notifier that cannot reach the bill's owner.
// The scheduler skips it silently.
var ErrNoRecipient = errors.New("no recipient address")

const (
	KindUpcoming = "upcoming"
	KindOverdue  = "overdue"
)

// Reminder is one notification about one bill.
type Reminder struct {
	BillID   string
	UserID   string
	Username string
	Email    string
	BillName string
	Amount   float64
	DueDate  time.Time
	Overdue  bool
}

// Kind returns KindOverdue or KindUpcoming.
func (r Reminder) Kind() string {
	if r.Overdue {
		return KindOverdue
	}
	return KindUpcoming
}

// Notifier delivers reminders.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, r Reminder) error
}

// Source lists unpaid bills due before a cutoff. storage.BookStore satisfies it.
type Source interface {
	ListDueBills(ctx context.Context, before time.Time) ([]*models.DueBill, error)
}

// Scheduler scans for due bills on a cron schedule.
type Scheduler struct {
	source    Source
	notifiers []Notifier
	lookahead time.Duration
	metrics   *metrics.Metrics
	now       func() time.Time
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithMetrics counts sent reminders.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// NewScheduler reminds about bills due within lookahead of each scan.
func NewScheduler(source Source, lookahead time.Duration, notifiers []Notifier, opts ...Option) *Scheduler {
	s := &Scheduler{
		source:    source,
		notifiers: notifiers,
		lookahead: lookahead,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunOnce performs a single scan and returns how many reminders were delivered.
// A failing notifier is logged and does not stop the scan.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	now := s.now()
	due, err := s.source.ListDueBills(ctx, now.Add(s.lookahead))
	if err != nil {
		return 0, fmt.Errorf("list due bills: %w", err)
	}

	sent := 0
	for _, bill := range due {
		r := Reminder{
			BillID:   bill.ID,
			UserID:   bill.UserID,
			Username: bill.Username,
			Email:    bill.Email,
			BillName: bill.Name,
			Amount:   bill.Amount,
			DueDate:  time.Unix(bill.DueDate, 0).UTC(),
			Overdue:  bill.DueDate < now.Unix(),
		}
		for _, n := range s.notifiers {
			err := n.Notify(ctx, r)
			if errors.Is(err, ErrNoRecipient) {
				continue
			}
			if err != nil {
				slog.Error("Reminder failed", "notifier", n.Name(), "bill_id", r.BillID, "error", err)
				continue
			}
			sent++
			if s.metrics != nil {
				s.metrics.ObserveReminder(n.Name(), r.Kind())
			}
		}
	}

	slog.Info("Reminder scan complete", "due_bills", len(due), "sent", sent)
	return sent, nil
}

// Run scans on schedule until ctx is cancelled, then waits for a running
// scan to finish.
func (s *Scheduler) Run(ctx context.Context, schedule string) error {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if _, err := s.RunOnce(ctx); err != nil {
			slog.Error("Reminder scan failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}

	slog.Info("Reminder scheduler started", "schedule", schedule, "lookahead", s.lookahead)
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	slog.Info("Reminder scheduler stopped")
	return nil
}
