package reminder

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jordan-wright/email"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmynk/mefinance/internal/metrics"
	"github.com/mmynk/mefinance/internal/models"
)

// stubSource filters a fixed set of bills the way storage does.
type stubSource struct {
	bills  []*models.DueBill
	before time.Time
	err    error
}

func (s *stubSource) ListDueBills(ctx context.Context, before time.Time) ([]*models.DueBill, error) {
	s.before = before
	if s.err != nil {
		return nil, s.err
	}
	var out []*models.DueBill
	for _, b := range s.bills {
		if !b.IsPaid && b.DueDate < before.Unix() {
			out = append(out, b)
		}
	}
	return out, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	name string
	got  []Reminder
	err  error
}

func (n *recordingNotifier) Name() string { return n.name }

func (n *recordingNotifier) Notify(ctx context.Context, r Reminder) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.got = append(n.got, r)
	return nil
}

func dueBill(id string, due time.Time, paid bool) *models.DueBill {
	return &models.DueBill{
		Bill:     models.Bill{ID: id, UserID: "u1", Name: id, Amount: 10, DueDate: due.Unix(), IsPaid: paid},
		Username: "alice",
	}
}

func TestRunOnce(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	source := &stubSource{bills: []*models.DueBill{
		dueBill("overdue", now.Add(-24*time.Hour), false),
		dueBill("soon", now.Add(24*time.Hour), false),
		dueBill("paid", now.Add(time.Hour), true),
		dueBill("later", now.Add(10*24*time.Hour), false),
	}}
	notifier := &recordingNotifier{name: "test"}
	m := metrics.New(prometheus.NewRegistry())

	s := NewScheduler(source, 72*time.Hour, []Notifier{notifier},
		WithMetrics(m),
		WithClock(func() time.Time { return now }),
	)

	sent, err := s.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}
	if sent != 2 {
		t.Fatalf("expected 2 reminders, got %d", sent)
	}
	if !source.before.Equal(now.Add(72 * time.Hour)) {
		t.Errorf("cutoff: expected now+72h, got %v", source.before)
	}

	kinds := map[string]string{}
	for _, r := range notifier.got {
		kinds[r.BillID] = r.Kind()
	}
	if kinds["overdue"] != KindOverdue || kinds["soon"] != KindUpcoming {
		t.Errorf("unexpected kinds: %v", kinds)
	}
	if got := testutil.ToFloat64(m.RemindersSent.WithLabelValues("test", KindOverdue)); got != 1 {
		t.Errorf("overdue metric = %v, want 1", got)
	}
}

func TestRunOnce_NotifierFailures(t *testing.T) {
	now := time.Now()
	source := &stubSource{bills: []*models.DueBill{dueBill("b1", now.Add(time.Hour), false)}}
	broken := &recordingNotifier{name: "broken", err: errors.New("smtp down")}
	skipping := &recordingNotifier{name: "skip", err: ErrNoRecipient}
	working := &recordingNotifier{name: "log"}

	s := NewScheduler(source, time.Hour*2, []Notifier{broken, skipping, working})
	sent, err := s.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}
	if sent != 1 || len(working.got) != 1 {
		t.Errorf("a failing notifier must not block the others: sent=%d", sent)
	}
}

func TestRunOnce_SourceError(t *testing.T) {
	s := NewScheduler(&stubSource{err: errors.New("db down")}, time.Hour, nil)
	if _, err := s.RunOnce(context.Background()); err == nil {
		t.Error("expected error from source")
	}
}

func TestRun_InvalidSchedule(t *testing.T) {
	s := NewScheduler(&stubSource{}, time.Hour, nil)
	if err := s.Run(context.Background(), "not a schedule"); err == nil {
		t.Error("expected invalid schedule error")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := NewScheduler(&stubSource{}, time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "@every 1h") }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestEmailNotifier(t *testing.T) {
	var sent []*email.Email
	n := NewEmailNotifier(SMTPSettings{Host: "smtp.example.com", Port: 587, From: "bills@example.com"})
	n.send = func(e *email.Email) error {
		sent = append(sent, e)
		return nil
	}

	r := Reminder{
		BillID:   "b1",
		Username: "alice",
		Email:    "alice@example.com",
		BillName: "Rent",
		Amount:   900,
		DueDate:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Overdue:  true,
	}
	if err := n.Notify(context.Background(), r); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if len(sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(sent))
	}
	e := sent[0]
	if e.From != "bills@example.com" || e.To[0] != "alice@example.com" {
		t.Errorf("unexpected envelope: from=%s to=%v", e.From, e.To)
	}
	if !strings.HasPrefix(e.Subject, "Overdue") {
		t.Errorf("subject: %q", e.Subject)
	}
	if !strings.Contains(string(e.Text), "900.00") || !strings.Contains(string(e.Text), "2026-03-01") {
		t.Errorf("body missing details: %s", e.Text)
	}

	r.Email = ""
	if err := n.Notify(context.Background(), r); !errors.Is(err, ErrNoRecipient) {
		t.Errorf("expected ErrNoRecipient, got %v", err)
	}
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewJSONHandler(&buf, nil)))

	err := n.Notify(context.Background(), Reminder{BillID: "b1", BillName: "Phone", DueDate: time.Now()})
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"kind":"upcoming"`) || !strings.Contains(buf.String(), `"bill_id":"b1"`) {
		t.Errorf("unexpected log: %s", buf.String())
	}
}
