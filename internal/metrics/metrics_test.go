package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveLedger("record_income", "ok")
	m.ObserveLedger("record_income", "ok")
	m.ObserveLedger("record_payment", "not_found")
	m.ObserveReminder("log", "overdue")

	if got := testutil.ToFloat64(m.LedgerOps.WithLabelValues("record_income", "ok")); got != 2 {
		t.Errorf("record_income ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.LedgerOps.WithLabelValues("record_payment", "not_found")); got != 1 {
		t.Errorf("record_payment not_found = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.RemindersSent.WithLabelValues("log", "overdue")); got != 1 {
		t.Errorf("reminders log overdue = %v, want 1", got)
	}

	count, err := testutil.GatherAndCount(reg, "mefinance_ledger_operations_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if count != 2 {
		t.Errorf("ledger series = %d, want 2", count)
	}
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	defer func() {
		if recover() == nil {
			t.Error("expected panic registering collectors twice")
		}
	}()
	New(reg)
}
