// Package metrics defines the Prometheus collectors exported by the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mefinance"

// Metrics groups every collector the server updates.
type Metrics struct {
	RPCRequests   *prometheus.CounterVec
	RPCDuration   *prometheus.HistogramVec
	LedgerOps     *prometheus.CounterVec
	RemindersSent *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RPCRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC calls handled, by procedure and Connect code.",
		}, []string{"procedure", "code"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC handling latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		LedgerOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_operations_total",
			Help:      "Balance ledger operations, by operation and result.",
		}, []string{"operation", "result"}),
		RemindersSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bill_reminders_total",
			Help:      "Bill reminders sent, by notifier and kind (upcoming or overdue).",
		}, []string{"notifier", "kind"}),
	}
	reg.MustRegister(m.RPCRequests, m.RPCDuration, m.LedgerOps, m.RemindersSent)
	return m
}

// ObserveLedger counts one ledger operation.
func (m *Metrics) ObserveLedger(operation, result string) {
	m.LedgerOps.WithLabelValues(operation, result).Inc()
}

// ObserveReminder counts one reminder sent.
func (m *Metrics) ObserveReminder(notifier, kind string) {
	m.RemindersSent.WithLabelValues(notifier, kind).Inc()
}
