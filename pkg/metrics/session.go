package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

// SessionMetrics counts register actions and settlements.
type SessionMetrics struct {
	actions        *prometheus.CounterVec
	settlements    *prometheus.CounterVec
	points         prometheus.Counter
	amount         *prometheus.HistogramVec
	recordFailures prometheus.Counter
}

// NewSessionMetrics registers the session collectors on reg. A nil reg yields
// a recorder that drops every observation.
func NewSessionMetrics(reg prometheus.Registerer) *SessionMetrics {
	if reg == nil {
		return &SessionMetrics{}
	}
	actions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_session_actions_total",
		Help: "Operator actions handled by the register, by outcome.",
	}, []string{"action", "outcome"})
	settlements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_settlements_total",
		Help: "Payment sessions that reached a terminal state.",
	}, []string{"status"})
	points := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pos_loyalty_points_credited_total",
		Help: "Loyalty points credited on completed settlements.",
	})
	amount := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pos_settlement_amount",
		Help:    "Settled cart totals in currency units.",
		Buckets: []float64{1, 2.5, 5, 10, 20, 50, 100, 250},
	}, []string{"tender"})
	recordFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pos_settlement_record_failures_total",
		Help: "Completed settlements the recorder failed to persist.",
	})
	reg.MustRegister(actions, settlements, points, amount, recordFailures)
	return &SessionMetrics{
		actions:        actions,
		settlements:    settlements,
		points:         points,
		amount:         amount,
		recordFailures: recordFailures,
	}
}

// ObserveAction counts one action with its outcome.
func (m *SessionMetrics) ObserveAction(action string, err error) {
	if m == nil || m.actions == nil {
		return
	}
	outcome := OutcomeAccepted
	if err != nil {
		outcome = OutcomeRejected
	}
	m.actions.WithLabelValues(normalizeLabel(action), outcome).Inc()
}

// ObserveSettlement records a payment session reaching status.
func (m *SessionMetrics) ObserveSettlement(status string) {
	if m == nil || m.settlements == nil {
		return
	}
	m.settlements.WithLabelValues(normalizeLabel(status)).Inc()
}

// ObserveCompleted records the amount and points of a completed settlement.
func (m *SessionMetrics) ObserveCompleted(tender string, amount decimal.Decimal, points int64) {
	if m == nil || m.amount == nil {
		return
	}
	m.amount.WithLabelValues(normalizeLabel(tender)).Observe(amount.InexactFloat64())
	if points > 0 {
		m.points.Add(float64(points))
	}
}

// IncRecordFailure counts a settlement that could not be persisted.
func (m *SessionMetrics) IncRecordFailure() {
	if m == nil || m.recordFailures == nil {
		return
	}
	m.recordFailures.Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
