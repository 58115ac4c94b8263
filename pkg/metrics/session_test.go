package metrics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"
)

func TestSessionMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSessionMetrics(reg)

	m.ObserveAction("select_product", nil)
	m.ObserveAction("select_product", nil)
	m.ObserveAction("initiate_payment", errors.New("empty cart"))
	m.ObserveSettlement("completed")
	m.ObserveCompleted("card", decimal.RequireFromString("4.50"), 45)
	m.IncRecordFailure()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "pos_session_actions_total", map[string]string{"action": "select_product", "outcome": OutcomeAccepted}); err != nil {
		t.Fatalf("fetch actions: %v", err)
	} else if got != 2 {
		t.Fatalf("expected 2 accepted selects, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "pos_session_actions_total", map[string]string{"action": "initiate_payment", "outcome": OutcomeRejected}); err != nil {
		t.Fatalf("fetch rejected: %v", err)
	} else if got != 1 {
		t.Fatalf("expected 1 rejected payment, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "pos_settlements_total", map[string]string{"status": "completed"}); err != nil {
		t.Fatalf("fetch settlements: %v", err)
	} else if got != 1 {
		t.Fatalf("expected 1 settlement, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "pos_loyalty_points_credited_total", nil); err != nil {
		t.Fatalf("fetch points: %v", err)
	} else if got != 45 {
		t.Fatalf("expected 45 points, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "pos_settlement_record_failures_total", nil); err != nil {
		t.Fatalf("fetch record failures: %v", err)
	} else if got != 1 {
		t.Fatalf("expected 1 record failure, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "pos_settlement_amount", map[string]string{"tender": "card"}); err != nil {
		t.Fatalf("fetch amount: %v", err)
	} else if got != 4.5 {
		t.Fatalf("expected amount sum 4.5, got %f", got)
	}
}

func TestNilSessionMetricsIsSafe(t *testing.T) {
	var m *SessionMetrics
	m.ObserveAction("x", nil)
	m.ObserveSettlement("completed")
	m.ObserveCompleted("cash", decimal.NewFromInt(1), 10)
	m.IncRecordFailure()

	unregistered := NewSessionMetrics(nil)
	unregistered.ObserveAction("x", nil)
	unregistered.ObserveCompleted("cash", decimal.NewFromInt(1), 10)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing labels %v", name, labels)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	for name, value := range want {
		found := false
		for _, pair := range pairs {
			if pair.GetName() == name && pair.GetValue() == value {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
