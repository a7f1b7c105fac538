package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ReconcileOutcomes *prometheus.CounterVec
	ReconcileDuration prometheus.Histogram
	LateRecordsTotal  prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		ReconcileOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rollcall_attendance_reconcile_outcomes_total",
			Help: "Reconciliation results by operation and outcome kind",
		}, []string{"operation", "outcome"}),
		ReconcileDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rollcall_attendance_reconcile_duration_ms",
			Help:    "Latency of reconciliation calls in milliseconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100},
		}),
		LateRecordsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rollcall_attendance_late_records_total",
			Help: "Records created through the check-out-with-no-check-in path",
		}),
	}
}

func (m *Metrics) ObserveOutcome(operation, outcome string) {
	m.ReconcileOutcomes.WithLabelValues(operation, outcome).Inc()
}
