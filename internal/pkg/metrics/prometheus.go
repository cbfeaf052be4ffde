package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	BookingsCreated       *prometheus.CounterVec
	BookingsAutoCancelled prometheus.Counter
	SweepDuration         prometheus.Histogram
	SlipsSent             *prometheus.CounterVec
}

// NewMetrics registers the metrics on reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BookingsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "The total number of bookings created at checkout",
		}, []string{"payment_method"}),
		BookingsAutoCancelled: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_auto_cancelled_total",
			Help:      "The total number of pending bookings cancelled by the sweep",
		}),
		SweepDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sweep_duration_seconds",
			Help:      "Time taken by the auto-cancellation sweep",
			Buckets:   prometheus.DefBuckets,
		}),
		SlipsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "salary_slips_sent_total",
			Help:      "Salary slip dispatch attempts by result",
		}, []string{"result"}),
	}
}

func (m *Metrics) BookingCreated(paymentMethod string) {
	if m == nil {
		return
	}
	m.BookingsCreated.WithLabelValues(paymentMethod).Inc()
}

func (m *Metrics) SweepCompleted(cancelled int64, took time.Duration) {
	if m == nil {
		return
	}
	m.BookingsAutoCancelled.Add(float64(cancelled))
	m.SweepDuration.Observe(took.Seconds())
}

func (m *Metrics) SlipDispatched(ok bool) {
	if m == nil {
		return
	}
	result := "sent"
	if !ok {
		result = "failed"
	}
	m.SlipsSent.WithLabelValues(result).Inc()
}
