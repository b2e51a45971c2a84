// Package metrics holds the Prometheus collectors for admissions, refunds and
// notifications. A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "events"

type Metrics struct {
	registrations *prometheus.CounterVec
	refunds       *prometheus.CounterVec
	notifications *prometheus.CounterVec
	refundRuns    *prometheus.CounterVec
	refundQueue   prometheus.Gauge
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Registration submissions by outcome.",
		}, []string{"outcome"}),
		refunds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refund_attempts_total",
			Help:      "Refund calls to the payment gateway by result.",
		}, []string{"result"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Templated messages by result.",
		}, []string{"result"}),
		refundRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refund_runs_total",
			Help:      "Cancellation refund runs by result.",
		}, []string{"result"}),
		refundQueue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "refund_queue_depth",
			Help:      "Cancelled events waiting for a refund run.",
		}),
	}
	reg.MustRegister(m.registrations, m.refunds, m.notifications, m.refundRuns, m.refundQueue)
	return m
}

func (m *Metrics) Registration(outcome string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RefundAttempt(ok bool) {
	if m == nil {
		return
	}
	m.refunds.WithLabelValues(result(ok)).Inc()
}

func (m *Metrics) Notification(ok bool) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(result(ok)).Inc()
}

// RefundRun counts a finished run; result is "completed", "partial",
// "claimed" or "error".
func (m *Metrics) RefundRun(result string) {
	if m == nil {
		return
	}
	m.refundRuns.WithLabelValues(result).Inc()
}

func (m *Metrics) RefundQueueDepth(n int) {
	if m == nil {
		return
	}
	m.refundQueue.Set(float64(n))
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
