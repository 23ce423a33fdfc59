package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics counts checkout attempts by outcome.
type CheckoutMetrics struct {
	started   prometheus.Counter
	completed prometheus.Counter
	failed    *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout counters on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	started := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_started_total",
		Help: "Checkout attempts started.",
	})
	completed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_completed_total",
		Help: "Checkouts that produced an order and redirect URL.",
	})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failed_total",
		Help: "Checkouts that failed, by step.",
	}, []string{"step"})
	reg.MustRegister(started, completed, failed)
	return &CheckoutMetrics{started: started, completed: completed, failed: failed}
}

// IncStarted increments the started counter.
func (m *CheckoutMetrics) IncStarted() {
	if m == nil || m.started == nil {
		return
	}
	m.started.Inc()
}

// IncCompleted increments the completed counter.
func (m *CheckoutMetrics) IncCompleted() {
	if m == nil || m.completed == nil {
		return
	}
	m.completed.Inc()
}

// IncFailed increments the failure counter for the named step.
func (m *CheckoutMetrics) IncFailed(step string) {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.WithLabelValues(normalizeLabel(step)).Inc()
}
