package client

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics replaces the teacher's hand-rolled Counter/LatencyHistogram with
// the ecosystem's own instrumentation library, registered under a single
// namespace so a caller can wire this into any prometheus.Registerer
// (including prometheus.DefaultRegisterer via NewMetrics(nil)).
type Metrics struct {
	requestsSent       prometheus.Counter
	requestsFailed     *prometheus.CounterVec
	requestLatency     prometheus.Histogram
	stateTransitions   *prometheus.CounterVec
	publishOutstanding prometheus.Gauge
	timerFires         prometheus.Counter
}

// NewMetrics builds and registers a Metrics instance against reg. Passing
// nil registers against prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		requestsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "uacore",
			Subsystem: "client",
			Name:      "requests_sent_total",
			Help:      "Total service requests dispatched, sync and async.",
		}),
		requestsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "uacore",
			Subsystem: "client",
			Name:      "requests_failed_total",
			Help:      "Requests failed by the client core (timeout, shutdown, channel loss, chunk errors), by status code name.",
		}, []string{"status"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "uacore",
			Subsystem: "client",
			Name:      "request_latency_seconds",
			Help:      "Round-trip latency from dispatch to completion for synchronous calls.",
			Buckets:   prometheus.DefBuckets,
		}),
		stateTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "uacore",
			Subsystem: "client",
			Name:      "state_transitions_total",
			Help:      "Connection lifecycle transitions, by resulting state.",
		}, []string{"state"}),
		publishOutstanding: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "uacore",
			Subsystem: "client",
			Name:      "publish_outstanding",
			Help:      "Publish requests currently awaiting a response.",
		}),
		timerFires: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "uacore",
			Subsystem: "client",
			Name:      "timer_fires_total",
			Help:      "Repeated callback invocations across all timers.",
		}),
	}
	for _, c := range []prometheus.Collector{
		m.requestsSent, m.requestsFailed, m.requestLatency,
		m.stateTransitions, m.publishOutstanding, m.timerFires,
	} {
		_ = reg.Register(c)
	}
	return m
}

func (m *Metrics) observeSend() {
	if m == nil {
		return
	}
	m.requestsSent.Inc()
}

func (m *Metrics) observeFailure(status string) {
	if m == nil {
		return
	}
	m.requestsFailed.WithLabelValues(status).Inc()
}

func (m *Metrics) observeLatency(d time.Duration) {
	if m == nil {
		return
	}
	m.requestLatency.Observe(d.Seconds())
}

func (m *Metrics) observeState(state string) {
	if m == nil {
		return
	}
	m.stateTransitions.WithLabelValues(state).Inc()
}

func (m *Metrics) setPublishOutstanding(n int) {
	if m == nil {
		return
	}
	m.publishOutstanding.Set(float64(n))
}

func (m *Metrics) observeTimerFire() {
	if m == nil {
		return
	}
	m.timerFires.Inc()
}
