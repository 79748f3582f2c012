// Package metrics exposes Prometheus instruments for matching, push delivery and HTTP.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Matching implements the matching engine's Metrics.
type Matching struct {
	attempts *prometheus.CounterVec
	pending  prometheus.Gauge
	cycles   prometheus.Histogram
	releases *prometheus.CounterVec
}

// NewMatching creates the matching instruments and registers them on reg.
func NewMatching(reg prometheus.Registerer) *Matching {
	m := &Matching{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matching_attempts_total",
			Help: "Claim attempts by outcome",
		}, []string{"outcome"}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "matching_pending_requests",
			Help: "Confirmed orders waiting for a courier",
		}),
		cycles: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "matching_cycle_duration_seconds",
			Help:    "Duration of matching sweeps",
			Buckets: prometheus.DefBuckets,
		}),
		releases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matching_releases_total",
			Help: "Courier releases by result",
		}, []string{"result"}),
	}
	reg.MustRegister(m.attempts, m.pending, m.cycles, m.releases)
	return m
}

func (m *Matching) ObserveAttempt(outcome string) {
	m.attempts.WithLabelValues(outcome).Inc()
}

func (m *Matching) SetPending(n int) {
	m.pending.Set(float64(n))
}

func (m *Matching) ObserveCycle(d time.Duration) {
	m.cycles.Observe(d.Seconds())
}

func (m *Matching) ObserveRelease(result string) {
	m.releases.WithLabelValues(result).Inc()
}

// Push implements the websocket hub's Metrics.
type Push struct {
	sessions  prometheus.Gauge
	delivered prometheus.Counter
	dropped   prometheus.Counter
}

// NewPush creates the push instruments and registers them on reg.
func NewPush(reg prometheus.Registerer) *Push {
	p := &Push{
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ws_sessions",
			Help: "Live websocket sessions",
		}),
		delivered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ws_push_delivered_total",
			Help: "Frames accepted by session buffers",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ws_push_dropped_total",
			Help: "Frames dropped because a session buffer was full",
		}),
	}
	reg.MustRegister(p.sessions, p.delivered, p.dropped)
	return p
}

func (p *Push) SetSessions(n int) {
	p.sessions.Set(float64(n))
}

func (p *Push) ObservePush(delivered, dropped int) {
	p.delivered.Add(float64(delivered))
	p.dropped.Add(float64(dropped))
}
