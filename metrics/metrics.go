// Package metrics exposes Prometheus counters for tracking and chat traffic.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeFallback = "fallback"
	OutcomeInvalid  = "invalid"
	OutcomeNoMatch  = "no_match"
	OutcomeSkipped  = "skipped"
)

type Metrics struct {
	registry *prometheus.Registry

	VisitsRecorded *prometheus.CounterVec
	BeaconUpdates  *prometheus.CounterVec
	ChatRequests   *prometheus.CounterVec
}

// New registers the collectors on a private registry so tests can build as
// many instances as they like.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		VisitsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "visittrack_visits_recorded_total",
			Help: "Page visits seen by the tracking middleware, by outcome.",
		}, []string{"outcome"}),
		BeaconUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "visittrack_beacon_updates_total",
			Help: "Engagement beacons received, by outcome.",
		}, []string{"outcome"}),
		ChatRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "visittrack_chat_requests_total",
			Help: "Chat relay requests, by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		m.VisitsRecorded,
		m.BeaconUpdates,
		m.ChatRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
