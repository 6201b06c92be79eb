package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service's prometheus collectors.
type Metrics struct {
	Searches       *prometheus.CounterVec
	SourceFailures *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "biosearch",
			Name:      "searches_total",
			Help:      "Search requests served, by result origin.",
		}, []string{"source"}),
		SourceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "biosearch",
			Name:      "source_failures_total",
			Help:      "Failed upstream invocations, by source.",
		}, []string{"source"}),
	}
	// duplicate registration only happens in tests constructing several
	// handlers in one process; ignore it there
	_ = prometheus.Register(m.Searches)
	_ = prometheus.Register(m.SourceFailures)
	return m
}
