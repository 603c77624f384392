package http

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the HTTP surface.
type Metrics struct {
	Evaluations *prometheus.CounterVec
	TraceSteps  *prometheus.HistogramVec
	Worksheets  *prometheus.CounterVec
}

// NewMetrics builds and registers the collectors on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lattice_evaluations_total",
				Help: "Total number of tree evaluations",
			},
			[]string{"tree", "outcome"},
		),
		TraceSteps: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lattice_trace_steps",
				Help:    "Number of trace entries per evaluation",
				Buckets: prometheus.LinearBuckets(1, 5, 10),
			},
			[]string{"tree"},
		),
		Worksheets: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lattice_worksheet_computations_total",
				Help: "Total number of worksheet computations",
			},
			[]string{"worksheet"},
		),
	}
	reg.MustRegister(m.Evaluations, m.TraceSteps, m.Worksheets)
	return m
}
