/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package telemetry exposes run metrics and optional tracing for the
// CLI layer. The scheduling core itself stays free of side effects.
package telemetry

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records simulation observations into a private Prometheus
// registry. It satisfies simulation.MetricsRecorder.
type Collector struct {
	registry *prometheus.Registry

	iterations  *prometheus.CounterVec
	utilization *prometheus.HistogramVec
	gapMinutes  *prometheus.HistogramVec
	unassigned  *prometheus.HistogramVec
	runSeconds  prometheus.Histogram
}

// NewCollector creates and registers the simulation metrics.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		iterations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "courtplan",
			Subsystem: "simulation",
			Name:      "iterations_total",
			Help:      "Completed simulation iterations by algorithm.",
		}, []string{"algorithm"}),
		utilization: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "courtplan",
			Subsystem: "simulation",
			Name:      "utilization_ratio",
			Help:      "Booked fraction of the operating window per iteration.",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}, []string{"algorithm"}),
		gapMinutes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "courtplan",
			Subsystem: "simulation",
			Name:      "gap_minutes",
			Help:      "Total unbooked minutes per iteration.",
			Buckets:   prometheus.ExponentialBuckets(30, 2, 10),
		}, []string{"algorithm"}),
		unassigned: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "courtplan",
			Subsystem: "simulation",
			Name:      "unassigned_reservations",
			Help:      "Reservations left unassigned per iteration.",
			Buckets:   prometheus.LinearBuckets(0, 1, 11),
		}, []string{"algorithm"}),
		runSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "courtplan",
			Subsystem: "simulation",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of whole simulation runs.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
	}

	registry.MustRegister(c.iterations, c.utilization, c.gapMinutes, c.unassigned, c.runSeconds)
	return c
}

// ObserveIteration records one iteration's outcome for one algorithm.
func (c *Collector) ObserveIteration(algorithm string, utilization float64, gapMinutes, unassigned int) {
	c.iterations.WithLabelValues(algorithm).Inc()
	c.utilization.WithLabelValues(algorithm).Observe(utilization)
	c.gapMinutes.WithLabelValues(algorithm).Observe(float64(gapMinutes))
	c.unassigned.WithLabelValues(algorithm).Observe(float64(unassigned))
}

// ObserveRun records a completed run.
func (c *Collector) ObserveRun(_ int, seconds float64) {
	c.runSeconds.Observe(seconds)
}

// Router serves /metrics and /healthz for the optional metrics
// listener.
func (c *Collector) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{}))
	return r
}
