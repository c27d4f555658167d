// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the server collectors around one registry.
type Metrics struct {
	registry *prometheus.Registry

	Requests         *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	MedicinesCreated prometheus.Counter
	DosesDispensed   *prometheus.CounterVec
	ArchiveFailures  prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medreminder",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "medreminder",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		MedicinesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "medreminder",
			Name:      "medicines_created_total",
			Help:      "Medicines placed into a compartment.",
		}),
		DosesDispensed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medreminder",
			Name:      "doses_dispensed_total",
			Help:      "Successful decrease operations by compartment.",
		}, []string{"compartment"}),
		ArchiveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "medreminder",
			Name:      "reminder_archive_failures_total",
			Help:      "Reminders that could not be copied to object storage.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Requests,
		m.RequestDuration,
		m.MedicinesCreated,
		m.DosesDispensed,
		m.ArchiveFailures,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
