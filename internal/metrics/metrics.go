package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the service's prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	AppointmentsCreated prometheus.Counter
	SlotConflicts       prometheus.Counter
	TransitionsRejected prometheus.Counter
	SamplesIngested     prometheus.Counter
	AlertsRaised        *prometheus.CounterVec
	Flushes             prometheus.Counter
	IngestLatency       prometheus.Histogram
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		AppointmentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "autocare_appointments_created_total",
			Help: "Appointments booked successfully.",
		}),
		SlotConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "autocare_slot_conflicts_total",
			Help: "Create/reschedule attempts rejected for slot overlap.",
		}),
		TransitionsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "autocare_status_transitions_rejected_total",
			Help: "Status changes rejected by the state machine.",
		}),
		SamplesIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "autocare_telemetry_samples_ingested_total",
			Help: "Telemetry samples appended to live aggregates.",
		}),
		AlertsRaised: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "autocare_telemetry_alerts_total",
			Help: "Alerts raised by the evaluator, by kind.",
		}, []string{"kind"}),
		Flushes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "autocare_telemetry_flushes_total",
			Help: "Telemetry aggregate flushes.",
		}),
		IngestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "autocare_telemetry_ingest_seconds",
			Help:    "Ingest handling latency.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	registry.MustRegister(
		m.AppointmentsCreated,
		m.SlotConflicts,
		m.TransitionsRejected,
		m.SamplesIngested,
		m.AlertsRaised,
		m.Flushes,
		m.IngestLatency,
	)
	return m
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
