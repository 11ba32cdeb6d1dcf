// Package metrics exposes Prometheus instrumentation for the hub.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the hub collectors on a private registry.
// All record methods tolerate a nil receiver so tests can wire nothing.
type Metrics struct {
	registry *prometheus.Registry

	activeConnections prometheus.Gauge
	connectionsTotal  prometheus.Counter
	deliveriesTotal   prometheus.Counter
	deliveryFailures  prometheus.Counter
	prunedConnections prometheus.Counter
	reportsCreated    prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.activeConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "incidenthub_active_connections",
		Help: "Live WebSocket connections held by this process.",
	})
	m.connectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "incidenthub_connections_total",
		Help: "Connections accepted since start.",
	})
	m.deliveriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "incidenthub_deliveries_total",
		Help: "Messages pushed to individual recipients.",
	})
	m.deliveryFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "incidenthub_delivery_failures_total",
		Help: "Per-recipient delivery failures.",
	})
	m.prunedConnections = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "incidenthub_pruned_connections_total",
		Help: "Registry entries removed after a failed delivery.",
	})
	m.reportsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "incidenthub_reports_created_total",
		Help: "Reports accepted by the intake pipeline.",
	})

	m.registry.MustRegister(
		m.activeConnections,
		m.connectionsTotal,
		m.deliveriesTotal,
		m.deliveryFailures,
		m.prunedConnections,
		m.reportsCreated,
	)
	return m
}

// Handler serves the scrape endpoint for the private registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ConnectionOpened() {
	if m == nil {
		return
	}
	m.activeConnections.Inc()
	m.connectionsTotal.Inc()
}

func (m *Metrics) ConnectionClosed() {
	if m == nil {
		return
	}
	m.activeConnections.Dec()
}

func (m *Metrics) Delivered() {
	if m == nil {
		return
	}
	m.deliveriesTotal.Inc()
}

func (m *Metrics) DeliveryFailed() {
	if m == nil {
		return
	}
	m.deliveryFailures.Inc()
}

func (m *Metrics) ConnectionPruned() {
	if m == nil {
		return
	}
	m.prunedConnections.Inc()
}

func (m *Metrics) ReportCreated() {
	if m == nil {
		return
	}
	m.reportsCreated.Inc()
}
