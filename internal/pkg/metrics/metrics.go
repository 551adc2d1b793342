// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "marketplace"

type Metrics struct {
	HTTPRequests  *prometheus.CounterVec
	HTTPLatencyMS *prometheus.HistogramVec

	SubscribedConnections prometheus.Gauge
	EventsPublished       *prometheus.CounterVec
	Deliveries            prometheus.Counter
	DroppedDeliveries     prometheus.Counter
	PrunedConnections     prometheus.Counter

	OutboxRelayed prometheus.Counter
}

// New creates the collectors and registers them with reg. Tests pass a fresh
// prometheus.NewRegistry() so collectors never collide.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"route", "method", "status"}),
		HTTPLatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"route"}),
		SubscribedConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "subscribed_connections",
			Help:      "Connections joined to at least one store channel.",
		}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "events_published_total",
			Help:      "Events fanned out to store channels.",
		}, []string{"event"}),
		Deliveries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "deliveries_total",
			Help:      "Messages enqueued to connections.",
		}),
		DroppedDeliveries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "dropped_deliveries_total",
			Help:      "Messages dropped because a connection buffer was full.",
		}),
		PrunedConnections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "pruned_connections_total",
			Help:      "Closed connections removed during fan-out or sweep.",
		}),
		OutboxRelayed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "outbox",
			Name:      "relayed_total",
			Help:      "Outbox messages delivered to the broker.",
		}),
	}

	reg.MustRegister(
		m.HTTPRequests, m.HTTPLatencyMS,
		m.SubscribedConnections, m.EventsPublished, m.Deliveries, m.DroppedDeliveries, m.PrunedConnections,
		m.OutboxRelayed,
	)
	return m
}

// Handler exposes the metrics gathered by g in the text exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
