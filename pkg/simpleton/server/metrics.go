package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vinc/simpleton/pkg/simpleton/http1"
)

// Metrics holds the Prometheus collectors for one server.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	connectionsAccepted prometheus.Counter
	connectionsActive   prometheus.Gauge
	acceptErrors        prometheus.Counter
	connectionsDropped  *prometheus.CounterVec
	requests            *prometheus.CounterVec
	responseBytes       prometheus.Counter
	requestDuration     prometheus.Histogram
}

// Reasons a connection is dropped without a response
const (
	dropRead  = "read"
	dropParse = "parse"
	dropPanic = "panic"
)

// NewMetrics creates the server collectors and registers them with reg.
// It panics if a collector is already registered, as promauto does.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		connectionsAccepted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "simpleton",
			Subsystem: "connections",
			Name:      "accepted_total",
			Help:      "Total number of accepted TCP connections",
		}),
		connectionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "simpleton",
			Subsystem: "connections",
			Name:      "active",
			Help:      "Number of connections currently being served",
		}),
		acceptErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "simpleton",
			Subsystem: "connections",
			Name:      "accept_errors_total",
			Help:      "Total number of failed Accept calls",
		}),
		connectionsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "simpleton",
			Subsystem: "connections",
			Name:      "dropped_total",
			Help:      "Connections closed without a response, by reason",
		}, []string{"reason"}),
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "simpleton",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of dispatched requests, by method and status code",
		}, []string{"method", "code"}),
		responseBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "simpleton",
			Subsystem: "http",
			Name:      "response_body_bytes_total",
			Help:      "Total number of response body bytes written",
		}),
		requestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "simpleton",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Time from parsed request to sent response",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) connAccepted() {
	if m == nil {
		return
	}
	m.connectionsAccepted.Inc()
	m.connectionsActive.Inc()
}

func (m *Metrics) connClosed() {
	if m == nil {
		return
	}
	m.connectionsActive.Dec()
}

func (m *Metrics) acceptFailed() {
	if m == nil {
		return
	}
	m.acceptErrors.Inc()
}

func (m *Metrics) connDropped(reason string) {
	if m == nil {
		return
	}
	m.connectionsDropped.WithLabelValues(reason).Inc()
}

func (m *Metrics) requestDone(method string, status int, bytes int64, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(methodLabel(method), strconv.Itoa(status)).Inc()
	m.responseBytes.Add(float64(bytes))
	m.requestDuration.Observe(d.Seconds())
}

// methodLabel bounds label cardinality: the method token is client input.
func methodLabel(method string) string {
	switch method {
	case http1.MethodGet, http1.MethodHead, http1.MethodPost, http1.MethodTrace,
		"PUT", "DELETE", "PATCH", "OPTIONS", "CONNECT":
		return method
	default:
		return "OTHER"
	}
}
