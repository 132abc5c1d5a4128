package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "canteen"

// Scan outcomes reported by IncScan.
const (
	OutcomeOK           = "ok"
	OutcomeBadFormat    = "bad_format"
	OutcomeNotFound     = "not_found"
	OutcomeExpired      = "expired"
	OutcomeMenuNotFound = "menu_not_found"
	OutcomeError        = "error"
)

// Metrics holds the HTTP and QR collectors. A nil *Metrics is a valid no-op.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	qrIssued prometheus.Counter
	scans    *prometheus.CounterVec
}

// New registers the collectors on reg. A nil registerer yields a no-op value.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}

	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		qrIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "qr_tokens_issued_total",
			Help:      "QR tokens issued to users.",
		}),
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "qr_scans_total",
			Help:      "Admin scans by operation and outcome.",
		}, []string{"operation", "outcome"}),
	}
	reg.MustRegister(m.requests, m.duration, m.qrIssued, m.scans)

	return m
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) IncQRIssued() {
	if m == nil || m.qrIssued == nil {
		return
	}
	m.qrIssued.Inc()
}

func (m *Metrics) IncScan(operation, outcome string) {
	if m == nil || m.scans == nil {
		return
	}
	m.scans.WithLabelValues(operation, outcome).Inc()
}
