// internal/metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so that several routers (tests, mostly)
// can coexist in one process. All methods are safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP request metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPStatusTotal     *prometheus.CounterVec

	// Solana RPC metrics
	RPCDuration *prometheus.HistogramVec

	// Marketplace metrics
	SalesRecorded   prometheus.Counter
	SalesVolume     prometheus.Counter
	VotesCast       *prometheus.CounterVec
	ProductsCreated prometheus.Counter
	AuthAttempts    *prometheus.CounterVec
}

func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		HTTPStatusTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_status_category_total",
				Help:      "HTTP responses grouped by status class",
			},
			[]string{"category"},
		),
		RPCDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "solana_rpc_duration_seconds",
				Help:      "Duration of Solana RPC calls in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "outcome"},
		),
		SalesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_recorded_total",
			Help:      "Total number of recorded sales",
		}),
		SalesVolume: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_volume_sol_total",
			Help:      "Total sale volume in SOL",
		}),
		VotesCast: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dao_votes_total",
				Help:      "DAO votes by choice",
			},
			[]string{"vote"},
		),
		ProductsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "products_created_total",
			Help:      "Total number of products created",
		}),
		AuthAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_attempts_total",
				Help:      "Wallet sign-in attempts by outcome",
			},
			[]string{"outcome"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPStatusTotal,
		m.RPCDuration,
		m.SalesRecorded,
		m.SalesVolume,
		m.VotesCast,
		m.ProductsCreated,
		m.AuthAttempts,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.HTTPRequestsTotal.WithLabelValues(method, path, code).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	m.HTTPStatusTotal.WithLabelValues(StatusCategory(status)).Inc()
}

// TrackRPC returns a function that records the duration of an RPC call.
func (m *Metrics) TrackRPC(method string) func(err error) {
	start := time.Now()
	return func(err error) {
		if m == nil {
			return
		}
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		m.RPCDuration.WithLabelValues(method, outcome).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) RecordSale(amountSol float64) {
	if m == nil {
		return
	}
	m.SalesRecorded.Inc()
	m.SalesVolume.Add(amountSol)
}

func (m *Metrics) RecordVote(choice string) {
	if m == nil {
		return
	}
	m.VotesCast.WithLabelValues(choice).Inc()
}

func (m *Metrics) RecordProductCreated() {
	if m == nil {
		return
	}
	m.ProductsCreated.Inc()
}

func (m *Metrics) RecordAuthAttempt(outcome string) {
	if m == nil {
		return
	}
	m.AuthAttempts.WithLabelValues(outcome).Inc()
}

// StatusCategory maps a status code onto 2xx, 3xx, 4xx or 5xx.
func StatusCategory(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
