package metrics

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/magiskboy/blog-backend/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Auth flow metrics

	AuthFlowsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blog",
		Name:      "auth_flows_total",
		Help:      "Completed OAuth callback flows, by action, provider and outcome.",
	}, []string{"action", "provider", "outcome"})

	TokensIssuedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blog",
		Name:      "tokens_issued_total",
		Help:      "Session tokens issued, by kind (session or link confirmation).",
	}, []string{"kind"})

	TokensRevokedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "blog",
		Name:      "tokens_revoked_total",
		Help:      "Tokens explicitly revoked via logout.",
	})

	OAuthExchangeDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blog",
		Name:      "oauth_exchange_duration_seconds",
		Help:      "Duration of the provider code-for-profile exchange.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"provider"})

	// Sweeper metrics

	TokensSweptTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "blog",
		Name:      "tokens_swept_total",
		Help:      "Stale tokens evicted from the alive set by the sweeper.",
	})

	SweepCycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "blog",
		Name:      "sweep_cycle_duration_seconds",
		Help:      "Time taken for one alive-set sweep cycle.",
		Buckets:   prometheus.DefBuckets,
	})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blog",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blog",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		AuthFlowsTotal,
		TokensIssuedTotal,
		TokensRevokedTotal,
		OAuthExchangeDuration,
		TokensSweptTotal,
		SweepCycleDuration,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// Checker is satisfied by *health.Checker.
type Checker interface {
	Liveness(ctx context.Context) health.HealthResult
	Readiness(ctx context.Context) health.HealthResult
}

func NewServer(addr string, checker Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, checker.Readiness(r.Context()))
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
