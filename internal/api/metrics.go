package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planscan_http_requests_total",
		Help: "Total HTTP requests handled by the facade, by route and status class.",
	}, []string{"route", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "planscan_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	stage1CandidatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "planscan_stage1_candidates_total",
		Help: "Total Stage 1 geometric candidates emitted across all requests.",
	})

	stage2ValidatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "planscan_stage2_validated_total",
		Help: "Total markers that survived Stage 2 LLM validation.",
	})
)

func observeRequest(route string, statusClass string, elapsed time.Duration) {
	requestsTotal.WithLabelValues(route, statusClass).Inc()
	requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}
