package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// suggestionsTotal counts generate calls by where the results came from
	// ("llm" or "fallback").
	suggestionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "giftfndr_suggestions_total",
			Help: "Generate calls by result source.",
		},
		[]string{"source"},
	)

	// fallbacksTotal counts fallbacks by failure reason (bounded set).
	fallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "giftfndr_fallbacks_total",
			Help: "Fallback catalog uses by failure reason.",
		},
		[]string{"reason"},
	)

	// upstreamLatency records completion round-trips, successful or not.
	upstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "giftfndr_upstream_duration_seconds",
			Help:    "Duration of text-generation API calls in seconds.",
			Buckets: []float64{.25, .5, 1, 2, 3, 5, 8, 12, 20},
		},
		[]string{"outcome"},
	)

	sharesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "giftfndr_shares_created_total",
		Help: "Share records written.",
	})

	sharesSwept = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "giftfndr_shares_swept_total",
		Help: "Expired share records removed by sweeps.",
	})

	sharesLive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "giftfndr_shares_live",
		Help: "Share records currently held by the store.",
	})
)

func init() {
	prometheus.MustRegister(
		suggestionsTotal, fallbacksTotal, upstreamLatency,
		sharesCreated, sharesSwept, sharesLive,
	)
}
