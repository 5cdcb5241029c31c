package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SuggestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dance_advisor_suggestions_total",
			Help: "Total number of suggestions resolved, by catalog key",
		},
		[]string{"key"},
	)

	GenreFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dance_advisor_genre_fallbacks_total",
			Help: "Total number of unrecognized genres resolved to the default bucket",
		},
	)

	TempoAnalyses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dance_advisor_tempo_analyses_total",
			Help: "Total number of tempo analyses, by outcome",
		},
		[]string{"outcome"},
	)

	TempoAnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dance_advisor_tempo_analysis_duration_seconds",
			Help:    "Duration of tempo analysis in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method"},
	)

	TempoCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dance_advisor_tempo_cache_lookups_total",
			Help: "Tempo cache lookups, by result",
		},
		[]string{"result"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dance_advisor_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "dance_advisor_http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"route"},
	)
)

// Outcome labels for TempoAnalyses
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeCached  = "cached"
)

// Result labels for TempoCacheLookups
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)
