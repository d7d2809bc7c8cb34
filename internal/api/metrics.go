package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	appraisalsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "appraise_appraisals_total",
		Help: "Appraisals served, labeled by decision.",
	}, []string{"decision"})

	appraisalErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "appraise_appraisal_errors_total",
		Help: "Appraisal requests that failed.",
	})

	appraisalDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "appraise_appraisal_duration_seconds",
		Help:    "Wall time per appraisal.",
		Buckets: prometheus.DefBuckets,
	})

	rateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "appraise_rate_limited_total",
		Help: "Requests rejected by the rate limiter.",
	})
)
