package api

import (
	"errors"
	"time"

	"github.com/damon-houk/currency-converter/internal/domain/apperrors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	endpointPrimary  = "primary"
	endpointFallback = "fallback"

	outcomeSuccess  = "success"
	outcomeNotFound = "not_found"
	outcomeError    = "error"
)

var (
	fetchAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "currency_converter",
			Subsystem: "rate_api",
			Name:      "fetch_attempts_total",
			Help:      "Rate API requests by endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)

	histogramFetchTime = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "currency_converter",
			Subsystem: "rate_api",
			Name:      "histogram_fetch_time_seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"endpoint"},
	)
)

func observeFetch(endpoint string, elapsed time.Duration, err error) {
	histogramFetchTime.WithLabelValues(endpoint).Observe(elapsed.Seconds())
	fetchAttempts.WithLabelValues(endpoint, outcomeOf(err)).Inc()
}

func outcomeOf(err error) string {
	if err == nil {
		return outcomeSuccess
	}
	var transportErr *apperrors.TransportError
	if errors.As(err, &transportErr) && transportErr.NotFound() {
		return outcomeNotFound
	}
	return outcomeError
}
