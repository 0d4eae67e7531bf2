package middleware

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var histogramRequestTime = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "currency_converter",
		Subsystem: "http",
		Name:      "histogram_request_time_seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	},
	[]string{"method", "route", "status"},
)

// MetricsMiddleware observes request latency labelled by route template and status
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := newResponseRecorder(w)

		next.ServeHTTP(recorder, r)

		histogramRequestTime.
			WithLabelValues(r.Method, routeTemplate(r), strconv.Itoa(recorder.statusCode)).
			Observe(recorder.elapsed().Seconds())
	})
}

// routeTemplate keeps label cardinality bounded by using the matched mux template
func routeTemplate(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return "unmatched"
	}
	template, err := route.GetPathTemplate()
	if err != nil {
		return "unmatched"
	}
	return template
}
