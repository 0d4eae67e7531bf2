package handler

import (
	"net/http"

	"github.com/damon-houk/currency-converter/internal/infrastructure/i18n"
	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
	"github.com/damon-houk/currency-converter/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// APIPrefix is the path prefix of the versioned API
const APIPrefix = "/api/v1"

// Routes groups the handlers served under APIPrefix
type Routes struct {
	Currencies  *CurrencyHandler
	Conversions *ConversionHandler
	History     *HistoryHandler
	Sessions    *SessionHandler
}

// NewRouter builds the HTTP router with health, metrics and the versioned API
func NewRouter(routes Routes, defaultLanguage i18n.Language, log logger.Logger) *mux.Router {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.LanguageMiddleware(defaultLanguage))
	router.Use(middleware.LoggingMiddleware(log))
	router.Use(middleware.MetricsMiddleware)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		sendJSON(w, log, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := router.PathPrefix(APIPrefix).Subrouter()
	if routes.Currencies != nil {
		routes.Currencies.RegisterRoutes(api)
	}
	if routes.Conversions != nil {
		routes.Conversions.RegisterRoutes(api)
	}
	if routes.History != nil {
		routes.History.RegisterRoutes(api)
	}
	if routes.Sessions != nil {
		routes.Sessions.RegisterRoutes(api)
	}

	return router
}
