// Package handler internal/infrastructure/handler/currency_handler.go
package handler

import (
	"net/http"
	"strconv"

	"github.com/damon-houk/currency-converter/internal/application/service"
	"github.com/damon-houk/currency-converter/internal/domain/entity"
	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
	"github.com/damon-houk/currency-converter/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// CurrencyHandler handles HTTP requests for the currency catalog
type CurrencyHandler struct {
	catalog *service.CurrencyCatalog
	logger  logger.Logger
}

// NewCurrencyHandler creates a new currency handler
func NewCurrencyHandler(catalog *service.CurrencyCatalog, log logger.Logger) *CurrencyHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &CurrencyHandler{
		catalog: catalog,
		logger:  log,
	}
}

// ListCurrencies returns the currency map, filtered to the offered currencies with ?filtered=true
func (h *CurrencyHandler) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	filtered := false
	if raw := r.URL.Query().Get("filtered"); raw != "" {
		var err error
		filtered, err = strconv.ParseBool(raw)
		if err != nil {
			sendErrorResponse(w, h.logger, "Invalid filtered parameter",
				"The 'filtered' query parameter must be a boolean", "", http.StatusBadRequest, requestID)
			return
		}
	}

	var (
		currencies entity.CurrencyMap
		err        error
	)
	if filtered {
		currencies, err = h.catalog.Available(r.Context())
	} else {
		currencies, err = h.catalog.All(r.Context())
	}
	if err != nil {
		sendServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("Currencies listed", map[string]interface{}{
		"request_id": requestID,
		"filtered":   filtered,
		"count":      len(currencies),
	})

	sendJSON(w, h.logger, http.StatusOK, currencies)
}

// GroupedCurrencies returns the offered currencies grouped by region in the request language
func (h *CurrencyHandler) GroupedCurrencies(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguage(r.Context())

	groups, err := h.catalog.Grouped(r.Context(), lang)
	if err != nil {
		sendServiceError(w, r, h.logger, err)
		return
	}

	sendJSON(w, h.logger, http.StatusOK, groups)
}

// RegisterRoutes registers the currency handler routes
func (h *CurrencyHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/currencies", h.ListCurrencies).Methods("GET")
	router.HandleFunc("/currencies/grouped", h.GroupedCurrencies).Methods("GET")

	h.logger.Info("Currency routes registered", map[string]interface{}{
		"routes": []string{
			"GET /currencies",
			"GET /currencies/grouped",
		},
	})
}
