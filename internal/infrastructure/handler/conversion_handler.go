package handler

import (
	"net/http"
	"strings"

	"github.com/damon-houk/currency-converter/internal/application/service"
	"github.com/damon-houk/currency-converter/internal/domain/entity"
	"github.com/damon-houk/currency-converter/internal/domain/repository"
	"github.com/damon-houk/currency-converter/internal/infrastructure/i18n"
	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
	"github.com/damon-houk/currency-converter/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// ConversionHandler handles HTTP requests for rate documents and conversions
type ConversionHandler struct {
	rates   repository.ExchangeRateRepository
	service *service.ConversionService
	logger  logger.Logger
}

// NewConversionHandler creates a new conversion handler
func NewConversionHandler(rates repository.ExchangeRateRepository, service *service.ConversionService, log logger.Logger) *ConversionHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ConversionHandler{
		rates:   rates,
		service: service,
		logger:  log,
	}
}

// GetRates returns the rate document of a base currency on a date, "latest" by default
func (h *ConversionHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	query := RatesQuery{
		Base: mux.Vars(r)["base"],
		Date: r.URL.Query().Get("date"),
	}
	if err := validate.Struct(query); err != nil {
		h.logger.Warn("Invalid rates request", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid request", validationMessage(err), "", http.StatusBadRequest, requestID)
		return
	}
	if query.Date == "" {
		query.Date = entity.LatestDate
	}

	data, err := h.rates.GetRates(r.Context(), query.Base, query.Date)
	if err != nil {
		sendServiceError(w, r, h.logger, err)
		return
	}

	sendJSON(w, h.logger, http.StatusOK, toExchangeRateResponse(data))
}

// Convert converts an amount between two currencies
func (h *ConversionHandler) Convert(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	q := r.URL.Query()

	query := ConvertQuery{
		From:   q.Get("from"),
		To:     q.Get("to"),
		Amount: strings.TrimSpace(q.Get("amount")),
	}
	if err := validate.Struct(query); err != nil {
		h.logger.Warn("Invalid convert request", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid request", validationMessage(err),
			i18n.For(middleware.GetLanguage(r.Context())).NoAmountError, http.StatusBadRequest, requestID)
		return
	}

	conversion, err := h.service.Convert(r.Context(), query.From, query.To, query.Amount)
	if err != nil {
		sendServiceError(w, r, h.logger, err)
		return
	}

	lang := middleware.GetLanguage(r.Context())
	converted := conversion.Converted
	state := service.ViewState{
		Selection: service.Selection{
			Amount:   query.Amount,
			From:     conversion.From,
			To:       conversion.To,
			Language: lang,
		},
		RateData: &entity.ExchangeRateData{
			Date:  conversion.RateDate,
			Base:  conversion.From,
			Rates: map[string]float64{conversion.To: conversion.Rate},
		},
		Converted: &converted,
	}

	sendJSON(w, h.logger, http.StatusOK, ConversionResponse{
		From:      conversion.From,
		To:        conversion.To,
		Amount:    conversion.Amount.String(),
		Rate:      conversion.Rate,
		Converted: conversion.Converted.String(),
		RateDate:  entity.FormatDate(conversion.RateDate),
		Text:      toConversionText(state.Localize(h.service.Now())),
	})
}

// RegisterRoutes registers the conversion handler routes
func (h *ConversionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/rates/{base}", h.GetRates).Methods("GET")
	router.HandleFunc("/convert", h.Convert).Methods("GET")

	h.logger.Info("Conversion routes registered", map[string]interface{}{
		"routes": []string{
			"GET /rates/{base}",
			"GET /convert",
		},
	})
}
