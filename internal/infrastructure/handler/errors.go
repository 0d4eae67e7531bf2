package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/damon-houk/currency-converter/internal/domain/apperrors"
	"github.com/damon-houk/currency-converter/internal/infrastructure/i18n"
	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
	"github.com/damon-houk/currency-converter/internal/infrastructure/middleware"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	Message     string `json:"message,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}

// sendJSON writes v as a JSON response body
func sendJSON(w http.ResponseWriter, log logger.Logger, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// sendErrorResponse sends a standardized error response
func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description, localized string, statusCode int, requestID string) {
	resp := ErrorResponse{
		Error:       message,
		Status:      statusCode,
		Description: description,
		Message:     localized,
		RequestID:   requestID,
	}

	log.Debug("Sending error response", map[string]interface{}{
		"request_id":  requestID,
		"status_code": statusCode,
		"message":     message,
	})

	sendJSON(w, log, statusCode, resp)
}

// sendServiceError maps a service error onto its HTTP status and localized message
func sendServiceError(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	messages := i18n.For(middleware.GetLanguage(ctx))

	var (
		noData      *apperrors.NoDataError
		unavailable *apperrors.DataUnavailableError
		malformed   *apperrors.MalformedResponseError
	)

	fields := map[string]interface{}{
		"request_id": requestID,
		"error":      err.Error(),
	}

	switch {
	case errors.Is(err, apperrors.ErrInvalidAmount):
		log.Warn("Invalid amount", fields)
		sendErrorResponse(w, log, "Invalid amount", err.Error(), messages.NoAmountError, http.StatusBadRequest, requestID)
	case errors.Is(err, apperrors.ErrInvalidCurrency):
		log.Warn("Invalid currency", fields)
		sendErrorResponse(w, log, "Invalid currency", err.Error(), messages.SelectCurrenciesError, http.StatusBadRequest, requestID)
	case errors.Is(err, apperrors.ErrInvalidDate),
		errors.Is(err, apperrors.ErrInvalidPreset),
		errors.Is(err, apperrors.ErrInvalidLanguage):
		log.Warn("Invalid request", fields)
		sendErrorResponse(w, log, "Invalid request", err.Error(), "", http.StatusBadRequest, requestID)
	case errors.Is(err, apperrors.ErrSessionNotFound):
		log.Info("Session not found", fields)
		sendErrorResponse(w, log, "Session not found",
			"The requested session could not be found", "", http.StatusNotFound, requestID)
	case errors.As(err, &noData):
		log.Info("No historical data", fields)
		sendErrorResponse(w, log, "No historical data", err.Error(),
			messages.NoHistoricalDataFoundError(noData.Base, noData.Target), http.StatusNotFound, requestID)
	case errors.Is(err, apperrors.ErrRateUnavailable):
		log.Warn("Rate not available", fields)
		sendErrorResponse(w, log, "Rate not available", err.Error(),
			messages.NoRateOrInvalidSelectionError, http.StatusUnprocessableEntity, requestID)
	case errors.As(err, &unavailable), errors.As(err, &malformed):
		log.Error("Rate data source error", fields)
		sendErrorResponse(w, log, "Rate data unavailable",
			"Unable to retrieve exchange rate data. Please try again later.",
			messages.ErrorTitle, http.StatusBadGateway, requestID)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		log.Warn("Request canceled", fields)
		sendErrorResponse(w, log, "Request canceled", err.Error(), "", http.StatusServiceUnavailable, requestID)
	default:
		log.Error("Unexpected error", fields)
		sendErrorResponse(w, log, "Internal server error",
			"An unexpected error occurred. Please try again later.",
			messages.ErrorTitle, http.StatusInternalServerError, requestID)
	}
}
