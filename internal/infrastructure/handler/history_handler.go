package handler

import (
	"net/http"
	"strconv"

	"github.com/damon-houk/currency-converter/internal/application/service"
	"github.com/damon-houk/currency-converter/internal/domain/apperrors"
	"github.com/damon-houk/currency-converter/internal/domain/entity"
	"github.com/damon-houk/currency-converter/internal/infrastructure/i18n"
	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
	"github.com/damon-houk/currency-converter/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

// HistoryHandler handles HTTP requests for historical series and presets
type HistoryHandler struct {
	builder *service.HistoricalSeriesBuilder
	logger  logger.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(builder *service.HistoricalSeriesBuilder, log logger.Logger) *HistoryHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &HistoryHandler{
		builder: builder,
		logger:  log,
	}
}

// GetHistory returns the series of a currency pair over a preset or custom range
func (h *HistoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	loc := i18n.NewLocalizer(middleware.GetLanguage(r.Context()))

	query, err := parseHistoryQuery(r)
	if err == nil {
		err = validate.Struct(query)
	}
	if err != nil {
		h.logger.Warn("Invalid history request", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid request", validationMessage(err), "", http.StatusBadRequest, requestID)
		return
	}

	preset, err := presetFromQuery(query)
	if err != nil {
		sendServiceError(w, r, h.logger, err)
		return
	}

	if entity.NormalizeCode(query.Base) == entity.NormalizeCode(query.Target) {
		resp := historyResponse(loc, query.Base, query.Target, preset, nil)
		resp.Info = loc.Messages.SameCurrencyInfo
		sendJSON(w, h.logger, http.StatusOK, resp)
		return
	}

	points, err := h.builder.Build(r.Context(), query.Base, query.Target, preset)
	if err != nil {
		sendServiceError(w, r, h.logger, err)
		return
	}

	sendJSON(w, h.logger, http.StatusOK, historyResponse(loc, query.Base, query.Target, preset, points))
}

// ListPresets returns the time range presets with localized labels
func (h *HistoryHandler) ListPresets(w http.ResponseWriter, r *http.Request) {
	messages := i18n.For(middleware.GetLanguage(r.Context()))
	sendJSON(w, h.logger, http.StatusOK, presetResponses(messages))
}

// RegisterRoutes registers the history handler routes
func (h *HistoryHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/history/{base}/{target}", h.GetHistory).Methods("GET")
	router.HandleFunc("/presets", h.ListPresets).Methods("GET")

	h.logger.Info("History routes registered", map[string]interface{}{
		"routes": []string{
			"GET /history/{base}/{target}",
			"GET /presets",
		},
	})
}

func parseHistoryQuery(r *http.Request) (HistoryQuery, error) {
	vars := mux.Vars(r)
	q := r.URL.Query()

	query := HistoryQuery{
		Base:   vars["base"],
		Target: vars["target"],
		Range:  q.Get("range"),
	}

	for name, dst := range map[string]*int{"days": &query.Days, "months": &query.Months, "years": &query.Years} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return query, errors.Errorf("%s must be an integer", name)
		}
		*dst = n
	}

	return query, nil
}

// presetFromQuery picks a named preset, or builds a custom one from exactly one of days, months or years
func presetFromQuery(query HistoryQuery) (entity.TimeRangePreset, error) {
	custom := entity.TimeRangePreset{
		ID:     entity.RangeCustom,
		Days:   query.Days,
		Months: query.Months,
		Years:  query.Years,
	}

	switch {
	case custom.Granularities() > 1:
		return entity.TimeRangePreset{}, errors.Wrap(apperrors.ErrInvalidPreset, "use one of days, months or years")
	case custom.Granularities() == 1 && (query.Range == "" || query.Range == entity.RangeCustom):
		return custom, nil
	case custom.Granularities() == 1:
		return entity.TimeRangePreset{}, errors.Wrapf(apperrors.ErrInvalidPreset, "range %q takes no counts", query.Range)
	case query.Range == entity.RangeCustom:
		return entity.TimeRangePreset{}, errors.Wrap(apperrors.ErrInvalidPreset, "custom range needs days, months or years")
	case query.Range == "":
		preset, _ := entity.PresetByID(entity.DefaultRange)
		return preset, nil
	}

	preset, _ := entity.PresetByID(query.Range)
	return preset, nil
}
