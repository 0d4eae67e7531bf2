package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/damon-houk/currency-converter/internal/domain/apperrors"
	"github.com/damon-houk/currency-converter/internal/domain/entity"
	"github.com/damon-houk/currency-converter/internal/infrastructure/i18n"
	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
	"github.com/damon-houk/currency-converter/internal/infrastructure/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPresetFromQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   HistoryQuery
		want    entity.TimeRangePreset
		wantErr bool
	}{
		{
			name:  "default range",
			query: HistoryQuery{},
			want:  entity.TimeRangePreset{ID: entity.Range1Month, Days: 30},
		},
		{
			name:  "named preset",
			query: HistoryQuery{Range: entity.Range1Year},
			want:  entity.TimeRangePreset{ID: entity.Range1Year, Months: 12},
		},
		{
			name:  "bare count",
			query: HistoryQuery{Days: 14},
			want:  entity.TimeRangePreset{ID: entity.RangeCustom, Days: 14},
		},
		{
			name:  "explicit custom",
			query: HistoryQuery{Range: entity.RangeCustom, Years: 3},
			want:  entity.TimeRangePreset{ID: entity.RangeCustom, Years: 3},
		},
		{
			name:    "two granularities",
			query:   HistoryQuery{Days: 3, Months: 2},
			wantErr: true,
		},
		{
			name:    "named preset with counts",
			query:   HistoryQuery{Range: entity.Range7Days, Days: 3},
			wantErr: true,
		},
		{
			name:    "custom without counts",
			query:   HistoryQuery{Range: entity.RangeCustom},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := presetFromQuery(tt.query)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidPreset)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHistoryQueryValidation(t *testing.T) {
	assert.NoError(t, validate.Struct(HistoryQuery{Base: "usd", Target: "eur", Range: "7D"}))
	assert.Error(t, validate.Struct(HistoryQuery{Base: "usd", Target: "eur", Range: "5Y"}))
	assert.Error(t, validate.Struct(HistoryQuery{Base: "u$d", Target: "eur"}))
	assert.Error(t, validate.Struct(HistoryQuery{Base: "usd", Target: "eur", Days: 367}))
	assert.Error(t, validate.Struct(RatesQuery{Base: "usd", Date: "2024/01/01"}))
	assert.NoError(t, validate.Struct(RatesQuery{Base: "usd", Date: "latest"}))
	assert.NoError(t, validate.Struct(RatesQuery{Base: "usd", Date: "2024-01-01"}))
}

func TestMustRegister(t *testing.T) {
	v := validator.New()
	always := func(validator.FieldLevel) bool { return true }

	assert.Panics(t, func() { mustRegister(v, "", always) })
	assert.Panics(t, func() { mustRegister(v, "nil_func", nil) })
	assert.NotPanics(t, func() { mustRegister(v, "always", always) })

	// The package validator carries both custom tags
	assert.Error(t, validate.Var("not a code", "currency"))
	assert.Error(t, validate.Var("yesterday", "ratedate"))
}

func TestSendServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		lang       string
		wantStatus int
		wantError  string
		wantMsg    string
	}{
		{
			name:       "invalid amount",
			err:        errors.Wrap(apperrors.ErrInvalidAmount, "amount \"x\""),
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid amount",
			wantMsg:    "Enter an amount to convert.",
		},
		{
			name:       "invalid currency in portuguese",
			err:        errors.Wrap(apperrors.ErrInvalidCurrency, "currency \"\""),
			lang:       "pt-PT",
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid currency",
			wantMsg:    "Selecione as moedas para converter.",
		},
		{
			name:       "invalid preset",
			err:        errors.Wrap(apperrors.ErrInvalidPreset, "preset"),
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request",
		},
		{
			name:       "session not found",
			err:        errors.Wrap(apperrors.ErrSessionNotFound, "session \"x\""),
			wantStatus: http.StatusNotFound,
			wantError:  "Session not found",
		},
		{
			name:       "no historical data",
			err:        &apperrors.NoDataError{Base: "usd", Target: "eur"},
			wantStatus: http.StatusNotFound,
			wantError:  "No historical data",
			wantMsg:    "No historical data found for USD to EUR in the selected range.",
		},
		{
			name:       "rate unavailable",
			err:        errors.Wrap(apperrors.ErrRateUnavailable, "usd to xyz"),
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "Rate not available",
			wantMsg:    "Rate not available or invalid selection.",
		},
		{
			name:       "data unavailable",
			err:        errors.Wrap(&apperrors.DataUnavailableError{Resource: "currencies/usd", Date: "latest"}, "fetch"),
			wantStatus: http.StatusBadGateway,
			wantError:  "Rate data unavailable",
			wantMsg:    "Error",
		},
		{
			name:       "malformed response",
			err:        &apperrors.MalformedResponseError{Resource: "currencies/usd", Date: "latest", Reason: "missing base"},
			wantStatus: http.StatusBadGateway,
			wantError:  "Rate data unavailable",
		},
		{
			name:       "canceled",
			err:        errors.Wrap(context.Canceled, "build"),
			wantStatus: http.StatusServiceUnavailable,
			wantError:  "Request canceled",
		},
		{
			name:       "unexpected",
			err:        errors.New("disk on fire"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Internal server error",
		},
	}

	log := logger.NewZapLogger(zap.NewNop())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := middleware.RequestIDMiddleware(middleware.LanguageMiddleware(i18n.English)(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					sendServiceError(w, r, log, tt.err)
				})))

			url := "/test"
			if tt.lang != "" {
				url += "?lang=" + tt.lang
			}
			req := httptest.NewRequest("GET", url, nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, tt.wantError, resp.Error)
			assert.NotEmpty(t, resp.RequestID)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, resp.Message)
			}
		})
	}
}

func TestHistoryResponseLabels(t *testing.T) {
	loc := i18n.NewLocalizer(i18n.English)
	day := func(s string) time.Time {
		d, err := entity.ParseDate(s)
		require.NoError(t, err)
		return d
	}

	preset, _ := entity.PresetByID(entity.Range7Days)
	resp := historyResponse(loc, "USD", "eur", preset, []entity.HistoricalRatePoint{
		{Date: day("2024-03-01"), Rate: 0.92},
		{Date: day("2024-03-02"), Rate: 0.93},
	})
	assert.Equal(t, "usd", resp.Base)
	assert.Equal(t, "eur", resp.Target)
	assert.Equal(t, "Historical Rates: USD to EUR", resp.Title)
	require.Len(t, resp.Points, 2)
	assert.Equal(t, "Mar 1", resp.Points[0].Label)
	assert.Equal(t, "2024-03-02", resp.Points[1].Date)

	// Series crossing a year boundary carry the year
	resp = historyResponse(loc, "usd", "eur", preset, []entity.HistoricalRatePoint{
		{Date: day("2023-12-31"), Rate: 0.9},
		{Date: day("2024-01-01"), Rate: 0.91},
	})
	assert.Equal(t, "Dec 31, 2023", resp.Points[0].Label)
	assert.Equal(t, "Jan 1, 2024", resp.Points[1].Label)
}
