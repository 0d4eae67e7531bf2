// internal/application/service/conversion_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/damon-houk/currency-converter/internal/domain/apperrors"
	"github.com/damon-houk/currency-converter/internal/domain/entity"
	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
	"github.com/damon-houk/currency-converter/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		err      bool
	}{
		{"100", "100", false},
		{" 12.50 ", "12.5", false},
		{"0", "0", false},
		{"", "", true},
		{"abc", "", true},
		{"-5", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			value, err := ParseAmount(tt.input)
			if tt.err {
				assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, value.String())
		})
	}
}

func TestConvert(t *testing.T) {
	repo := new(mocks.MockExchangeRateRepository)
	service := NewConversionService(repo, logger.NewZapLogger(zap.NewNop()))
	ctx := context.Background()

	t.Run("Successful conversion", func(t *testing.T) {
		rates := rateDoc("2024-03-10", "usd", map[string]float64{"eur": 0.92})
		repo.On("GetRates", ctx, "usd", entity.LatestDate).Return(rates, nil).Once()

		conversion, err := service.Convert(ctx, "USD", "eur", "100")
		require.NoError(t, err)

		assert.Equal(t, "usd", conversion.From)
		assert.Equal(t, "eur", conversion.To)
		assert.InDelta(t, 92.0, conversion.Converted.InexactFloat64(), 1e-9)
		assert.Equal(t, "92", conversion.Converted.String())
		assert.Equal(t, 0.92, conversion.Rate)
		assert.Equal(t, date("2024-03-10"), conversion.RateDate)
	})

	t.Run("No rounding of the converted value", func(t *testing.T) {
		rates := rateDoc("2024-03-10", "usd", map[string]float64{"aoa": 833.123456})
		repo.On("GetRates", ctx, "usd", entity.LatestDate).Return(rates, nil).Once()

		conversion, err := service.Convert(ctx, "usd", "aoa", "1.5")
		require.NoError(t, err)
		assert.Equal(t, "1249.685184", conversion.Converted.String())
	})

	t.Run("Same currency uses unit rate", func(t *testing.T) {
		service.now = func() time.Time { return time.Date(2024, 3, 11, 15, 0, 0, 0, time.UTC) }

		conversion, err := service.Convert(ctx, "eur", "EUR", "42.10")
		require.NoError(t, err)
		assert.Equal(t, 1.0, conversion.Rate)
		assert.Equal(t, "42.1", conversion.Converted.String())
		assert.Equal(t, date("2024-03-11"), conversion.RateDate)
	})

	t.Run("Rate not available", func(t *testing.T) {
		rates := rateDoc("2024-03-10", "usd", map[string]float64{"eur": 0.92})
		repo.On("GetRates", ctx, "usd", entity.LatestDate).Return(rates, nil).Once()

		conversion, err := service.Convert(ctx, "usd", "xyz", "100")
		assert.Nil(t, conversion)
		assert.ErrorIs(t, err, apperrors.ErrRateUnavailable)
	})

	t.Run("Rates unavailable", func(t *testing.T) {
		unavailable := &apperrors.DataUnavailableError{Resource: "currencies/gbp", Date: entity.LatestDate}
		repo.On("GetRates", ctx, "gbp", entity.LatestDate).Return(nil, unavailable).Once()

		_, err := service.Convert(ctx, "gbp", "usd", "100")

		var dataErr *apperrors.DataUnavailableError
		assert.ErrorAs(t, err, &dataErr)
	})

	t.Run("Invalid input", func(t *testing.T) {
		_, err := service.Convert(ctx, "", "usd", "100")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCurrency)

		_, err = service.Convert(ctx, "usd", "eur", "ten")
		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
	})

	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "GetRates", mock.Anything, "eur", mock.Anything)
}
