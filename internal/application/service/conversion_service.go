// Package service internal/application/service/conversion_service.go
package service

import (
	"context"
	"strings"
	"time"

	"github.com/damon-houk/currency-converter/internal/domain/apperrors"
	"github.com/damon-houk/currency-converter/internal/domain/entity"
	"github.com/damon-houk/currency-converter/internal/domain/repository"
	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
	"github.com/damon-houk/currency-converter/internal/infrastructure/middleware"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Conversion is the result of converting an amount between two currencies
type Conversion struct {
	From      string
	To        string
	Amount    decimal.Decimal
	Rate      float64
	Converted decimal.Decimal
	RateDate  time.Time
}

// ConversionService converts amounts using the latest rate documents
type ConversionService struct {
	rates  repository.ExchangeRateRepository
	logger logger.Logger
	now    func() time.Time
}

// NewConversionService creates a new conversion service
func NewConversionService(rates repository.ExchangeRateRepository, log logger.Logger) *ConversionService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ConversionService{
		rates:  rates,
		logger: log,
		now:    time.Now,
	}
}

// Now returns the service clock
func (s *ConversionService) Now() time.Time {
	return s.now()
}

// ParseAmount parses a user-entered amount. Empty, non-numeric and negative amounts are invalid.
func ParseAmount(amount string) (decimal.Decimal, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return decimal.Zero, errors.Wrap(apperrors.ErrInvalidAmount, "amount is required")
	}

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, errors.Wrapf(apperrors.ErrInvalidAmount, "amount %q", amount)
	}
	if value.IsNegative() {
		return decimal.Zero, errors.Wrapf(apperrors.ErrInvalidAmount, "amount %q is negative", amount)
	}
	return value, nil
}

// ConvertWithRate multiplies amount by rate without rounding
func ConvertWithRate(amount decimal.Decimal, rate float64) decimal.Decimal {
	return amount.Mul(decimal.NewFromFloat(rate))
}

// Convert converts amount from one currency to another using the latest rates of from
func (s *ConversionService) Convert(ctx context.Context, from, to, amount string) (*Conversion, error) {
	requestID := middleware.GetRequestID(ctx)

	from = entity.NormalizeCode(from)
	to = entity.NormalizeCode(to)
	if from == "" || to == "" {
		return nil, errors.Wrap(apperrors.ErrInvalidCurrency, "from and to are required")
	}

	value, err := ParseAmount(amount)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Converting amount", map[string]interface{}{
		"request_id": requestID,
		"from":       from,
		"to":         to,
		"amount":     value.String(),
	})

	if from == to {
		return &Conversion{
			From:      from,
			To:        to,
			Amount:    value,
			Rate:      1,
			Converted: value,
			RateDate:  entity.TruncateToDate(s.now()),
		}, nil
	}

	data, err := s.rates.GetRates(ctx, from, entity.LatestDate)
	if err != nil {
		s.logger.Error("Failed to get exchange rates", map[string]interface{}{
			"request_id": requestID,
			"base":       from,
			"error":      err.Error(),
		})
		return nil, errors.Wrapf(err, "failed to get rates for %s", from)
	}

	rate, ok := data.Rate(to)
	if !ok {
		s.logger.Warn("Rate not available", map[string]interface{}{
			"request_id": requestID,
			"base":       from,
			"target":     to,
			"rate_date":  entity.FormatDate(data.Date),
		})
		return nil, errors.Wrapf(apperrors.ErrRateUnavailable, "%s to %s", from, to)
	}

	converted := ConvertWithRate(value, rate)

	s.logger.Info("Conversion completed", map[string]interface{}{
		"request_id": requestID,
		"from":       from,
		"to":         to,
		"rate":       rate,
		"converted":  converted.String(),
		"rate_date":  entity.FormatDate(data.Date),
	})

	return &Conversion{
		From:      from,
		To:        to,
		Amount:    value,
		Rate:      rate,
		Converted: converted,
		RateDate:  data.Date,
	}, nil
}
