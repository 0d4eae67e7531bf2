// Package repository defines the data access contracts used by the application layer
package repository

import (
	"context"

	"github.com/damon-houk/currency-converter/internal/domain/entity"
)

// ExchangeRateRepository defines the interface for exchange rate access
type ExchangeRateRepository interface {
	// ListCurrencies returns every known currency code with its display name
	ListCurrencies(ctx context.Context) (entity.CurrencyMap, error)

	// GetRates returns the rate document of base for date ("latest" or YYYY-MM-DD)
	GetRates(ctx context.Context, base, date string) (*entity.ExchangeRateData, error)
}
