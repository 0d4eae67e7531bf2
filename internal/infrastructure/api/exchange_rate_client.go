package api

import (
	"context"
	"encoding/json"
	"math"

	"github.com/damon-houk/currency-converter/internal/domain/apperrors"
	"github.com/damon-houk/currency-converter/internal/domain/entity"
	"github.com/damon-houk/currency-converter/internal/domain/repository"
	"github.com/damon-houk/currency-converter/internal/domain/service"
	"github.com/damon-houk/currency-converter/internal/infrastructure/cache"
	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
	"github.com/pkg/errors"
)

const (
	currenciesResource = "currencies"
	dateField          = "date"
)

// ExchangeRateClient builds rate API requests on top of a DataFetcher and normalizes the responses
type ExchangeRateClient struct {
	fetcher service.DataFetcher
	cache   *cache.ExchangeRateCache
	logger  logger.Logger
}

var _ repository.ExchangeRateRepository = (*ExchangeRateClient)(nil)

// NewExchangeRateClient creates a new client. A nil cache disables caching of dated documents.
func NewExchangeRateClient(fetcher service.DataFetcher, rateCache *cache.ExchangeRateCache, log logger.Logger) *ExchangeRateClient {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &ExchangeRateClient{
		fetcher: fetcher,
		cache:   rateCache,
		logger:  log,
	}
}

// ListCurrencies retrieves the names of all known currencies from the latest snapshot
func (c *ExchangeRateClient) ListCurrencies(ctx context.Context) (entity.CurrencyMap, error) {
	doc, err := c.fetcher.Fetch(ctx, entity.LatestDate, currenciesResource)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch currency list")
	}

	currencies := make(entity.CurrencyMap, len(doc))
	for code, raw := range doc {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return nil, &apperrors.MalformedResponseError{
				Resource: currenciesResource,
				Date:     entity.LatestDate,
				Reason:   "display name of " + code + " is not a string",
			}
		}
		currencies[entity.NormalizeCode(code)] = name
	}

	c.logger.Debug("Currency list fetched", map[string]interface{}{
		"count": len(currencies),
	})

	return currencies, nil
}

// GetRates retrieves the rate document of base for date, which is "latest" or YYYY-MM-DD
func (c *ExchangeRateClient) GetRates(ctx context.Context, base, date string) (*entity.ExchangeRateData, error) {
	base = entity.NormalizeCode(base)
	if base == "" {
		return nil, apperrors.ErrInvalidCurrency
	}

	dated := false
	switch date {
	case "", entity.LatestDate:
		date = entity.LatestDate
	default:
		parsed, err := entity.ParseDate(date)
		if err != nil {
			return nil, errors.Wrapf(apperrors.ErrInvalidDate, "%q", date)
		}
		date = entity.FormatDate(parsed)
		dated = true
	}

	// Dated documents never change upstream, so they can be served from cache
	if dated && c.cache != nil {
		if cached := c.cache.Get(base, date); cached != nil {
			return cached, nil
		}
	}

	resource := currenciesResource + "/" + base
	doc, err := c.fetcher.Fetch(ctx, date, resource)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch rates for %s on %s", base, date)
	}

	data, err := normalizeRates(doc, base, resource, date)
	if err != nil {
		c.logger.Error("Unexpected data structure for exchange rates", map[string]interface{}{
			"base":  base,
			"date":  date,
			"error": err.Error(),
		})
		return nil, err
	}

	if dated && c.cache != nil {
		c.cache.Put(data, date)
	}

	return data, nil
}

// normalizeRates flattens { date, <base>: { <code>: rate } } into ExchangeRateData
func normalizeRates(doc service.Document, base, resource, date string) (*entity.ExchangeRateData, error) {
	malformed := func(reason string) error {
		return &apperrors.MalformedResponseError{Resource: resource, Date: date, Reason: reason}
	}

	rawDate, ok := doc[dateField]
	if !ok {
		return nil, malformed("missing date field")
	}
	var dateValue string
	if err := json.Unmarshal(rawDate, &dateValue); err != nil {
		return nil, malformed("date field is not a string")
	}
	docDate, err := entity.ParseDate(dateValue)
	if err != nil {
		return nil, malformed("date field is not a calendar date: " + dateValue)
	}

	rawRates, ok := doc[base]
	if !ok {
		return nil, malformed("missing rate table for " + base)
	}
	var table map[string]float64
	if err := json.Unmarshal(rawRates, &table); err != nil || table == nil {
		return nil, malformed("rate table for " + base + " is not an object of numbers")
	}

	rates := make(map[string]float64, len(table))
	for code, rate := range table {
		// A non-positive rate is treated as absent
		if rate <= 0 || math.IsInf(rate, 0) || math.IsNaN(rate) {
			continue
		}
		rates[entity.NormalizeCode(code)] = rate
	}

	return &entity.ExchangeRateData{
		Date:  docDate,
		Base:  base,
		Rates: rates,
	}, nil
}
