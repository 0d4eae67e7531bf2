package service

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"

	"github.com/damon-houk/currency-converter/internal/domain/entity"
	"github.com/damon-houk/currency-converter/internal/domain/repository"
	"github.com/damon-houk/currency-converter/internal/infrastructure/i18n"
	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
	"github.com/damon-houk/currency-converter/internal/infrastructure/middleware"
	"github.com/pkg/errors"
)

// currencyRegions is the allow-list of offered world currencies and their display region.
// Cryptocurrencies and metals are not offered.
var currencyRegions = map[string]entity.Region{
	"usd": entity.RegionNorthAmerica, "cad": entity.RegionNorthAmerica, "mxn": entity.RegionNorthAmerica,

	"eur": entity.RegionEurope, "gbp": entity.RegionEurope, "chf": entity.RegionEurope, "sek": entity.RegionEurope,
	"nok": entity.RegionEurope, "dkk": entity.RegionEurope, "pln": entity.RegionEurope, "huf": entity.RegionEurope,
	"czk": entity.RegionEurope, "isk": entity.RegionEurope, "ron": entity.RegionEurope, "bgn": entity.RegionEurope,
	"hrk": entity.RegionEurope, "rsd": entity.RegionEurope, "all": entity.RegionEurope, "bam": entity.RegionEurope,
	"mdl": entity.RegionEurope, "mkd": entity.RegionEurope, "uah": entity.RegionEurope, "rub": entity.RegionEurope,
	"try": entity.RegionEurope,

	"jpy": entity.RegionAsia, "cny": entity.RegionAsia, "inr": entity.RegionAsia, "krw": entity.RegionAsia,
	"hkd": entity.RegionAsia, "sgd": entity.RegionAsia, "aed": entity.RegionAsia, "sar": entity.RegionAsia,
	"ils": entity.RegionAsia, "php": entity.RegionAsia, "thb": entity.RegionAsia, "vnd": entity.RegionAsia,
	"myr": entity.RegionAsia, "idr": entity.RegionAsia, "pkr": entity.RegionAsia, "iqd": entity.RegionAsia,
	"qar": entity.RegionAsia, "kwd": entity.RegionAsia, "omr": entity.RegionAsia, "bhd": entity.RegionAsia,
	"jod": entity.RegionAsia, "lkr": entity.RegionAsia, "npr": entity.RegionAsia, "bdt": entity.RegionAsia,
	"kzt": entity.RegionAsia, "gel": entity.RegionAsia, "amd": entity.RegionAsia, "azn": entity.RegionAsia,
	"twd": entity.RegionAsia, "afn": entity.RegionAsia,

	"aud": entity.RegionOceania, "nzd": entity.RegionOceania, "pgk": entity.RegionOceania, "fjd": entity.RegionOceania,

	"brl": entity.RegionSouthAmerica, "ars": entity.RegionSouthAmerica, "clp": entity.RegionSouthAmerica,
	"cop": entity.RegionSouthAmerica, "pen": entity.RegionSouthAmerica, "uyu": entity.RegionSouthAmerica,
	"pyg": entity.RegionSouthAmerica, "bob": entity.RegionSouthAmerica, "ves": entity.RegionSouthAmerica,

	"zar": entity.RegionAfrica, "egp": entity.RegionAfrica, "ngn": entity.RegionAfrica, "kes": entity.RegionAfrica,
	"ghs": entity.RegionAfrica, "mad": entity.RegionAfrica, "dzd": entity.RegionAfrica, "xof": entity.RegionAfrica,
	"xaf": entity.RegionAfrica, "ugx": entity.RegionAfrica, "tzs": entity.RegionAfrica, "etb": entity.RegionAfrica,
	"sdg": entity.RegionAfrica, "aoa": entity.RegionAfrica, "mzn": entity.RegionAfrica, "bwp": entity.RegionAfrica,
	"zmw": entity.RegionAfrica, "mur": entity.RegionAfrica, "nad": entity.RegionAfrica, "tnd": entity.RegionAfrica,
}

// obsoleteCurrencies are former national currencies that are never offered
var obsoleteCurrencies = map[string]bool{
	"adp": true, "ats": true, "bef": true, "cyp": true, "dem": true, "eek": true, "esp": true,
	"fim": true, "frf": true, "grd": true, "iep": true, "itl": true, "luf": true, "mtl": true,
	"nlg": true, "pte": true, "sit": true, "skk": true, "val": true, "trl": true, "csd": true,
}

// currencyCountries maps a currency to the country whose flag represents it
var currencyCountries = map[string]string{
	"usd": "us", "eur": "eu", "gbp": "gb", "jpy": "jp", "aud": "au", "cad": "ca", "chf": "ch",
	"cny": "cn", "hkd": "hk", "nzd": "nz", "sek": "se", "krw": "kr", "sgd": "sg", "nok": "no",
	"mxn": "mx", "inr": "in", "rub": "ru", "zar": "za", "brl": "br", "try": "tr", "aed": "ae",
	"ars": "ar", "bgn": "bg", "bhd": "bh", "bob": "bo", "bwp": "bw", "clp": "cl", "cop": "co",
	"czk": "cz", "dkk": "dk", "dzd": "dz", "egp": "eg", "fjd": "fj", "gel": "ge", "ghs": "gh",
	"hrk": "hr", "huf": "hu", "idr": "id", "ils": "il", "isk": "is", "jod": "jo", "kes": "ke",
	"kwd": "kw", "kzt": "kz", "lkr": "lk", "mad": "ma", "mdl": "md", "mkd": "mk", "mur": "mu",
	"myr": "my", "nad": "na", "ngn": "ng", "omr": "om", "pen": "pe", "pgk": "pg", "php": "ph",
	"pkr": "pk", "pln": "pl", "pyg": "py", "qar": "qa", "ron": "ro", "rsd": "rs", "sar": "sa",
	"thb": "th", "tnd": "tn", "uah": "ua", "ugx": "ug", "uyu": "uy", "vnd": "vn",
	"xaf": "cm", "xof": "sn",
	"all": "al", "bam": "ba", "amd": "am", "azn": "az", "bdt": "bd", "etb": "et", "iqd": "iq",
	"mzn": "mz", "npr": "np", "sdg": "sd", "tzs": "tz", "ves": "ve", "zmw": "zm", "twd": "tw",
	"aoa": "ao",
}

// CurrencyOption is one selectable currency
type CurrencyOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// CurrencyGroup is the options of one region under its localized name
type CurrencyGroup struct {
	Region     entity.Region    `json:"region"`
	Name       string           `json:"name"`
	Currencies []CurrencyOption `json:"currencies"`
}

// FilterCurrencies keeps the allow-listed, non-obsolete currencies under lowercase codes
func FilterCurrencies(all entity.CurrencyMap) entity.CurrencyMap {
	filtered := make(entity.CurrencyMap)
	for code, name := range all {
		code = entity.NormalizeCode(code)
		if obsoleteCurrencies[code] {
			continue
		}
		if _, ok := currencyRegions[code]; ok {
			filtered[code] = name
		}
	}
	return filtered
}

// CurrencyRegion returns the display region of a currency
func CurrencyRegion(code string) (entity.Region, bool) {
	region, ok := currencyRegions[entity.NormalizeCode(code)]
	return region, ok
}

// CurrencyFlag returns the flag emoji of a currency's representative country, or ""
func CurrencyFlag(code string) string {
	country, ok := currencyCountries[entity.NormalizeCode(code)]
	if !ok {
		return ""
	}
	return i18n.FlagEmoji(country)
}

// CurrencyLabel renders "{flag} {name} ({CODE})"
func CurrencyLabel(code, name string) string {
	label := CurrencyFlag(code) + " " + name + " (" + strings.ToUpper(entity.NormalizeCode(code)) + ")"
	return strings.TrimSpace(label)
}

// GroupCurrencies groups currencies by region. Regions are ordered by their localized name and
// empty regions are dropped; currencies are ordered by label within a region.
func GroupCurrencies(currencies entity.CurrencyMap, lang i18n.Language) []CurrencyGroup {
	messages := i18n.For(lang)

	byRegion := make(map[entity.Region][]CurrencyOption)
	for code, name := range currencies {
		region, ok := CurrencyRegion(code)
		if !ok {
			continue
		}
		code = entity.NormalizeCode(code)
		byRegion[region] = append(byRegion[region], CurrencyOption{Value: code, Label: CurrencyLabel(code, name)})
	}

	regions := entity.Regions()
	i18n.SortBy(lang, regions, messages.RegionName)

	groups := make([]CurrencyGroup, 0, len(byRegion))
	for _, region := range regions {
		options := byRegion[region]
		if len(options) == 0 {
			continue
		}
		i18n.SortBy(lang, options, func(o CurrencyOption) string { return o.Label })
		groups = append(groups, CurrencyGroup{
			Region:     region,
			Name:       messages.RegionName(region),
			Currencies: options,
		})
	}
	return groups
}

// SortedCodes returns the codes of a currency map in ascending order
func SortedCodes(currencies entity.CurrencyMap) []string {
	codes := make([]string, 0, len(currencies))
	for code := range currencies {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// CurrencyCatalog serves the filtered, localized currency list. The upstream list is fetched
// once and kept for the life of the catalog; a failed fetch is retried on the next read.
type CurrencyCatalog struct {
	rates  repository.ExchangeRateRepository
	logger logger.Logger

	mu       sync.Mutex
	snapshot entity.CurrencyMap
}

// NewCurrencyCatalog creates a new currency catalog
func NewCurrencyCatalog(rates repository.ExchangeRateRepository, log logger.Logger) *CurrencyCatalog {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &CurrencyCatalog{
		rates:  rates,
		logger: log,
	}
}

// All returns the unfiltered currency map of the latest snapshot
func (c *CurrencyCatalog) All(ctx context.Context) (entity.CurrencyMap, error) {
	currencies, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	return maps.Clone(currencies), nil
}

// load returns the memoized snapshot, fetching it while holding the lock so concurrent
// first readers share one upstream call
func (c *CurrencyCatalog) load(ctx context.Context) (entity.CurrencyMap, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot != nil {
		return c.snapshot, nil
	}

	currencies, err := c.rates.ListCurrencies(ctx)
	if err != nil {
		c.logger.Error("Failed to list currencies", map[string]interface{}{
			"request_id": middleware.GetRequestID(ctx),
			"error":      err.Error(),
		})
		return nil, errors.Wrap(err, "failed to list currencies")
	}

	c.snapshot = currencies
	c.logger.Info("Currency list loaded", map[string]interface{}{
		"request_id": middleware.GetRequestID(ctx),
		"count":      len(currencies),
	})
	return currencies, nil
}

// Available returns the currencies offered for selection
func (c *CurrencyCatalog) Available(ctx context.Context) (entity.CurrencyMap, error) {
	currencies, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	filtered := FilterCurrencies(currencies)
	c.logger.Debug("Filtered currency list", map[string]interface{}{
		"request_id": middleware.GetRequestID(ctx),
		"total":      len(currencies),
		"available":  len(filtered),
	})
	return filtered, nil
}

// Grouped returns the available currencies grouped by region in lang
func (c *CurrencyCatalog) Grouped(ctx context.Context, lang i18n.Language) ([]CurrencyGroup, error) {
	currencies, err := c.Available(ctx)
	if err != nil {
		return nil, err
	}
	return GroupCurrencies(currencies, lang), nil
}
