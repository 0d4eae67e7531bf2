package entity

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format used by the rate API
const DateLayout = "2006-01-02"

// LatestDate is the date token addressing the most recent rate document
const LatestDate = "latest"

// CurrencyMap maps currency codes to display names
type CurrencyMap map[string]string

// ExchangeRateData represents one rate document: 1 unit of Base equals Rates[x] units of x on Date
type ExchangeRateData struct {
	Date  time.Time          `json:"date"`
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// Rate returns the rate for the target currency. A missing rate means unavailable.
func (d *ExchangeRateData) Rate(target string) (float64, bool) {
	if d == nil {
		return 0, false
	}
	rate, ok := d.Rates[NormalizeCode(target)]
	if !ok || rate <= 0 {
		return 0, false
	}
	return rate, true
}

// Clone returns a deep copy so cached documents are never shared with callers
func (d *ExchangeRateData) Clone() *ExchangeRateData {
	if d == nil {
		return nil
	}
	rates := make(map[string]float64, len(d.Rates))
	for code, rate := range d.Rates {
		rates[code] = rate
	}
	return &ExchangeRateData{
		Date:  d.Date,
		Base:  d.Base,
		Rates: rates,
	}
}

// HistoricalRatePoint is a single base to target observation
type HistoricalRatePoint struct {
	Date time.Time `json:"date"`
	Rate float64   `json:"rate"`
}

// NormalizeCode lowercases and trims a currency code
func NormalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// ParseDate parses a YYYY-MM-DD calendar date at UTC midnight
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, time.UTC)
}

// FormatDate formats a calendar date as YYYY-MM-DD in UTC
func FormatDate(date time.Time) string {
	return date.UTC().Format(DateLayout)
}

// TruncateToDate drops the time component, returning UTC midnight of the same UTC day
func TruncateToDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
