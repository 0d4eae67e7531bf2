package i18n

import (
	"slices"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Localizer carries the language of one request or session
type Localizer struct {
	Lang     Language
	Messages *Messages
}

// NewLocalizer creates a localizer for lang, falling back to English
func NewLocalizer(lang Language) *Localizer {
	if lang != Portuguese {
		lang = English
	}
	return &Localizer{Lang: lang, Messages: For(lang)}
}

// Number formats v with the given fraction digit bounds
func (l *Localizer) Number(v float64, minFrac, maxFrac int) string {
	return FormatNumber(l.Lang, v, minFrac, maxFrac)
}

// Money formats v prefixed by the currency symbol
func (l *Localizer) Money(code string, v float64) string {
	return FormatMoney(l.Lang, code, v)
}

// Date formats a numeric calendar date
func (l *Localizer) Date(t time.Time) string {
	return FormatDate(l.Lang, t)
}

// ChartLabel formats a chart axis label
func (l *Localizer) ChartLabel(t time.Time, withYear bool) string {
	return ChartLabel(l.Lang, t, withYear)
}

// RelativeUpdate describes the age of a rate document
func (l *Localizer) RelativeUpdate(rateDate, now time.Time) string {
	return RelativeUpdate(l.Lang, rateDate, now)
}

// SortBy sorts items in place by the collation order of key in lang
func SortBy[T any](lang Language, items []T, key func(T) string) {
	c := collate.New(tagOf(lang))
	slices.SortStableFunc(items, func(a, b T) int {
		return c.CompareString(key(a), key(b))
	})
}

func tagOf(lang Language) language.Tag {
	if lang == Portuguese {
		return supportedTags[1]
	}
	return supportedTags[0]
}
