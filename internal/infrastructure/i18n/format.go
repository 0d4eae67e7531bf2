package i18n

import (
	"fmt"
	"strings"
	"time"

	"github.com/damon-houk/currency-converter/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// knownSymbols holds symbols for currencies whose symbol differs from their code
var knownSymbols = map[string]string{
	"usd": "$", "eur": "€", "gbp": "£", "jpy": "¥", "aud": "A$", "cad": "C$", "chf": "CHF",
	"cny": "CN¥", "hkd": "HK$", "nzd": "NZ$", "sek": "kr", "nok": "kr", "dkk": "kr", "inr": "₹",
	"rub": "₽", "brl": "R$", "zar": "R", "try": "₺", "krw": "₩", "twd": "NT$",
	"aoa": "Kz", "afn": "؋", "bdt": "৳", "ngn": "₦",
}

var (
	englishMonths    = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	portugueseMonths = [...]string{"jan.", "fev.", "mar.", "abr.", "mai.", "jun.", "jul.", "ago.", "set.", "out.", "nov.", "dez."}
)

// CurrencySymbol returns the display symbol of a currency, or its upper-case code
func CurrencySymbol(code string) string {
	if symbol, ok := knownSymbols[entity.NormalizeCode(code)]; ok {
		return symbol
	}
	return strings.ToUpper(strings.TrimSpace(code))
}

// FormatNumber renders v with between minFrac and maxFrac fraction digits.
// Integer digits are grouped in threes separated by a space.
func FormatNumber(lang Language, v float64, minFrac, maxFrac int) string {
	if maxFrac < minFrac {
		maxFrac = minFrac
	}

	fixed := decimal.NewFromFloat(v).StringFixed(int32(maxFrac))

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	for len(fracPart) > minFrac && strings.HasSuffix(fracPart, "0") {
		fracPart = fracPart[:len(fracPart)-1]
	}
	if sign == "-" && strings.Trim(intPart+fracPart, "0") == "" {
		sign = ""
	}

	var b strings.Builder
	b.WriteString(sign)
	b.WriteString(groupThousands(intPart))
	if fracPart != "" {
		b.WriteString(decimalSeparator(lang))
		b.WriteString(fracPart)
	}
	return b.String()
}

// FormatMoney renders a symbol-prefixed amount with two fraction digits
func FormatMoney(lang Language, code string, v float64) string {
	return CurrencySymbol(code) + " " + FormatNumber(lang, v, 2, 2)
}

// FormatDate renders a numeric calendar date (en M/D/YYYY, pt-PT DD/MM/YYYY)
func FormatDate(lang Language, t time.Time) string {
	t = t.UTC()
	if lang == Portuguese {
		return fmt.Sprintf("%02d/%02d/%d", t.Day(), int(t.Month()), t.Year())
	}
	return fmt.Sprintf("%d/%d/%d", int(t.Month()), t.Day(), t.Year())
}

// ChartLabel renders a short month and day, plus the year when withYear is set
func ChartLabel(lang Language, t time.Time, withYear bool) string {
	t = t.UTC()
	if lang == Portuguese {
		label := fmt.Sprintf("%d %s", t.Day(), portugueseMonths[t.Month()-1])
		if withYear {
			label += fmt.Sprintf(" %d", t.Year())
		}
		return label
	}

	label := fmt.Sprintf("%s %d", englishMonths[t.Month()-1], t.Day())
	if withYear {
		label += fmt.Sprintf(", %d", t.Year())
	}
	return label
}

// RelativeUpdate describes how long ago a rate document dated rateDate was published, as seen at now
func RelativeUpdate(lang Language, rateDate, now time.Time) string {
	m := For(lang)
	today := entity.TruncateToDate(now)
	day := entity.TruncateToDate(rateDate)

	switch {
	case day.Equal(today):
		// Documents carry no publication time, so hours count from UTC midnight
		hours := int(now.UTC().Sub(today) / time.Hour)
		if hours < 1 {
			return m.UpdatedNow
		}
		return m.UpdatedHoursAgo(hours)
	case day.Equal(today.AddDate(0, 0, -1)):
		return m.UpdatedYesterday
	default:
		return m.UpdatedOnDate(FormatDate(lang, day))
	}
}

func decimalSeparator(lang Language) string {
	if lang == Portuguese {
		return ","
	}
	return "."
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FlagEmoji turns an ISO 3166 alpha-2 country code into its regional indicator pair
func FlagEmoji(countryCode string) string {
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	if len(code) != 2 {
		return ""
	}

	var b strings.Builder
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return ""
		}
		b.WriteRune(r + 127397)
	}
	return b.String()
}
