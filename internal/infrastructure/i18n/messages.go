// Package i18n holds the localized message catalog and locale-aware formatting.
//
// Messages are typed: plain strings are string fields, parameterized messages are
// function fields over explicit arguments.
package i18n

import (
	"fmt"
	"strings"

	"github.com/damon-houk/currency-converter/internal/domain/entity"
)

// Messages is the message catalog of one language
type Messages struct {
	AppTitle    string
	AppSubtitle string

	AmountLabel       string
	FromLabel         string
	ToLabel           string
	SwapButtonLabel   string
	LoadingCurrencies string
	FetchingRates     func(currency string) string
	ResultPrefix      func(amount, from string) string
	RateInfo          func(from, rate, to string) string

	UpdatedNow       string
	UpdatedHoursAgo  func(hours int) string
	UpdatedYesterday string
	UpdatedOnDate    func(date string) string

	NoAmountError                 string
	SelectCurrenciesError         string
	NoRateOrInvalidSelectionError string
	FailedToLoadCurrencies        string

	HistoricalRatesTitle func(from, to string) string
	TimeRange7D          string
	TimeRange1M          string
	TimeRange1Y          string
	TimeRangeCustom      string

	RegionNorthAmerica string
	RegionEurope       string
	RegionAsia         string
	RegionOceania      string
	RegionSouthAmerica string
	RegionAfrica       string

	ErrorTitle string

	HistoricalChartLabel        func(from, to string) string
	LoadingHistoricalData       string
	NoHistoricalDataFoundError  func(from, to string) string
	FailedToLoadHistoricalError string
	NoHistoricalDataAvailable   string
	SameCurrencyInfo            string
}

var english = &Messages{
	AppTitle:    "Currency Converter Pro",
	AppSubtitle: "Fast & Reliable Exchange Rates",

	AmountLabel:       "Amount",
	FromLabel:         "From",
	ToLabel:           "To",
	SwapButtonLabel:   "Swap from and to currencies",
	LoadingCurrencies: "Loading currencies...",
	FetchingRates: func(currency string) string {
		return fmt.Sprintf("Fetching latest rates for %s...", currency)
	},
	ResultPrefix: func(amount, from string) string {
		return fmt.Sprintf("%s %s =", amount, from)
	},
	RateInfo: func(from, rate, to string) string {
		return fmt.Sprintf("1 %s = %s %s", from, rate, to)
	},

	UpdatedNow: "Rates updated just now",
	UpdatedHoursAgo: func(hours int) string {
		if hours == 1 {
			return "Rates updated 1 hour ago"
		}
		return fmt.Sprintf("Rates updated %d hours ago", hours)
	},
	UpdatedYesterday: "Rates updated yesterday",
	UpdatedOnDate: func(date string) string {
		return fmt.Sprintf("Rates as of %s", date)
	},

	NoAmountError:                 "Enter an amount to convert.",
	SelectCurrenciesError:         "Select currencies to convert.",
	NoRateOrInvalidSelectionError: "Rate not available or invalid selection.",
	FailedToLoadCurrencies:        "Failed to load currency list. Please try refreshing the page.",

	HistoricalRatesTitle: func(from, to string) string {
		return fmt.Sprintf("Historical Rates: %s to %s", from, to)
	},
	TimeRange7D:     "7 Days",
	TimeRange1M:     "1 Month",
	TimeRange1Y:     "1 Year",
	TimeRangeCustom: "Custom",

	RegionNorthAmerica: "North America",
	RegionEurope:       "Europe",
	RegionAsia:         "Asia",
	RegionOceania:      "Oceania",
	RegionSouthAmerica: "South America",
	RegionAfrica:       "Africa",

	ErrorTitle: "Error",

	HistoricalChartLabel: func(from, to string) string {
		return fmt.Sprintf("Rate (%s/%s)", from, to)
	},
	LoadingHistoricalData: "Loading historical data...",
	NoHistoricalDataFoundError: func(from, to string) string {
		return fmt.Sprintf("No historical data found for %s to %s in the selected range.",
			strings.ToUpper(from), strings.ToUpper(to))
	},
	FailedToLoadHistoricalError: "Failed to load historical rates.",
	NoHistoricalDataAvailable:   "No historical data available for the selected range and currencies.",
	SameCurrencyInfo:            "Historical data is not shown when 'From' and 'To' currencies are the same.",
}

var portuguese = &Messages{
	AppTitle:    "Conversor de Moedas Pro",
	AppSubtitle: "Taxas de Câmbio Rápidas e Confiáveis",

	AmountLabel:       "Quantia",
	FromLabel:         "De",
	ToLabel:           "Para",
	SwapButtonLabel:   "Inverter moedas de origem e destino",
	LoadingCurrencies: "A carregar moedas...",
	FetchingRates: func(currency string) string {
		return fmt.Sprintf("A obter taxas mais recentes para %s...", currency)
	},
	ResultPrefix: func(amount, from string) string {
		return fmt.Sprintf("%s %s =", amount, from)
	},
	RateInfo: func(from, rate, to string) string {
		return fmt.Sprintf("1 %s = %s %s", from, rate, to)
	},

	UpdatedNow: "Taxas atualizadas agora mesmo",
	UpdatedHoursAgo: func(hours int) string {
		if hours == 1 {
			return "Taxas atualizadas há 1 hora"
		}
		return fmt.Sprintf("Taxas atualizadas há %d horas", hours)
	},
	UpdatedYesterday: "Taxas atualizadas ontem",
	UpdatedOnDate: func(date string) string {
		return fmt.Sprintf("Taxas de %s", date)
	},

	NoAmountError:                 "Introduza uma quantia para converter.",
	SelectCurrenciesError:         "Selecione as moedas para converter.",
	NoRateOrInvalidSelectionError: "Taxa não disponível ou seleção inválida.",
	FailedToLoadCurrencies:        "Falha ao carregar a lista de moedas. Tente atualizar a página.",

	HistoricalRatesTitle: func(from, to string) string {
		return fmt.Sprintf("Taxas Históricas: %s para %s", from, to)
	},
	TimeRange7D:     "7 Dias",
	TimeRange1M:     "1 Mês",
	TimeRange1Y:     "1 Ano",
	TimeRangeCustom: "Personalizado",

	RegionNorthAmerica: "América do Norte",
	RegionEurope:       "Europa",
	RegionAsia:         "Ásia",
	RegionOceania:      "Oceânia",
	RegionSouthAmerica: "América do Sul",
	RegionAfrica:       "África",

	ErrorTitle: "Erro",

	HistoricalChartLabel: func(from, to string) string {
		return fmt.Sprintf("Taxa (%s/%s)", from, to)
	},
	LoadingHistoricalData: "A carregar dados históricos...",
	NoHistoricalDataFoundError: func(from, to string) string {
		return fmt.Sprintf("Nenhum dado histórico encontrado para %s para %s no intervalo selecionado.",
			strings.ToUpper(from), strings.ToUpper(to))
	},
	FailedToLoadHistoricalError: "Falha ao carregar taxas históricas.",
	NoHistoricalDataAvailable:   "Nenhum dado histórico disponível para o intervalo e moedas selecionados.",
	SameCurrencyInfo:            "Os dados históricos não são apresentados quando as moedas 'De' e 'Para' são iguais.",
}

// For returns the catalog of lang, falling back to English
func For(lang Language) *Messages {
	if lang == Portuguese {
		return portuguese
	}
	return english
}

// TimeRangeLabel returns the label of a preset identifier
func (m *Messages) TimeRangeLabel(id string) string {
	switch id {
	case entity.Range7Days:
		return m.TimeRange7D
	case entity.Range1Month:
		return m.TimeRange1M
	case entity.Range1Year:
		return m.TimeRange1Y
	default:
		return m.TimeRangeCustom
	}
}

// RegionName returns the display name of a region
func (m *Messages) RegionName(region entity.Region) string {
	switch region {
	case entity.RegionNorthAmerica:
		return m.RegionNorthAmerica
	case entity.RegionEurope:
		return m.RegionEurope
	case entity.RegionAsia:
		return m.RegionAsia
	case entity.RegionOceania:
		return m.RegionOceania
	case entity.RegionSouthAmerica:
		return m.RegionSouthAmerica
	case entity.RegionAfrica:
		return m.RegionAfrica
	default:
		return string(region)
	}
}
