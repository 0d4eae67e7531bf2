package handler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/damon-houk/currency-converter/internal/domain/entity"
	"github.com/go-playground/validator/v10"
)

var currencyPattern = regexp.MustCompile(`^[a-zA-Z0-9]{2,16}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	mustRegister(v, "currency", func(fl validator.FieldLevel) bool {
		return currencyPattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	mustRegister(v, "ratedate", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == entity.LatestDate {
			return true
		}
		_, err := entity.ParseDate(value)
		return err == nil
	})

	return v
}

// mustRegister panics when a tag cannot be registered, since the validator is built at package init
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("registering validation %q: %v", tag, err))
	}
}

// validationMessage renders validator errors as one line
func validationMessage(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		parts = append(parts, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

// RatesQuery holds the parameters of the rates endpoint
type RatesQuery struct {
	Base string `validate:"required,currency"`
	Date string `validate:"omitempty,ratedate"`
}

// ConvertQuery holds the parameters of the convert endpoint
type ConvertQuery struct {
	From   string `validate:"required,currency"`
	To     string `validate:"required,currency"`
	Amount string `validate:"required,numeric"`
}

// HistoryQuery holds the parameters of the history endpoint
type HistoryQuery struct {
	Base   string `validate:"required,currency"`
	Target string `validate:"required,currency"`
	Range  string `validate:"omitempty,oneof=7D 1M 1Y custom"`
	Days   int    `validate:"gte=0,lte=366"`
	Months int    `validate:"gte=0,lte=120"`
	Years  int    `validate:"gte=0,lte=50"`
}

// CreateSessionRequest represents the request body for creating a session
type CreateSessionRequest struct {
	Language string `json:"language" validate:"omitempty,bcp47_language_tag"`
}

// UpdateSessionRequest represents the request body for updating a session
type UpdateSessionRequest struct {
	Amount    *string `json:"amount" validate:"omitempty,max=32"`
	From      *string `json:"from" validate:"omitempty,currency"`
	To        *string `json:"to" validate:"omitempty,currency"`
	TimeRange *string `json:"time_range" validate:"omitempty,oneof=7D 1M 1Y"`
	Language  *string `json:"language" validate:"omitempty,bcp47_language_tag"`
}

// ExchangeRateResponse represents a rate document
type ExchangeRateResponse struct {
	Date  string             `json:"date"`
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// ConversionText is the localized display text of a conversion
type ConversionText struct {
	ResultPrefix string `json:"result_prefix,omitempty"`
	Result       string `json:"result,omitempty"`
	RateInfo     string `json:"rate_info,omitempty"`
	Updated      string `json:"updated,omitempty"`
	HistoryTitle string `json:"history_title,omitempty"`
	Error        string `json:"error,omitempty"`
}

// ConversionResponse represents the response for the convert endpoint
type ConversionResponse struct {
	From      string         `json:"from"`
	To        string         `json:"to"`
	Amount    string         `json:"amount"`
	Rate      float64        `json:"rate"`
	Converted string         `json:"converted"`
	RateDate  string         `json:"rate_date"`
	Text      ConversionText `json:"text"`
}

// HistoryPointResponse is one chart point
type HistoryPointResponse struct {
	Date  string  `json:"date"`
	Label string  `json:"label"`
	Rate  float64 `json:"rate"`
}

// HistoryResponse represents a historical series
type HistoryResponse struct {
	Base       string                 `json:"base"`
	Target     string                 `json:"target"`
	Range      string                 `json:"range"`
	Title      string                 `json:"title"`
	ChartLabel string                 `json:"chart_label"`
	Info       string                 `json:"info,omitempty"`
	Points     []HistoryPointResponse `json:"points"`
}

// PresetResponse is a localized time range preset
type PresetResponse struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Days   int    `json:"days,omitempty"`
	Months int    `json:"months,omitempty"`
	Years  int    `json:"years,omitempty"`
}

// SessionResponse represents a converter session
type SessionResponse struct {
	ID        string `json:"id"`
	Language  string `json:"language"`
	Amount    string `json:"amount"`
	From      string `json:"from"`
	To        string `json:"to"`
	TimeRange string `json:"time_range"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// SessionViewResponse is a refreshed session with its conversion
type SessionViewResponse struct {
	Session   SessionResponse `json:"session"`
	Converted *string         `json:"converted"`
	Rate      *float64        `json:"rate"`
	RateDate  string          `json:"rate_date,omitempty"`
	Loading   bool            `json:"loading"`
	Text      ConversionText  `json:"text"`
}
