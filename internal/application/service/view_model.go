package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/damon-houk/currency-converter/internal/domain/entity"
	"github.com/damon-houk/currency-converter/internal/domain/repository"
	"github.com/damon-houk/currency-converter/internal/infrastructure/i18n"
	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
)

// Default selection of a new converter
const (
	DefaultAmount       = "100"
	DefaultFromCurrency = "usd"
	DefaultToCurrency   = "aoa"
)

// Selection is the user input of a converter
type Selection struct {
	Amount    string
	From      string
	To        string
	TimeRange string
	Language  i18n.Language
}

// DefaultSelection returns the initial selection in lang
func DefaultSelection(lang i18n.Language) Selection {
	return Selection{
		Amount:    DefaultAmount,
		From:      DefaultFromCurrency,
		To:        DefaultToCurrency,
		TimeRange: entity.DefaultRange,
		Language:  lang,
	}
}

// Reconcile replaces currencies that are not in available, which must be sorted.
// An unavailable source becomes the first available code; an unavailable target, or one equal to
// the source, becomes the first available code different from the source.
func (s Selection) Reconcile(available []string) Selection {
	if len(available) == 0 {
		return s
	}

	has := make(map[string]bool, len(available))
	for _, code := range available {
		has[code] = true
	}

	s.From = entity.NormalizeCode(s.From)
	s.To = entity.NormalizeCode(s.To)

	if !has[s.From] {
		s.From = available[0]
	}
	if !has[s.To] || (s.To == s.From && len(available) > 1) {
		s.To = available[0]
		for _, code := range available {
			if code != s.From {
				s.To = code
				break
			}
		}
	}
	return s
}

// Swapped returns the selection with source and target exchanged
func (s Selection) Swapped() Selection {
	s.From, s.To = s.To, s.From
	return s
}

// ViewState is a snapshot of a converter
type ViewState struct {
	Selection Selection
	RateData  *entity.ExchangeRateData
	Converted *decimal.Decimal
	Error     string
	Loading   bool
}

// ConversionViewModel holds the state of one converter. Refreshes are last-write-wins: a refresh
// that completes after a newer one started is discarded.
type ConversionViewModel struct {
	rates     repository.ExchangeRateRepository
	logger    logger.Logger
	available int

	mu         sync.Mutex
	generation uint64
	selection  Selection
	rateData   *entity.ExchangeRateData
	converted  *decimal.Decimal
	errMsg     string
	loading    bool
}

// NewConversionViewModel creates a view-model for selection. available is the number of
// selectable currencies.
func NewConversionViewModel(rates repository.ExchangeRateRepository, selection Selection, available int, log logger.Logger) *ConversionViewModel {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ConversionViewModel{
		rates:     rates,
		logger:    log,
		available: available,
		selection: selection,
	}
}

// Selection returns the current selection
func (vm *ConversionViewModel) Selection() Selection {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.selection
}

// Select replaces the selection. It reports whether the source currency changed, in which case
// the rate document is stale and a Refresh is needed.
func (vm *ConversionViewModel) Select(selection Selection) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	stale := entity.NormalizeCode(selection.From) != entity.NormalizeCode(vm.selection.From)
	vm.selection = selection
	if stale {
		vm.rateData = nil
		vm.converted = nil
		return true
	}
	vm.recompute()
	return false
}

// Swap exchanges source and target when at least two currencies are selectable
func (vm *ConversionViewModel) Swap() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.available < 2 {
		return false
	}
	vm.selection = vm.selection.Swapped()
	vm.rateData = nil
	vm.converted = nil
	return true
}

// Refresh fetches the latest rates of the source currency and recomputes the conversion
func (vm *ConversionViewModel) Refresh(ctx context.Context) ViewState {
	vm.mu.Lock()
	vm.generation++
	gen := vm.generation
	selection := vm.selection
	vm.loading = true
	vm.errMsg = ""
	vm.converted = nil
	vm.mu.Unlock()

	defer func() {
		vm.mu.Lock()
		if gen == vm.generation {
			vm.loading = false
		}
		vm.mu.Unlock()
	}()

	data, err := vm.rates.GetRates(ctx, selection.From, entity.LatestDate)

	vm.apply(gen, selection, data, err)
	return vm.State()
}

func (vm *ConversionViewModel) apply(gen uint64, selection Selection, data *entity.ExchangeRateData, err error) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if gen != vm.generation {
		vm.logger.Debug("Discarding stale refresh", map[string]interface{}{
			"generation": gen,
			"latest":     vm.generation,
			"base":       selection.From,
		})
		return
	}

	if err != nil {
		messages := i18n.For(selection.Language)
		vm.rateData = nil
		vm.converted = nil
		vm.errMsg = messages.ErrorTitle + ": " + messages.FetchingRates(strings.ToUpper(selection.From)) + " " + err.Error()
		vm.logger.Warn("Failed to refresh rates", map[string]interface{}{
			"base":  selection.From,
			"error": err.Error(),
		})
		return
	}

	vm.rateData = data
	vm.recompute()
}

// recompute derives the converted amount from the selection and rate document. Caller holds mu.
func (vm *ConversionViewModel) recompute() {
	vm.converted = nil
	vm.errMsg = ""
	if vm.rateData == nil {
		return
	}

	messages := i18n.For(vm.selection.Language)

	amount, err := ParseAmount(vm.selection.Amount)
	if err != nil {
		vm.errMsg = messages.NoAmountError
		return
	}

	if vm.selection.From == "" || vm.selection.To == "" {
		vm.errMsg = messages.SelectCurrenciesError
		return
	}

	rate := 1.0
	if entity.NormalizeCode(vm.selection.From) != entity.NormalizeCode(vm.selection.To) {
		var ok bool
		rate, ok = vm.rateData.Rate(vm.selection.To)
		if !ok {
			vm.errMsg = messages.NoRateOrInvalidSelectionError
			return
		}
	}

	converted := ConvertWithRate(amount, rate)
	vm.converted = &converted
}

// State returns a snapshot of the view-model
func (vm *ConversionViewModel) State() ViewState {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	state := ViewState{
		Selection: vm.selection,
		RateData:  vm.rateData.Clone(),
		Error:     vm.errMsg,
		Loading:   vm.loading,
	}
	if vm.converted != nil {
		converted := *vm.converted
		state.Converted = &converted
	}
	return state
}

// LocalizedView is the display text of a view state
type LocalizedView struct {
	ResultPrefix string
	Result       string
	RateInfo     string
	Updated      string
	HistoryTitle string
	Error        string
}

// Localize renders the display text of the state in its selection's language as seen at now
func (s ViewState) Localize(now time.Time) LocalizedView {
	loc := i18n.NewLocalizer(s.Selection.Language)
	from := strings.ToUpper(s.Selection.From)
	to := strings.ToUpper(s.Selection.To)

	view := LocalizedView{Error: s.Error}
	if from != "" && to != "" && from != to {
		view.HistoryTitle = loc.Messages.HistoricalRatesTitle(from, to)
	}

	if s.RateData != nil {
		view.Updated = loc.RelativeUpdate(s.RateData.Date, now)
	}

	if s.Converted == nil {
		return view
	}

	if amount, err := ParseAmount(s.Selection.Amount); err == nil {
		view.ResultPrefix = loc.Messages.ResultPrefix(loc.Number(amount.InexactFloat64(), 2, 2), from)
	}
	view.Result = loc.Money(s.Selection.To, s.Converted.InexactFloat64())

	rate := 1.0
	if from != to {
		rate, _ = s.RateData.Rate(s.Selection.To)
	}
	view.RateInfo = loc.Messages.RateInfo(from, loc.Number(rate, 2, 6), to)

	return view
}
