package handler

import (
	"strings"
	"time"

	"github.com/damon-houk/currency-converter/internal/application/service"
	"github.com/damon-houk/currency-converter/internal/domain/entity"
	"github.com/damon-houk/currency-converter/internal/infrastructure/i18n"
)

func toExchangeRateResponse(data *entity.ExchangeRateData) ExchangeRateResponse {
	return ExchangeRateResponse{
		Date:  entity.FormatDate(data.Date),
		Base:  data.Base,
		Rates: data.Rates,
	}
}

func toSessionResponse(session *entity.Session) SessionResponse {
	return SessionResponse{
		ID:        session.ID,
		Language:  session.Language,
		Amount:    session.Amount,
		From:      session.From,
		To:        session.To,
		TimeRange: session.TimeRange,
		CreatedAt: session.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: session.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toConversionText(view service.LocalizedView) ConversionText {
	return ConversionText{
		ResultPrefix: view.ResultPrefix,
		Result:       view.Result,
		RateInfo:     view.RateInfo,
		Updated:      view.Updated,
		HistoryTitle: view.HistoryTitle,
		Error:        view.Error,
	}
}

func toSessionViewResponse(view *service.SessionView) SessionViewResponse {
	resp := SessionViewResponse{
		Session: toSessionResponse(view.Session),
		Loading: view.State.Loading,
		Text:    toConversionText(view.Text),
	}

	if view.State.Converted != nil {
		converted := view.State.Converted.String()
		resp.Converted = &converted
	}
	if data := view.State.RateData; data != nil {
		resp.RateDate = entity.FormatDate(data.Date)
		if rate, ok := data.Rate(view.State.Selection.To); ok {
			resp.Rate = &rate
		} else if entity.NormalizeCode(view.State.Selection.From) == entity.NormalizeCode(view.State.Selection.To) {
			one := 1.0
			resp.Rate = &one
		}
	}
	return resp
}

// historyResponse renders a series with chart labels. Labels carry the year for the one year
// preset and for series that span more than one calendar year.
func historyResponse(loc *i18n.Localizer, base, target string, preset entity.TimeRangePreset, points []entity.HistoricalRatePoint) HistoryResponse {
	from := upper(base)
	to := upper(target)

	resp := HistoryResponse{
		Base:       entity.NormalizeCode(base),
		Target:     entity.NormalizeCode(target),
		Range:      preset.ID,
		Title:      loc.Messages.HistoricalRatesTitle(from, to),
		ChartLabel: loc.Messages.HistoricalChartLabel(from, to),
		Points:     make([]HistoryPointResponse, 0, len(points)),
	}

	withYear := preset.ID == entity.Range1Year
	if len(points) > 0 && points[0].Date.Year() != points[len(points)-1].Date.Year() {
		withYear = true
	}

	for _, p := range points {
		resp.Points = append(resp.Points, HistoryPointResponse{
			Date:  entity.FormatDate(p.Date),
			Label: loc.ChartLabel(p.Date, withYear),
			Rate:  p.Rate,
		})
	}
	return resp
}

func presetResponses(messages *i18n.Messages) []PresetResponse {
	presets := entity.DefaultPresets()
	out := make([]PresetResponse, 0, len(presets))
	for _, p := range presets {
		out = append(out, PresetResponse{
			ID:     p.ID,
			Label:  messages.TimeRangeLabel(p.ID),
			Days:   p.Days,
			Months: p.Months,
			Years:  p.Years,
		})
	}
	return out
}

func upper(code string) string {
	return strings.ToUpper(entity.NormalizeCode(code))
}
