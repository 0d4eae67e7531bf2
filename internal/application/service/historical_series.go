package service

import (
	"context"
	"sort"
	"time"

	"github.com/damon-houk/currency-converter/internal/domain/apperrors"
	"github.com/damon-houk/currency-converter/internal/domain/entity"
	"github.com/damon-houk/currency-converter/internal/domain/repository"
	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
	"github.com/damon-houk/currency-converter/internal/infrastructure/middleware"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// DefaultHistoryConcurrency bounds the number of in-flight per-date fetches
const DefaultHistoryConcurrency = 8

// HistoricalSeriesBuilder assembles base to target rate series from per-date rate documents
type HistoricalSeriesBuilder struct {
	rates       repository.ExchangeRateRepository
	concurrency int
	logger      logger.Logger
	now         func() time.Time
}

// NewHistoricalSeriesBuilder creates a new series builder
func NewHistoricalSeriesBuilder(rates repository.ExchangeRateRepository, concurrency int, log logger.Logger) *HistoricalSeriesBuilder {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	if concurrency <= 0 {
		concurrency = DefaultHistoryConcurrency
	}

	return &HistoricalSeriesBuilder{
		rates:       rates,
		concurrency: concurrency,
		logger:      log,
		now:         time.Now,
	}
}

// AnchorDate returns yesterday at UTC midnight, the latest date assumed to have published data
func AnchorDate(now time.Time) time.Time {
	return entity.TruncateToDate(now).AddDate(0, 0, -1)
}

// ComputeDates returns the ascending, duplicate-free calendar dates a preset samples up to anchor
func ComputeDates(anchor time.Time, preset entity.TimeRangePreset) ([]time.Time, error) {
	if !preset.Valid() {
		return nil, errors.Wrapf(apperrors.ErrInvalidPreset, "preset %q", preset.ID)
	}

	anchor = entity.TruncateToDate(anchor)
	var dates []time.Time

	switch {
	case preset.Days > 0:
		for i := 0; i < preset.Days; i++ {
			dates = append(dates, anchor.AddDate(0, 0, -i))
		}
	case preset.Months > 0:
		for i := 0; i < preset.Months; i++ {
			dates = append(dates, time.Date(anchor.Year(), anchor.Month()-time.Month(i), 1, 0, 0, 0, 0, time.UTC))
		}
	case preset.Years > 0:
		for i := 0; i < preset.Years; i++ {
			dates = append(dates, time.Date(anchor.Year()-i, time.January, 1, 0, 0, 0, 0, time.UTC))
		}
	}

	seen := make(map[time.Time]bool, len(dates))
	result := make([]time.Time, 0, len(dates))
	for _, date := range dates {
		if date.After(anchor) || seen[date] {
			continue
		}
		seen[date] = true
		result = append(result, date)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Before(result[j]) })
	return result, nil
}

// dateOutcome is the settled result of one per-date fetch
type dateOutcome struct {
	date time.Time
	rate float64
	ok   bool
}

// Build fetches every date of the preset concurrently and returns the points that resolved,
// ascending by date. Individual misses are logged and skipped; zero points is a NoDataError.
func (b *HistoricalSeriesBuilder) Build(ctx context.Context, base, target string, preset entity.TimeRangePreset) ([]entity.HistoricalRatePoint, error) {
	base = entity.NormalizeCode(base)
	target = entity.NormalizeCode(target)
	if base == "" || target == "" {
		return nil, errors.Wrap(apperrors.ErrInvalidCurrency, "base and target are required")
	}

	dates, err := ComputeDates(AnchorDate(b.now()), preset)
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, &apperrors.NoDataError{Base: base, Target: target}
	}

	log := b.logger.WithFields(map[string]interface{}{
		"request_id": middleware.GetRequestID(ctx),
		"base":       base,
		"target":     target,
		"preset":     preset.ID,
	})
	log.Debug("Building historical series", map[string]interface{}{
		"dates": len(dates),
		"from":  entity.FormatDate(dates[0]),
		"to":    entity.FormatDate(dates[len(dates)-1]),
	})

	outcomes := make([]dateOutcome, len(dates))

	var g errgroup.Group
	g.SetLimit(b.concurrency)
	for i, date := range dates {
		i, date := i, date
		g.Go(func() error {
			outcomes[i] = b.fetchPoint(ctx, log, base, target, date)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	points := make([]entity.HistoricalRatePoint, 0, len(outcomes))
	for _, outcome := range outcomes {
		if outcome.ok {
			points = append(points, entity.HistoricalRatePoint{Date: outcome.date, Rate: outcome.rate})
		}
	}

	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	points = dedupeByDate(points)

	if len(points) == 0 {
		log.Warn("No historical data resolved", map[string]interface{}{
			"dates": len(dates),
		})
		return nil, &apperrors.NoDataError{Base: base, Target: target}
	}

	log.Info("Historical series built", map[string]interface{}{
		"dates":  len(dates),
		"points": len(points),
	})

	return points, nil
}

func (b *HistoricalSeriesBuilder) fetchPoint(ctx context.Context, log logger.Logger, base, target string, date time.Time) dateOutcome {
	dateToken := entity.FormatDate(date)

	data, err := b.rates.GetRates(ctx, base, dateToken)
	if err != nil {
		log.Warn("Skipping date without rate document", map[string]interface{}{
			"date":  dateToken,
			"error": err.Error(),
		})
		return dateOutcome{date: date}
	}

	rate, ok := data.Rate(target)
	if !ok {
		log.Warn("Skipping date without target rate", map[string]interface{}{
			"date": dateToken,
		})
		return dateOutcome{date: date}
	}

	// The document may be published under a different date than requested
	pointDate := date
	if !data.Date.IsZero() {
		pointDate = entity.TruncateToDate(data.Date)
	}

	return dateOutcome{date: pointDate, rate: rate, ok: true}
}

func dedupeByDate(points []entity.HistoricalRatePoint) []entity.HistoricalRatePoint {
	if len(points) < 2 {
		return points
	}

	out := points[:1]
	for _, p := range points[1:] {
		if p.Date.Equal(out[len(out)-1].Date) {
			continue
		}
		out = append(out, p)
	}
	return out
}
