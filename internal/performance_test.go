package internal

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/damon-houk/currency-converter/internal/application/service"
	"github.com/damon-houk/currency-converter/internal/domain/entity"
	"github.com/damon-houk/currency-converter/internal/infrastructure/db"
	"github.com/damon-houk/currency-converter/internal/infrastructure/i18n"
	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// slowRateSource serves fixed rate documents with a simulated network latency
type slowRateSource struct {
	latency time.Duration
}

func (s *slowRateSource) ListCurrencies(ctx context.Context) (entity.CurrencyMap, error) {
	return entity.CurrencyMap{
		"usd": "US Dollar", "eur": "Euro", "gbp": "British Pound",
		"cad": "Canadian Dollar", "jpy": "Japanese Yen", "aoa": "Angolan Kwanza",
	}, nil
}

func (s *slowRateSource) GetRates(ctx context.Context, base, date string) (*entity.ExchangeRateData, error) {
	select {
	case <-time.After(s.latency):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	day := time.Now().UTC()
	if date != entity.LatestDate {
		parsed, err := entity.ParseDate(date)
		if err != nil {
			return nil, err
		}
		day = parsed
	}

	return &entity.ExchangeRateData{
		Date: entity.TruncateToDate(day),
		Base: entity.NormalizeCode(base),
		Rates: map[string]float64{
			"usd": 1, "eur": 0.92, "gbp": 0.79, "cad": 1.35, "jpy": 151.2, "aoa": 830.5,
		},
	}, nil
}

func TestPerformance(t *testing.T) {
	// Skip in short mode or CI
	if testing.Short() {
		t.Skip("Skipping performance test in short mode")
	}

	// Setup test database
	dbPath, err := os.MkdirTemp("", "badger-perf-test")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(dbPath)

	badgerDB, err := db.OpenBadger(dbPath, nil)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer badgerDB.Close()

	// Initialize repositories and services
	log := logger.NewZapLogger(zap.NewNop())
	rates := &slowRateSource{latency: 5 * time.Millisecond}
	catalog := service.NewCurrencyCatalog(rates, log)
	builder := service.NewHistoricalSeriesBuilder(rates, service.DefaultHistoryConcurrency, log)
	conversionService := service.NewConversionService(rates, log)
	sessionService := service.NewSessionService(db.NewBadgerSessionRepository(badgerDB, time.Hour), rates, catalog, builder, log)

	// Performance test configuration
	numOperations := 100
	concurrency := 10
	currencies := []string{"EUR", "GBP", "CAD", "JPY"}

	// Preload test data
	t.Log("Preloading sessions...")
	sessionIDs := preloadSessions(t, sessionService, numOperations)

	t.Run("Session Update", func(t *testing.T) {
		startTime := time.Now()

		wg := sync.WaitGroup{}
		wg.Add(concurrency)

		opsPerWorker := numOperations / concurrency

		for i := 0; i < concurrency; i++ {
			go func(workerID int) {
				defer wg.Done()

				ctx := context.Background()
				for j := 0; j < opsPerWorker; j++ {
					idx := (workerID*opsPerWorker + j) % len(sessionIDs)
					amount := fmt.Sprintf("%.2f", 100.0+float64(rand.Intn(10000))/100.0)
					to := currencies[j%len(currencies)]

					_, err := sessionService.Update(ctx, sessionIDs[idx], service.SessionUpdate{Amount: &amount, To: &to})
					if err != nil {
						t.Logf("Error updating session: %v", err)
					}
				}
			}(i)
		}

		wg.Wait()
		duration := time.Since(startTime)

		throughput := float64(numOperations) / duration.Seconds()
		t.Logf("Session update: %d updates in %v (%.2f ops/sec)",
			numOperations, duration, throughput)
	})

	t.Run("Currency Conversion", func(t *testing.T) {
		startTime := time.Now()

		wg := sync.WaitGroup{}
		wg.Add(concurrency)

		opsPerWorker := numOperations / concurrency

		for i := 0; i < concurrency; i++ {
			go func(workerID int) {
				defer wg.Done()

				ctx := context.Background()
				for j := 0; j < opsPerWorker; j++ {
					to := currencies[(workerID+j)%len(currencies)]

					_, err := conversionService.Convert(ctx, "USD", to, "250.75")
					if err != nil {
						t.Logf("Error converting: %v", err)
					}
				}
			}(i)
		}

		wg.Wait()
		duration := time.Since(startTime)

		throughput := float64(numOperations) / duration.Seconds()
		t.Logf("Currency conversion: %d conversions in %v (%.2f ops/sec)",
			numOperations, duration, throughput)
	})

	// Each one year series fans out twelve rate requests
	t.Run("Historical Series", func(t *testing.T) {
		preset, _ := entity.PresetByID(entity.Range1Year)
		series := concurrency

		startTime := time.Now()

		wg := sync.WaitGroup{}
		wg.Add(series)

		for i := 0; i < series; i++ {
			go func(workerID int) {
				defer wg.Done()

				points, err := builder.Build(context.Background(), "usd", currencies[workerID%len(currencies)], preset)
				if err != nil {
					t.Logf("Error building series: %v", err)
					return
				}
				if len(points) != preset.Months {
					t.Errorf("Expected %d points, got %d", preset.Months, len(points))
				}
			}(i)
		}

		wg.Wait()
		duration := time.Since(startTime)

		t.Logf("Historical series: %d series of %d points in %v (%.2f series/sec)",
			series, preset.Months, duration, float64(series)/duration.Seconds())
	})
}

// preloadSessions creates sessions and returns their IDs
func preloadSessions(t *testing.T, sessions *service.SessionService, count int) []string {
	ids := make([]string, count)
	ctx := context.Background()

	for i := 0; i < count; i++ {
		lang := i18n.English
		if i%2 == 1 {
			lang = i18n.Portuguese
		}

		session, err := sessions.Create(ctx, lang)
		if err != nil {
			t.Fatalf("Failed to preload test data: %v", err)
		}

		ids[i] = session.ID
	}

	return ids
}
