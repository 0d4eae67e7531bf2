// Package scheduler runs periodic maintenance jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/damon-houk/currency-converter/internal/infrastructure/cache"
	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
)

// Job is a unit of scheduled work. The context is canceled when the scheduler stops.
type Job func(ctx context.Context) error

// Scheduler runs registered jobs on their cron specs. Runs of one job never overlap.
type Scheduler struct {
	cron   *cron.Cron
	logger logger.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a scheduler evaluating specs in UTC
func New(log logger.Logger) *Scheduler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	log = log.WithField("component", "scheduler")

	cronLog := cronLogger{log: log}
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		logger: log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Register schedules job under name. spec accepts the standard five field form and descriptors
// such as "@every 1h".
func (s *Scheduler) Register(name, spec string, job Job) error {
	if _, err := s.cron.AddFunc(spec, s.wrap(name, job)); err != nil {
		return errors.Wrapf(err, "invalid schedule %q for job %s", spec, name)
	}

	s.logger.Info("Job registered", map[string]interface{}{
		"job":      name,
		"schedule": spec,
	})
	return nil
}

// Start runs the scheduler in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started", map[string]interface{}{
		"jobs": len(s.cron.Entries()),
	})
}

// Stop cancels running jobs and waits for them to return or for ctx to expire
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop()

	select {
	case <-done.Done():
		s.logger.Info("Scheduler stopped", nil)
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "scheduler did not stop in time")
	}
}

func (s *Scheduler) wrap(name string, job Job) func() {
	return func() {
		start := time.Now()
		err := job(s.ctx)

		fields := map[string]interface{}{
			"job":         name,
			"duration_ms": time.Since(start).Milliseconds(),
		}
		if err != nil {
			fields["error"] = err.Error()
			s.logger.Error("Job failed", fields)
			return
		}
		s.logger.Debug("Job completed", fields)
	}
}

// PruneCache returns a job that evicts expired entries from c
func PruneCache(c *cache.ExchangeRateCache, log logger.Logger) Job {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		removed := c.CleanExpired()
		if removed > 0 {
			log.Info("Expired cache entries pruned", map[string]interface{}{
				"removed":   removed,
				"remaining": c.Size(),
			})
		}
		return nil
	}
}

// cronLogger routes cron's own logging into the application logger
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, pairs(keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := pairs(keysAndValues)
	fields["error"] = err.Error()
	l.log.Error(msg, fields)
}

func pairs(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2+1)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return fields
}
