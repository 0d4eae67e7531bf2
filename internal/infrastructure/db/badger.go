// Package db internal/infrastructure/db/badger.go
package db

import (
	"fmt"
	"strings"

	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"
)

// OpenBadger opens a badger database in dir, or an in-memory one when dir is empty.
// Badger's own log lines are routed to log.
func OpenBadger(dir string, log logger.Logger) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	if log != nil {
		opts = opts.WithLogger(&badgerLogger{log: log.WithField("component", "badger")})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open badger database %q", dir)
	}
	return db, nil
}

// badgerLogger adapts logger.Logger to badger.Logger
type badgerLogger struct {
	log logger.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error(badgerMessage(format, args), nil)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn(badgerMessage(format, args), nil)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug(badgerMessage(format, args), nil)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Debug(badgerMessage(format, args), nil)
}

func badgerMessage(format string, args []interface{}) string {
	return strings.TrimSpace(fmt.Sprintf(format, args...))
}
