package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/damon-houk/currency-converter/internal/domain/apperrors"
	"github.com/damon-houk/currency-converter/internal/domain/entity"
	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"
)

const (
	sessionKeyPrefix = "session:"

	// maxModifyAttempts bounds retries of a read-modify-write that keeps losing to concurrent writers
	maxModifyAttempts = 5
)

// BadgerSessionRepository implements the session repository interface using BadgerDB
type BadgerSessionRepository struct {
	db  *badger.DB
	ttl time.Duration
}

// NewBadgerSessionRepository creates a new BadgerDB session repository.
// Sessions expire ttl after their last write; zero keeps them forever.
func NewBadgerSessionRepository(db *badger.DB, ttl time.Duration) *BadgerSessionRepository {
	return &BadgerSessionRepository{db: db, ttl: ttl}
}

func sessionKey(id string) []byte {
	return []byte(sessionKeyPrefix + id)
}

// Store saves a session, replacing any previous version
func (r *BadgerSessionRepository) Store(ctx context.Context, session *entity.Session) error {
	if session == nil || session.ID == "" {
		return errors.New("session id is required")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return errors.Wrap(err, "failed to marshal session")
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return r.set(txn, session.ID, data)
	})
	if err != nil {
		return errors.Wrapf(err, "failed to store session %s", session.ID)
	}

	return nil
}

func (r *BadgerSessionRepository) set(txn *badger.Txn, id string, data []byte) error {
	entry := badger.NewEntry(sessionKey(id), data)
	if r.ttl > 0 {
		entry = entry.WithTTL(r.ttl)
	}
	return txn.SetEntry(entry)
}

// FindByID retrieves a session by its unique identifier
func (r *BadgerSessionRepository) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	var session *entity.Session

	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		session, err = loadSession(txn, id)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, errors.Wrapf(apperrors.ErrSessionNotFound, "session %s", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to retrieve session %s", id)
	}

	return session, nil
}

// Modify runs the read, fn and the write inside one badger transaction. A commit that
// conflicts with a concurrent write to the same session is retried from a fresh read.
func (r *BadgerSessionRepository) Modify(ctx context.Context, id string, fn func(session *entity.Session) error) (*entity.Session, error) {
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var session *entity.Session
		err := r.db.Update(func(txn *badger.Txn) error {
			loaded, err := loadSession(txn, id)
			if err != nil {
				return err
			}
			if err := fn(loaded); err != nil {
				return err
			}

			data, err := json.Marshal(loaded)
			if err != nil {
				return errors.Wrap(err, "failed to marshal session")
			}
			if err := r.set(txn, id, data); err != nil {
				return err
			}
			session = loaded
			return nil
		})

		switch {
		case err == nil:
			return session, nil
		case errors.Is(err, badger.ErrConflict) && attempt < maxModifyAttempts:
			continue
		case errors.Is(err, badger.ErrKeyNotFound):
			return nil, errors.Wrapf(apperrors.ErrSessionNotFound, "session %s", id)
		case errors.Is(err, badger.ErrConflict):
			return nil, errors.Wrapf(err, "session %s kept changing after %d attempts", id, attempt)
		default:
			return nil, err
		}
	}
}

func loadSession(txn *badger.Txn, id string) (*entity.Session, error) {
	item, err := txn.Get(sessionKey(id))
	if err != nil {
		return nil, err
	}

	var session entity.Session
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &session)
	}); err != nil {
		return nil, errors.Wrapf(err, "failed to decode session %s", id)
	}
	return &session, nil
}
