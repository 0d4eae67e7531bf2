package repository

import (
	"context"

	"github.com/damon-houk/currency-converter/internal/domain/entity"
)

// SessionRepository defines the interface for session storage
type SessionRepository interface {
	// Store saves a session, replacing any previous version
	Store(ctx context.Context, session *entity.Session) error

	// FindByID retrieves a session by its unique identifier
	FindByID(ctx context.Context, id string) (*entity.Session, error)

	// Modify loads a session, applies fn and stores the result as one atomic step.
	// fn may run again when a concurrent write wins the race, so it must only touch the session.
	Modify(ctx context.Context, id string, fn func(session *entity.Session) error) (*entity.Session, error)
}
