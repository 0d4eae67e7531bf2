package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/damon-houk/currency-converter/internal/domain/apperrors"
	"github.com/damon-houk/currency-converter/internal/domain/entity"
	"github.com/damon-houk/currency-converter/internal/domain/repository"
	"github.com/damon-houk/currency-converter/internal/infrastructure/i18n"
	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
	"github.com/damon-houk/currency-converter/internal/infrastructure/middleware"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// SessionUpdate holds the fields of a partial session update. Nil fields are left unchanged.
type SessionUpdate struct {
	Amount    *string
	From      *string
	To        *string
	TimeRange *string
	Language  *string
}

// SessionView is a refreshed session with its display text
type SessionView struct {
	Session *entity.Session
	State   ViewState
	Text    LocalizedView
}

// SessionService manages persisted converter sessions
type SessionService struct {
	sessions repository.SessionRepository
	rates    repository.ExchangeRateRepository
	catalog  *CurrencyCatalog
	series   *HistoricalSeriesBuilder
	logger   logger.Logger
	now      func() time.Time
}

// NewSessionService creates a new session service
func NewSessionService(
	sessions repository.SessionRepository,
	rates repository.ExchangeRateRepository,
	catalog *CurrencyCatalog,
	series *HistoricalSeriesBuilder,
	log logger.Logger,
) *SessionService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &SessionService{
		sessions: sessions,
		rates:    rates,
		catalog:  catalog,
		series:   series,
		logger:   log,
		now:      time.Now,
	}
}

// Create stores a new session with the default selection reconciled against the available currencies
func (s *SessionService) Create(ctx context.Context, lang i18n.Language) (*entity.Session, error) {
	selection := DefaultSelection(lang)
	if available, ok := s.availableCodes(ctx); ok {
		selection = selection.Reconcile(available)
	}

	now := s.now().UTC()
	session := &entity.Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
	}
	applySelection(session, selection, now)

	if err := s.sessions.Store(ctx, session); err != nil {
		return nil, errors.Wrap(err, "failed to store session")
	}

	s.logger.Info("Session created", map[string]interface{}{
		"request_id": middleware.GetRequestID(ctx),
		"session_id": session.ID,
		"from":       session.From,
		"to":         session.To,
		"language":   session.Language,
	})

	return session, nil
}

// Get returns a stored session
func (s *SessionService) Get(ctx context.Context, id string) (*entity.Session, error) {
	return s.sessions.FindByID(ctx, id)
}

// Update applies a partial update to a session. Inputs are checked before the session is
// read, and the read-modify-write runs atomically so concurrent updates to different fields
// do not overwrite each other.
func (s *SessionService) Update(ctx context.Context, id string, update SessionUpdate) (*entity.Session, error) {
	var amount string
	if update.Amount != nil {
		amount = strings.TrimSpace(*update.Amount)
		if amount != "" {
			if _, err := ParseAmount(amount); err != nil {
				return nil, err
			}
		}
	}

	if update.TimeRange != nil {
		if _, ok := entity.PresetByID(*update.TimeRange); !ok {
			return nil, errors.Wrapf(apperrors.ErrInvalidPreset, "range %q", *update.TimeRange)
		}
	}

	var lang i18n.Language
	if update.Language != nil {
		parsed, ok := i18n.ParseLanguage(*update.Language)
		if !ok {
			return nil, errors.Wrapf(apperrors.ErrInvalidLanguage, "language %q", *update.Language)
		}
		lang = parsed
	}

	if update.From != nil || update.To != nil {
		available, known := s.availableCodes(ctx)
		for _, code := range []*string{update.From, update.To} {
			if code == nil {
				continue
			}
			normalized := entity.NormalizeCode(*code)
			if normalized == "" || (known && !slices.Contains(available, normalized)) {
				return nil, errors.Wrapf(apperrors.ErrInvalidCurrency, "currency %q", *code)
			}
		}
	}

	session, err := s.sessions.Modify(ctx, id, func(session *entity.Session) error {
		selection := selectionOf(session)
		if update.Amount != nil {
			selection.Amount = amount
		}
		if update.TimeRange != nil {
			selection.TimeRange = *update.TimeRange
		}
		if update.Language != nil {
			selection.Language = lang
		}
		if update.From != nil {
			selection.From = entity.NormalizeCode(*update.From)
		}
		if update.To != nil {
			selection.To = entity.NormalizeCode(*update.To)
		}
		applySelection(session, selection, s.now().UTC())
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update session")
	}

	s.logger.Info("Session updated", map[string]interface{}{
		"request_id": middleware.GetRequestID(ctx),
		"session_id": session.ID,
	})

	return session, nil
}

// Swap exchanges the session's currencies when at least two currencies are available
func (s *SessionService) Swap(ctx context.Context, id string) (*entity.Session, error) {
	available, _ := s.availableCodes(ctx)
	if len(available) < 2 {
		return s.sessions.FindByID(ctx, id)
	}

	session, err := s.sessions.Modify(ctx, id, func(session *entity.Session) error {
		vm := NewConversionViewModel(s.rates, selectionOf(session), len(available), s.logger)
		vm.Swap()
		applySelection(session, vm.Selection(), s.now().UTC())
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to swap session currencies")
	}

	s.logger.Info("Session currencies swapped", map[string]interface{}{
		"request_id": middleware.GetRequestID(ctx),
		"session_id": session.ID,
		"from":       session.From,
		"to":         session.To,
	})

	return session, nil
}

// View refreshes the session's conversion and renders it in the session language
func (s *SessionService) View(ctx context.Context, id string) (*SessionView, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	available, _ := s.availableCodes(ctx)
	vm := NewConversionViewModel(s.rates, selectionOf(session), len(available), s.logger)
	state := vm.Refresh(ctx)

	return &SessionView{
		Session: session,
		State:   state,
		Text:    state.Localize(s.now()),
	}, nil
}

// History builds the series of the session's currency pair over its time range.
// A session whose currencies are equal has no series.
func (s *SessionService) History(ctx context.Context, id string) (*entity.Session, entity.TimeRangePreset, []entity.HistoricalRatePoint, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, entity.TimeRangePreset{}, nil, err
	}

	preset, ok := entity.PresetByID(session.TimeRange)
	if !ok {
		preset, _ = entity.PresetByID(entity.DefaultRange)
	}

	if entity.NormalizeCode(session.From) == entity.NormalizeCode(session.To) {
		return session, preset, nil, nil
	}

	points, err := s.series.Build(ctx, session.From, session.To, preset)
	if err != nil {
		return session, preset, nil, err
	}
	return session, preset, points, nil
}

func (s *SessionService) availableCodes(ctx context.Context) ([]string, bool) {
	if s.catalog == nil {
		return nil, false
	}

	currencies, err := s.catalog.Available(ctx)
	if err != nil {
		s.logger.Warn("Currency list unavailable, keeping selection", map[string]interface{}{
			"request_id": middleware.GetRequestID(ctx),
			"error":      err.Error(),
		})
		return nil, false
	}
	return SortedCodes(currencies), true
}

func selectionOf(session *entity.Session) Selection {
	lang, ok := i18n.ParseLanguage(session.Language)
	if !ok {
		lang = i18n.English
	}

	return Selection{
		Amount:    session.Amount,
		From:      session.From,
		To:        session.To,
		TimeRange: session.TimeRange,
		Language:  lang,
	}
}

func applySelection(session *entity.Session, selection Selection, now time.Time) {
	session.Amount = selection.Amount
	session.From = selection.From
	session.To = selection.To
	session.TimeRange = selection.TimeRange
	session.Language = string(selection.Language)
	session.UpdatedAt = now
}
