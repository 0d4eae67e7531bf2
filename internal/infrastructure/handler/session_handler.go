package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/damon-houk/currency-converter/internal/application/service"
	"github.com/damon-houk/currency-converter/internal/infrastructure/i18n"
	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
	"github.com/damon-houk/currency-converter/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// SessionHandler handles HTTP requests for converter sessions
type SessionHandler struct {
	service *service.SessionService
	logger  logger.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(service *service.SessionService, log logger.Logger) *SessionHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &SessionHandler{
		service: service,
		logger:  log,
	}
}

// CreateSession creates a session with the default selection. The body is optional.
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req CreateSessionRequest
	if !h.decode(w, r, &req) {
		return
	}

	lang := middleware.GetLanguage(r.Context())
	if req.Language != "" {
		parsed, ok := i18n.ParseLanguage(req.Language)
		if !ok {
			sendErrorResponse(w, h.logger, "Unsupported language",
				"Supported languages are en and pt-PT", "", http.StatusBadRequest, requestID)
			return
		}
		lang = parsed
	}

	session, err := h.service.Create(r.Context(), lang)
	if err != nil {
		sendServiceError(w, r, h.logger, err)
		return
	}

	w.Header().Set("Location", "/api/v1/sessions/"+session.ID)
	sendJSON(w, h.logger, http.StatusCreated, toSessionResponse(session))
}

// GetSession returns a session's selection
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		sendServiceError(w, r, h.logger, err)
		return
	}

	sendJSON(w, h.logger, http.StatusOK, toSessionResponse(session))
}

// UpdateSession applies a partial update to a session
func (h *SessionHandler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	var req UpdateSessionRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, err := h.service.Update(r.Context(), mux.Vars(r)["id"], service.SessionUpdate{
		Amount:    req.Amount,
		From:      req.From,
		To:        req.To,
		TimeRange: req.TimeRange,
		Language:  req.Language,
	})
	if err != nil {
		sendServiceError(w, r, h.logger, err)
		return
	}

	sendJSON(w, h.logger, http.StatusOK, toSessionResponse(session))
}

// SwapSession exchanges a session's currencies
func (h *SessionHandler) SwapSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Swap(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		sendServiceError(w, r, h.logger, err)
		return
	}

	sendJSON(w, h.logger, http.StatusOK, toSessionResponse(session))
}

// ViewSession refreshes a session's conversion and returns it in the session language
func (h *SessionHandler) ViewSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.View(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		sendServiceError(w, r, h.logger, err)
		return
	}

	sendJSON(w, h.logger, http.StatusOK, toSessionViewResponse(view))
}

// SessionHistory returns the series of a session's currency pair over its time range
func (h *SessionHandler) SessionHistory(w http.ResponseWriter, r *http.Request) {
	session, preset, points, err := h.service.History(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		sendServiceError(w, r, h.logger, err)
		return
	}

	lang, ok := i18n.ParseLanguage(session.Language)
	if !ok {
		lang = middleware.GetLanguage(r.Context())
	}
	loc := i18n.NewLocalizer(lang)

	resp := historyResponse(loc, session.From, session.To, preset, points)
	if session.From == session.To {
		resp.Info = loc.Messages.SameCurrencyInfo
	}
	sendJSON(w, h.logger, http.StatusOK, resp)
}

// decode reads an optional JSON body into dst and validates it. It reports false after writing
// an error response.
func (h *SessionHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	requestID := middleware.GetRequestID(r.Context())

	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
			h.logger.Warn("Failed to decode request body", map[string]interface{}{
				"request_id": requestID,
				"error":      err.Error(),
			})
			sendErrorResponse(w, h.logger, "Invalid request body",
				"The request body could not be parsed as valid JSON", "", http.StatusBadRequest, requestID)
			return false
		}
	}

	if err := validate.Struct(dst); err != nil {
		h.logger.Warn("Request validation failed", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid request", validationMessage(err), "", http.StatusBadRequest, requestID)
		return false
	}

	return true
}

// RegisterRoutes registers the session handler routes
func (h *SessionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/sessions", h.CreateSession).Methods("POST")
	router.HandleFunc("/sessions/{id}", h.GetSession).Methods("GET")
	router.HandleFunc("/sessions/{id}", h.UpdateSession).Methods("PATCH")
	router.HandleFunc("/sessions/{id}/swap", h.SwapSession).Methods("POST")
	router.HandleFunc("/sessions/{id}/view", h.ViewSession).Methods("GET")
	router.HandleFunc("/sessions/{id}/history", h.SessionHistory).Methods("GET")

	h.logger.Info("Session routes registered", map[string]interface{}{
		"routes": []string{
			"POST /sessions",
			"GET /sessions/{id}",
			"PATCH /sessions/{id}",
			"POST /sessions/{id}/swap",
			"GET /sessions/{id}/view",
			"GET /sessions/{id}/history",
		},
	})
}
