package api

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/toca/internal/adapters/export"
	"github.com/okian/toca/internal/adapters/mq/queue"
	service "github.com/okian/toca/internal/app"
	"github.com/okian/toca/internal/domain/model"
	"github.com/okian/toca/internal/domain/query"
	"github.com/okian/toca/pkg/logger"
)

// SessionsHandler handles training session requests.
type SessionsHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps Dependencies, l logger.Logger) *SessionsHandler {
	return &SessionsHandler{deps: deps, logger: l}
}

// sessionFilter reads ?filter=; unknown values fall back to past sessions.
func sessionFilter(r *http.Request) query.SessionFilter {
	f, err := query.ParseSessionFilter(r.URL.Query().Get("filter"))
	if err != nil {
		return query.SessionsPast
	}
	return f
}

// HandleList handles GET /api/players/{playerId}/training-sessions.
func (h *SessionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	p := playerFrom(r.Context())
	writeJSON(w, http.StatusOK, h.deps.Sessions(r.Context(), p.ID, sessionFilter(r)))
}

// HandleExport handles GET /api/players/{playerId}/training-sessions/export.
func (h *SessionsHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.export_sessions"
	p := playerFrom(r.Context())
	sessions := h.deps.Sessions(r.Context(), p.ID, sessionFilter(r))

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": export.ExportFilename(p.FullName()),
	}))
	if err := export.WriteSessionsCSV(w, sessions, h.deps.Location()); err != nil {
		// headers are gone; the client sees a truncated file
		h.logger.Error(r.Context(), "csv export failed", logger.Error(Wrap(op, err)))
	}
}

type sessionDetail struct {
	model.TrainingSession
	Tags []model.SessionTag `json:"tags"`
}

// HandleGet handles GET /api/training-sessions/{sessionId}.
func (h *SessionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_session"
	id := chi.URLParam(r, "sessionId")
	if !validID(id) {
		writeError(w, WrapKind(op, ErrBadRequest, errors.New("sessionId must be a UUID")))
		return
	}
	ts, tags, ok := h.deps.Session(r.Context(), id)
	if !ok {
		writeError(w, WrapKind(op, ErrNotFound, errors.New("training session not found")))
		return
	}
	writeJSON(w, http.StatusOK, sessionDetail{TrainingSession: ts, Tags: tags})
}

type ackResponse struct {
	Status    string `json:"status"`
	ID        string `json:"id"`
	Duplicate bool   `json:"duplicate"`
}

// HandleSubmit handles POST /api/training-sessions. The session is queued
// and reaches the analytics asynchronously.
func (h *SessionsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_session"
	var ts model.TrainingSession
	if err := json.NewDecoder(r.Body).Decode(&ts); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	switch {
	case ts.ID != "" && !validID(ts.ID):
		writeError(w, WrapKind(op, ErrBadRequest, errors.New("id must be a UUID")))
		return
	case !validID(ts.PlayerID):
		writeError(w, WrapKind(op, ErrBadRequest, errors.New("playerId must be a UUID")))
		return
	}

	sub, err := h.deps.SubmitSession(r.Context(), ts)
	switch {
	case errors.Is(err, queue.ErrFull):
		writeError(w, WrapKind(op, ErrBackpressure, err))
		return
	case errors.Is(err, queue.ErrClosed), errors.Is(err, service.ErrNotStarted):
		writeError(w, WrapKind(op, ErrUnavailable, err))
		return
	case err != nil:
		writeError(w, Wrap(op, err))
		return
	}
	if sub.Duplicate {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", ID: sub.SessionID, Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", ID: sub.SessionID})
}
