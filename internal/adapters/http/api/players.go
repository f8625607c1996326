package api

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/okian/toca/internal/domain/model"
	"github.com/okian/toca/internal/domain/temporal"
)

type playerKey struct{}

// playerFrom returns the profile playerCtx resolved for this request.
func playerFrom(ctx context.Context) model.Profile {
	p, _ := ctx.Value(playerKey{}).(model.Profile)
	return p
}

// PlayersHandler handles profile, summary, leaderboard and trainer requests.
type PlayersHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps Dependencies, maxLimit int) *PlayersHandler {
	return &PlayersHandler{deps: deps, maxLimit: maxLimit}
}

// playerCtx validates {playerId} and loads the profile, answering 400 for a
// malformed id and 404 for an unknown one.
func (h *PlayersHandler) playerCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const op = "api.player"
		id := chi.URLParam(r, "playerId")
		if !validID(id) {
			writeError(w, WrapKind(op, ErrBadRequest, errors.New("playerId must be a UUID")))
			return
		}
		p, ok := h.deps.Player(r.Context(), id)
		if !ok {
			writeError(w, WrapKind(op, ErrNotFound, errors.New("player not found")))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), playerKey{}, p)))
	})
}

type playerResponse struct {
	model.Profile
	FullName string `json:"fullName"`
	Age      *int   `json:"age,omitempty"`
}

// HandleProfile handles GET /api/players/{playerId}.
func (h *PlayersHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	p := playerFrom(r.Context())
	resp := playerResponse{Profile: p, FullName: p.FullName()}
	if dob, err := temporal.ParseDate(p.DOB, h.deps.Location()); err == nil {
		age := temporal.Age(dob, h.deps.Now())
		resp.Age = &age
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleSummary handles GET /api/players/{playerId}/summary.
func (h *PlayersHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	p := playerFrom(r.Context())
	writeJSON(w, http.StatusOK, h.deps.Summary(r.Context(), p.ID))
}

// HandleByEmail handles GET /api/players/by-email?email=.
func (h *PlayersHandler) HandleByEmail(w http.ResponseWriter, r *http.Request) {
	const op = "api.player_by_email"
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if !validEmail(email) {
		writeError(w, WrapKind(op, ErrBadRequest, errors.New("a valid email is required")))
		return
	}
	p, ok := h.deps.PlayerByEmail(r.Context(), email)
	if !ok {
		writeError(w, WrapKind(op, ErrNotFound, errors.New("player not found")))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleLeaderboard handles GET /api/players/leaderboard[?limit=N].
func (h *PlayersHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.leaderboard"
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, WrapKind(op, ErrBadRequest, errors.New("limit must be a positive integer")))
			return
		}
		if n > h.maxLimit {
			writeError(w, WrapKind(op, ErrBadRequest, errors.New("limit exceeds maximum of "+strconv.Itoa(h.maxLimit))))
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, h.deps.Leaderboard(r.Context(), limit))
}

// HandleTrainers handles GET /api/players/trainers.
func (h *PlayersHandler) HandleTrainers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Trainers(r.Context()))
}

// validEmail accepts a bare address, without display name or angle brackets.
func validEmail(s string) bool {
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s && addr.Name == ""
}
