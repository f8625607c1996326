package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	service "github.com/okian/toca/internal/app"
	"github.com/okian/toca/internal/domain/query"
)

// AppointmentsHandler handles a player's appointment requests.
type AppointmentsHandler struct {
	deps Dependencies
}

// NewAppointmentsHandler creates a new appointments handler.
func NewAppointmentsHandler(deps Dependencies) *AppointmentsHandler {
	return &AppointmentsHandler{deps: deps}
}

// HandleList handles GET /api/players/{playerId}/appointments?filter=future|all.
// Unknown filter values fall back to future appointments.
func (h *AppointmentsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	p := playerFrom(r.Context())
	filter, err := query.ParseAppointmentFilter(r.URL.Query().Get("filter"))
	if err != nil {
		filter = query.AppointmentsFuture
	}
	writeJSON(w, http.StatusOK, h.deps.Appointments(r.Context(), p.ID, filter))
}

// appointmentRequest mirrors the body of POST .../appointments.
type appointmentRequest struct {
	TrainerName string     `json:"trainerName"`
	StartTime   *time.Time `json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
}

func (a appointmentRequest) validate() error {
	switch {
	case strings.TrimSpace(a.TrainerName) == "":
		return errors.New("missing trainerName")
	case a.StartTime == nil:
		return errors.New("missing startTime")
	case a.EndTime == nil:
		return errors.New("missing endTime")
	}
	return nil
}

// HandleCreate handles POST /api/players/{playerId}/appointments.
func (h *AppointmentsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_appointment"
	p := playerFrom(r.Context())

	var req appointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}

	a, err := h.deps.BookAppointment(r.Context(), service.BookingRequest{
		PlayerID:    p.ID,
		TrainerName: strings.TrimSpace(req.TrainerName),
		Start:       *req.StartTime,
		End:         *req.EndTime,
	})
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// HandleCancel handles DELETE /api/players/{playerId}/appointments/{appointmentId}.
func (h *AppointmentsHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	const op = "api.cancel_appointment"
	p := playerFrom(r.Context())
	id := chi.URLParam(r, "appointmentId")
	if !validID(id) {
		writeError(w, WrapKind(op, ErrBadRequest, errors.New("appointmentId must be a UUID")))
		return
	}
	if !h.deps.CancelAppointment(r.Context(), p.ID, id) {
		writeError(w, WrapKind(op, ErrNotFound, errors.New("appointment not found")))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
