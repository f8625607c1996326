package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/okian/toca/internal/domain/model"
	"github.com/okian/toca/internal/domain/temporal"
)

// ScheduleHandler handles trainer availability requests.
type ScheduleHandler struct {
	deps Dependencies
}

// NewScheduleHandler creates a new schedule handler.
func NewScheduleHandler(deps Dependencies) *ScheduleHandler {
	return &ScheduleHandler{deps: deps}
}

// maxScheduleDays bounds a from/to request.
const maxScheduleDays = 31

// HandleSchedule handles
// GET /api/schedule?date=YYYY-MM-DD|from=YYYY-MM-DD&to=YYYY-MM-DD[&trainerName=][&available=true].
// The response is always an array of day schedules, day by day and in
// trainer-name order within a day.
func (h *ScheduleHandler) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "api.schedule"
	q := r.URL.Query()

	days, err := h.days(q.Get("date"), q.Get("from"), q.Get("to"))
	if err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}

	availableOnly := false
	if v := q.Get("available"); v != "" {
		availableOnly, err = strconv.ParseBool(v)
		if err != nil {
			writeError(w, WrapKind(op, ErrBadRequest, errors.New("available must be a boolean")))
			return
		}
	}

	trainer := strings.TrimSpace(q.Get("trainerName"))
	out := make([]model.TrainerSchedule, 0, len(days))
	for _, day := range days {
		out = append(out, h.deps.Schedule(r.Context(), day, trainer, availableOnly)...)
	}
	writeJSON(w, http.StatusOK, out)
}

// days resolves either a single date or an inclusive from/to range.
func (h *ScheduleHandler) days(date, from, to string) ([]time.Time, error) {
	loc := h.deps.Location()
	if date != "" {
		d, err := temporal.ParseDate(date, loc)
		if err != nil {
			return nil, err
		}
		return []time.Time{d}, nil
	}
	if from == "" || to == "" {
		return nil, errors.New("date or from and to are required (YYYY-MM-DD)")
	}
	start, err := temporal.ParseDate(from, loc)
	if err != nil {
		return nil, err
	}
	end, err := temporal.ParseDate(to, loc)
	if err != nil {
		return nil, err
	}
	days := temporal.DateRange(start, end)
	switch {
	case len(days) == 0:
		return nil, errors.New("to must not be before from")
	case len(days) > maxScheduleDays:
		return nil, fmt.Errorf("range exceeds %d days", maxScheduleDays)
	}
	return days, nil
}
