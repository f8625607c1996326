// Package booking holds the only state-changing operations of the core:
// appending and removing appointments.
package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/okian/toca/internal/domain/model"
	"github.com/okian/toca/internal/domain/temporal"
)

// Writer is the appointment collection the mutations act on.
// Implementations are not expected to lock; callers serialize.
type Writer interface {
	AddAppointment(a model.Appointment)
	// RemoveAppointment deletes the appointment with id and reports whether
	// one was present.
	RemoveAppointment(id string) bool
}

// IDFunc produces appointment ids.
type IDFunc func() string

// NewID returns a random UUID string.
func NewID() string { return uuid.NewString() }

// Create appends a new appointment with a fresh id and returns it.
// It does not validate the time range; run Validate first.
func Create(w Writer, newID IDFunc, playerID, trainerName string, start, end time.Time) model.Appointment {
	if newID == nil {
		newID = NewID
	}
	a := model.Appointment{
		ID:          newID(),
		PlayerID:    playerID,
		TrainerName: trainerName,
		StartTime:   start,
		EndTime:     end,
	}
	w.AddAppointment(a)
	return a
}

// Cancel removes the appointment with id. It returns false when there was
// nothing to remove.
func Cancel(w Writer, appointmentID string) bool {
	return w.RemoveAppointment(appointmentID)
}

// Validate applies the booking rules for a requested range: end strictly
// after start, and start strictly after now.
func Validate(start, end, now time.Time) error {
	if !end.After(start) {
		return ErrEndBeforeStart
	}
	if !temporal.IsFuture(start, now) {
		return ErrStartInPast
	}
	return nil
}
