package query

import (
	"errors"
	"fmt"
)

// ErrUnknownFilter is returned for filter strings outside the accepted set.
var ErrUnknownFilter = errors.New("unknown filter")

// SessionFilter selects which sessions SessionsForPlayer keeps.
type SessionFilter string

// Session filters.
const (
	SessionsPast SessionFilter = "past"
	SessionsAll  SessionFilter = "all"
)

// AppointmentFilter selects which appointments AppointmentsForPlayer keeps.
type AppointmentFilter string

// Appointment filters.
const (
	AppointmentsFuture AppointmentFilter = "future"
	AppointmentsAll    AppointmentFilter = "all"
)

// ParseSessionFilter maps a wire value to a filter. Empty means past.
func ParseSessionFilter(s string) (SessionFilter, error) {
	switch SessionFilter(s) {
	case "", SessionsPast:
		return SessionsPast, nil
	case SessionsAll:
		return SessionsAll, nil
	}
	return "", fmt.Errorf("%w: %q (want past or all)", ErrUnknownFilter, s)
}

// ParseAppointmentFilter maps a wire value to a filter. Empty means future.
func ParseAppointmentFilter(s string) (AppointmentFilter, error) {
	switch AppointmentFilter(s) {
	case "", AppointmentsFuture:
		return AppointmentsFuture, nil
	case AppointmentsAll:
		return AppointmentsAll, nil
	}
	return "", fmt.Errorf("%w: %q (want future or all)", ErrUnknownFilter, s)
}
