package booking

import "errors"

// Sentinel error kinds for booking validation.
var (
	ErrEndBeforeStart = errors.New("end time must be after start time")
	ErrStartInPast    = errors.New("appointment must be in the future")
)
