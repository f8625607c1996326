package service

import "errors"

var (
	// ErrNotStarted is returned by ingestion calls before Start.
	ErrNotStarted = errors.New("service not started")

	// ErrPlayerNotFound means no profile carries the given id.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrSlotTaken means the trainer already has an overlapping appointment.
	ErrSlotTaken = errors.New("trainer slot already booked")

	// ErrInvalidBooking wraps booking request validation failures.
	ErrInvalidBooking = errors.New("invalid booking")

	// ErrInvalidSession wraps submitted session validation failures.
	ErrInvalidSession = errors.New("invalid training session")

	// ErrNoLoader is returned by Reload when no data source is configured.
	ErrNoLoader = errors.New("no data source configured")
)
