// Package repository holds the in-memory record collections the analytics
// core reads and the booking operations write.
package repository

import (
	"github.com/okian/toca/internal/domain/booking"
	"github.com/okian/toca/internal/domain/model"
	"github.com/okian/toca/internal/domain/query"
)

// Counts is the size of each collection.
type Counts struct {
	Profiles     int `json:"profiles"`
	Sessions     int `json:"sessions"`
	Appointments int `json:"appointments"`
}

// Store provides read/write access to the three collections.
// Implementations are not safe for concurrent use; callers serialize.
type Store interface {
	query.Records
	booking.Writer

	// AppendSession adds a newly recorded session.
	// Returns ErrDuplicateSession if the id is already stored.
	AppendSession(s model.TrainingSession) error

	// Counts reports the size of each collection.
	Counts() Counts
}
