package repository

import (
	"fmt"
	"slices"

	"github.com/okian/toca/internal/domain/model"
	"github.com/okian/toca/pkg/metrics"
)

// MemoryStore keeps all records in slices, in load order.
//
// Reads return the backing slices without copying. The owner must not
// mutate the store while a reader still holds one of them.
type MemoryStore struct {
	profiles     []model.Profile
	sessions     []model.TrainingSession
	appointments []model.Appointment

	// sessionIDs indexes sessions for duplicate detection on append.
	sessionIDs map[string]struct{}

	reportMetrics bool
}

// NewMemoryStore builds a store from the seeded collections.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{reportMetrics: true}
	for _, opt := range opts {
		opt(s)
	}
	s.sessionIDs = make(map[string]struct{}, len(s.sessions))
	for _, ts := range s.sessions {
		s.sessionIDs[ts.ID] = struct{}{}
	}
	s.updateMetrics()
	return s
}

// Profiles returns every profile.
func (s *MemoryStore) Profiles() []model.Profile { return s.profiles }

// Sessions returns every training session.
func (s *MemoryStore) Sessions() []model.TrainingSession { return s.sessions }

// Appointments returns every appointment.
func (s *MemoryStore) Appointments() []model.Appointment { return s.appointments }

// AddAppointment appends a.
func (s *MemoryStore) AddAppointment(a model.Appointment) {
	s.appointments = append(s.appointments, a)
	s.updateMetrics()
}

// RemoveAppointment deletes the first appointment with id.
func (s *MemoryStore) RemoveAppointment(id string) bool {
	i := slices.IndexFunc(s.appointments, func(a model.Appointment) bool { return a.ID == id })
	if i < 0 {
		return false
	}
	s.appointments = slices.Delete(s.appointments, i, i+1)
	s.updateMetrics()
	return true
}

// AppendSession adds a newly recorded session.
func (s *MemoryStore) AppendSession(ts model.TrainingSession) error {
	if ts.ID == "" || ts.PlayerID == "" {
		return fmt.Errorf("%w: id and playerId are required", ErrInvalidSession)
	}
	if _, dup := s.sessionIDs[ts.ID]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateSession, ts.ID)
	}
	s.sessions = append(s.sessions, ts)
	s.sessionIDs[ts.ID] = struct{}{}
	s.updateMetrics()
	return nil
}

// Counts reports the size of each collection.
func (s *MemoryStore) Counts() Counts {
	return Counts{
		Profiles:     len(s.profiles),
		Sessions:     len(s.sessions),
		Appointments: len(s.appointments),
	}
}

// Publish pushes the collection sizes to metrics. Called when a store
// becomes the live one.
func (s *MemoryStore) Publish() {
	s.reportMetrics = true
	s.updateMetrics()
}

func (s *MemoryStore) updateMetrics() {
	if !s.reportMetrics {
		return
	}
	c := s.Counts()
	metrics.UpdateStoreRecords("profiles", c.Profiles)
	metrics.UpdateStoreRecords("sessions", c.Sessions)
	metrics.UpdateStoreRecords("appointments", c.Appointments)
}
