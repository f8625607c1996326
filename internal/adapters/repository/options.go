package repository

import "github.com/okian/toca/internal/domain/model"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithProfiles seeds the profile collection.
func WithProfiles(p []model.Profile) Option {
	return func(s *MemoryStore) {
		s.profiles = append([]model.Profile(nil), p...)
	}
}

// WithSessions seeds the training session collection.
func WithSessions(sessions []model.TrainingSession) Option {
	return func(s *MemoryStore) {
		s.sessions = append([]model.TrainingSession(nil), sessions...)
	}
}

// WithAppointments seeds the appointment collection.
func WithAppointments(a []model.Appointment) Option {
	return func(s *MemoryStore) {
		s.appointments = append([]model.Appointment(nil), a...)
	}
}

// WithoutMetrics stops the store from reporting collection sizes.
// Used by throwaway stores such as the one built during a reload check.
func WithoutMetrics() Option {
	return func(s *MemoryStore) {
		s.reportMetrics = false
	}
}
