// Package query implements lookups and filters over the three record
// collections. Unknown ids yield absent values or empty slices, never errors.
package query

import (
	"sort"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/okian/toca/internal/domain/model"
	"github.com/okian/toca/internal/domain/temporal"
)

// Records exposes the loaded collections. Callers must not mutate the
// returned slices.
type Records interface {
	Profiles() []model.Profile
	Sessions() []model.TrainingSession
	Appointments() []model.Appointment
}

// FindPlayerByEmail matches the full email ignoring case.
func FindPlayerByEmail(r Records, email string) (model.Profile, bool) {
	for _, p := range r.Profiles() {
		if strings.EqualFold(p.Email, email) {
			return p, true
		}
	}
	return model.Profile{}, false
}

// FindPlayerByID matches the id exactly.
func FindPlayerByID(r Records, id string) (model.Profile, bool) {
	for _, p := range r.Profiles() {
		if p.ID == id {
			return p, true
		}
	}
	return model.Profile{}, false
}

// SessionsForPlayer returns the player's sessions newest first. With
// SessionsPast, sessions starting at or after now are dropped.
func SessionsForPlayer(r Records, playerID string, filter SessionFilter, now time.Time) []model.TrainingSession {
	out := []model.TrainingSession{}
	for _, s := range r.Sessions() {
		if s.PlayerID != playerID {
			continue
		}
		if filter == SessionsPast && !temporal.IsPast(s.StartTime, now) {
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.After(out[j].StartTime)
	})
	return out
}

// SessionByID matches the id exactly.
func SessionByID(r Records, id string) (model.TrainingSession, bool) {
	for _, s := range r.Sessions() {
		if s.ID == id {
			return s, true
		}
	}
	return model.TrainingSession{}, false
}

// AppointmentsForPlayer returns the player's appointments soonest first. With
// AppointmentsFuture, appointments starting at or before now are dropped.
func AppointmentsForPlayer(r Records, playerID string, filter AppointmentFilter, now time.Time) []model.Appointment {
	out := []model.Appointment{}
	for _, a := range r.Appointments() {
		if a.PlayerID != playerID {
			continue
		}
		if filter == AppointmentsFuture && !temporal.IsFuture(a.StartTime, now) {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}

// DistinctTrainerNames returns every trainer named by a session or an
// appointment, deduplicated and sorted.
func DistinctTrainerNames(r Records) []string {
	trainers := mapset.NewThreadUnsafeSet[string]()
	for _, s := range r.Sessions() {
		trainers.Add(s.TrainerName)
	}
	for _, a := range r.Appointments() {
		trainers.Add(a.TrainerName)
	}
	names := trainers.ToSlice()
	sort.Strings(names)
	return names
}
