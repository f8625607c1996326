// Package scheduling lays out the daily operating-hour grid and marks which
// slots a trainer can still take.
package scheduling

import (
	"time"

	"github.com/okian/toca/internal/domain/model"
	"github.com/okian/toca/internal/domain/query"
	"github.com/okian/toca/internal/domain/temporal"
)

// Default operating hours.
const (
	DefaultStartHour = 9
	DefaultEndHour   = 17
)

// Grid is the set of one-hour slots offered each day, [StartHour, EndHour)
// in Location.
type Grid struct {
	StartHour int
	EndHour   int
	Location  *time.Location
}

// DefaultGrid returns the 9-17 grid in the local zone.
func DefaultGrid() Grid {
	return Grid{StartHour: DefaultStartHour, EndHour: DefaultEndHour, Location: time.Local}
}

func (g Grid) location() *time.Location {
	if g.Location == nil {
		return time.Local
	}
	return g.Location
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// TrainerSchedule lays out the grid for trainerName on date's calendar day.
// A slot is unavailable once it has started or when any of the trainer's
// appointments overlaps it.
func (g Grid) TrainerSchedule(r query.Records, trainerName string, date, now time.Time) model.TrainerSchedule {
	return g.schedule(trainerAppointments(r, trainerName), trainerName, date, now)
}

// AllTrainerSchedules returns one schedule per known trainer, in trainer-name order.
func (g Grid) AllTrainerSchedules(r query.Records, date, now time.Time) []model.TrainerSchedule {
	names := query.DistinctTrainerNames(r)
	booked := make(map[string][]model.Appointment, len(names))
	for _, a := range r.Appointments() {
		booked[a.TrainerName] = append(booked[a.TrainerName], a)
	}
	out := make([]model.TrainerSchedule, 0, len(names))
	for _, name := range names {
		out = append(out, g.schedule(booked[name], name, date, now))
	}
	return out
}

// AvailableSlots keeps only the available slots of s.
func AvailableSlots(s model.TrainerSchedule) model.TrainerSchedule {
	free := make([]model.TimeSlot, 0, len(s.Slots))
	for _, slot := range s.Slots {
		if slot.Available {
			free = append(free, slot)
		}
	}
	s.Slots = free
	return s
}

func (g Grid) schedule(booked []model.Appointment, trainerName string, date, now time.Time) model.TrainerSchedule {
	loc := g.location()
	day := temporal.StartOfDay(date.In(loc))
	y, m, d := day.Date()

	slots := make([]model.TimeSlot, 0, max(g.EndHour-g.StartHour, 0))
	for hour := g.StartHour; hour < g.EndHour; hour++ {
		start := time.Date(y, m, d, hour, 0, 0, 0, loc)
		end := time.Date(y, m, d, hour+1, 0, 0, 0, loc)

		isPast := !temporal.IsFuture(start, now)
		isBooked := false
		for _, a := range booked {
			if Overlaps(a.StartTime, a.EndTime, start, end) {
				isBooked = true
				break
			}
		}
		slots = append(slots, model.TimeSlot{
			StartTime: start,
			EndTime:   end,
			Available: !isPast && !isBooked,
		})
	}
	return model.TrainerSchedule{
		TrainerName: trainerName,
		Date:        temporal.FormatDate(day),
		Slots:       slots,
	}
}

func trainerAppointments(r query.Records, trainerName string) []model.Appointment {
	var out []model.Appointment
	for _, a := range r.Appointments() {
		if a.TrainerName == trainerName {
			out = append(out, a)
		}
	}
	return out
}
