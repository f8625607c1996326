package query_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/toca/internal/domain/model"
	"github.com/okian/toca/internal/domain/query"
	"github.com/smartystreets/goconvey/convey"
)

type records struct {
	profiles     []model.Profile
	sessions     []model.TrainingSession
	appointments []model.Appointment
}

func (r records) Profiles() []model.Profile { return r.profiles }
func (r records) Sessions() []model.TrainingSession { return r.sessions }
func (r records) Appointments() []model.Appointment { return r.appointments }

var now = time.Date(2025, 6, 10, 12, 30, 0, 0, time.UTC)

func fixture() records {
	at := func(d time.Duration) time.Time { return now.Add(d) }
	return records{
		profiles: []model.Profile{
			{ID: "p1", Email: "Ava.Reed@Example.com", FirstName: "Ava"},
			{ID: "p2", Email: "leo@example.com", FirstName: "Leo"},
		},
		sessions: []model.TrainingSession{
			{ID: "s1", PlayerID: "p1", TrainerName: "Coach Kim", StartTime: at(-72 * time.Hour)},
			{ID: "s2", PlayerID: "p1", TrainerName: "Coach Diaz", StartTime: at(-2 * time.Hour)},
			{ID: "s3", PlayerID: "p1", TrainerName: "Coach Kim", StartTime: at(48 * time.Hour)},
			{ID: "s4", PlayerID: "p1", TrainerName: "Coach Kim", StartTime: now},
			{ID: "s5", PlayerID: "p2", TrainerName: "Coach Adams", StartTime: at(-24 * time.Hour)},
			{ID: "s6", PlayerID: "p1", TrainerName: "Coach Kim", StartTime: at(-240 * time.Hour)},
		},
		appointments: []model.Appointment{
			{ID: "a1", PlayerID: "p1", TrainerName: "Coach Kim", StartTime: at(72 * time.Hour)},
			{ID: "a2", PlayerID: "p1", TrainerName: "Coach Bell", StartTime: at(24 * time.Hour)},
			{ID: "a3", PlayerID: "p1", TrainerName: "Coach Kim", StartTime: now},
			{ID: "a4", PlayerID: "p1", TrainerName: "Coach Kim", StartTime: at(-24 * time.Hour)},
			{ID: "a5", PlayerID: "p2", TrainerName: "Coach Kim", StartTime: at(5 * time.Hour)},
		},
	}
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, id(it))
	}
	return out
}

func sessionID(s model.TrainingSession) string { return s.ID }
func appointmentID(a model.Appointment) string { return a.ID }

func TestPlayerLookup(t *testing.T) {
	convey.Convey("Given a set of profiles", t, func() {
		r := fixture()

		convey.Convey("When looking up by email in a different case", func() {
			p, ok := query.FindPlayerByEmail(r, "ava.reed@EXAMPLE.com")

			convey.Convey("Then the profile is found", func() {
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(p.ID, convey.ShouldEqual, "p1")
			})
		})

		convey.Convey("When looking up a partial email", func() {
			_, ok := query.FindPlayerByEmail(r, "ava.reed")

			convey.Convey("Then nothing matches", func() {
				convey.So(ok, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When looking up by id", func() {
			p, ok := query.FindPlayerByID(r, "p2")
			_, missing := query.FindPlayerByID(r, "P2")

			convey.Convey("Then only the exact id matches", func() {
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(p.FirstName, convey.ShouldEqual, "Leo")
				convey.So(missing, convey.ShouldBeFalse)
			})
		})
	})
}

func TestSessionsForPlayer(t *testing.T) {
	convey.Convey("Given sessions around now", t, func() {
		r := fixture()

		convey.Convey("When asking for past sessions", func() {
			got := query.SessionsForPlayer(r, "p1", query.SessionsPast, now)

			convey.Convey("Then only sessions starting before now are kept, newest first", func() {
				convey.So(ids(got, sessionID), convey.ShouldResemble, []string{"s2", "s1", "s6"})
				for i, s := range got {
					convey.So(s.StartTime.Before(now), convey.ShouldBeTrue)
					if i > 0 {
						convey.So(got[i-1].StartTime.After(s.StartTime), convey.ShouldBeTrue)
					}
				}
			})
		})

		convey.Convey("When asking for all sessions", func() {
			got := query.SessionsForPlayer(r, "p1", query.SessionsAll, now)

			convey.Convey("Then future sessions are included, still newest first", func() {
				convey.So(ids(got, sessionID), convey.ShouldResemble, []string{"s3", "s4", "s2", "s1", "s6"})
			})
		})

		convey.Convey("When asking for an unknown player", func() {
			got := query.SessionsForPlayer(r, "nobody", query.SessionsAll, now)

			convey.Convey("Then the result is empty, not nil", func() {
				convey.So(got, convey.ShouldNotBeNil)
				convey.So(got, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When fetching a session by id", func() {
			s, ok := query.SessionByID(r, "s5")
			_, missing := query.SessionByID(r, "s99")

			convey.Convey("Then it is found only when it exists", func() {
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(s.PlayerID, convey.ShouldEqual, "p2")
				convey.So(missing, convey.ShouldBeFalse)
			})
		})
	})
}

func TestAppointmentsForPlayer(t *testing.T) {
	convey.Convey("Given appointments around now", t, func() {
		r := fixture()

		convey.Convey("When asking for future appointments", func() {
			got := query.AppointmentsForPlayer(r, "p1", query.AppointmentsFuture, now)

			convey.Convey("Then only appointments starting after now are kept, soonest first", func() {
				convey.So(ids(got, appointmentID), convey.ShouldResemble, []string{"a2", "a1"})
				for _, a := range got {
					convey.So(a.StartTime.After(now), convey.ShouldBeTrue)
				}
			})
		})

		convey.Convey("When asking for all appointments", func() {
			got := query.AppointmentsForPlayer(r, "p1", query.AppointmentsAll, now)

			convey.Convey("Then past and current appointments are included, soonest first", func() {
				convey.So(ids(got, appointmentID), convey.ShouldResemble, []string{"a4", "a3", "a2", "a1"})
			})
		})

		convey.Convey("When asking for an unknown player", func() {
			got := query.AppointmentsForPlayer(r, "nobody", query.AppointmentsFuture, now)

			convey.Convey("Then the result is empty", func() {
				convey.So(got, convey.ShouldBeEmpty)
			})
		})
	})
}

func TestDistinctTrainerNames(t *testing.T) {
	convey.Convey("Given trainers named by sessions and appointments", t, func() {
		r := fixture()

		convey.Convey("When listing trainers", func() {
			got := query.DistinctTrainerNames(r)

			convey.Convey("Then the union is deduplicated and sorted", func() {
				convey.So(got, convey.ShouldResemble, []string{"Coach Adams", "Coach Bell", "Coach Diaz", "Coach Kim"})
			})
		})

		convey.Convey("When there are no records", func() {
			got := query.DistinctTrainerNames(records{})

			convey.Convey("Then the list is empty", func() {
				convey.So(got, convey.ShouldBeEmpty)
			})
		})
	})
}

func TestParseFilters(t *testing.T) {
	convey.Convey("Given wire filter values", t, func() {
		convey.Convey("Then empty values fall back to the defaults", func() {
			sf, err := query.ParseSessionFilter("")
			convey.So(err, convey.ShouldBeNil)
			convey.So(sf, convey.ShouldEqual, query.SessionsPast)

			af, err := query.ParseAppointmentFilter("")
			convey.So(err, convey.ShouldBeNil)
			convey.So(af, convey.ShouldEqual, query.AppointmentsFuture)
		})

		convey.Convey("Then known values parse", func() {
			sf, _ := query.ParseSessionFilter("all")
			af, _ := query.ParseAppointmentFilter("all")
			convey.So(sf, convey.ShouldEqual, query.SessionsAll)
			convey.So(af, convey.ShouldEqual, query.AppointmentsAll)
		})

		convey.Convey("Then a filter from the other collection is rejected", func() {
			_, err := query.ParseSessionFilter("future")
			convey.So(errors.Is(err, query.ErrUnknownFilter), convey.ShouldBeTrue)

			_, err = query.ParseAppointmentFilter("past")
			convey.So(errors.Is(err, query.ErrUnknownFilter), convey.ShouldBeTrue)
		})
	})
}
