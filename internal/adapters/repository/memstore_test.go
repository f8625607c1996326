package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/toca/internal/domain/booking"
	"github.com/okian/toca/internal/domain/model"
	"github.com/okian/toca/internal/domain/query"
	. "github.com/smartystreets/goconvey/convey"
)

var _ Store = (*MemoryStore)(nil)

func TestMemoryStore(t *testing.T) {
	Convey("Given a seeded memory store", t, func() {
		now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
		seedProfiles := []model.Profile{{ID: "p1", Email: "ava@example.com"}}
		seedSessions := []model.TrainingSession{
			{ID: "s1", PlayerID: "p1", TrainerName: "Coach Kim", StartTime: now.Add(-time.Hour)},
		}
		seedAppointments := []model.Appointment{
			{ID: "a1", PlayerID: "p1", TrainerName: "Coach Kim", StartTime: now.Add(time.Hour)},
			{ID: "a2", PlayerID: "p1", TrainerName: "Coach Diaz", StartTime: now.Add(2 * time.Hour)},
		}
		s := NewMemoryStore(
			WithProfiles(seedProfiles),
			WithSessions(seedSessions),
			WithAppointments(seedAppointments),
		)

		Convey("Then the collections are readable", func() {
			So(s.Counts(), ShouldResemble, Counts{Profiles: 1, Sessions: 1, Appointments: 2})
			p, ok := query.FindPlayerByEmail(s, "AVA@example.com")
			So(ok, ShouldBeTrue)
			So(p.ID, ShouldEqual, "p1")
		})

		Convey("Then seeding copies the input slices", func() {
			seedAppointments[0].ID = "changed"
			So(s.Appointments()[0].ID, ShouldEqual, "a1")
		})

		Convey("When an appointment is booked and cancelled", func() {
			a := booking.Create(s, nil, "p1", "Coach Bell", now.Add(24*time.Hour), now.Add(25*time.Hour))

			So(s.Counts().Appointments, ShouldEqual, 3)
			So(query.DistinctTrainerNames(s), ShouldContain, "Coach Bell")

			ok := booking.Cancel(s, a.ID)

			Convey("Then the collection is back to its seed", func() {
				So(ok, ShouldBeTrue)
				So(s.Counts().Appointments, ShouldEqual, 2)
				So(s.Appointments()[1].ID, ShouldEqual, "a2")
			})
		})

		Convey("When removing an unknown appointment", func() {
			Convey("Then nothing changes", func() {
				So(s.RemoveAppointment("nope"), ShouldBeFalse)
				So(s.Counts().Appointments, ShouldEqual, 2)
			})
		})

		Convey("When appending sessions", func() {
			err := s.AppendSession(model.TrainingSession{ID: "s2", PlayerID: "p1", StartTime: now.Add(-2 * time.Hour)})

			Convey("Then a new id is stored", func() {
				So(err, ShouldBeNil)
				So(s.Counts().Sessions, ShouldEqual, 2)
				_, ok := query.SessionByID(s, "s2")
				So(ok, ShouldBeTrue)
			})

			Convey("Then a seeded or appended id is refused", func() {
				So(errors.Is(s.AppendSession(model.TrainingSession{ID: "s1", PlayerID: "p1"}), ErrDuplicateSession), ShouldBeTrue)
				So(errors.Is(s.AppendSession(model.TrainingSession{ID: "s2", PlayerID: "p1"}), ErrDuplicateSession), ShouldBeTrue)
				So(s.Counts().Sessions, ShouldEqual, 2)
			})

			Convey("Then a session without ids is refused", func() {
				So(errors.Is(s.AppendSession(model.TrainingSession{ID: "s3"}), ErrInvalidSession), ShouldBeTrue)
			})
		})
	})

	Convey("Given an empty store without metrics", t, func() {
		s := NewMemoryStore(WithoutMetrics())

		Convey("Then reads are empty and publishing turns reporting on", func() {
			So(s.Profiles(), ShouldBeEmpty)
			So(s.Counts(), ShouldResemble, Counts{})
			So(s.reportMetrics, ShouldBeFalse)
			s.Publish()
			So(s.reportMetrics, ShouldBeTrue)
		})
	})
}
