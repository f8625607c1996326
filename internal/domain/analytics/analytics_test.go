package analytics_test

import (
	"testing"
	"time"

	"github.com/okian/toca/internal/domain/analytics"
	"github.com/okian/toca/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

type records struct {
	profiles []model.Profile
	sessions []model.TrainingSession
}

func (r records) Profiles() []model.Profile         { return r.profiles }
func (r records) Sessions() []model.TrainingSession { return r.sessions }
func (r records) Appointments() []model.Appointment { return nil }

var now = time.Date(2025, 6, 10, 12, 30, 0, 0, time.UTC)

func daysAgo(d int) time.Time { return now.AddDate(0, 0, -d) }

func session(id, player string, start time.Time, score float64) model.TrainingSession {
	return model.TrainingSession{
		ID:          id,
		PlayerID:    player,
		TrainerName: "Coach Kim",
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
		Score:       score,
	}
}

func TestRound(t *testing.T) {
	convey.Convey("Given the rounding primitive", t, func() {
		convey.Convey("Then halves round up", func() {
			convey.So(analytics.Round(1.25, 1), convey.ShouldEqual, 1.3)
			convey.So(analytics.Round(4.5, 0), convey.ShouldEqual, 5)
			convey.So(analytics.Round(-1.25, 1), convey.ShouldEqual, -1.2)
		})

		convey.Convey("Then other values round to the nearest step", func() {
			convey.So(analytics.Round(3.14159, 2), convey.ShouldEqual, 3.14)
			convey.So(analytics.Round(80, 1), convey.ShouldEqual, 80)
			convey.So(analytics.Round(83.33333, 1), convey.ShouldEqual, 83.3)
		})
	})
}

func TestSummarize(t *testing.T) {
	convey.Convey("Given a player with past and future sessions", t, func() {
		s1 := session("s1", "p1", daysAgo(40), 80)
		s1.BestStreak, s1.NumberOfGoals, s1.NumberOfBalls = 30, 10, 100
		s2 := session("s2", "p1", daysAgo(10), 90)
		s2.BestStreak, s2.NumberOfGoals, s2.NumberOfBalls = 12, 20, 150
		s3 := session("s3", "p1", daysAgo(2), 70)
		s3.BestStreak, s3.NumberOfGoals, s3.NumberOfBalls = 18, 5, 120
		future := session("s4", "p1", now.Add(time.Hour), 100)
		future.BestStreak = 99
		other := session("s5", "p2", daysAgo(1), 10)

		r := records{sessions: []model.TrainingSession{s1, s2, future, s3, other}}

		convey.Convey("When summarizing", func() {
			got := analytics.Summarize(r, "p1", now)

			convey.Convey("Then the totals cover past sessions only", func() {
				convey.So(got.TotalSessions, convey.ShouldEqual, 3)
				convey.So(got.AvgScore, convey.ShouldEqual, 80.0)
				convey.So(got.BestStreakRecord, convey.ShouldEqual, 30)
			})

			convey.Convey("Then the last session is the most recent past one", func() {
				convey.So(got.LastSession, convey.ShouldNotBeNil)
				convey.So(got.LastSession.ID, convey.ShouldEqual, "s3")
				convey.So(got.LastSession.Date, convey.ShouldEqual, s3.StartTime)
				convey.So(got.LastSession.Score, convey.ShouldEqual, 70)
				convey.So(got.LastSession.TrainerName, convey.ShouldEqual, "Coach Kim")
			})

			convey.Convey("Then the recent window drops the 40-day-old session", func() {
				convey.So(got.Last30Days, convey.ShouldResemble, model.RecentStats{
					TotalSessions: 2,
					TotalBalls:    270,
					AvgScore:      80.0,
					TotalGoals:    25,
				})
			})
		})

		convey.Convey("When the recent window is narrowed", func() {
			got := analytics.Summarize(r, "p1", now, analytics.WithRecentWindow(7*24*time.Hour))

			convey.Convey("Then only sessions inside it count", func() {
				convey.So(got.Last30Days.TotalSessions, convey.ShouldEqual, 1)
				convey.So(got.Last30Days.AvgScore, convey.ShouldEqual, 70.0)
				convey.So(got.TotalSessions, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When a session sits exactly on the window edge", func() {
			edge := session("edge", "p3", now.Add(-analytics.DefaultRecentWindow), 50)
			got := analytics.Summarize(records{sessions: []model.TrainingSession{edge}}, "p3", now)

			convey.Convey("Then it is inside the window", func() {
				convey.So(got.Last30Days.TotalSessions, convey.ShouldEqual, 1)
			})
		})
	})

	convey.Convey("Given a player without past sessions", t, func() {
		r := records{sessions: []model.TrainingSession{session("s1", "p1", now, 90)}}

		convey.Convey("When summarizing them or an unknown id", func() {
			known := analytics.Summarize(r, "p1", now)
			unknown := analytics.Summarize(r, "ghost", now)

			convey.Convey("Then both are the zero summary", func() {
				convey.So(known, convey.ShouldResemble, model.PlayerSummary{})
				convey.So(unknown, convey.ShouldResemble, model.PlayerSummary{})
				convey.So(known.LastSession, convey.ShouldBeNil)
			})
		})
	})

	convey.Convey("Given a non-terminating mean", t, func() {
		r := records{sessions: []model.TrainingSession{
			session("a", "p1", daysAgo(1), 80),
			session("b", "p1", daysAgo(2), 85),
			session("c", "p1", daysAgo(3), 85),
		}}

		convey.Convey("Then the average is rounded to one decimal", func() {
			convey.So(analytics.Summarize(r, "p1", now).AvgScore, convey.ShouldEqual, 83.3)
		})
	})
}

func TestLeaderboard(t *testing.T) {
	convey.Convey("Given four players", t, func() {
		profiles := []model.Profile{
			{ID: "p1", FirstName: "Ava", LastName: "Reed", CenterName: "North"},
			{ID: "p2", FirstName: "Leo", LastName: "Park", CenterName: "South"},
			{ID: "p3", FirstName: "Mia", LastName: "Cole", CenterName: "North"},
			{ID: "p4", FirstName: "Sam", LastName: "Ng", CenterName: "East"},
		}
		withStats := func(s model.TrainingSession, goals, balls, streak int, speed float64) model.TrainingSession {
			s.NumberOfGoals, s.NumberOfBalls, s.BestStreak, s.AvgSpeedOfPlay = goals, balls, streak, speed
			return s
		}
		sessions := []model.TrainingSession{
			withStats(session("a", "p1", daysAgo(1), 80), 10, 100, 5, 4.0),
			withStats(session("b", "p1", daysAgo(2), 90), 12, 120, 9, 4.5),
			withStats(session("c", "p2", daysAgo(1), 85), 30, 200, 20, 3.0),
			withStats(session("d", "p3", daysAgo(3), 85), 18, 90, 7, 5.25),
			withStats(session("e", "p3", now.Add(time.Hour), 10), 99, 99, 99, 9.0),
		}
		r := records{profiles: profiles, sessions: sessions}

		convey.Convey("When building the leaderboard", func() {
			got := analytics.Leaderboard(r, now)

			convey.Convey("Then there is one entry per profile with dense ranks", func() {
				convey.So(len(got), convey.ShouldEqual, len(profiles))
				for i, e := range got {
					convey.So(e.Rank, convey.ShouldEqual, i+1)
				}
			})

			convey.Convey("Then ties on score are broken by goals", func() {
				order := []string{got[0].PlayerID, got[1].PlayerID, got[2].PlayerID, got[3].PlayerID}
				convey.So(order, convey.ShouldResemble, []string{"p2", "p1", "p3", "p4"})
			})

			convey.Convey("Then the aggregates ignore future sessions", func() {
				p1 := got[1]
				convey.So(p1.TotalSessions, convey.ShouldEqual, 2)
				convey.So(p1.AvgScore, convey.ShouldEqual, 85.0)
				convey.So(p1.TotalGoals, convey.ShouldEqual, 22)
				convey.So(p1.TotalBalls, convey.ShouldEqual, 220)
				convey.So(p1.BestStreak, convey.ShouldEqual, 9)
				convey.So(p1.AvgSpeedOfPlay, convey.ShouldEqual, 4.25)
				convey.So(p1.FirstName, convey.ShouldEqual, "Ava")
				convey.So(p1.CenterName, convey.ShouldEqual, "North")

				p3 := got[2]
				convey.So(p3.TotalSessions, convey.ShouldEqual, 1)
				convey.So(p3.BestStreak, convey.ShouldEqual, 7)
				convey.So(p3.AvgSpeedOfPlay, convey.ShouldEqual, 5.25)
			})

			convey.Convey("Then a player without sessions sits at the bottom with zeros", func() {
				last := got[3]
				convey.So(last.PlayerID, convey.ShouldEqual, "p4")
				convey.So(last.Rank, convey.ShouldEqual, 4)
				convey.So(last.TotalSessions, convey.ShouldEqual, 0)
				convey.So(last.AvgScore, convey.ShouldEqual, 0)
				convey.So(last.AvgSpeedOfPlay, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When two players tie on score and goals", func() {
			tie := records{
				profiles: []model.Profile{{ID: "x"}, {ID: "y"}, {ID: "z"}},
				sessions: []model.TrainingSession{
					withStats(session("1", "y", daysAgo(1), 70), 5, 0, 0, 0),
					withStats(session("2", "x", daysAgo(1), 70), 5, 0, 0, 0),
				},
			}
			got := analytics.Leaderboard(tie, now)

			convey.Convey("Then profile order decides", func() {
				convey.So(got[0].PlayerID, convey.ShouldEqual, "x")
				convey.So(got[1].PlayerID, convey.ShouldEqual, "y")
				convey.So(got[2].PlayerID, convey.ShouldEqual, "z")
			})
		})

		convey.Convey("When there are no profiles", func() {
			convey.Convey("Then the leaderboard is empty", func() {
				convey.So(analytics.Leaderboard(records{sessions: sessions}, now), convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When truncating with Top", func() {
			all := analytics.Leaderboard(r, now)

			convey.Convey("Then the leading entries keep their global ranks", func() {
				top := analytics.Top(all, 2)
				convey.So(len(top), convey.ShouldEqual, 2)
				convey.So(top[1].Rank, convey.ShouldEqual, 2)
				convey.So(len(analytics.Top(all, 0)), convey.ShouldEqual, 4)
				convey.So(len(analytics.Top(all, 10)), convey.ShouldEqual, 4)
			})
		})
	})
}
