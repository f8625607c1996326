package datagen

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/toca/internal/domain/scheduling"
	"github.com/okian/toca/internal/domain/temporal"
	"github.com/okian/toca/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(logger.WithOutput(io.Discard)); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

var testNow = time.Date(2024, time.June, 10, 12, 30, 0, 0, time.UTC)

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Players = 25
	cfg.Location = time.UTC
	cfg.Now = testNow
	cfg.Seed = 42
	return cfg
}

func TestGenerate(t *testing.T) {
	convey.Convey("Given a seeded configuration", t, func() {
		cfg := testConfig()
		ctx := context.Background()

		convey.Convey("When a dataset is generated", func() {
			stats := &Stats{}
			d, err := Generate(ctx, cfg, stats)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then it should have one profile per player with unique ids and emails", func() {
				convey.So(len(d.Profiles), convey.ShouldEqual, cfg.Players)
				ids := map[string]bool{}
				emails := map[string]bool{}
				for _, p := range d.Profiles {
					ids[p.ID] = true
					emails[p.Email] = true
					_, err := time.Parse(time.DateOnly, p.DOB)
					convey.So(err, convey.ShouldBeNil)
				}
				convey.So(len(ids), convey.ShouldEqual, cfg.Players)
				convey.So(len(emails), convey.ShouldEqual, cfg.Players)
			})

			convey.Convey("Then the stats should match the dataset", func() {
				convey.So(stats.Profiles, convey.ShouldEqual, len(d.Profiles))
				convey.So(stats.Sessions, convey.ShouldEqual, len(d.Sessions))
				convey.So(stats.Appointments, convey.ShouldEqual, len(d.Appointments))
				convey.So(len(d.Sessions), convey.ShouldBeGreaterThan, 0)
			})

			convey.Convey("Then every session should be past, on the grid and internally consistent", func() {
				for _, s := range d.Sessions {
					convey.So(s.EndTime.Before(testNow), convey.ShouldBeTrue)
					convey.So(s.EndTime.Sub(s.StartTime), convey.ShouldEqual, time.Hour)
					convey.So(s.StartTime.Minute(), convey.ShouldEqual, 0)
					convey.So(s.StartTime.Hour(), convey.ShouldBeBetweenOrEqual, cfg.StartHour, cfg.EndHour-1)
					convey.So(s.Score, convey.ShouldBeBetweenOrEqual, 0, 100)
					convey.So(s.NumberOfGoals, convey.ShouldBeLessThanOrEqualTo, s.NumberOfBalls)
					convey.So(s.BestStreak, convey.ShouldBeLessThanOrEqualTo, s.NumberOfGoals)
					convey.So(s.AvgSpeedOfPlay, convey.ShouldBeGreaterThan, 0)
				}
			})

			convey.Convey("Then every appointment should be future, never double-book a trainer and give a player one per day", func() {
				for i, a := range d.Appointments {
					convey.So(a.StartTime.After(testNow), convey.ShouldBeTrue)
					for _, b := range d.Appointments[i+1:] {
						if a.TrainerName == b.TrainerName {
							convey.So(scheduling.Overlaps(a.StartTime, a.EndTime, b.StartTime, b.EndTime), convey.ShouldBeFalse)
						}
						if a.PlayerID == b.PlayerID {
							convey.So(temporal.SameDate(a.StartTime, b.StartTime), convey.ShouldBeFalse)
						}
					}
				}
			})
		})

		convey.Convey("When the same seed is used twice", func() {
			a, err := Generate(ctx, cfg, nil)
			convey.So(err, convey.ShouldBeNil)
			b, err := Generate(ctx, cfg, nil)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the records should match apart from ids", func() {
				convey.So(len(a.Sessions), convey.ShouldEqual, len(b.Sessions))
				convey.So(len(a.Appointments), convey.ShouldEqual, len(b.Appointments))
				for i := range a.Profiles {
					convey.So(a.Profiles[i].Email, convey.ShouldEqual, b.Profiles[i].Email)
				}
				for i := range a.Sessions {
					convey.So(a.Sessions[i].Score, convey.ShouldEqual, b.Sessions[i].Score)
					convey.So(a.Sessions[i].StartTime, convey.ShouldEqual, b.Sessions[i].StartTime)
				}
			})
		})

		convey.Convey("When the context is already canceled", func() {
			canceled, cancel := context.WithCancel(ctx)
			cancel()
			_, err := Generate(canceled, cfg, nil)

			convey.Convey("Then generation should stop", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the configuration is invalid", func() {
			cfg.Players = 0
			cfg.Trainers = nil
			cfg.EndHour = cfg.StartHour
			_, err := Generate(ctx, cfg, nil)

			convey.Convey("Then every problem should be reported", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "players must be positive")
				convey.So(err.Error(), convey.ShouldContainSubstring, "trainer")
				convey.So(err.Error(), convey.ShouldContainSubstring, "hours")
			})
		})
	})
}

func TestLiveSessions(t *testing.T) {
	convey.Convey("Given a set of player ids", t, func() {
		cfg := testConfig()
		ids := []string{"p1", "p2", "p3"}

		convey.Convey("When live sessions are built", func() {
			sessions := LiveSessions(cfg, ids, 50)

			convey.Convey("Then each should belong to a known player and have ended recently", func() {
				convey.So(len(sessions), convey.ShouldEqual, 50)
				for _, s := range sessions {
					convey.So(ids, convey.ShouldContain, s.PlayerID)
					convey.So(s.EndTime.Before(testNow), convey.ShouldBeTrue)
					convey.So(s.StartTime.After(testNow.Add(-24*time.Hour)), convey.ShouldBeTrue)
					convey.So(s.NumberOfGoals, convey.ShouldBeLessThanOrEqualTo, s.NumberOfBalls)
				}
			})
		})

		convey.Convey("When there are no players", func() {
			convey.Convey("Then nothing should be built", func() {
				convey.So(LiveSessions(cfg, nil, 10), convey.ShouldBeEmpty)
				convey.So(LiveSessions(cfg, ids, 0), convey.ShouldBeEmpty)
			})
		})
	})
}
