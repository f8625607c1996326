package loader_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/toca/internal/adapters/loader"
	"github.com/okian/toca/internal/adapters/repository"
	"github.com/okian/toca/internal/domain/model"
	"github.com/okian/toca/internal/domain/query"
	"github.com/smartystreets/goconvey/convey"
)

func writeRaw(dir, name, content string) {
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		panic(err)
	}
}

func TestRead(t *testing.T) {
	convey.Convey("Given a data directory", t, func() {
		dir := t.TempDir()
		ctx := context.Background()

		convey.Convey("When all three files are valid", func() {
			writeRaw(dir, loader.ProfilesFile, `[{"id":"p1","email":"ava@example.com","firstName":"Ava","lastName":"Reed","dob":"2010-04-02","centerName":"North","createdAt":"2024-01-05T10:00:00Z"}]`)
			writeRaw(dir, loader.SessionsFile, `[{"id":"s1","playerId":"p1","trainerName":"Coach Kim","startTime":"2025-05-01T10:00:00Z","endTime":"2025-05-01T11:00:00Z","score":88.5,"numberOfGoals":12}]`)
			writeRaw(dir, loader.AppointmentsFile, `[]`)

			d, err := loader.Read(ctx, dir)

			convey.Convey("Then every collection is decoded", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(d.Profiles), convey.ShouldEqual, 1)
				convey.So(d.Profiles[0].CenterName, convey.ShouldEqual, "North")
				convey.So(d.Sessions[0].Score, convey.ShouldEqual, 88.5)
				convey.So(d.Appointments, convey.ShouldBeEmpty)
			})

			convey.Convey("Then the dataset seeds a store", func() {
				s := d.Store(repository.WithoutMetrics())
				convey.So(s.Counts(), convey.ShouldResemble, repository.Counts{Profiles: 1, Sessions: 1})
				_, ok := query.FindPlayerByEmail(s, "AVA@example.com")
				convey.So(ok, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When files are missing or malformed", func() {
			writeRaw(dir, loader.ProfilesFile, `[]`)
			writeRaw(dir, loader.SessionsFile, `{not json`)

			_, err := loader.Read(ctx, dir)

			convey.Convey("Then every failure is reported under ErrLoadData", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, loader.ErrLoadData), convey.ShouldBeTrue)
				convey.So(errors.Is(err, fs.ErrNotExist), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, loader.SessionsFile)
				convey.So(err.Error(), convey.ShouldContainSubstring, loader.AppointmentsFile)
			})
		})

		convey.Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := loader.Read(cctx, dir)

			convey.Convey("Then nothing is read", func() {
				convey.So(errors.Is(err, context.Canceled), convey.ShouldBeTrue)
			})
		})
	})
}

func TestWrite(t *testing.T) {
	convey.Convey("Given a dataset", t, func() {
		dir := filepath.Join(t.TempDir(), "nested", "data")
		start := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
		d := loader.Dataset{
			Profiles: []model.Profile{{ID: "p1", Email: "ava@example.com"}},
			Sessions: []model.TrainingSession{{ID: "s1", PlayerID: "p1", StartTime: start, EndTime: start.Add(time.Hour)}},
		}

		convey.Convey("When it is written and read back", func() {
			err := loader.Write(dir, d)
			got, readErr := loader.Read(context.Background(), dir)

			convey.Convey("Then the content survives and empty collections are arrays", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(readErr, convey.ShouldBeNil)
				convey.So(got.Sessions[0].StartTime.Equal(start), convey.ShouldBeTrue)
				convey.So(got.Appointments, convey.ShouldBeEmpty)

				raw, _ := os.ReadFile(filepath.Join(dir, loader.AppointmentsFile))
				convey.So(string(raw), convey.ShouldEqual, "[]\n")
			})
		})
	})
}
