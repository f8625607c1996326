package config_test

import (
	"context"
	"errors"
	"os"
	"runtime"
	"testing"
	"time"

	"github.com/okian/toca/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":3001")
			convey.So(cfg.DataDir, convey.ShouldEqual, "./data")
			convey.So(cfg.ScheduleStartHour, convey.ShouldEqual, 9)
			convey.So(cfg.ScheduleEndHour, convey.ShouldEqual, 17)
			convey.So(cfg.RecentWindowDays, convey.ShouldEqual, 30)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.RecentWindow(), convey.ShouldEqual, 30*24*time.Hour)
			convey.So(cfg.ShutdownTimeout(), convey.ShouldEqual, 30*time.Second)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":3001")
				convey.So(cfg.Timezone, convey.ShouldEqual, "Local")
				convey.So(cfg.IngestQueueSize, convey.ShouldEqual, 10_000)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("TOCA_ADDR", ":8080")
			_ = os.Setenv("TOCA_DATA_DIR", "/srv/data")
			_ = os.Setenv("TOCA_SCHEDULE_START_HOUR", "8")
			_ = os.Setenv("TOCA_SCHEDULE_END_HOUR", "20")
			_ = os.Setenv("TOCA_TIMEZONE", "UTC")
			_ = os.Setenv("TOCA_WORKER_COUNT", "3")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DataDir, convey.ShouldEqual, "/srv/data")
				convey.So(cfg.ScheduleStartHour, convey.ShouldEqual, 8)
				convey.So(cfg.ScheduleEndHour, convey.ShouldEqual, 20)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 3)
				convey.So(cfg.Location(), convey.ShouldEqual, time.UTC)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(`
addr: ":9090"
log_format: json
recent_window_days: 14
schedule_end_hour: 18
`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("TOCA_CONFIG", tmpFile)
			_ = os.Setenv("TOCA_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")       // env
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")   // file
				convey.So(cfg.RecentWindowDays, convey.ShouldEqual, 14) // file
				convey.So(cfg.ScheduleEndHour, convey.ShouldEqual, 18)  // file
				convey.So(cfg.ScheduleStartHour, convey.ShouldEqual, 9) // default
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("TOCA_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("TOCA_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("TOCA_WORKER_COUNT", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigValidation(t *testing.T) {
	convey.Convey("Given config validation", t, func() {
		ctx := context.Background()

		cases := []struct {
			name  string
			key   string
			value string
			msg   string
		}{
			{"empty addr", "TOCA_ADDR", "", "addr must not be empty"},
			{"inverted grid", "TOCA_SCHEDULE_START_HOUR", "18", "schedule_start_hour must be before"},
			{"grid past midnight", "TOCA_SCHEDULE_END_HOUR", "25", "within 0..24"},
			{"zero window", "TOCA_RECENT_WINDOW_DAYS", "0", "recent_window_days must be positive"},
			{"unknown timezone", "TOCA_TIMEZONE", "Mars/Olympus_Mons", "timezone"},
		}

		for _, tc := range cases {
			convey.Convey("When loading with "+tc.name, func() {
				_ = os.Setenv(tc.key, tc.value)
				defer clearConfigEnvVars()

				cfg, err := config.Load(ctx)

				convey.Convey("Then it should return a validation error", func() {
					convey.So(cfg, convey.ShouldBeNil)
					convey.So(err, convey.ShouldNotBeNil)
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
					convey.So(err.Error(), convey.ShouldContainSubstring, tc.msg)
				})
			})
		}
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"TOCA_CONFIG",
		"TOCA_ADDR",
		"TOCA_DATA_DIR",
		"TOCA_TIMEZONE",
		"TOCA_LOG_FORMAT",
		"TOCA_SCHEDULE_START_HOUR",
		"TOCA_SCHEDULE_END_HOUR",
		"TOCA_RECENT_WINDOW_DAYS",
		"TOCA_WORKER_COUNT",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "toca-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
