// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers file and environment on top.
// - Validation errors wrap ErrInvalidConfig so callers can errors.Is them.
package config

import (
	"runtime"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":3001".
	Addr string `koanf:"addr"`

	// DataDir holds profiles.json, trainingSessions.json and appointments.json.
	DataDir string `koanf:"data_dir"`

	// Timezone names the location the booking grid is laid out in.
	Timezone string `koanf:"timezone"`

	// ScheduleStartHour and ScheduleEndHour bound the daily booking grid [start, end).
	ScheduleStartHour int `koanf:"schedule_start_hour"`
	ScheduleEndHour   int `koanf:"schedule_end_hour"`

	// RecentWindowDays is the trailing window of the dashboard's recent stats.
	RecentWindowDays int `koanf:"recent_window_days"`

	// IngestQueueSize bounds the session ingestion queue.
	IngestQueueSize int `koanf:"ingest_queue_size"`

	// WorkerCount sets the number of ingestion workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the session id deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxLeaderboardLimit caps GET /api/players/leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// ShutdownTimeoutSec bounds graceful HTTP shutdown.
	ShutdownTimeoutSec int `koanf:"shutdown_timeout_sec"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":3001",
		DataDir:             "./data",
		Timezone:            "Local",
		ScheduleStartHour:   9,
		ScheduleEndHour:     17,
		RecentWindowDays:    30,
		IngestQueueSize:     10_000,
		WorkerCount:         runtime.NumCPU(),
		DedupeSize:          50_000,
		MaxLeaderboardLimit: 500,
		ShutdownTimeoutSec:  30,
	}
}

// Location resolves Timezone. Validate has already checked it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// RecentWindow converts RecentWindowDays to a duration.
func (c *Config) RecentWindow() time.Duration {
	return time.Duration(c.RecentWindowDays) * 24 * time.Hour
}

// ShutdownTimeout converts ShutdownTimeoutSec to a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSec) * time.Second
}
