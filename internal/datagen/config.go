package datagen

import (
	"errors"
	"time"
)

// Config holds configuration for a generation run.
type Config struct {
	OutputDir       string         // Directory the three data files are written to; empty skips writing
	Players         int            // Number of player profiles
	MinSessions     int            // Fewest past sessions per player
	MaxSessions     int            // Most past sessions per player
	MaxAppointments int            // Most future appointments per player
	PastDays        int            // How far back sessions reach
	FutureDays      int            // How far ahead appointments reach
	Trainers        []string       // Trainer names sessions and appointments are spread over
	Centers         []string       // Training center names
	StartHour       int            // First bookable hour of the day
	EndHour         int            // Hour the last slot ends
	Location        *time.Location // Zone the hour grid is laid out in
	Now             time.Time      // Reference instant; zero means time.Now()
	Seed            uint64         // Random seed; zero picks one from the clock

	BaseURL     string        // Running service to submit live sessions to; empty skips submission
	Submit      int           // Number of live sessions to submit
	TopN        int           // Leaderboard entries to fetch and verify
	Workers     int           // Concurrent HTTP workers
	Timeout     time.Duration // HTTP request timeout
	SettleDelay time.Duration // Wait between submission and read-back
	Verbose     bool          // Log every failed request
}

// Stats holds run statistics.
type Stats struct {
	Profiles           int
	Sessions           int
	Appointments       int
	SessionsSubmitted  int
	SessionsAccepted   int
	SessionsDuplicate  int
	SessionsFailed     int
	SessionsRetrieved  int
	LeaderboardEntries int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}

// ackResponse mirrors the body of POST /api/training-sessions.
type ackResponse struct {
	Status    string `json:"status"`
	ID        string `json:"id"`
	Duplicate bool   `json:"duplicate"`
}

// DefaultConfig returns a configuration that produces a small but varied dataset.
func DefaultConfig() *Config {
	return &Config{
		Players:         defaultPlayers,
		MinSessions:     defaultMinSessions,
		MaxSessions:     defaultMaxSessions,
		MaxAppointments: defaultMaxAppointments,
		PastDays:        defaultPastDays,
		FutureDays:      defaultFutureDays,
		Trainers:        append([]string(nil), defaultTrainers...),
		Centers:         append([]string(nil), defaultCenters...),
		StartHour:       defaultStartHour,
		EndHour:         defaultEndHour,
		Location:        time.Local,
		Submit:          defaultSubmit,
		TopN:            defaultTopN,
		Workers:         defaultWorkers,
		Timeout:         defaultTimeout,
		SettleDelay:     defaultSettleDelay,
	}
}

// Validate checks the configuration for values generation cannot work with.
func (c *Config) Validate() error {
	var errs []error
	if c.Players < 1 {
		errs = append(errs, errors.New("players must be positive"))
	}
	if c.MinSessions < 0 || c.MaxSessions < c.MinSessions {
		errs = append(errs, errors.New("sessions range must satisfy 0 <= min <= max"))
	}
	if c.MaxAppointments < 0 {
		errs = append(errs, errors.New("appointments must not be negative"))
	}
	if c.PastDays < 1 || c.FutureDays < 1 {
		errs = append(errs, errors.New("past and future days must be positive"))
	}
	if len(c.Trainers) == 0 {
		errs = append(errs, errors.New("at least one trainer is required"))
	}
	if len(c.Centers) == 0 {
		errs = append(errs, errors.New("at least one center is required"))
	}
	if c.StartHour < 0 || c.EndHour > 24 || c.EndHour <= c.StartHour {
		errs = append(errs, errors.New("hours must satisfy 0 <= start < end <= 24"))
	}
	if c.BaseURL != "" {
		if c.Submit < 0 || c.TopN < 1 || c.Workers < 1 || c.Timeout <= 0 {
			errs = append(errs, errors.New("submit, top, workers and timeout must be positive"))
		}
	}
	return errors.Join(errs...)
}

func (c *Config) now() time.Time {
	if c.Now.IsZero() {
		return time.Now()
	}
	return c.Now
}

func (c *Config) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}
