package datagen

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/okian/toca/internal/adapters/loader"
	"github.com/okian/toca/pkg/logger"
)

// Run generates a dataset, writes it when cfg.OutputDir is set, and, when
// cfg.BaseURL is set, drives a running service with live session submissions.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	if cfg.OutputDir == "" && cfg.BaseURL == "" {
		return stats, errors.New("nothing to do: set an output directory or a service URL")
	}

	log.Info(ctx, "starting data generation",
		logger.String("outputDir", cfg.OutputDir),
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("players", cfg.Players),
		logger.Int("workers", cfg.Workers))

	if cfg.OutputDir != "" {
		d, err := Generate(ctx, cfg, stats)
		if err != nil {
			return stats, fmt.Errorf("dataset generation failed: %w", err)
		}
		if err := loader.Write(cfg.OutputDir, d); err != nil {
			return stats, fmt.Errorf("writing dataset failed: %w", err)
		}
		log.Info(ctx, "dataset written", logger.String("dir", cfg.OutputDir))
	}

	if cfg.BaseURL != "" {
		if err := cfg.Validate(); err != nil {
			return stats, fmt.Errorf("invalid config: %w", err)
		}
		if err := drive(ctx, cfg, stats); err != nil {
			return stats, err
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	return stats, nil
}

// drive submits live sessions for the players a running service knows about,
// reads them back, and checks the resulting leaderboard order.
func drive(ctx context.Context, cfg *Config, stats *Stats) error {
	log := logger.Get()
	c := NewClient(cfg.BaseURL, cfg.Timeout)

	if err := c.Health(ctx); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	players, err := c.Leaderboard(ctx, 0)
	if err != nil {
		return fmt.Errorf("listing players failed: %w", err)
	}
	if len(players) == 0 {
		return errors.New("service has no players to submit sessions for")
	}
	ids := make([]string, len(players))
	for i, p := range players {
		ids[i] = p.PlayerID
	}

	sessions := LiveSessions(cfg, ids, cfg.Submit)
	if err := submitSessions(ctx, cfg, c, sessions, stats); err != nil {
		return fmt.Errorf("session submission failed: %w", err)
	}

	log.Info(ctx, "waiting for sessions to be processed", logger.Duration("delay", cfg.SettleDelay))
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(cfg.SettleDelay):
	}

	if err := retrieveSessions(ctx, cfg, c, sessions, stats); err != nil {
		return fmt.Errorf("session read-back failed: %w", err)
	}

	top, err := c.Leaderboard(ctx, cfg.TopN)
	if err != nil {
		return fmt.Errorf("leaderboard retrieval failed: %w", err)
	}
	stats.LeaderboardEntries = len(top)
	if err := verifyLeaderboard(top); err != nil {
		return fmt.Errorf("leaderboard verification failed: %w", err)
	}
	displayTopPerformers(ctx, top, cfg.TopN)
	return nil
}

// displayFinalStats logs the run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.SessionsSubmitted) / stats.Duration.Seconds()
	}
	logger.Get().Info(ctx, "final statistics",
		logger.String("profiles", humanize.Comma(int64(stats.Profiles))),
		logger.String("sessions", humanize.Comma(int64(stats.Sessions))),
		logger.String("appointments", humanize.Comma(int64(stats.Appointments))),
		logger.Int("submitted", stats.SessionsSubmitted),
		logger.Int("accepted", stats.SessionsAccepted),
		logger.Int("duplicate", stats.SessionsDuplicate),
		logger.Int("failed", stats.SessionsFailed),
		logger.Int("retrieved", stats.SessionsRetrieved),
		logger.Int("leaderboardEntries", stats.LeaderboardEntries),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("sessionsPerSecond", perSecond))
}
