package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/okian/toca/internal/datagen"
	"github.com/okian/toca/pkg/logger"
)

const defaultRunTimeout = 10 * time.Minute

func main() {
	def := datagen.DefaultConfig()
	var (
		outDir       = flag.String("out", "", "Directory to write the data files to")
		players      = flag.Int("players", def.Players, "Number of player profiles")
		minSessions  = flag.Int("min-sessions", def.MinSessions, "Fewest past sessions per player")
		maxSessions  = flag.Int("max-sessions", def.MaxSessions, "Most past sessions per player")
		appointments = flag.Int("appointments", def.MaxAppointments, "Most future appointments per player")
		pastDays     = flag.Int("past-days", def.PastDays, "How far back sessions reach")
		futureDays   = flag.Int("future-days", def.FutureDays, "How far ahead appointments reach")
		trainers     = flag.String("trainers", strings.Join(def.Trainers, ","), "Comma-separated trainer names")
		centers      = flag.String("centers", strings.Join(def.Centers, ","), "Comma-separated center names")
		tz           = flag.String("tz", "", "IANA zone for the hour grid (default local)")
		seed         = flag.Uint64("seed", 0, "Random seed (default from clock)")
		baseURL      = flag.String("url", "", "Base URL of a running service")
		submit       = flag.Int("submit", def.Submit, "Number of live sessions to submit")
		topN         = flag.Int("top", def.TopN, "Leaderboard entries to fetch and verify")
		workers      = flag.Int("workers", def.Workers, "Concurrent HTTP workers")
		timeout      = flag.Duration("timeout", def.Timeout, "HTTP request timeout")
		settle       = flag.Duration("settle", def.SettleDelay, "Wait between submission and read-back")
		logFile      = flag.String("log", "", "Also write log output to this file")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
		help         = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		datagen.ShowHelp()
		return
	}

	if err := datagen.SetupLogging(*logFile, *verbose); err != nil {
		os.Stderr.WriteString("failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	loc := time.Local
	if *tz != "" {
		l, err := time.LoadLocation(*tz)
		if err != nil {
			os.Stderr.WriteString("invalid -tz: " + err.Error() + "\n")
			os.Exit(1)
		}
		loc = l
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	cfg := def
	cfg.OutputDir = *outDir
	cfg.Players = *players
	cfg.MinSessions = *minSessions
	cfg.MaxSessions = *maxSessions
	cfg.MaxAppointments = *appointments
	cfg.PastDays = *pastDays
	cfg.FutureDays = *futureDays
	cfg.Trainers = splitList(*trainers)
	cfg.Centers = splitList(*centers)
	cfg.Location = loc
	cfg.Seed = *seed
	cfg.BaseURL = strings.TrimRight(*baseURL, "/")
	cfg.Submit = *submit
	cfg.TopN = *topN
	cfg.Workers = *workers
	cfg.Timeout = *timeout
	cfg.SettleDelay = *settle
	cfg.Verbose = *verbose

	if _, err := datagen.Run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "data generation failed", logger.Error(err))
		os.Exit(1)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
