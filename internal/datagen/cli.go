package datagen

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/toca/pkg/logger"
)

// SetupLogging initializes the global logger. When logFile is set, output
// goes to both stdout and the file.
func SetupLogging(logFile string, verbose bool) error {
	var out io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, file)
	}
	if err := logger.Init(logger.WithOutput(out)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the data generation tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`TOCA Data Generator
===================

Generates seed data files for the analytics service and optionally drives
a running instance with live session submissions.

Usage:
  go run ./cmd/gen-data [options]

Options:
  -out string
        Directory to write profiles.json, trainingSessions.json and appointments.json
  -players int
        Number of player profiles (default 40)
  -min-sessions int / -max-sessions int
        Past sessions per player (default 3..25)
  -appointments int
        Most future appointments per player (default 3)
  -past-days int / -future-days int
        How far back sessions and ahead appointments reach (default 90 / 21)
  -tz string
        IANA zone the hour grid is laid out in (default local)
  -seed uint
        Random seed for reproducible output (default from clock)
  -url string
        Base URL of a running service to submit live sessions to
  -submit int
        Number of live sessions to submit (default 200)
  -top int
        Leaderboard entries to fetch and verify (default 20)
  -workers int
        Concurrent HTTP workers (default 8)
  -timeout duration
        HTTP request timeout (default 10s)
  -settle duration
        Wait between submission and read-back (default 2s)
  -log string
        Also write log output to this file
  -verbose
        Enable debug logging and per-request failures
  -help
        Show this help message

Examples:
  # Seed a data directory
  go run ./cmd/gen-data -out ./data -players 100 -seed 42

  # Exercise a running service
  go run ./cmd/gen-data -url http://localhost:3001 -submit 5000 -workers 16
`)
}
