package service

import (
	"context"
	"time"

	"github.com/okian/toca/internal/adapters/loader"
	"github.com/okian/toca/internal/adapters/repository"
	"github.com/okian/toca/internal/domain/booking"
	"github.com/okian/toca/internal/domain/scheduling"
	"github.com/okian/toca/internal/domain/temporal"
	"github.com/okian/toca/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// Loader produces a freshly seeded store. It runs on Start and on Reload.
type Loader func(ctx context.Context) (repository.Store, error)

// WithStore seeds the service with an existing store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLoader sets the function that (re)loads the records.
func WithLoader(l Loader) Option {
	return func(s *Service) {
		s.load = l
	}
}

// WithDataDir loads records from the JSON files in dir.
func WithDataDir(dir string) Option {
	return WithLoader(func(ctx context.Context) (repository.Store, error) {
		d, err := loader.Read(ctx, dir)
		if err != nil {
			return nil, err
		}
		return d.Store(repository.WithoutMetrics()), nil
	})
}

// WithClock sets the source of "now".
func WithClock(c temporal.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithGrid sets the daily booking grid.
func WithGrid(g scheduling.Grid) Option {
	return func(s *Service) {
		if g.EndHour > g.StartHour {
			s.grid = g
		}
	}
}

// WithRecentWindow sets the trailing window of the summary's recent stats.
func WithRecentWindow(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.recentWindow = d
		}
	}
}

// WithIDFunc sets the appointment id generator.
func WithIDFunc(f booking.IDFunc) Option {
	return func(s *Service) {
		if f != nil {
			s.newID = f
		}
	}
}

// WithWorkerCount sets the number of ingestion workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the ingestion queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the session id deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
