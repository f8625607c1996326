// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/okian/toca/internal/adapters/mq/queue"
	"github.com/okian/toca/internal/adapters/mq/worker"
	"github.com/okian/toca/internal/adapters/repository"
	"github.com/okian/toca/internal/domain/analytics"
	"github.com/okian/toca/internal/domain/booking"
	"github.com/okian/toca/internal/domain/dedupe"
	"github.com/okian/toca/internal/domain/model"
	"github.com/okian/toca/internal/domain/query"
	"github.com/okian/toca/internal/domain/scheduling"
	"github.com/okian/toca/internal/domain/tags"
	"github.com/okian/toca/internal/domain/temporal"
	"github.com/okian/toca/pkg/logger"
	"github.com/okian/toca/pkg/metrics"
)

// Service owns the record store and serializes every access to it.
// Reads share the lock; bookings, cancellations, ingested sessions and
// reloads take it exclusively, so a slot observed as free stays free until
// the booking that observed it is stored.
type Service struct {
	mu    sync.RWMutex
	store repository.Store

	// lifecycle guards the ingestion components below.
	lifecycle sync.Mutex
	started   bool
	deduper   dedupe.Deduper
	queue     *queue.InMemoryQueue
	pool      *worker.Pool

	load         Loader
	clock        temporal.Clock
	grid         scheduling.Grid
	recentWindow time.Duration
	newID        booking.IDFunc

	workerCount int
	queueSize   int
	dedupeSize  int

	logger logger.Logger
}

// BookingRequest is a player's request for a trainer slot.
type BookingRequest struct {
	PlayerID    string
	TrainerName string
	Start       time.Time
	End         time.Time
}

// Submission reports what happened to a submitted session.
type Submission struct {
	SessionID string
	Duplicate bool
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		clock:        temporal.SystemClock{},
		grid:         scheduling.DefaultGrid(),
		recentWindow: analytics.DefaultRecentWindow,
		newID:        booking.NewID,
		workerCount:  runtime.NumCPU(),
		queueSize:    queue.DefaultCapacity,
		dedupeSize:   dedupe.DefaultMaxSize,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// Start loads the records (when a loader is configured) and starts the
// ingestion workers. Workers stop when ctx is canceled or on Stop.
func (s *Service) Start(ctx context.Context) error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if s.started {
		return nil
	}

	if s.load != nil {
		if err := s.reload(ctx); err != nil {
			return fmt.Errorf("start: %w", err)
		}
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, appender{s}, worker.WithLogger(s.logger))
	s.pool.Start(ctx)

	s.started = true
	counts := s.Counts()
	s.logger.Info(ctx, "service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("profiles", counts.Profiles),
		logger.Int("sessions", counts.Sessions),
		logger.Int("appointments", counts.Appointments),
	)
	return nil
}

// Stop closes the ingestion queue and waits for the workers to drain it.
func (s *Service) Stop(ctx context.Context) error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if !s.started {
		return nil
	}

	// workers still draining after a timeout keep the service started
	if err := s.pool.Shutdown(ctx); err != nil {
		return fmt.Errorf("stop: %w", err)
	}
	s.started = false
	s.logger.Info(ctx, "service stopped")
	return nil
}

// Reload replaces the store with a freshly loaded one. Bookings and
// ingested sessions that are not in the data source are dropped.
func (s *Service) Reload(ctx context.Context) error {
	return s.reload(ctx)
}

func (s *Service) reload(ctx context.Context) error {
	if s.load == nil {
		return ErrNoLoader
	}
	store, err := s.load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.store = store
	s.mu.Unlock()

	if p, ok := store.(interface{ Publish() }); ok {
		p.Publish()
	}
	metrics.RecordStoreReload()

	counts := store.Counts()
	s.logger.Info(ctx, "records loaded",
		logger.Int("profiles", counts.Profiles),
		logger.Int("sessions", counts.Sessions),
		logger.Int("appointments", counts.Appointments),
	)
	return nil
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time { return s.clock.Now() }

// Location is the zone dates are interpreted in.
func (s *Service) Location() *time.Location {
	if s.grid.Location == nil {
		return time.Local
	}
	return s.grid.Location
}

// Counts reports the size of each collection.
func (s *Service) Counts() repository.Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Counts()
}

// PlayerByEmail finds a profile by email, ignoring case.
func (s *Service) PlayerByEmail(_ context.Context, email string) (model.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return query.FindPlayerByEmail(s.store, email)
}

// Player finds a profile by id.
func (s *Service) Player(_ context.Context, id string) (model.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return query.FindPlayerByID(s.store, id)
}

// Summary computes the dashboard summary of a player.
func (s *Service) Summary(_ context.Context, playerID string) model.PlayerSummary {
	defer observe("summary", time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()
	return analytics.Summarize(s.store, playerID, s.clock.Now(), analytics.WithRecentWindow(s.recentWindow))
}

// Leaderboard ranks every player and keeps the first limit entries
// (all of them when limit <= 0).
func (s *Service) Leaderboard(_ context.Context, limit int) []model.LeaderboardEntry {
	defer observe("leaderboard", time.Now())

	s.mu.RLock()
	entries := analytics.Leaderboard(s.store, s.clock.Now())
	s.mu.RUnlock()
	return analytics.Top(entries, limit)
}

// Trainers lists every trainer name seen in sessions or appointments.
func (s *Service) Trainers(_ context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return query.DistinctTrainerNames(s.store)
}

// Sessions lists a player's sessions, newest first.
func (s *Service) Sessions(_ context.Context, playerID string, filter query.SessionFilter) []model.TrainingSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return query.SessionsForPlayer(s.store, playerID, filter, s.clock.Now())
}

// Session returns one session with its highlight tags.
func (s *Service) Session(_ context.Context, id string) (model.TrainingSession, []model.SessionTag, bool) {
	s.mu.RLock()
	ts, ok := query.SessionByID(s.store, id)
	s.mu.RUnlock()
	if !ok {
		return model.TrainingSession{}, nil, false
	}
	return ts, tags.ForSession(ts), true
}

// Appointments lists a player's appointments, soonest first.
func (s *Service) Appointments(_ context.Context, playerID string, filter query.AppointmentFilter) []model.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return query.AppointmentsForPlayer(s.store, playerID, filter, s.clock.Now())
}

// Schedule lays out the slots of date. With trainerName set only that
// trainer's schedule is returned; availableOnly drops taken and past slots.
func (s *Service) Schedule(_ context.Context, date time.Time, trainerName string, availableOnly bool) []model.TrainerSchedule {
	defer observe("schedule", time.Now())

	s.mu.RLock()
	now := s.clock.Now()
	var out []model.TrainerSchedule
	if trainerName != "" {
		out = []model.TrainerSchedule{s.grid.TrainerSchedule(s.store, trainerName, date, now)}
	} else {
		out = s.grid.AllTrainerSchedules(s.store, date, now)
	}
	s.mu.RUnlock()

	if availableOnly {
		for i := range out {
			out[i] = scheduling.AvailableSlots(out[i])
		}
	}
	return out
}

// BookAppointment validates the request and stores a new appointment.
// Validation, the trainer conflict check and the insert share one critical
// section.
func (s *Service) BookAppointment(ctx context.Context, req BookingRequest) (model.Appointment, error) {
	if strings.TrimSpace(req.TrainerName) == "" {
		metrics.RecordBookingRejected("invalid")
		return model.Appointment{}, fmt.Errorf("%w: trainer name is required", ErrInvalidBooking)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := booking.Validate(req.Start, req.End, s.clock.Now()); err != nil {
		metrics.RecordBookingRejected(rejectReason(err))
		return model.Appointment{}, fmt.Errorf("%w: %w", ErrInvalidBooking, err)
	}
	if _, ok := query.FindPlayerByID(s.store, req.PlayerID); !ok {
		return model.Appointment{}, ErrPlayerNotFound
	}
	for _, a := range s.store.Appointments() {
		if a.TrainerName == req.TrainerName && scheduling.Overlaps(a.StartTime, a.EndTime, req.Start, req.End) {
			metrics.RecordBookingRejected("slot_taken")
			return model.Appointment{}, ErrSlotTaken
		}
	}

	a := booking.Create(s.store, s.newID, req.PlayerID, req.TrainerName, req.Start, req.End)
	metrics.RecordAppointmentCreated()
	s.logger.Info(ctx, "appointment booked",
		logger.String("appointmentId", a.ID),
		logger.String("playerId", a.PlayerID),
		logger.String("trainerName", a.TrainerName),
		logger.Time("startTime", a.StartTime),
	)
	return a, nil
}

// CancelAppointment removes a player's appointment. It returns false when
// the appointment does not exist or belongs to another player.
func (s *Service) CancelAppointment(ctx context.Context, playerID, appointmentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	owned := false
	for _, a := range s.store.Appointments() {
		if a.ID == appointmentID {
			owned = a.PlayerID == playerID
			break
		}
	}
	if !owned || !booking.Cancel(s.store, appointmentID) {
		return false
	}

	metrics.RecordAppointmentCancelled()
	s.logger.Info(ctx, "appointment cancelled",
		logger.String("appointmentId", appointmentID),
		logger.String("playerId", playerID),
	)
	return true
}

// SubmitSession validates a newly recorded session and queues it for
// ingestion. A session id seen before is reported as a duplicate and not
// queued again.
func (s *Service) SubmitSession(ctx context.Context, ts model.TrainingSession) (Submission, error) { //nolint:gocritic // hugeParam: sessions travel by value
	if ts.ID == "" {
		ts.ID = s.newID()
	}
	if err := validateSession(ts); err != nil {
		return Submission{}, err
	}

	s.lifecycle.Lock()
	started, d, q := s.started, s.deduper, s.queue
	s.lifecycle.Unlock()
	if !started {
		return Submission{}, ErrNotStarted
	}

	s.mu.RLock()
	_, known := query.FindPlayerByID(s.store, ts.PlayerID)
	_, stored := query.SessionByID(s.store, ts.ID)
	s.mu.RUnlock()
	if !known {
		return Submission{}, ErrPlayerNotFound
	}
	if stored || d.SeenAndRecord(ctx, ts.ID) {
		metrics.RecordSessionDuplicate()
		return Submission{SessionID: ts.ID, Duplicate: true}, nil
	}

	if err := q.Enqueue(ctx, ts); err != nil {
		// let the client retry the same id
		d.Unrecord(ctx, ts.ID)
		return Submission{}, err
	}
	return Submission{SessionID: ts.ID}, nil
}

// appendSession is the write side of ingestion.
func (s *Service) appendSession(ts model.TrainingSession) error { //nolint:gocritic // hugeParam: sessions travel by value
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.AppendSession(ts)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	counts := s.Counts()

	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	stats := map[string]any{
		"started":      s.started,
		"workerCount":  s.workerCount,
		"queueSize":    s.queueSize,
		"dedupeSize":   s.dedupeSize,
		"profiles":     counts.Profiles,
		"sessions":     counts.Sessions,
		"appointments": counts.Appointments,
	}
	if s.started {
		queueLen := s.queue.Len()
		stats["queueLength"] = queueLen
		stats["queueClosed"] = s.queue.IsClosed()
		stats["dedupeEntries"] = s.deduper.Size()
		metrics.UpdateQueueSize(queueLen)
	}
	return stats
}

// appender hands ingested sessions back to the service's write lock.
type appender struct{ s *Service }

func (a appender) AppendSession(_ context.Context, ts worker.Session) error { //nolint:gocritic // hugeParam: sessions travel by value
	return a.s.appendSession(ts)
}

func validateSession(ts model.TrainingSession) error { //nolint:gocritic // hugeParam: sessions travel by value
	var problem string
	switch {
	case ts.PlayerID == "":
		problem = "playerId is required"
	case strings.TrimSpace(ts.TrainerName) == "":
		problem = "trainerName is required"
	case !ts.EndTime.After(ts.StartTime):
		problem = "endTime must be after startTime"
	case ts.Score < 0 || ts.Score > 100:
		problem = "score must lie within 0..100"
	case ts.AvgSpeedOfPlay < 0:
		problem = "avgSpeedOfPlay must not be negative"
	case ts.NumberOfBalls < 0 || ts.NumberOfGoals < 0 || ts.BestStreak < 0 || ts.NumberOfExercises < 0:
		problem = "counts must not be negative"
	case ts.NumberOfGoals > ts.NumberOfBalls:
		problem = "numberOfGoals exceeds numberOfBalls"
	default:
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidSession, problem)
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, booking.ErrStartInPast):
		return "in_past"
	case errors.Is(err, booking.ErrEndBeforeStart):
		return "end_before_start"
	default:
		return "invalid"
	}
}

func observe(operation string, start time.Time) {
	metrics.RecordComputeLatency(operation, float64(time.Since(start).Microseconds())/1000)
}
