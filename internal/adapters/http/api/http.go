// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	service "github.com/okian/toca/internal/app"
	"github.com/okian/toca/internal/domain/model"
	"github.com/okian/toca/internal/domain/query"
	"github.com/okian/toca/pkg/logger"
	"github.com/okian/toca/pkg/metrics"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	StatsProvider

	// Now and Location define "today" for date parameters and ages.
	Now() time.Time
	Location() *time.Location

	PlayerByEmail(ctx context.Context, email string) (model.Profile, bool)
	Player(ctx context.Context, id string) (model.Profile, bool)
	Summary(ctx context.Context, playerID string) model.PlayerSummary
	Leaderboard(ctx context.Context, limit int) []model.LeaderboardEntry
	Trainers(ctx context.Context) []string

	Sessions(ctx context.Context, playerID string, filter query.SessionFilter) []model.TrainingSession
	Session(ctx context.Context, id string) (model.TrainingSession, []model.SessionTag, bool)
	SubmitSession(ctx context.Context, ts model.TrainingSession) (service.Submission, error)

	Appointments(ctx context.Context, playerID string, filter query.AppointmentFilter) []model.Appointment
	BookAppointment(ctx context.Context, req service.BookingRequest) (model.Appointment, error)
	CancelAppointment(ctx context.Context, playerID, appointmentID string) bool

	Schedule(ctx context.Context, date time.Time, trainerName string, availableOnly bool) []model.TrainerSchedule

	// Reload replaces the records with a fresh copy of the data source.
	Reload(ctx context.Context) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	logger   logger.Logger
	maxLimit int

	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	playersHandler      *PlayersHandler
	sessionsHandler     *SessionsHandler
	appointmentsHandler *AppointmentsHandler
	scheduleHandler     *ScheduleHandler
	adminHandler        *AdminHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{maxLimit: defaultMaxLimit}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("http")
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(deps)
	s.playersHandler = NewPlayersHandler(deps, s.maxLimit)
	s.sessionsHandler = NewSessionsHandler(deps, s.logger)
	s.appointmentsHandler = NewAppointmentsHandler(deps)
	s.scheduleHandler = NewScheduleHandler(deps)
	s.adminHandler = NewAdminHandler(deps, s.logger)
	return s
}

// Router builds the chi router with every route and middleware attached.
// Callers may mount further routes on the result.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)
	r.Use(MetricsMiddleware)

	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Get("/health", s.healthHandler.HandleHealth)
	r.Get("/stats", s.statsHandler.HandleStats)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/players", func(r chi.Router) {
			r.Get("/leaderboard", s.playersHandler.HandleLeaderboard)
			r.Get("/trainers", s.playersHandler.HandleTrainers)
			r.Get("/by-email", s.playersHandler.HandleByEmail)

			r.Route("/{playerId}", func(r chi.Router) {
				r.Use(s.playersHandler.playerCtx)
				r.Get("/", s.playersHandler.HandleProfile)
				r.Get("/summary", s.playersHandler.HandleSummary)
				r.Get("/training-sessions", s.sessionsHandler.HandleList)
				r.Get("/training-sessions/export", s.sessionsHandler.HandleExport)
				r.Get("/appointments", s.appointmentsHandler.HandleList)
				r.Post("/appointments", s.appointmentsHandler.HandleCreate)
				r.Delete("/appointments/{appointmentId}", s.appointmentsHandler.HandleCancel)
			})
		})

		r.Get("/training-sessions/{sessionId}", s.sessionsHandler.HandleGet)
		r.Post("/training-sessions", s.sessionsHandler.HandleSubmit)
		r.Get("/schedule", s.scheduleHandler.HandleSchedule)
	})

	r.Post("/admin/reload", s.adminHandler.HandleReload)
	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code and writes the JSON error body.
// Internal errors are not echoed to the client.
func writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	msg := http.StatusText(status)
	if status != http.StatusInternalServerError {
		var apiErr *Error
		if errors.As(err, &apiErr) {
			msg = apiErr.message()
		} else if err != nil {
			msg = err.Error()
		}
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// validID reports whether s is a canonical UUID.
func validID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil && len(s) == 36
}
