package datagen

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/toca/internal/adapters/loader"
	"github.com/okian/toca/internal/domain/analytics"
	"github.com/okian/toca/internal/domain/model"
	"github.com/okian/toca/internal/domain/temporal"
	"github.com/okian/toca/pkg/logger"
)

// generator draws every record from one seeded source so a seed reproduces
// the dataset. Trainer slots are tracked so no trainer is booked twice.
type generator struct {
	cfg  *Config
	rng  *rand.Rand
	now  time.Time
	busy map[string]struct{}
}

func newGenerator(cfg *Config) *generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &generator{
		cfg:  cfg,
		rng:  rand.New(rand.NewPCG(seed, seed>>1|1)),
		now:  cfg.now(),
		busy: make(map[string]struct{}),
	}
}

// Generate builds a complete dataset: profiles, past sessions on the hour
// grid and future appointments that never double-book a trainer.
func Generate(ctx context.Context, cfg *Config, stats *Stats) (loader.Dataset, error) {
	if err := cfg.Validate(); err != nil {
		return loader.Dataset{}, fmt.Errorf("invalid config: %w", err)
	}
	logger.Get().Info(ctx, "generating dataset", logger.Int("players", cfg.Players))

	g := newGenerator(cfg)
	var d loader.Dataset
	for i := 0; i < cfg.Players; i++ {
		if err := ctx.Err(); err != nil {
			return loader.Dataset{}, fmt.Errorf("context cancelled during generation: %w", err)
		}
		p := g.profile(i)
		d.Profiles = append(d.Profiles, p)

		base := g.tierScore()
		n := cfg.MinSessions + g.rng.IntN(cfg.MaxSessions-cfg.MinSessions+1)
		for j := 0; j < n; j++ {
			start, trainer, ok := g.slot(-cfg.PastDays, -1)
			if !ok {
				continue
			}
			d.Sessions = append(d.Sessions, g.session(p.ID, trainer, start, base))
		}

		var days []time.Time
		for j := g.rng.IntN(cfg.MaxAppointments + 1); j > 0; j-- {
			start, trainer, ok := g.slot(1, cfg.FutureDays)
			if !ok || bookedOn(days, start) {
				continue
			}
			days = append(days, start)
			d.Appointments = append(d.Appointments, model.Appointment{
				ID:          uuid.NewString(),
				PlayerID:    p.ID,
				TrainerName: trainer,
				StartTime:   start,
				EndTime:     start.Add(time.Hour),
			})
		}
	}

	if stats != nil {
		stats.Profiles = len(d.Profiles)
		stats.Sessions = len(d.Sessions)
		stats.Appointments = len(d.Appointments)
	}
	logger.Get().Info(ctx, "generated dataset",
		logger.Int("profiles", len(d.Profiles)),
		logger.Int("sessions", len(d.Sessions)),
		logger.Int("appointments", len(d.Appointments)))
	return d, nil
}

// LiveSessions builds n sessions for the given players that ended within the
// last day. They are not tied to the hour grid, matching ad hoc recordings.
func LiveSessions(cfg *Config, playerIDs []string, n int) []model.TrainingSession {
	if len(playerIDs) == 0 || n <= 0 {
		return nil
	}
	g := newGenerator(cfg)
	out := make([]model.TrainingSession, 0, n)
	for i := 0; i < n; i++ {
		start := g.now.Add(-time.Duration(2+g.rng.IntN(22)) * time.Hour).Truncate(time.Minute)
		trainer := cfg.Trainers[g.rng.IntN(len(cfg.Trainers))]
		out = append(out, g.session(playerIDs[g.rng.IntN(len(playerIDs))], trainer, start, g.tierScore()))
	}
	return out
}

func (g *generator) profile(i int) model.Profile {
	first := firstNames[g.rng.IntN(len(firstNames))]
	last := lastNames[g.rng.IntN(len(lastNames))]
	age := minAge + g.rng.IntN(ageRange)
	dob := g.now.AddDate(-age, -g.rng.IntN(12), -g.rng.IntN(28))
	return model.Profile{
		ID:         uuid.NewString(),
		Email:      strings.ToLower(first+"."+last+strconv.Itoa(i+1)) + "@example.com",
		FirstName:  first,
		LastName:   last,
		Phone:      fmt.Sprintf("+1-555-%04d", g.rng.IntN(10000)),
		Gender:     genders[g.rng.IntN(len(genders))],
		DOB:        dob.Format(time.DateOnly),
		CenterName: g.cfg.Centers[g.rng.IntN(len(g.cfg.Centers))],
		CreatedAt:  g.now.AddDate(0, 0, -g.cfg.PastDays-g.rng.IntN(signupDays)).UTC().Truncate(time.Second),
	}
}

// slot picks a free one-hour grid slot for some trainer on a day between
// fromDay and toDay relative to today. It gives up after slotAttempts tries.
func (g *generator) slot(fromDay, toDay int) (time.Time, string, bool) {
	loc := g.cfg.location()
	today := g.now.In(loc)
	hours := g.cfg.EndHour - g.cfg.StartHour
	for attempt := 0; attempt < slotAttempts; attempt++ {
		day := fromDay + g.rng.IntN(toDay-fromDay+1)
		d := today.AddDate(0, 0, day)
		start := time.Date(d.Year(), d.Month(), d.Day(), g.cfg.StartHour+g.rng.IntN(hours), 0, 0, 0, loc)
		trainer := g.cfg.Trainers[g.rng.IntN(len(g.cfg.Trainers))]

		key := trainer + "|" + strconv.FormatInt(start.Unix(), 10)
		if _, taken := g.busy[key]; taken {
			continue
		}
		g.busy[key] = struct{}{}
		return start, trainer, true
	}
	return time.Time{}, "", false
}

// bookedOn reports whether any of days shares t's calendar day.
func bookedOn(days []time.Time, t time.Time) bool {
	for _, d := range days {
		if temporal.SameDate(t, d) {
			return true
		}
	}
	return false
}

// session fills in metrics around a player's base score. Goals never exceed
// balls and the best streak never exceeds goals.
func (g *generator) session(playerID, trainer string, start time.Time, base float64) model.TrainingSession {
	score := base + (g.rng.Float64()*2-1)*scoreJitter
	score = analytics.Round(min(max(score, 0), maxScore), scorePlaces)

	balls := minBalls + g.rng.IntN(ballsRange+1)
	goals := int(float64(balls) * score / maxScore * (0.3 + 0.4*g.rng.Float64()))
	streak := 0
	if goals > 0 {
		streak = 1 + g.rng.IntN(goals)
	}
	return model.TrainingSession{
		ID:                uuid.NewString(),
		PlayerID:          playerID,
		TrainerName:       trainer,
		StartTime:         start,
		EndTime:           start.Add(time.Hour),
		NumberOfBalls:     balls,
		BestStreak:        streak,
		NumberOfGoals:     goals,
		Score:             score,
		AvgSpeedOfPlay:    analytics.Round(minSpeed+g.rng.Float64()*speedRange, speedPlaces),
		NumberOfExercises: minExercises + g.rng.IntN(exercisesRange+1),
	}
}

func (g *generator) tierScore() float64 {
	t := tiers[g.rng.IntN(len(tiers))]
	return t.min + g.rng.Float64()*t.spread
}
