// Package analytics derives dashboard summaries and the leaderboard from
// session history. Results are recomputed on every call.
package analytics

import (
	"time"

	"github.com/okian/toca/internal/domain/model"
	"github.com/okian/toca/internal/domain/query"
)

// Summarize aggregates the player's past sessions. An unknown player gets
// the zero summary.
func Summarize(r query.Records, playerID string, now time.Time, opts ...Option) model.PlayerSummary {
	cfg := newSettings(opts)
	past := query.SessionsForPlayer(r, playerID, query.SessionsPast, now)

	summary := model.PlayerSummary{
		TotalSessions: len(past),
		AvgScore:      avgScore(past),
	}
	if len(past) == 0 {
		return summary
	}

	for _, s := range past {
		if s.BestStreak > summary.BestStreakRecord {
			summary.BestStreakRecord = s.BestStreak
		}
	}

	last := past[0]
	summary.LastSession = &model.LastSession{
		ID:          last.ID,
		Date:        last.StartTime,
		Score:       last.Score,
		TrainerName: last.TrainerName,
	}

	// past is newest first, so the window is a prefix.
	cutoff := now.Add(-cfg.recentWindow)
	n := 0
	for n < len(past) && !past[n].StartTime.Before(cutoff) {
		n++
	}
	recent := past[:n]
	summary.Last30Days = model.RecentStats{
		TotalSessions: len(recent),
		AvgScore:      avgScore(recent),
	}
	for _, s := range recent {
		summary.Last30Days.TotalBalls += s.NumberOfBalls
		summary.Last30Days.TotalGoals += s.NumberOfGoals
	}
	return summary
}

func avgScore(sessions []model.TrainingSession) float64 {
	if len(sessions) == 0 {
		return 0
	}
	var sum float64
	for _, s := range sessions {
		sum += s.Score
	}
	return Round(sum/float64(len(sessions)), scorePlaces)
}
