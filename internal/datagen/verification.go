package datagen

import (
	"context"
	"fmt"

	"github.com/okian/toca/internal/domain/model"
	"github.com/okian/toca/pkg/logger"
)

// verifyLeaderboard checks that ranks run 1..n and entries are ordered by
// average score, then total goals, both descending.
func verifyLeaderboard(lb []model.LeaderboardEntry) error {
	for i, e := range lb {
		if e.Rank != i+1 {
			return fmt.Errorf("entry %d has rank %d", i, e.Rank)
		}
		if i == 0 {
			continue
		}
		prev := lb[i-1]
		switch {
		case e.AvgScore > prev.AvgScore:
			return fmt.Errorf("leaderboard not sorted: rank %d scores %.1f above rank %d at %.1f",
				e.Rank, e.AvgScore, prev.Rank, prev.AvgScore)
		case e.AvgScore == prev.AvgScore && e.TotalGoals > prev.TotalGoals:
			return fmt.Errorf("leaderboard tie not broken by goals at rank %d", e.Rank)
		}
	}
	return nil
}

// displayTopPerformers logs the head of the leaderboard.
func displayTopPerformers(ctx context.Context, lb []model.LeaderboardEntry, n int) {
	n = min(n, len(lb))
	log := logger.Get()
	for _, e := range lb[:n] {
		log.Info(ctx, "leaderboard",
			logger.Int("rank", e.Rank),
			logger.String("player", e.FirstName+" "+e.LastName),
			logger.Float64("avgScore", e.AvgScore),
			logger.Int("totalGoals", e.TotalGoals),
			logger.Int("sessions", e.TotalSessions))
	}
}
