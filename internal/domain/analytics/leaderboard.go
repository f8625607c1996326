package analytics

import (
	"sort"
	"time"

	"github.com/okian/toca/internal/domain/model"
	"github.com/okian/toca/internal/domain/query"
)

// Leaderboard ranks every profile by average score, then total goals.
// Players without sessions get zero-valued entries at the bottom. Entries
// that tie on both keys keep profile order. Ranks run 1..N without gaps.
func Leaderboard(r query.Records, now time.Time) []model.LeaderboardEntry {
	profiles := r.Profiles()
	index := make(map[string]int, len(profiles))
	entries := make([]model.LeaderboardEntry, len(profiles))
	for i, p := range profiles {
		entries[i] = model.LeaderboardEntry{
			PlayerID:   p.ID,
			FirstName:  p.FirstName,
			LastName:   p.LastName,
			CenterName: p.CenterName,
		}
		if _, dup := index[p.ID]; !dup {
			index[p.ID] = i
		}
	}

	// One pass over the sessions; per-player sums are kept beside the entries.
	scoreSum := make([]float64, len(entries))
	speedSum := make([]float64, len(entries))
	for _, s := range r.Sessions() {
		i, ok := index[s.PlayerID]
		if !ok || !s.StartTime.Before(now) {
			continue
		}
		e := &entries[i]
		e.TotalSessions++
		e.TotalGoals += s.NumberOfGoals
		e.TotalBalls += s.NumberOfBalls
		if s.BestStreak > e.BestStreak {
			e.BestStreak = s.BestStreak
		}
		scoreSum[i] += s.Score
		speedSum[i] += s.AvgSpeedOfPlay
	}

	for i := range entries {
		e := &entries[i]
		if src := index[e.PlayerID]; src != i {
			// Duplicate profile id: mirror the first occurrence.
			first := entries[src]
			e.TotalSessions, e.TotalGoals = first.TotalSessions, first.TotalGoals
			e.TotalBalls, e.BestStreak = first.TotalBalls, first.BestStreak
			scoreSum[i], speedSum[i] = scoreSum[src], speedSum[src]
		}
		if e.TotalSessions > 0 {
			n := float64(e.TotalSessions)
			e.AvgScore = Round(scoreSum[i]/n, scorePlaces)
			e.AvgSpeedOfPlay = Round(speedSum[i]/n, speedPlaces)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].AvgScore != entries[j].AvgScore {
			return entries[i].AvgScore > entries[j].AvgScore
		}
		return entries[i].TotalGoals > entries[j].TotalGoals
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// Top returns at most n leading entries. Ranks are not renumbered.
// n <= 0 returns every entry.
func Top(entries []model.LeaderboardEntry, n int) []model.LeaderboardEntry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[:n]
}
