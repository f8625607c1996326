// Package tags labels the highlights of a training session.
package tags

import "github.com/okian/toca/internal/domain/model"

// tier is one threshold of a ladder; the first tier reached wins.
type tier struct {
	min float64
	tag model.SessionTag
}

// ladder maps one session metric onto at most one tag.
type ladder struct {
	metric func(model.TrainingSession) float64
	tiers  []tier // highest threshold first
}

var ladders = []ladder{ //nolint:gochecknoglobals // static rule table
	{
		metric: func(s model.TrainingSession) float64 { return s.Score },
		tiers: []tier{
			{95, model.SessionTag{Emoji: "🏆", Label: "Elite Performance"}},
			{90, model.SessionTag{Emoji: "🔥", Label: "On Fire"}},
			{80, model.SessionTag{Emoji: "💪", Label: "Strong Session"}},
		},
	},
	{
		metric: goalRate,
		tiers: []tier{
			{0.4, model.SessionTag{Emoji: "🎯", Label: "Sharpshooter"}},
			{0.3, model.SessionTag{Emoji: "⚽", Label: "Clinical Finisher"}},
		},
	},
	{
		metric: func(s model.TrainingSession) float64 { return float64(s.BestStreak) },
		tiers: []tier{
			{40, model.SessionTag{Emoji: "🔗", Label: "Streak Machine"}},
			{25, model.SessionTag{Emoji: "⚡", Label: "Hot Streak"}},
		},
	},
	{
		metric: func(s model.TrainingSession) float64 { return s.AvgSpeedOfPlay },
		tiers:  []tier{{5.0, model.SessionTag{Emoji: "💨", Label: "High Tempo"}}},
	},
	{
		metric: func(s model.TrainingSession) float64 { return float64(s.NumberOfBalls) },
		tiers:  []tier{{200, model.SessionTag{Emoji: "🏋️", Label: "High Volume"}}},
	},
	{
		metric: func(s model.TrainingSession) float64 { return float64(s.NumberOfExercises) },
		tiers:  []tier{{10, model.SessionTag{Emoji: "📋", Label: "Well-Rounded"}}},
	},
}

// ForSession returns the session's tags in a fixed order: score, goal rate,
// streak, tempo, volume, variety. An unremarkable session gets none.
func ForSession(s model.TrainingSession) []model.SessionTag {
	out := []model.SessionTag{}
	for _, l := range ladders {
		v := l.metric(s)
		for _, t := range l.tiers {
			if v >= t.min {
				out = append(out, t.tag)
				break
			}
		}
	}
	return out
}

// goalRate is goals per ball played, zero when no balls were played.
func goalRate(s model.TrainingSession) float64 {
	if s.NumberOfBalls <= 0 {
		return 0
	}
	return float64(s.NumberOfGoals) / float64(s.NumberOfBalls)
}
