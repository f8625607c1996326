package model

import "time"

// PlayerSummary aggregates a player's past sessions for the dashboard.
type PlayerSummary struct {
	TotalSessions    int          `json:"totalSessions"`
	AvgScore         float64      `json:"avgScore"`
	BestStreakRecord int          `json:"bestStreakRecord"`
	LastSession      *LastSession `json:"lastSession"`
	Last30Days       RecentStats  `json:"last30Days"`
}

// LastSession is a snapshot of the most recent past session.
type LastSession struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Score       float64   `json:"score"`
	TrainerName string    `json:"trainerName"`
}

// RecentStats is the trailing-window sub-aggregate of a summary.
type RecentStats struct {
	TotalSessions int     `json:"totalSessions"`
	TotalBalls    int     `json:"totalBalls"`
	AvgScore      float64 `json:"avgScore"`
	TotalGoals    int     `json:"totalGoals"`
}

// LeaderboardEntry is one ranked row of the leaderboard.
type LeaderboardEntry struct {
	Rank           int     `json:"rank"`
	PlayerID       string  `json:"playerId"`
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	CenterName     string  `json:"centerName"`
	TotalSessions  int     `json:"totalSessions"`
	AvgScore       float64 `json:"avgScore"`
	TotalGoals     int     `json:"totalGoals"`
	BestStreak     int     `json:"bestStreak"`
	TotalBalls     int     `json:"totalBalls"`
	AvgSpeedOfPlay float64 `json:"avgSpeedOfPlay"`
}

// TimeSlot is one cell of the operating-hour grid.
type TimeSlot struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Available bool      `json:"available"`
}

// TrainerSchedule lists a trainer's slots for one calendar date.
type TrainerSchedule struct {
	TrainerName string     `json:"trainerName"`
	Date        string     `json:"date"` // YYYY-MM-DD
	Slots       []TimeSlot `json:"slots"`
}

// SessionTag is a highlight label attached to a session.
type SessionTag struct {
	Emoji string `json:"emoji"`
	Label string `json:"label"`
}
