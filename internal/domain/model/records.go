// Package model contains domain models passed between layers.
package model

import "time"

// Profile is a registered player.
// Email is unique ignoring case.
type Profile struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Phone      string    `json:"phone"`
	Gender     string    `json:"gender"`
	DOB        string    `json:"dob"` // calendar date, YYYY-MM-DD
	CenterName string    `json:"centerName"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FullName joins first and last name.
func (p Profile) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// TrainingSession is a write-once record of one completed (or scheduled) session.
// TrainerName is a free-text label; trainers are derived, not stored.
type TrainingSession struct {
	ID                string    `json:"id"`
	PlayerID          string    `json:"playerId"`
	TrainerName       string    `json:"trainerName"`
	StartTime         time.Time `json:"startTime"`
	EndTime           time.Time `json:"endTime"`
	NumberOfBalls     int       `json:"numberOfBalls"`
	BestStreak        int       `json:"bestStreak"`
	NumberOfGoals     int       `json:"numberOfGoals"`
	Score             float64   `json:"score"` // 0-100
	AvgSpeedOfPlay    float64   `json:"avgSpeedOfPlay"`
	NumberOfExercises int       `json:"numberOfExercises"`
}

// Appointment is a booked slot with a trainer. Appointments are created and
// deleted, never updated in place.
type Appointment struct {
	ID          string    `json:"id"`
	PlayerID    string    `json:"playerId"`
	TrainerName string    `json:"trainerName"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
}
