package datagen

import "time"

// Default generation sizes.
const (
	defaultPlayers         = 40
	defaultMinSessions     = 3
	defaultMaxSessions     = 25
	defaultMaxAppointments = 3
	defaultPastDays        = 90
	defaultFutureDays      = 21
	defaultStartHour       = 9
	defaultEndHour         = 17
)

// Default submission settings.
const (
	defaultSubmit      = 200
	defaultTopN        = 20
	defaultWorkers     = 8
	defaultTimeout     = 10 * time.Second
	defaultSettleDelay = 2 * time.Second
)

// Session metric ranges.
const (
	minBalls       = 40
	ballsRange     = 160
	minSpeed       = 1.5
	speedRange     = 3.0
	minExercises   = 3
	exercisesRange = 10
	scoreJitter    = 8.0
	maxScore       = 100.0
	minAge         = 7
	ageRange       = 12
	signupDays     = 365
	slotAttempts   = 20
	scorePlaces    = 1
	speedPlaces    = 2
)

// File permission constants.
const (
	logFilePermission = 0o600
)

var (
	defaultTrainers = []string{"Coach Rivera", "Coach Okafor", "Coach Lindqvist", "Coach Tanaka", "Coach Haddad"}
	defaultCenters  = []string{"TOCA Dallas", "TOCA Chicago", "TOCA Denver"}

	firstNames = []string{"Ana", "Bo", "Carla", "Dev", "Eli", "Farah", "Gus", "Hana", "Ivo", "Jade", "Kai", "Lena", "Milo", "Nia", "Omar", "Pia"}
	lastNames  = []string{"Lee", "Kim", "Silva", "Patel", "Novak", "Reyes", "Berg", "Costa", "Diallo", "Moreau", "Ito", "Walsh"}
	genders    = []string{"female", "male"}
)

// Performer tiers, as base score ranges on the 0-100 scale.
var tiers = []struct {
	min, spread float64
}{
	{min: 55, spread: 20}, // average, most common
	{min: 55, spread: 20},
	{min: 75, spread: 15}, // strong
	{min: 30, spread: 25}, // developing
	{min: 90, spread: 8},  // elite, rare
	{min: 10, spread: 20}, // beginner, rare
	{min: 65, spread: 15},
	{min: 10, spread: 85}, // anything
}
