package analytics

import "math"

// Round rounds x half-up to the given number of decimal places.
// Every aggregate in this package goes through it.
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Floor(x*p+0.5) / p
}

// Score and speed precisions.
const (
	scorePlaces = 1
	speedPlaces = 2
)
