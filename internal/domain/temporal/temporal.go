package temporal

import (
	"fmt"
	"time"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// IsPast reports whether t is strictly before now.
func IsPast(t, now time.Time) bool { return t.Before(now) }

// IsFuture reports whether t is strictly after now.
func IsFuture(t, now time.Time) bool { return t.After(now) }

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDate reports whether a and b fall on the same calendar day, read in
// a's location.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

// DateRange lists the midnights of every calendar day from from through to,
// inclusive, in from's location. It is empty when to's day precedes from's.
func DateRange(from, to time.Time) []time.Time {
	day := StartOfDay(from)
	last := StartOfDay(to.In(from.Location()))
	var out []time.Time
	for !day.After(last) {
		out = append(out, day)
		// AddDate keeps local midnight across DST shifts; Add(24h) would not
		day = day.AddDate(0, 0, 1)
	}
	return out
}

// ParseDate parses a YYYY-MM-DD string as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders t's calendar day as YYYY-MM-DD.
func FormatDate(t time.Time) string { return t.Format(DateLayout) }

// Age returns the number of whole years between dob and now.
func Age(dob, now time.Time) int {
	now = now.In(dob.Location())
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
