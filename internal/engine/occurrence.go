package engine

import (
	"slices"
	"strings"
	"time"
)

// Occurrence is a record resolved to a concrete calendar date relative to a
// reference "now". It is recomputed on demand and never cached.
type Occurrence struct {
	Record BirthdayRecord

	// OccursAt is the start of the birthday, in the location of "now".
	OccursAt time.Time

	// IsToday is set when OccursAt is now's calendar date.
	IsToday bool

	// DaysUntil counts calendar days from now's date to OccursAt.
	DaysUntil int
}

// DateIn builds the start of day for month/day in the given year.
// Feb 29 collapses to Feb 28 when the year is not a leap year; time.Date
// would otherwise roll it into March.
func DateIn(year int, month time.Month, day int, loc *time.Location) time.Time {
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// NextOccurrence determines the next birthday date relative to now.
// A birthday falling on now's calendar date is returned as today's occurrence
// regardless of the time of day.
func NextOccurrence(r BirthdayRecord, now time.Time) Occurrence {
	loc := now.Location()
	today := startOfDay(now)

	candidate := DateIn(now.Year(), r.Month, r.Day, loc)
	if candidate.Before(today) {
		// Already passed this year.
		candidate = DateIn(now.Year()+1, r.Month, r.Day, loc)
	}

	return Occurrence{
		Record:    r,
		OccursAt:  candidate,
		IsToday:   candidate.Equal(today),
		DaysUntil: daysBetween(today, candidate),
	}
}

// Upcoming resolves every record and returns the n soonest occurrences
// (all of them when n <= 0), earliest first, ties broken by name.
func Upcoming(records []BirthdayRecord, now time.Time, n int) []Occurrence {
	out := make([]Occurrence, 0, len(records))
	for _, r := range records {
		out = append(out, NextOccurrence(r, now))
	}
	slices.SortStableFunc(out, compareOccurrence)

	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// NextCountdownTarget picks the earliest birthday strictly after today, the
// instant a countdown can meaningfully run towards. Birthdays happening today
// are skipped in favour of their next year's occurrence.
func NextCountdownTarget(records []BirthdayRecord, now time.Time) (Occurrence, bool) {
	if len(records) == 0 {
		return Occurrence{}, false
	}
	today := startOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)

	best := NextOccurrence(records[0], tomorrow)
	for _, r := range records[1:] {
		occ := NextOccurrence(r, tomorrow)
		if compareOccurrence(occ, best) < 0 {
			best = occ
		}
	}

	best.IsToday = false
	best.DaysUntil = daysBetween(today, best.OccursAt)
	return best, true
}

func compareOccurrence(a, b Occurrence) int {
	if c := a.OccursAt.Compare(b.OccursAt); c != 0 {
		return c
	}
	return strings.Compare(foldName(a.Record.DisplayName), foldName(b.Record.DisplayName))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days, immune to DST-shortened days.
func daysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// daysIn returns the number of days in month for year.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
