package engine

import "time"

// Stats summarizes the roster for the dashboard header.
type Stats struct {
	Total     int
	Today     int
	ThisMonth int
	NextMonth int

	// PopularMonth is the month with the most birthdays (earliest on ties),
	// zero for an empty roster.
	PopularMonth      time.Month
	PopularMonthCount int

	// ByMonth is indexed by MonthIndex (0 = January).
	ByMonth [12]int
}

// ComputeStats counts birthdays relative to now.
func ComputeStats(records []BirthdayRecord, now time.Time) Stats {
	s := Stats{Total: len(records)}

	current := now.Month()
	next := current%12 + 1

	for _, r := range records {
		s.ByMonth[r.MonthIndex()]++
		if r.OccursOn(now) {
			s.Today++
		}
		switch r.Month {
		case current:
			s.ThisMonth++
		case next:
			s.NextMonth++
		}
	}

	for i, count := range s.ByMonth {
		if count > s.PopularMonthCount {
			s.PopularMonthCount = count
			s.PopularMonth = time.Month(i + 1)
		}
	}
	return s
}
