package engine

import (
	"time"

	"github.com/tartampluch/birthday-hub/internal/config"
)

// CalendarCell is one day of the month grid.
type CalendarCell struct {
	Date    time.Time
	InMonth bool
	Records []BirthdayRecord
}

// MonthGrid lays out month as config.CalendarWeeks rows of seven days starting
// on weekStart, padding with the neighbouring months' days. Each cell lists the
// birthdays falling on it, in roster order.
func MonthGrid(year int, month time.Month, records []BirthdayRecord, weekStart time.Weekday, loc *time.Location) [][]CalendarCell {
	if loc == nil {
		loc = time.Local
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	offset := (int(first.Weekday()) - int(weekStart) + config.DaysPerWeek) % config.DaysPerWeek
	cursor := first.AddDate(0, 0, -offset)

	grid := make([][]CalendarCell, config.CalendarWeeks)
	for w := range grid {
		week := make([]CalendarCell, config.DaysPerWeek)
		for d := range week {
			cell := CalendarCell{
				Date:    cursor,
				InMonth: cursor.Month() == month,
			}
			for _, r := range records {
				if r.OccursOn(cursor) {
					cell.Records = append(cell.Records, r)
				}
			}
			week[d] = cell
			cursor = cursor.AddDate(0, 0, 1)
		}
		grid[w] = week
	}
	return grid
}
