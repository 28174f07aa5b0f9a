package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/birthday-hub/internal/engine"
)

func record(t *testing.T, name, dob string) engine.BirthdayRecord {
	t.Helper()
	r, err := engine.NewRecord(name, dob)
	require.NoError(t, err)
	return r
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextOccurrence_Scenarios(t *testing.T) {
	occ := engine.NextOccurrence(record(t, "Ada", "29-Feb"), day(2025, time.March, 1))
	assert.Equal(t, day(2026, time.February, 28), occ.OccursAt)

	occ = engine.NextOccurrence(record(t, "Bo", "08-May"), day(2025, time.May, 8))
	assert.Equal(t, day(2025, time.May, 8), occ.OccursAt)
	assert.True(t, occ.IsToday)
	assert.Zero(t, occ.DaysUntil)
}

func TestNextOccurrence_NeverInThePast(t *testing.T) {
	records := engine.Normalize([]engine.RawEntry{
		{Name: "A", DOB: "01-Jan"},
		{Name: "B", DOB: "29-Feb"},
		{Name: "C", DOB: "30-Jun"},
		{Name: "D", DOB: "31-Dec"},
	})

	for now := day(2023, time.January, 1); now.Year() < 2026; now = now.AddDate(0, 0, 3) {
		for _, r := range records {
			occ := engine.NextOccurrence(r, now.Add(17*time.Hour))
			assert.False(t, occ.OccursAt.Before(now), "%s resolved before %s", r.DisplayName, now)
			assert.Less(t, occ.DaysUntil, 367)
		}
	}
}

func TestNextOccurrence_PeriodicOverOneYear(t *testing.T) {
	for _, dob := range []string{"01-Jan", "28-Feb", "01-Mar", "15-Aug", "31-Dec"} {
		r := record(t, "P", dob)
		now := time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC)

		first := engine.NextOccurrence(r, now)
		second := engine.NextOccurrence(r, first.OccursAt.AddDate(0, 0, 1))

		assert.Equal(t, first.OccursAt.AddDate(1, 0, 0), second.OccursAt, dob)
	}
}

func TestNextOccurrence_IsPure(t *testing.T) {
	r := record(t, "Same", "12-Sep")
	now := time.Date(2025, 9, 11, 22, 0, 0, 0, time.UTC)

	assert.Equal(t, engine.NextOccurrence(r, now), engine.NextOccurrence(r, now))
	assert.Equal(t, record(t, "Same", "12-Sep"), r)
}

func TestUpcoming(t *testing.T) {
	records := engine.Normalize([]engine.RawEntry{
		{Name: "January", DOB: "10-Jan"},
		{Name: "bob", DOB: "20-Jun"},
		{Name: "Alice", DOB: "20-Jun"},
		{Name: "Today", DOB: "15-Jun"},
		{Name: "Yesterday", DOB: "14-Jun"},
	})
	now := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)

	all := engine.Upcoming(records, now, 0)
	require.Len(t, all, 5)

	var names []string
	for _, o := range all {
		names = append(names, o.Record.DisplayName)
	}
	assert.Equal(t, []string{"Today", "Alice", "bob", "January", "Yesterday"}, names)
	assert.True(t, all[0].IsToday)

	assert.Len(t, engine.Upcoming(records, now, 2), 2)
	assert.Len(t, engine.Upcoming(records, now, 50), 5)
	assert.Empty(t, engine.Upcoming(nil, now, 3))
}

func TestNextCountdownTarget(t *testing.T) {
	now := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)

	t.Run("Empty roster", func(t *testing.T) {
		_, ok := engine.NextCountdownTarget(nil, now)
		assert.False(t, ok)
	})

	t.Run("Skips today's birthday", func(t *testing.T) {
		records := []engine.BirthdayRecord{
			record(t, "Today", "15-Jun"),
			record(t, "Later", "01-Jul"),
		}
		occ, ok := engine.NextCountdownTarget(records, now)
		require.True(t, ok)
		assert.Equal(t, "Later", occ.Record.DisplayName)
		assert.Equal(t, 16, occ.DaysUntil)
		assert.False(t, occ.IsToday)
	})

	t.Run("Only today's birthday counts down to next year", func(t *testing.T) {
		occ, ok := engine.NextCountdownTarget([]engine.BirthdayRecord{record(t, "Today", "15-Jun")}, now)
		require.True(t, ok)
		assert.Equal(t, day(2026, time.June, 15), occ.OccursAt)
		assert.Equal(t, 365, occ.DaysUntil)
	})

	t.Run("Tomorrow", func(t *testing.T) {
		occ, ok := engine.NextCountdownTarget([]engine.BirthdayRecord{
			record(t, "Far", "01-Dec"),
			record(t, "Tomorrow", "16-Jun"),
		}, now)
		require.True(t, ok)
		assert.Equal(t, "Tomorrow", occ.Record.DisplayName)
		assert.Equal(t, 1, occ.DaysUntil)
		assert.True(t, occ.OccursAt.After(now))
	})
}
