package engine_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/birthday-hub/internal/engine"
)

func TestParseDOB(t *testing.T) {
	tests := []struct {
		input     string
		wantMonth time.Month
		wantDay   int
		wantErr   bool
	}{
		{"08-May", time.May, 8, false},
		{"3-Oct", time.October, 3, false},
		{"31-dec", time.December, 31, false},
		{"29-FEB", time.February, 29, false},
		{"  15-Jun ", time.June, 15, false},
		{"30-Feb", 0, 0, true},
		{"31-Apr", 0, 0, true},
		{"00-Jan", 0, 0, true},
		{"123-Jan", 0, 0, true},
		{"+8-Jan", 0, 0, true},
		{"08-Mai", 0, 0, true},
		{"08/May", 0, 0, true},
		{"May-08", 0, 0, true},
		{"", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			month, day, err := engine.ParseDOB(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, engine.ErrInvalidDateFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMonth, month)
			assert.Equal(t, tt.wantDay, day)
		})
	}
}

func TestParseDOB_RoundTrip(t *testing.T) {
	for m := time.January; m <= time.December; m++ {
		last := time.Date(2000, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
		for d := 1; d <= last; d++ {
			dob := engine.FormatDOB(m, d)
			month, day, err := engine.ParseDOB(dob)
			require.NoError(t, err, dob)
			assert.Equal(t, m, month, dob)
			assert.Equal(t, d, day, dob)
		}
	}
}

func TestRecordID(t *testing.T) {
	assert.Equal(t, "ada-lovelace", engine.RecordID("Ada Lovelace"))
	assert.Equal(t, "ada-lovelace", engine.RecordID("  Ada \t  LOVELACE "))
	assert.Equal(t, "élodie-durand", engine.RecordID("Élodie Durand"))
	assert.Equal(t, engine.RecordID("Bo"), engine.RecordID("Bo"), "deterministic")
}

func TestNewRecord(t *testing.T) {
	r, err := engine.NewRecord(" Grace Hopper ", "9-Dec")
	require.NoError(t, err)

	assert.Equal(t, engine.BirthdayRecord{
		ID:          "grace-hopper",
		DisplayName: "Grace Hopper",
		Month:       time.December,
		Day:         9,
		AvatarSeed:  "Grace Hopper",
	}, r)
	assert.Equal(t, 11, r.MonthIndex())
	assert.Equal(t, "09-Dec", r.DOB())

	_, err = engine.NewRecord("   ", "9-Dec")
	assert.ErrorIs(t, err, engine.ErrInvalidArgument)
}

func TestNormalize(t *testing.T) {
	entries := []engine.RawEntry{
		{Name: "Zoe", DOB: "05-Mar"},
		{Name: "Ada", DOB: "29-Feb"},
		{Name: "Nobody", DOB: ""},
		{Name: "Typo", DOB: "31-Jun"},
		{Name: "Amy", DOB: "05-Mar"},
		{Name: "", DOB: "01-Jan"},
		{Name: "Bo", DOB: "08-May"},
	}

	records := engine.Normalize(entries)

	names := make([]string, 0, len(records))
	for _, r := range records {
		names = append(names, r.DisplayName)
	}
	// Ties on 05-Mar keep input order: Zoe before Amy.
	if diff := cmp.Diff([]string{"Ada", "Zoe", "Amy", "Bo"}, names); diff != "" {
		t.Errorf("Normalize order mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_EmptyDOBDropsExactlyOne(t *testing.T) {
	base := []engine.RawEntry{
		{Name: "A", DOB: "01-Jan"},
		{Name: "B", DOB: "02-Feb"},
		{Name: "C", DOB: "03-Mar"},
	}
	withBlank := append([]engine.RawEntry{{Name: "D", DOB: ""}}, base...)

	assert.Len(t, engine.Normalize(base), 3)
	assert.Len(t, engine.Normalize(withBlank), 3)
	assert.Empty(t, engine.Normalize(nil))
}

func TestAvatarURL(t *testing.T) {
	url := engine.AvatarURL("Ada Lovelace")
	assert.Contains(t, url, "seed=Ada%20Lovelace")
	assert.NotContains(t, url, " ")
}

func TestOccursOn(t *testing.T) {
	leap, err := engine.NewRecord("Ada", "29-Feb")
	require.NoError(t, err)

	assert.True(t, leap.OccursOn(time.Date(2024, 2, 29, 15, 0, 0, 0, time.UTC)))
	assert.False(t, leap.OccursOn(time.Date(2024, 2, 28, 15, 0, 0, 0, time.UTC)), "leap years keep Feb 29")
	assert.True(t, leap.OccursOn(time.Date(2025, 2, 28, 15, 0, 0, 0, time.UTC)))
	assert.False(t, leap.OccursOn(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
}
