package engine

import (
	"fmt"
	"net/url"
	"time"

	"github.com/tartampluch/birthday-hub/internal/config"
)

// RawEntry is one roster line as supplied by a roster source, before validation.
type RawEntry struct {
	Name string `json:"name" toml:"name"`
	DOB  string `json:"dob" toml:"dob"`
}

// BirthdayRecord is a normalized roster entry. It is immutable once built by
// Normalize or NewRecord: every field is derived from the raw name and date.
type BirthdayRecord struct {
	// ID is derived from DisplayName (lower-cased, whitespace collapsed to "-").
	// Two people with the same name share an ID.
	ID string

	DisplayName string

	// Month and Day form the recurring annual date. Feb 29 is allowed.
	Month time.Month
	Day   int

	// AvatarSeed feeds the external avatar service.
	AvatarSeed string
}

// MonthIndex returns the 0-indexed month (0 = January).
func (r BirthdayRecord) MonthIndex() int {
	return int(r.Month) - 1
}

// DOB renders the record's date back to the "DD-Mon" roster form.
func (r BirthdayRecord) DOB() string {
	return FormatDOB(r.Month, r.Day)
}

// OccursOn reports whether the birthday falls on t's calendar date.
// A Feb 29 birthday occurs on Feb 28 in non-leap years, matching NextOccurrence.
func (r BirthdayRecord) OccursOn(t time.Time) bool {
	y, m, d := t.Date()
	due := DateIn(y, r.Month, r.Day, t.Location())
	return due.Month() == m && due.Day() == d
}

// AvatarURL builds the avatar image address for a seed. The image itself is
// rendered by the external service; nothing here fetches it.
func AvatarURL(seed string) string {
	return fmt.Sprintf(config.AvatarURLTemplate, url.PathEscape(seed))
}
