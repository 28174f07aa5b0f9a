package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/tartampluch/birthday-hub/internal/config"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrInvalidDateFormat reports a "DD-Mon" value that cannot be turned into a
// calendar date. Normalize recovers from it by dropping the entry.
var ErrInvalidDateFormat = errors.New(config.ErrInvalidDateFormat)

// monthAbbrev maps the lower-cased three-letter abbreviation to its month.
var monthAbbrev = map[string]time.Month{
	"jan": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"aug": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dec": time.December,
}

// ParseDOB parses the "DD-Mon" roster form (e.g. "08-May", "3-Oct").
func ParseDOB(value string) (time.Month, int, error) {
	value = strings.TrimSpace(value)
	dayPart, monthPart, ok := strings.Cut(value, config.DOBSeparator)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidDateFormat, value)
	}

	if len(dayPart) == 0 || len(dayPart) > config.DOBMaxDigits || !isDigits(dayPart) {
		return 0, 0, fmt.Errorf("%w: day %q", ErrInvalidDateFormat, dayPart)
	}
	day, err := strconv.Atoi(dayPart)
	if err != nil || day < 1 {
		return 0, 0, fmt.Errorf("%w: day %q", ErrInvalidDateFormat, dayPart)
	}

	month, ok := monthAbbrev[strings.ToLower(monthPart)]
	if !ok {
		return 0, 0, fmt.Errorf("%w: month %q", ErrInvalidDateFormat, monthPart)
	}

	// Validate against a leap year so 29-Feb is accepted.
	if day > daysIn(config.DefaultLeapYear, month) {
		return 0, 0, fmt.Errorf("%w: day %d out of range for %s", ErrInvalidDateFormat, day, month)
	}

	return month, day, nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// FormatDOB renders a month/day pair as "DD-Mon".
func FormatDOB(month time.Month, day int) string {
	return fmt.Sprintf(config.FormatDOB, day, month.String()[:3])
}

// RecordID derives the stable identifier of a display name.
func RecordID(name string) string {
	joined := strings.Join(strings.Fields(name), config.IDSeparator)
	// Casers are stateful; one per call keeps RecordID safe for concurrent use.
	return cases.Lower(language.Und).String(joined)
}

// NewRecord validates one roster entry and builds its record.
func NewRecord(name, dob string) (BirthdayRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return BirthdayRecord{}, fmt.Errorf("%w: empty name", ErrInvalidArgument)
	}
	month, day, err := ParseDOB(dob)
	if err != nil {
		return BirthdayRecord{}, err
	}
	return BirthdayRecord{
		ID:          RecordID(name),
		DisplayName: name,
		Month:       month,
		Day:         day,
		AvatarSeed:  name,
	}, nil
}

// Normalize turns raw roster entries into records sorted by (month, day).
// Entries without a birthday, or with one that does not parse, are dropped
// without failing the batch. Ties keep their input order.
func Normalize(entries []RawEntry) []BirthdayRecord {
	log := slog.With(config.LogKeyComponent, config.CompEngine)

	records := make([]BirthdayRecord, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.Name) == "" {
			log.Debug(config.MsgSkippedNoName, config.LogKeyValue, e.DOB)
			continue
		}
		if strings.TrimSpace(e.DOB) == "" {
			log.Debug(config.MsgSkippedEmptyDOB, config.LogKeyName, e.Name)
			continue
		}

		r, err := NewRecord(e.Name, e.DOB)
		if err != nil {
			log.Debug(config.MsgSkippedBadDOB,
				config.LogKeyName, e.Name,
				config.LogKeyValue, e.DOB,
				config.LogKeyError, err)
			continue
		}
		records = append(records, r)
	}

	slices.SortStableFunc(records, compareMonthDay)
	return records
}

// compareMonthDay orders records by their recurring date only.
func compareMonthDay(a, b BirthdayRecord) int {
	if a.Month != b.Month {
		return int(a.Month) - int(b.Month)
	}
	return a.Day - b.Day
}
