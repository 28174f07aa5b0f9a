package engine

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/tartampluch/birthday-hub/internal/config"
	"golang.org/x/text/cases"
)

// ErrInvalidArgument reports a misuse of the roster queries (a caller bug,
// not bad data).
var ErrInvalidArgument = errors.New(config.ErrInvalidArgument)

// SortOrder selects how a Query orders its matches.
type SortOrder string

const (
	SortDate SortOrder = "date"
	SortName SortOrder = "name"
)

// FilterByMonth keeps the records whose birthday is in month, in input order.
func FilterByMonth(records []BirthdayRecord, month time.Month) []BirthdayRecord {
	out := make([]BirthdayRecord, 0, len(records))
	for _, r := range records {
		if r.Month == month {
			out = append(out, r)
		}
	}
	return out
}

// FilterToday keeps the records whose birthday falls on now's calendar date.
func FilterToday(records []BirthdayRecord, now time.Time) []BirthdayRecord {
	out := make([]BirthdayRecord, 0, len(records))
	for _, r := range records {
		if r.OccursOn(now) {
			out = append(out, r)
		}
	}
	return out
}

// SortByOccurrence returns a copy ordered by (month, day).
func SortByOccurrence(records []BirthdayRecord) []BirthdayRecord {
	out := clone(records)
	slices.SortStableFunc(out, compareMonthDay)
	return out
}

// SortByName returns a copy ordered by display name, ignoring case.
func SortByName(records []BirthdayRecord) []BirthdayRecord {
	out := clone(records)
	slices.SortStableFunc(out, func(a, b BirthdayRecord) int {
		return strings.Compare(foldName(a.DisplayName), foldName(b.DisplayName))
	})
	return out
}

// PageCount returns how many pages of pageSize hold n records (at least 1).
func PageCount(n, pageSize int) int {
	if pageSize <= 0 || n <= 0 {
		return 1
	}
	return (n + pageSize - 1) / pageSize
}

// ClampPage pulls a 1-indexed page number into [1, pages].
func ClampPage(page, pages int) int {
	return max(1, min(page, pages))
}

// Paginate returns the 1-indexed page of records. Out-of-range page numbers
// clamp to the first or last page; a non-positive pageSize is rejected.
func Paginate(records []BirthdayRecord, pageSize, page int) ([]BirthdayRecord, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("%w: page size must be positive, got %d", ErrInvalidArgument, pageSize)
	}
	if len(records) == 0 {
		return []BirthdayRecord{}, nil
	}

	page = ClampPage(page, PageCount(len(records), pageSize))
	start := (page - 1) * pageSize
	end := min(start+pageSize, len(records))
	return clone(records[start:end]), nil
}

// Query is the card grid's filter/sort/page state.
type Query struct {
	// Month restricts matches to one month; zero means every month.
	Month     time.Month
	TodayOnly bool
	Sort      SortOrder
	PageSize  int
	Page      int
}

// Page is one page of query results.
type Page struct {
	Items   []BirthdayRecord
	Number  int
	Pages   int
	Matches int
}

// Apply runs filter, sort and pagination in that order.
func Apply(records []BirthdayRecord, q Query, now time.Time) (Page, error) {
	matches := records
	if q.Month != 0 {
		matches = FilterByMonth(matches, q.Month)
	}
	if q.TodayOnly {
		matches = FilterToday(matches, now)
	}

	switch q.Sort {
	case SortName:
		matches = SortByName(matches)
	default:
		matches = SortByOccurrence(matches)
	}

	items, err := Paginate(matches, q.PageSize, q.Page)
	if err != nil {
		return Page{}, err
	}

	pages := PageCount(len(matches), q.PageSize)
	return Page{
		Items:   items,
		Number:  ClampPage(q.Page, pages),
		Pages:   pages,
		Matches: len(matches),
	}, nil
}

func foldName(name string) string {
	return cases.Fold().String(name)
}

func clone(records []BirthdayRecord) []BirthdayRecord {
	out := make([]BirthdayRecord, len(records))
	copy(out, records)
	return out
}
