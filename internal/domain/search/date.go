package search

import (
	"fmt"
	"strings"
	"time"
)

// Day is a calendar date with no time of day and no zone.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar day of t in t's own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

// Time returns midnight UTC at the start of d.
func (d Day) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Day) String() string {
	return d.Time().Format("2006-01-02")
}

// dayLayouts are tried in order. Layouts without a zone parse as UTC.
var dayLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	time.RFC1123Z,
	time.RFC1123,
}

// NormalizeDay parses a user supplied date or date-time and truncates it to
// the calendar day in the zone it was written in (UTC when it has none).
func NormalizeDay(raw string) (Day, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Day{}, fmt.Errorf("%w: empty value", ErrUnparseableDate)
	}
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DayOf(t), nil
		}
	}
	return Day{}, fmt.Errorf("%w: %q", ErrUnparseableDate, raw)
}
