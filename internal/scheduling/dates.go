package scheduling

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used for every date key in a run.
const DateLayout = "2006-01-02"

// DateRange is an inclusive span of calendar dates.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Dates expands the range into ascending date keys. It panics when either bound
// is malformed or End precedes Start, both of which are caller contract violations.
func (r DateRange) Dates() []string {
	start := mustParseDate(r.Start)
	end := mustParseDate(r.End)
	if end.Before(start) {
		panic(fmt.Sprintf("scheduling: date range end %s precedes start %s", r.End, r.Start))
	}
	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateLayout))
	}
	return dates
}

// Contains reports whether date lies inside the range.
func (r DateRange) Contains(date string) bool {
	return date >= r.Start && date <= r.End
}

// ParseDate parses a YYYY-MM-DD key.
func ParseDate(raw string) (time.Time, error) {
	return time.Parse(DateLayout, raw)
}

func mustParseDate(raw string) time.Time {
	t, err := ParseDate(raw)
	if err != nil {
		panic(fmt.Sprintf("scheduling: invalid date %q: %v", raw, err))
	}
	return t
}

// yearOf returns the calendar year prefix of a date key.
func yearOf(date string) string {
	if len(date) < 4 {
		return date
	}
	return date[:4]
}

// IsWeekend reports whether the date falls on Saturday or Sunday.
func IsWeekend(date string) bool {
	t, err := ParseDate(date)
	if err != nil {
		return false
	}
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
