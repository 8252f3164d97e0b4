package coverage

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

const dayLayout = "2006-01-02"

// Day is a calendar day key (YYYY-MM-DD). Keys compare lexicographically in date order.
type Day string

// DayOf returns the calendar day of t as seen in t's own location.
func DayOf(t time.Time) Day {
	return Day(t.Format(dayLayout))
}

const (
	minYear = 1
	maxYear = 9999
)

// ParseDay accepts a YYYY-MM-DD date or an RFC3339 timestamp; the time of day is dropped.
// Only years 0001 to 9999 are accepted, so that Day keys keep sorting in date order.
func ParseDay(s string) (Day, error) {
	t, err := parseDayTime(strings.TrimSpace(s))
	if err != nil {
		return "", err
	}
	return DayOf(t), nil
}

func parseDayTime(s string) (time.Time, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		ts, tsErr := time.Parse(time.RFC3339, s)
		if tsErr != nil {
			return time.Time{}, tsErr
		}
		t = time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	}
	if err = checkYear(t); err != nil {
		return time.Time{}, err
	}
	return t, nil
}

func checkYear(t time.Time) error {
	if y := t.Year(); y < minYear || y > maxYear {
		return errors.Errorf("year %d outside %04d-%04d", y, minYear, maxYear)
	}
	return nil
}

func (d Day) time() (time.Time, error) {
	return parseDayTime(string(d))
}

// AddDays moves d by n calendar days. It fails on a malformed d or when the result leaves years 0001-9999.
func (d Day) AddDays(n int) (Day, error) {
	t, err := d.time()
	if err != nil {
		return "", errors.Wrapf(err, "invalid day %q", string(d))
	}
	t = t.AddDate(0, 0, n)
	if err = checkYear(t); err != nil {
		return "", err
	}
	return DayOf(t), nil
}

func (d Day) String() string { return string(d) }

// DateRange is a validated, inclusive, ascending range of calendar days.
type DateRange struct {
	Start    Day   `json:"start"`
	End      Day   `json:"end"`
	DayCount int   `json:"dayCount"`
	Days     []Day `json:"days"`
}

// Contains reports whether d falls within the range.
func (dr DateRange) Contains(d Day) bool {
	return d >= dr.Start && d <= dr.End
}

// RangeLimits bounds what PlanRange accepts.
type RangeLimits struct {
	MaxDays     int
	DefaultDays int // trailing window used when dates are omitted
}

// PlanRange validates and normalizes a raw (start, end) pair into a DateRange.
// A reversed pair is swapped. Missing dates default to a trailing window ending today.
func PlanRange(rawStart, rawEnd string, today Day, limits RangeLimits) (DateRange, error) {
	defaultDays := limits.DefaultDays
	if defaultDays <= 0 {
		defaultDays = 7
	}

	rawStart, rawEnd = strings.TrimSpace(rawStart), strings.TrimSpace(rawEnd)
	var start, end time.Time
	var err error

	if rawEnd != "" {
		if end, err = parseDayTime(rawEnd); err != nil {
			return DateRange{}, newError(InvalidRange, "invalid endDate %q", rawEnd)
		}
	}
	if rawStart != "" {
		if start, err = parseDayTime(rawStart); err != nil {
			return DateRange{}, newError(InvalidRange, "invalid startDate %q", rawStart)
		}
	}

	if rawEnd == "" {
		if end, err = today.time(); err != nil {
			return DateRange{}, newError(InvalidRange, "invalid today %q", string(today))
		}
	}
	if rawStart == "" {
		start = end.AddDate(0, 0, -(defaultDays - 1))
		if err = checkYear(start); err != nil {
			return DateRange{}, newError(InvalidRange, "default startDate before %s: %v", DayOf(end), err)
		}
	}
	if end.Before(start) {
		start, end = end, start
	}

	dayCount := int(end.Sub(start)/(24*time.Hour)) + 1
	if limits.MaxDays > 0 && dayCount > limits.MaxDays {
		return DateRange{}, newError(RangeTooLarge, "date range spans %d days; at most %d allowed", dayCount, limits.MaxDays)
	}

	days := make([]Day, 0, dayCount)
	for i := 0; i < dayCount; i++ {
		days = append(days, DayOf(start.AddDate(0, 0, i)))
	}

	return DateRange{Start: DayOf(start), End: DayOf(end), DayCount: dayCount, Days: days}, nil
}
