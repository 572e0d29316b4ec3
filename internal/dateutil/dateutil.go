// Package dateutil provides calendar-naive local date and time helpers.
//
// Goal windows are stored as zero-padded local strings ("2006-01-02T15:04")
// with no timezone component, so parsing and formatting never convert
// between zones and lexicographic order on the strings matches
// chronological order.
package dateutil

import (
	"fmt"
	"strings"
	"time"
)

// LayoutDate is the date-only form used by legacy records and day keys.
const LayoutDate = "2006-01-02"

// LayoutDateTime is the local datetime form used for goal windows.
const LayoutDateTime = "2006-01-02T15:04"

// FormatDate renders d as "YYYY-MM-DD" in d's location.
func FormatDate(d time.Time) string {
	return d.Format(LayoutDate)
}

// FormatDateTime renders d as "YYYY-MM-DDTHH:MM" in d's location.
func FormatDateTime(d time.Time) string {
	return d.Format(LayoutDateTime)
}

// ParseDateTime parses a local datetime string into a time.Time in the
// local location. A missing or partial time component defaults to
// midnight, mirroring how legacy date-only values are promoted.
func ParseDateTime(s string) (time.Time, error) {
	datePart, timePart, _ := strings.Cut(s, "T")

	d, err := time.ParseInLocation(LayoutDate, datePart, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing local datetime %q: %w", s, err)
	}

	if timePart == "" {
		return d, nil
	}

	var hh, mm int
	if _, err := fmt.Sscanf(timePart, "%d:%d", &hh, &mm); err != nil {
		return time.Time{}, fmt.Errorf("parsing local datetime %q: %w", s, err)
	}

	return d.Add(time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute), nil
}

// AddHours returns d shifted by n hours.
func AddHours(d time.Time, n int) time.Time {
	return d.Add(time.Duration(n) * time.Hour)
}

// AddDays returns d shifted by n calendar days.
func AddDays(d time.Time, n int) time.Time {
	return d.AddDate(0, 0, n)
}

// AddMonths returns d shifted by n calendar months with Go's rollover
// semantics (Jan 31 + 1 month = Mar 2/3), not fixed 30-day months.
func AddMonths(d time.Time, n int) time.Time {
	return d.AddDate(0, n, 0)
}

// AddYears returns d shifted by n calendar years.
func AddYears(d time.Time, n int) time.Time {
	return d.AddDate(n, 0, 0)
}

// StartOfDay returns midnight of d's calendar day.
func StartOfDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

// StartOfWeekSunday returns midnight of the Sunday beginning d's week.
func StartOfWeekSunday(d time.Time) time.Time {
	sod := StartOfDay(d)
	return sod.AddDate(0, 0, -int(sod.Weekday()))
}

// DayKey returns the "YYYY-MM-DD" bucket key for d's calendar day.
func DayKey(d time.Time) string {
	return d.Format(LayoutDate)
}

// FromMillis converts a millisecond Unix timestamp to a local time.Time.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}

// Millis converts d to a millisecond Unix timestamp.
func Millis(d time.Time) int64 {
	return d.UnixMilli()
}
