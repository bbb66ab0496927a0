// Package booking holds the pure date-interval and pricing rules shared by the
// booking services and the persistence layer. Stays free of I/O so the overlap
// semantics can be exercised exhaustively in isolation.
package booking

import (
	"fmt"
	"time"
)

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a calendar date in DateLayout, anchored at UTC midnight.
func ParseDate(value string) (time.Time, error) {
	ts, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return ts.UTC(), nil
}

// NormalizeDate truncates a timestamp to its calendar date at UTC midnight.
// Time-of-day is irrelevant for stay intervals.
func NormalizeDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a timestamp as a calendar date.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. A stay ending exactly when another begins does not
// overlap, so back-to-back bookings never conflict.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Nights counts the whole nights covered by [checkIn, checkOut). Partial days
// round up, though normalized calendar dates always divide evenly.
func Nights(checkIn, checkOut time.Time) int {
	span := checkOut.Sub(checkIn)
	if span <= 0 {
		return 0
	}
	nights := span / (24 * time.Hour)
	if span%(24*time.Hour) != 0 {
		nights++
	}
	return int(nights)
}
