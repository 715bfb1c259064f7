// Package schedule provides the date and time-of-day interval arithmetic
// shared by the validator, the conflict detector and the availability
// queries. Times of day are minutes since midnight; date ranges are
// inclusive; time ranges are half-open.
package schedule

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// ParseClock parses "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Slot is a candidate occupation of a building: an inclusive date range
// crossed with a half-open daily time window. The same window applies to
// every date in the range.
type Slot struct {
	StartDate time.Time
	EndDate   time.Time
	StartMin  int
	EndMin    int
}

// NewSlot normalizes dates to midnight UTC and parses the clock strings.
func NewSlot(startDate, endDate time.Time, startTime, endTime string) (Slot, error) {
	start, err := ParseClock(startTime)
	if err != nil {
		return Slot{}, err
	}
	end, err := ParseClock(endTime)
	if err != nil {
		return Slot{}, err
	}
	return Slot{
		StartDate: Midnight(startDate),
		EndDate:   Midnight(endDate),
		StartMin:  start,
		EndMin:    end,
	}, nil
}

// Duration is the daily window length.
func (s Slot) Duration() time.Duration {
	return time.Duration(s.EndMin-s.StartMin) * time.Minute
}

// End is the instant the slot's final daily window closes.
func (s Slot) End() time.Time {
	return s.EndDate.Add(time.Duration(s.EndMin) * time.Minute)
}

// Overlaps reports whether two slots collide: their date ranges share at
// least one day and their daily windows overlap. Half-open semantics on the
// time axis, so a booking ending 11:00 does not collide with one starting
// 11:00.
func (s Slot) Overlaps(o Slot) bool {
	return DatesOverlap(s.StartDate, s.EndDate, o.StartDate, o.EndDate) &&
		ClocksOverlap(s.StartMin, s.EndMin, o.StartMin, o.EndMin)
}

// DatesOverlap reports whether two inclusive date ranges share a day.
func DatesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}

// ClocksOverlap applies half-open interval semantics to two daily windows
// given as minutes since midnight.
func ClocksOverlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// Midnight truncates t to its date in UTC.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Days iterates the inclusive date range calling fn once per day.
func Days(start, end time.Time, fn func(d time.Time)) {
	for d := Midnight(start); !d.After(Midnight(end)); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}

// MonthBounds returns the first and last day of the given month.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}
