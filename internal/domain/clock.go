package domain

import (
	"errors"
	"fmt"
	"time"
)

// Date is a calendar day with no time component or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses the YYYY-MM-DD wire format.
func ParseDate(value string) (Date, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return DateOf(t), nil
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Weekday returns the ordinal used by repeat-day sets: 0=Sunday .. 6=Saturday.
func (d Date) Weekday() int {
	return int(d.Time().Weekday())
}

func (d Date) String() string {
	return d.Time().Format("2006-01-02")
}

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// TimeOfDay is a wall-clock time within one day.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// ParseTimeOfDay accepts HH:MM and HH:MM:SS.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	var tod TimeOfDay
	var err error
	switch len(value) {
	case 5:
		_, err = fmt.Sscanf(value, "%02d:%02d", &tod.Hour, &tod.Minute)
	case 8:
		_, err = fmt.Sscanf(value, "%02d:%02d:%02d", &tod.Hour, &tod.Minute, &tod.Second)
	default:
		err = errors.New("expected HH:MM or HH:MM:SS")
	}
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", value, err)
	}
	if tod.Hour < 0 || tod.Hour > 23 || tod.Minute < 0 || tod.Minute > 59 || tod.Second < 0 || tod.Second > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: out of range", value)
	}
	return tod, nil
}

// TimeOfDayOf extracts the wall-clock component of t.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// Seconds returns the offset from midnight in seconds.
func (t TimeOfDay) Seconds() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

// Sub returns the signed duration from other to t within the same day.
func (t TimeOfDay) Sub(other TimeOfDay) time.Duration {
	return time.Duration(t.Seconds()-other.Seconds()) * time.Second
}

// Weekdays is a weekly repeat pattern holding weekday ordinals (0=Sunday).
// The empty set means "every day", never "never".
type Weekdays []int

// Validate rejects out-of-range or duplicated ordinals.
func (w Weekdays) Validate() error {
	seen := make(map[int]struct{}, len(w))
	for _, day := range w {
		if day < 0 || day > 6 {
			return fmt.Errorf("weekday ordinal %d out of range 0..6", day)
		}
		if _, dup := seen[day]; dup {
			return fmt.Errorf("weekday ordinal %d repeated", day)
		}
		seen[day] = struct{}{}
	}
	return nil
}

// Matches reports whether the pattern schedules the given weekday ordinal.
func (w Weekdays) Matches(weekday int) bool {
	if len(w) == 0 {
		return true
	}
	for _, day := range w {
		if day == weekday {
			return true
		}
	}
	return false
}
