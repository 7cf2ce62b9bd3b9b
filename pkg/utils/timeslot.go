package utils

import (
	"fmt"
	"time"
)

// Day vocabulary for availability templates.
var Days = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// IsValidDay checks day against the three-letter vocabulary
func IsValidDay(day string) bool {
	for _, d := range Days {
		if d == day {
			return true
		}
	}
	return false
}

// ParseClock parses a zero-padded 24-hour "HH:MM" wall-clock value
func ParseClock(value string) (time.Time, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse clock %q: %w", value, err)
	}
	return t, nil
}

// ExpandTimeSlots decomposes a half-open [startTime, endTime) window into
// contiguous one-hour "HH:MM-HH:MM" labels, earliest first. A trailing period
// shorter than one hour is dropped, never emitted as a short slot. Returns nil
// for unparsable or empty windows.
func ExpandTimeSlots(startTime, endTime string) []string {
	start, err := ParseClock(startTime)
	if err != nil {
		return nil
	}
	end, err := ParseClock(endTime)
	if err != nil {
		return nil
	}

	var slots []string
	for current := start; !current.Add(time.Hour).After(end); current = current.Add(time.Hour) {
		slots = append(slots, SlotLabel(current, current.Add(time.Hour)))
	}
	return slots
}

// SlotLabel formats the canonical "HH:MM-HH:MM" label for an interval
func SlotLabel(start, end time.Time) string {
	return start.Format("15:04") + "-" + end.Format("15:04")
}

// DayAbbrev returns the template day label for a calendar timestamp
func DayAbbrev(t time.Time) string {
	return t.Weekday().String()[:3]
}
