package core

import (
	"strconv"
	"strings"
	"time"
)

// ToMinutes converts a civil "HH:MM" string to its minute-of-day offset.
// Malformed input (no colon, non-numeric parts) yields 0. Settings writes
// validate time strings, so the fallback is unreachable through the API;
// callers must not treat 0 as a midnight signal for bad input.
func ToMinutes(hhmm string) int {
	h, m, ok := strings.Cut(hhmm, ":")
	if !ok {
		return 0
	}
	hours, err := strconv.Atoi(h)
	if err != nil {
		return 0
	}
	minutes, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return hours*60 + minutes
}

// MinuteOfDay truncates a timestamp to its minute-of-day offset.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// ParseTimeOnDate combines a base date with a civil "HH:MM" string,
// keeping the base date's location.
func ParseTimeOnDate(baseDate time.Time, hhmm string) time.Time {
	mins := ToMinutes(hhmm)
	return time.Date(baseDate.Year(), baseDate.Month(), baseDate.Day(), mins/60, mins%60, 0, 0, baseDate.Location())
}
