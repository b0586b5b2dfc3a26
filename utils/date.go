package utils

import (
	"fmt"
	"time"
)

// The school operates on a single fixed civil timezone (WIB, UTC+7).
// All date and weekday decisions must be made in this zone, not UTC.
var JakartaTZ = time.FixedZone("WIB", 7*60*60)

func JakartaNow() time.Time {
	return time.Now().In(JakartaTZ)
}

// CivilDate formats a timestamp as the school-local calendar date.
func CivilDate(t time.Time) string {
	return t.In(JakartaTZ).Format("2006-01-02")
}

func MustParseDate(dateStr string) time.Time {
	t, _ := time.ParseInLocation("2006-01-02", dateStr, JakartaTZ)
	return t
}

func ParseISOTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, fmt.Errorf("empty time string")
	}

	// Try standard RFC3339 format (ISO 8601)
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return &t, nil
	}

	t, err = time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return &t, nil
	}

	// Fallback formats used by older kiosk firmware
	layouts := []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if tt, e := time.ParseInLocation(layout, s, JakartaTZ); e == nil {
			return &tt, nil
		}
	}

	return nil, fmt.Errorf("failed to parse time: %v", s)
}
