package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

var eventDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// ParseEventDate parses the stored event date. Dates without a zone are
// taken as UTC midnight.
func ParseEventDate(s string) (time.Time, bool) {
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsAfter reports whether the event date lies after now. Unparseable dates
// are never upcoming.
func IsAfter(eventDate string, now time.Time) bool {
	t, ok := ParseEventDate(eventDate)
	return ok && t.After(now)
}
