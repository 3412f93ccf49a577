package domain

import (
	"strconv"
	"strings"
)

// ParseClock parses a "HH:MM" clock string into minutes from midnight.
// ok is false for anything that is not a valid 24-hour clock value.
func ParseClock(s string) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}

	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}

	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}

	return h*60 + m, true
}

// ParseClockRange parses a display-form "HH:MM - HH:MM" range into start
// and end minutes from midnight.
//
// Calendar entries carry this form when no explicit instants are known.
// Malformed or inverted ranges return ok=false; callers exclude the entry
// rather than failing the whole search.
func ParseClockRange(s string) (startMin, endMin int, ok bool) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}

	startMin, ok = ParseClock(parts[0])
	if !ok {
		return 0, 0, false
	}

	endMin, ok = ParseClock(parts[1])
	if !ok || endMin <= startMin {
		return 0, 0, false
	}

	return startMin, endMin, true
}
