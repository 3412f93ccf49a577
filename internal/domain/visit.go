package domain

import "time"

// The new appointment to place into the calendar.
type VisitRequest struct {
	Location        Coordinates
	DurationMinutes int
}

// Inclusive date range to search for feasible slots.
type SearchWindow struct {
	Start time.Time
	End   time.Time
}
