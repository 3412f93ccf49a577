package domain

import "time"

// Per-slot travel and timing quantities, all in whole minutes.
type SlotMetrics struct {
	DetourMinutes     int
	SlackMinutes      int
	TravelToMinutes   int
	TravelFromMinutes int
}

// Represents one feasible placement of the new visit.
//
// A ScoredSlot is the output of a slot search and is immutable planning
// data: [Start, End) never overlaps an existing commitment, Score orders
// slots with lower meaning better, and Label records the slot's position
// relative to its neighboring commitments. Explain is attached only when
// the caller asked for diagnostics.
type ScoredSlot struct {
	DayKey  string
	Start   time.Time
	End     time.Time
	Score   int
	Metrics SlotMetrics
	Label   string
	Explain *ExplainTrace
}
