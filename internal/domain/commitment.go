package domain

import "time"

// Represents an existing calendar appointment that blocks time.
//
// Time data arrives in one of two forms: explicit Start/End instants, or a
// display-form TimeLabel ("HH:MM - HH:MM") interpreted relative to Day.
// Coords is optional; a commitment without coordinates still blocks time,
// but travel to and from it falls back to the caller's base location.
type Commitment struct {
	ID        string
	Title     string
	Start     time.Time
	End       time.Time
	TimeLabel string
	Day       time.Time
	Coords    *Coordinates
}

// Interval resolves the commitment's concrete [start, end) interval.
//
// Explicit instants win over the display label. ok is false when the
// commitment carries no usable time data; a bad calendar entry must never
// crash a search, so callers drop it from the timeline instead.
func (c Commitment) Interval() (start, end time.Time, ok bool) {
	if !c.Start.IsZero() && !c.End.IsZero() && c.End.After(c.Start) {
		return c.Start, c.End, true
	}

	if c.TimeLabel == "" || c.Day.IsZero() {
		return time.Time{}, time.Time{}, false
	}

	startMin, endMin, ok := ParseClockRange(c.TimeLabel)
	if !ok {
		return time.Time{}, time.Time{}, false
	}

	midnight := time.Date(c.Day.Year(), c.Day.Month(), c.Day.Day(), 0, 0, 0, 0, c.Day.Location())
	return midnight.Add(time.Duration(startMin) * time.Minute),
		midnight.Add(time.Duration(endMin) * time.Minute),
		true
}

// Overlaps reports whether the commitment's resolved interval intersects
// [start, end). Unresolvable commitments never overlap.
func (c Commitment) Overlaps(start, end time.Time) bool {
	cs, ce, ok := c.Interval()
	if !ok {
		return false
	}
	return start.Before(ce) && end.After(cs)
}
