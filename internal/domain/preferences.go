package domain

import "time"

// Daily working window in "HH:MM" clock strings.
type WorkingHours struct {
	Start string
	End   string
}

// Scheduling preferences supplied by the caller.
//
// Preference storage is an external collaborator; this core only consumes
// the already-deserialized values.
type Preferences struct {
	WorkingHours      WorkingHours
	PreBufferMinutes  int
	PostBufferMinutes int
	HomeBase          *Coordinates
	// WorkingDays is indexed by time.Weekday (Sunday..Saturday).
	WorkingDays [7]bool
}

// DefaultPreferences returns Mon-Fri 08:00-17:00 with 15-minute buffers.
func DefaultPreferences() Preferences {
	var days [7]bool
	for wd := time.Monday; wd <= time.Friday; wd++ {
		days[wd] = true
	}
	return Preferences{
		WorkingHours:      WorkingHours{Start: "08:00", End: "17:00"},
		PreBufferMinutes:  15,
		PostBufferMinutes: 15,
		WorkingDays:       days,
	}
}

// WorksOn reports whether wd is a working day.
func (p Preferences) WorksOn(wd time.Weekday) bool { return p.WorkingDays[wd] }

// WorkingWindow returns the working-hours window on the given day.
// ok is false when the clock strings are malformed or the window is empty.
func (p Preferences) WorkingWindow(day time.Time) (start, end time.Time, ok bool) {
	startMin, sok := ParseClock(p.WorkingHours.Start)
	endMin, eok := ParseClock(p.WorkingHours.End)
	if !sok || !eok || endMin <= startMin {
		return time.Time{}, time.Time{}, false
	}

	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return midnight.Add(time.Duration(startMin) * time.Minute),
		midnight.Add(time.Duration(endMin) * time.Minute),
		true
}
