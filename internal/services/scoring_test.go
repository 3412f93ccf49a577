package services

import "testing"

func TestScoreCandidate(t *testing.T) {
	tests := []struct {
		name              string
		detour, slack     int
		hasNextCommitment bool
		dayHasEvents      bool
		want              int
	}{
		{name: "no detour, comfortable slack", detour: 0, slack: 30, hasNextCommitment: true, dayHasEvents: true, want: 0},
		{name: "detour dominates", detour: 12, slack: 30, hasNextCommitment: true, dayHasEvents: true, want: 120},
		{name: "tight slack penalized hard", detour: 0, slack: 5, hasNextCommitment: true, dayHasEvents: true, want: 5000},
		{name: "slack exactly at tight threshold", detour: 0, slack: 10, hasNextCommitment: true, dayHasEvents: true, want: 0},
		{name: "idle slack penalized mildly", detour: 0, slack: 120, hasNextCommitment: true, dayHasEvents: true, want: 60},
		{name: "slack exactly at idle threshold", detour: 0, slack: 90, hasNextCommitment: true, dayHasEvents: true, want: 0},
		{name: "zero slack without next commitment is fine", detour: 0, slack: 0, hasNextCommitment: false, dayHasEvents: true, want: 0},
		{name: "empty day carries a penalty", detour: 0, slack: 30, hasNextCommitment: true, dayHasEvents: false, want: 150},
		{name: "all penalties stack", detour: 3, slack: 100, hasNextCommitment: true, dayHasEvents: false, want: 30 + 20 + 150},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := scoreCandidate(tc.detour, tc.slack, tc.hasNextCommitment, tc.dayHasEvents)
			if got != tc.want {
				t.Errorf("scoreCandidate(%d, %d, %v, %v) = %d, want %d",
					tc.detour, tc.slack, tc.hasNextCommitment, tc.dayHasEvents, got, tc.want)
			}
		})
	}
}

func TestGapLabel(t *testing.T) {
	event := func(title string) anchor { return anchor{kind: anchorEvent, title: title} }
	dayStart := anchor{kind: anchorDayStart, title: "start of day"}
	dayEnd := anchor{kind: anchorDayEnd, title: "end of day"}

	tests := []struct {
		name       string
		prev, next anchor
		want       string
	}{
		{name: "between two events", prev: event("Inspection"), next: event("Follow-up"), want: "Between Inspection and Follow-up"},
		{name: "after last event", prev: event("Inspection"), next: dayEnd, want: "After Inspection"},
		{name: "before first event", prev: dayStart, next: event("Follow-up"), want: "Before Follow-up"},
		{name: "empty day", prev: dayStart, next: dayEnd, want: "At start of day"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := gapLabel(tc.prev, tc.next); got != tc.want {
				t.Errorf("gapLabel() = %q, want %q", got, tc.want)
			}
		})
	}
}
