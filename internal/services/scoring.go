package services

import "fmt"

const (
	detourWeight      = 10
	tightSlackMinutes = 10
	tightSlackPenalty = 5000
	idleSlackMinutes  = 90
	idleSlackWeight   = 2
	emptyDayPenalty   = 150
)

// scoreCandidate computes a candidate's total-order value; lower is better.
//
// Detour dominates. Under tightSlackMinutes of margin before the next
// commitment is strongly discouraged, idle slack beyond idleSlackMinutes
// mildly so. A day with no existing commitments carries a fixed penalty so
// days that already have structure win once any commitments exist.
func scoreCandidate(detourMinutes, slackMinutes int, hasNextCommitment, dayHasEvents bool) int {
	score := detourMinutes * detourWeight

	if hasNextCommitment {
		if slackMinutes < tightSlackMinutes {
			score += tightSlackPenalty
		} else if slackMinutes > idleSlackMinutes {
			score += (slackMinutes - idleSlackMinutes) * idleSlackWeight
		}
	}

	if !dayHasEvents {
		score += emptyDayPenalty
	}

	return score
}

// gapLabel names where a slot sits relative to its neighboring anchors.
func gapLabel(prev, next anchor) string {
	switch {
	case prev.kind == anchorEvent && next.kind == anchorEvent:
		return fmt.Sprintf("Between %s and %s", prev.title, next.title)
	case prev.kind == anchorEvent:
		return fmt.Sprintf("After %s", prev.title)
	case next.kind == anchorEvent:
		return fmt.Sprintf("Before %s", next.title)
	default:
		return "At start of day"
	}
}
