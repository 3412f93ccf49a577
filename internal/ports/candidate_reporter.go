package ports

import "time"

type CandidateStatus string

const (
	CandidateAccepted CandidateStatus = "accepted"
	CandidateRejected CandidateStatus = "rejected"
)

// One evaluated candidate, accepted or rejected.
type CandidateReport struct {
	DayKey string
	Start  time.Time
	End    time.Time
	Status CandidateStatus
	// Reason names the first failed feasibility rule; empty when accepted.
	Reason string

	DetourMinutes     int
	SlackMinutes      int
	TravelToMinutes   int
	TravelFromMinutes int
}

// CandidateReporter receives one report per evaluated candidate.
//
// It is consumed by external QA and logging tooling only; the search
// algorithm never reads anything back from it. A nil reporter is valid
// and costs nothing.
type CandidateReporter interface {
	Report(CandidateReport)
}
