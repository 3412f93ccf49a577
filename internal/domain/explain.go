package domain

// ExplainTrace is a diagnostic snapshot of every quantity used to accept
// or reject a candidate slot.
//
// It is a pure side channel: it reports the decision but never influences
// it. The feasibility booleans are recorded individually so a rejected
// candidate can state exactly which rule failed.
type ExplainTrace struct {
	PrevKind      string
	PrevTitle     string
	PrevHasCoords bool
	NextKind      string
	NextTitle     string
	NextHasCoords bool

	GapMinutes        int
	PreBufferMinutes  int
	PostBufferMinutes int

	TravelToMinutes      int
	TravelFromMinutes    int
	BaselineMinutes      int
	ArrivalMarginMinutes int

	FitsGap           bool
	WithinDay         bool
	NotInPast         bool
	ReachableFromPrev bool
	ReachesNext       bool
	NoOverlap         bool

	Summary string
}

// Feasible reports whether every recorded feasibility check passed.
func (t ExplainTrace) Feasible() bool {
	return t.FitsGap && t.WithinDay && t.NotInPast &&
		t.ReachableFromPrev && t.ReachesNext && t.NoOverlap
}
