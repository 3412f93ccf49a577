package services

import (
	"context"
	"fmt"
	"time"

	"visit-scheduler-service/internal/domain"
)

// Everything a candidate needs from its enclosing gap.
type gapContext struct {
	prev         anchor
	next         anchor
	prevDepart   time.Time
	nextArriveBy time.Time
	earliest     time.Time
	travelTo     int
	baseline     int
	dayStart     time.Time
	dayEnd       time.Time
	dayHasEvents bool
}

// walkGap proposes up to candidatesPerGap snapped start times between two
// consecutive anchors and runs each through the feasibility filter.
func (s *search) walkGap(
	ctx context.Context,
	prev anchor,
	next anchor,
	day time.Time,
	dayStart time.Time,
	dayEnd time.Time,
	dayHasEvents bool,
) error {
	prevDepart := prev.end
	if prev.kind == anchorEvent {
		prevDepart = prevDepart.Add(s.postBuf)
	}
	nextArriveBy := next.start
	if next.kind == anchorEvent {
		nextArriveBy = nextArriveBy.Add(-s.preBuf)
	}
	if !nextArriveBy.After(prevDepart) {
		// Gap closed by the buffers; nothing to propose.
		return nil
	}

	travelTo, err := s.estimate(ctx, prev.coords, s.visit.Location, prevDepart)
	if err != nil {
		return err
	}

	earliest := prevDepart.Add(time.Duration(travelTo) * time.Minute)
	if prev.kind == anchorEvent {
		// The pre-buffer is waived at the day boundary.
		earliest = earliest.Add(s.preBuf)
	}

	// On today, the first departure happens from the base at "now", not
	// from an assumed presence there when working hours opened.
	if prev.kind == anchorDayStart && sameDay(day, s.now) {
		fromNow, err := s.estimate(ctx, s.base, s.visit.Location, s.now)
		if err != nil {
			return err
		}
		if leaveNow := s.now.Add(time.Duration(fromNow) * time.Minute); leaveNow.After(earliest) {
			earliest = leaveNow
		}
	}

	// The travel cost that already exists between the two fixed anchors.
	baseline, err := s.estimate(ctx, prev.coords, next.coords, prevDepart)
	if err != nil {
		return err
	}

	gc := gapContext{
		prev:         prev,
		next:         next,
		prevDepart:   prevDepart,
		nextArriveBy: nextArriveBy,
		earliest:     earliest,
		travelTo:     travelTo,
		baseline:     baseline,
		dayStart:     dayStart,
		dayEnd:       dayEnd,
		dayHasEvents: dayHasEvents,
	}

	floor := snapUpQuarter(earliest)
	for i := 0; i < candidatesPerGap; i++ {
		if len(s.accepted) >= s.opts.MaxResults {
			return nil
		}
		start := floor.Add(time.Duration(i*snapMinutes) * time.Minute)
		if err := s.evaluateCandidate(ctx, gc, start); err != nil {
			return err
		}
	}

	return nil
}

// evaluateCandidate runs every feasibility rule for one proposed start,
// records the full trace, reports the outcome, and keeps the candidate
// when all rules pass.
func (s *search) evaluateCandidate(ctx context.Context, gc gapContext, start time.Time) error {
	end := start.Add(s.duration)

	departAt := end
	if gc.next.kind == anchorEvent {
		// The post-buffer is waived at the day boundary.
		departAt = departAt.Add(s.postBuf)
	}

	travelFrom, err := s.estimate(ctx, s.visit.Location, gc.next.coords, departAt)
	if err != nil {
		return err
	}
	travelFromDur := time.Duration(travelFrom) * time.Minute
	arrive := departAt.Add(travelFromDur)

	// Total the gap must hold, with each term omitted where waived at a
	// boundary. The trailing travel leg is only required to beat a
	// deadline when a real commitment follows.
	required := s.duration + time.Duration(gc.travelTo)*time.Minute
	appliedPre, appliedPost := 0, 0
	if gc.prev.kind == anchorEvent {
		required += s.preBuf
		appliedPre = s.prefs.PreBufferMinutes
	}
	if gc.next.kind == anchorEvent {
		required += s.postBuf + travelFromDur
		appliedPost = s.prefs.PostBufferMinutes
	}
	gap := gc.nextArriveBy.Sub(gc.prevDepart)

	trace := domain.ExplainTrace{
		PrevKind:             gc.prev.kind.String(),
		PrevTitle:            gc.prev.title,
		PrevHasCoords:        gc.prev.hasCoords,
		NextKind:             gc.next.kind.String(),
		NextTitle:            gc.next.title,
		NextHasCoords:        gc.next.hasCoords,
		GapMinutes:           int(gap / time.Minute),
		PreBufferMinutes:     appliedPre,
		PostBufferMinutes:    appliedPost,
		TravelToMinutes:      gc.travelTo,
		TravelFromMinutes:    travelFrom,
		BaselineMinutes:      gc.baseline,
		ArrivalMarginMinutes: int(gc.nextArriveBy.Sub(arrive) / time.Minute),

		FitsGap:           gap >= required,
		WithinDay:         !start.Before(gc.dayStart) && !end.After(gc.dayEnd),
		NotInPast:         !start.Before(s.notBefore),
		ReachableFromPrev: !start.Before(gc.earliest),
		ReachesNext:       gc.next.kind != anchorEvent || !arrive.After(gc.nextArriveBy),
		NoOverlap:         !s.overlapsAny(start, end),
	}

	detour := gc.travelTo + travelFrom - gc.baseline
	slack := 0
	if gc.next.kind == anchorEvent {
		slack = int(gc.nextArriveBy.Sub(arrive) / time.Minute)
	}

	metrics := domain.SlotMetrics{
		DetourMinutes:     detour,
		SlackMinutes:      slack,
		TravelToMinutes:   gc.travelTo,
		TravelFromMinutes: travelFrom,
	}

	reason := firstFailure(trace)
	trace.Summary = summarize(trace, start, end, reason)
	s.report(start, end, metrics, reason)

	if reason != "" {
		return nil
	}

	s.accepted = append(s.accepted, scoredCandidate{
		slot: domain.ScoredSlot{
			DayKey:  dayKey(start),
			Start:   start,
			End:     end,
			Score:   scoreCandidate(detour, slack, gc.next.kind == anchorEvent, gc.dayHasEvents),
			Metrics: metrics,
			Label:   gapLabel(gc.prev, gc.next),
		},
		trace: trace,
	})

	return nil
}

// synthesizeEmptyDaySlot proposes a single earliest-reachable slot for a
// working day inside a window that contains no commitments at all. With
// nothing to anchor against, one proposal per day is enough; the
// empty-day penalty keeps these behind structured days once any
// commitments exist anywhere.
func (s *search) synthesizeEmptyDaySlot(ctx context.Context, day, dayStart, dayEnd time.Time) error {
	travelTo, err := s.estimate(ctx, s.base, s.visit.Location, dayStart)
	if err != nil {
		return err
	}

	earliest := dayStart.Add(time.Duration(travelTo) * time.Minute)
	if sameDay(day, s.now) {
		fromNow, err := s.estimate(ctx, s.base, s.visit.Location, s.now)
		if err != nil {
			return err
		}
		if leaveNow := s.now.Add(time.Duration(fromNow) * time.Minute); leaveNow.After(earliest) {
			earliest = leaveNow
		}
	}
	if earliest.Before(s.notBefore) {
		earliest = s.notBefore
	}

	start := snapUpQuarter(earliest)
	end := start.Add(s.duration)

	// Round trip from base; no existing anchors to compare against.
	detour := 2 * travelTo
	metrics := domain.SlotMetrics{
		DetourMinutes:     detour,
		TravelToMinutes:   travelTo,
		TravelFromMinutes: travelTo,
	}

	trace := domain.ExplainTrace{
		PrevKind:          anchorDayStart.String(),
		PrevTitle:         "start of day",
		PrevHasCoords:     s.baseKnown,
		NextKind:          anchorDayEnd.String(),
		NextTitle:         "end of day",
		NextHasCoords:     s.baseKnown,
		GapMinutes:        int(dayEnd.Sub(dayStart) / time.Minute),
		TravelToMinutes:   travelTo,
		TravelFromMinutes: travelTo,

		FitsGap:           !end.After(dayEnd),
		WithinDay:         !start.Before(dayStart) && !end.After(dayEnd),
		NotInPast:         !start.Before(s.notBefore),
		ReachableFromPrev: !start.Before(earliest),
		ReachesNext:       true,
		NoOverlap:         true,
	}

	reason := firstFailure(trace)
	trace.Summary = summarize(trace, start, end, reason)
	s.report(start, end, metrics, reason)

	if reason != "" {
		return nil
	}

	s.accepted = append(s.accepted, scoredCandidate{
		slot: domain.ScoredSlot{
			DayKey:  dayKey(start),
			Start:   start,
			End:     end,
			Score:   scoreCandidate(detour, 0, false, false),
			Metrics: metrics,
			Label:   "At start of day",
		},
		trace: trace,
	})

	return nil
}

// firstFailure names the first feasibility rule a candidate broke, checked
// in a fixed order. Empty means feasible.
func firstFailure(t domain.ExplainTrace) string {
	switch {
	case !t.FitsGap:
		return "gap too small"
	case !t.WithinDay:
		return "outside working window"
	case !t.NotInPast:
		return "in the past"
	case !t.ReachableFromPrev:
		return "unreachable from previous anchor"
	case !t.ReachesNext:
		return "would miss next commitment"
	case !t.NoOverlap:
		return "overlaps existing commitment"
	}
	return ""
}

func summarize(t domain.ExplainTrace, start, end time.Time, reason string) string {
	span := fmt.Sprintf("%s-%s", start.Format("15:04"), end.Format("15:04"))
	if reason != "" {
		return fmt.Sprintf("%s rejected: %s", span, reason)
	}
	return fmt.Sprintf(
		"%s fits between %s and %s: %dmin out, %dmin back, %dmin arrival margin",
		span, t.PrevTitle, t.NextTitle,
		t.TravelToMinutes, t.TravelFromMinutes, t.ArrivalMarginMinutes,
	)
}
