package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"visit-scheduler-service/internal/domain"
	"visit-scheduler-service/internal/ports"
)

const (
	defaultMaxResults = 100
	candidatesPerGap  = 3
	snapMinutes       = 15
)

// SearchOptions control a single slot search.
type SearchOptions struct {
	// Now is the reference instant for past and reachability checks. It is
	// an explicit input so identical searches are repeatable in tests.
	// Zero means the wall clock.
	Now time.Time
	// ClampToNow raises the search-window start to Now before any day is walked.
	ClampToNow bool
	// IncludeExplain attaches a diagnostic trace to every returned slot.
	IncludeExplain bool
	// MaxResults caps candidate generation and the ranked output (default 100).
	MaxResults int
	// Reporter receives one report per evaluated candidate. May be nil.
	Reporter ports.CandidateReporter
}

// scoredCandidate pairs a slot with its trace. The trace is computed for
// every candidate regardless of IncludeExplain so the final feasibility
// re-check is unconditional.
type scoredCandidate struct {
	slot  domain.ScoredSlot
	trace domain.ExplainTrace
}

type search struct {
	visit     domain.VisitRequest
	prefs     domain.Preferences
	estimator ports.TravelEstimator
	opts      SearchOptions

	now         time.Time
	notBefore   time.Time
	windowStart time.Time
	windowEnd   time.Time
	base        domain.Coordinates
	baseKnown   bool
	duration    time.Duration
	preBuf      time.Duration
	postBuf     time.Duration

	commitments []resolvedCommitment
	accepted    []scoredCandidate
}

// FindSlots searches the window for feasible, ranked start times for the
// new visit, given the already-fetched schedule and the caller's
// preferences.
//
// The search is single-pass, synchronous and side-effect-free apart from
// the optional reporter. An empty result is the normal "no slots" outcome,
// never an error; the error return exists for travel estimator substitutes
// that can fail (e.g. a routing API).
func FindSlots(
	ctx context.Context,
	schedule []domain.Commitment,
	visit domain.VisitRequest,
	prefs domain.Preferences,
	window domain.SearchWindow,
	opts SearchOptions,
	estimator ports.TravelEstimator,
) ([]domain.ScoredSlot, error) {
	if estimator == nil {
		return nil, errors.New("find slots: travel estimator must be non-nil")
	}
	if visit.DurationMinutes <= 0 {
		return nil, fmt.Errorf("find slots: visit duration must be positive, got %d", visit.DurationMinutes)
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = defaultMaxResults
	}

	loc := window.Start.Location()
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.In(loc)

	windowStart := window.Start
	if opts.ClampToNow && windowStart.Before(now) {
		windowStart = now
	}
	if !window.End.After(windowStart) {
		return []domain.ScoredSlot{}, nil
	}

	// Without a home base the visit's own location stands in, which
	// degrades boundary travel terms to zero rather than inventing a
	// location. Explain traces flag the degraded precision.
	base := visit.Location
	baseKnown := false
	if prefs.HomeBase != nil {
		base = *prefs.HomeBase
		baseKnown = true
	}

	s := &search{
		visit:       visit,
		prefs:       prefs,
		estimator:   estimator,
		opts:        opts,
		now:         now,
		notBefore:   now.Add(time.Duration(prefs.PreBufferMinutes) * time.Minute),
		windowStart: windowStart,
		windowEnd:   window.End,
		base:        base,
		baseKnown:   baseKnown,
		duration:    time.Duration(visit.DurationMinutes) * time.Minute,
		preBuf:      time.Duration(prefs.PreBufferMinutes) * time.Minute,
		postBuf:     time.Duration(prefs.PostBufferMinutes) * time.Minute,
	}

	for _, c := range schedule {
		start, end, ok := c.Interval()
		if !ok {
			// Unusable time data is excluded, never fatal.
			continue
		}
		s.commitments = append(s.commitments, resolvedCommitment{
			title:  c.Title,
			start:  start,
			end:    end,
			coords: c.Coords,
		})
	}

	windowHasCommitments := false
	for _, c := range s.commitments {
		if c.end.After(windowStart) && c.start.Before(window.End) {
			windowHasCommitments = true
			break
		}
	}

	for day := dayFloor(windowStart); !day.After(window.End); day = day.AddDate(0, 0, 1) {
		if len(s.accepted) >= opts.MaxResults {
			break
		}
		if !prefs.WorksOn(day.Weekday()) {
			continue
		}

		dayStart, dayEnd, ok := prefs.WorkingWindow(day)
		if !ok {
			continue
		}
		// First/last-day clamping to the window's own boundary.
		if dayStart.Before(windowStart) {
			dayStart = windowStart
		}
		if dayEnd.After(window.End) {
			dayEnd = window.End
		}
		if !dayEnd.After(dayStart) {
			continue
		}

		if !windowHasCommitments {
			if err := s.synthesizeEmptyDaySlot(ctx, day, dayStart, dayEnd); err != nil {
				return nil, err
			}
			continue
		}

		timeline := buildTimeline(s.commitments, dayStart, dayEnd, s.base, s.baseKnown)
		dayHasEvents := len(timeline) > 2
		for i := 0; i+1 < len(timeline); i++ {
			if err := s.walkGap(ctx, timeline[i], timeline[i+1], day, dayStart, dayEnd, dayHasEvents); err != nil {
				return nil, err
			}
		}
	}

	// Defense in depth: drop any slot whose recorded feasibility flags are
	// internally inconsistent. An infeasible proposal would send a user on
	// an impossible trip, so correct output wins over surfacing the
	// detection.
	kept := s.accepted[:0]
	for _, c := range s.accepted {
		if c.trace.Feasible() {
			kept = append(kept, c)
		}
	}

	if windowHasCommitments {
		slices.SortFunc(kept, func(a, b scoredCandidate) int {
			if a.slot.Score < b.slot.Score {
				return -1
			}
			if a.slot.Score > b.slot.Score {
				return 1
			}
			if c := a.slot.Start.Compare(b.slot.Start); c != 0 {
				return c
			}
			return strings.Compare(a.slot.DayKey, b.slot.DayKey)
		})
	} else {
		// Every empty day looks alike; earliest opportunity first.
		slices.SortFunc(kept, func(a, b scoredCandidate) int {
			if c := strings.Compare(a.slot.DayKey, b.slot.DayKey); c != 0 {
				return c
			}
			return a.slot.Start.Compare(b.slot.Start)
		})
	}

	if len(kept) > opts.MaxResults {
		kept = kept[:opts.MaxResults]
	}

	out := make([]domain.ScoredSlot, 0, len(kept))
	for i := range kept {
		slot := kept[i].slot
		if opts.IncludeExplain {
			trace := kept[i].trace
			slot.Explain = &trace
		}
		out = append(out, slot)
	}

	return out, nil
}

func (s *search) estimate(ctx context.Context, from, to domain.Coordinates, departAt time.Time) (int, error) {
	minutes, err := s.estimator.EstimateTravelMinutes(ctx, from, to, departAt)
	if err != nil {
		return 0, fmt.Errorf("find slots: estimate travel: %w", err)
	}
	if minutes < 0 {
		minutes = 0
	}
	return minutes, nil
}

func (s *search) overlapsAny(start, end time.Time) bool {
	for _, c := range s.commitments {
		if start.Before(c.end) && end.After(c.start) {
			return true
		}
	}
	return false
}

func (s *search) report(start, end time.Time, metrics domain.SlotMetrics, reason string) {
	if s.opts.Reporter == nil {
		return
	}

	status := ports.CandidateAccepted
	if reason != "" {
		status = ports.CandidateRejected
	}

	s.opts.Reporter.Report(ports.CandidateReport{
		DayKey:            dayKey(start),
		Start:             start,
		End:               end,
		Status:            status,
		Reason:            reason,
		DetourMinutes:     metrics.DetourMinutes,
		SlackMinutes:      metrics.SlackMinutes,
		TravelToMinutes:   metrics.TravelToMinutes,
		TravelFromMinutes: metrics.TravelFromMinutes,
	})
}

func dayFloor(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.In(a.Location()).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func dayKey(t time.Time) string { return t.Format("2006-01-02") }

// snapUpQuarter rounds t forward to the next quarter-hour boundary.
// Rounding never goes backward: a proposed start must stay reachable.
func snapUpQuarter(t time.Time) time.Time {
	base := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
	if base.Before(t) {
		base = base.Add(time.Minute)
	}
	if rem := base.Minute() % snapMinutes; rem != 0 {
		base = base.Add(time.Duration(snapMinutes-rem) * time.Minute)
	}
	return base
}
