package services

import (
	"slices"
	"strings"
	"time"

	"visit-scheduler-service/internal/domain"
)

type anchorKind int

const (
	anchorDayStart anchorKind = iota
	anchorEvent
	anchorDayEnd
)

func (k anchorKind) String() string {
	switch k {
	case anchorDayStart:
		return "day-start"
	case anchorEvent:
		return "event"
	default:
		return "day-end"
	}
}

// anchor is one point in a day's timeline: the working-day boundary or an
// existing commitment. Boundaries and commitments share one shape so the
// gap walk is written once over a homogeneous sequence.
type anchor struct {
	kind  anchorKind
	title string
	start time.Time
	end   time.Time
	// coords is the base location when the underlying commitment carries
	// no coordinate; hasCoords flags that degraded precision.
	coords    domain.Coordinates
	hasCoords bool
}

// A commitment whose interval already resolved successfully.
type resolvedCommitment struct {
	title  string
	start  time.Time
	end    time.Time
	coords *domain.Coordinates
}

// buildTimeline produces the ordered anchor sequence for one day:
// [day-start, commitments sorted by start, day-end].
//
// Commitments overlapping [dayStart, dayEnd) are clipped to it, so an
// appointment that began the previous evening still blocks the morning it
// spills into. The boundary anchors sit at the base location.
func buildTimeline(
	commitments []resolvedCommitment,
	dayStart time.Time,
	dayEnd time.Time,
	base domain.Coordinates,
	baseKnown bool,
) []anchor {
	events := make([]anchor, 0, len(commitments))

	for _, c := range commitments {
		if !c.end.After(dayStart) || !c.start.Before(dayEnd) {
			continue
		}

		start, end := c.start, c.end
		if start.Before(dayStart) {
			start = dayStart
		}
		if end.After(dayEnd) {
			end = dayEnd
		}

		coords, hasCoords := base, false
		if c.coords != nil {
			coords, hasCoords = *c.coords, true
		}

		events = append(events, anchor{
			kind:      anchorEvent,
			title:     c.title,
			start:     start,
			end:       end,
			coords:    coords,
			hasCoords: hasCoords,
		})
	}

	// Tie-breakers keep the walk deterministic for identical inputs.
	slices.SortFunc(events, func(a, b anchor) int {
		if c := a.start.Compare(b.start); c != 0 {
			return c
		}
		if c := a.end.Compare(b.end); c != 0 {
			return c
		}
		return strings.Compare(a.title, b.title)
	})

	timeline := make([]anchor, 0, len(events)+2)
	timeline = append(timeline, anchor{
		kind:      anchorDayStart,
		title:     "start of day",
		start:     dayStart,
		end:       dayStart,
		coords:    base,
		hasCoords: baseKnown,
	})
	timeline = append(timeline, events...)
	timeline = append(timeline, anchor{
		kind:      anchorDayEnd,
		title:     "end of day",
		start:     dayEnd,
		end:       dayEnd,
		coords:    base,
		hasCoords: baseKnown,
	})

	return timeline
}
