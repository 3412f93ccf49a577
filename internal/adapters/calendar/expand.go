package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"visit-scheduler-service/internal/domain"
)

// Safety cap so a runaway RRULE cannot blow up a search window.
const maxOccurrencesPerEvent = 500

// expandEvent turns one VEVENT into zero or more commitments within the
// window: one for a plain event, one per occurrence for an RRULE event.
func expandEvent(ve *ical.VEvent, window domain.SearchWindow) ([]domain.Commitment, error) {
	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return nil, errors.New("missing UID")
	}
	uid := uidProp.Value

	// The library's helpers handle VTIMEZONE/TZID resolution.
	start, err := ve.GetStartAt()
	if err != nil || start.IsZero() {
		return nil, fmt.Errorf("event %q: unusable DTSTART", uid)
	}
	end, err := ve.GetEndAt()
	if err != nil || !end.After(start) {
		return nil, fmt.Errorf("event %q: unusable DTEND", uid)
	}

	title := "(untitled)"
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil && p.Value != "" {
		title = p.Value
	}
	coords := parseGeo(ve)

	var rawRRule string
	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		rawRRule = p.Value
	}

	if rawRRule == "" {
		if !start.Before(window.End) || !end.After(window.Start) {
			return nil, nil
		}
		return []domain.Commitment{{
			ID:     uid,
			Title:  title,
			Start:  start,
			End:    end,
			Coords: coords,
		}}, nil
	}

	r, err := rrule.StrToRRule(rawRRule)
	if err != nil {
		return nil, fmt.Errorf("event %q: parse RRULE: %w", uid, err)
	}
	r.DTStart(start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range exDates(ve) {
		set.ExDate(ex.In(start.Location()))
	}

	// Between works in the event's own timezone.
	occTimes := set.Between(
		window.Start.In(start.Location()),
		window.End.In(start.Location()),
		true,
	)
	if len(occTimes) > maxOccurrencesPerEvent {
		occTimes = occTimes[:maxOccurrencesPerEvent]
	}

	duration := end.Sub(start)
	commitments := make([]domain.Commitment, 0, len(occTimes))
	for _, occStart := range occTimes {
		commitments = append(commitments, domain.Commitment{
			// Per-instance key keeps recurring occurrences distinct.
			ID:     uid + "/" + occStart.UTC().Format(time.RFC3339),
			Title:  title,
			Start:  occStart,
			End:    occStart.Add(duration),
			Coords: coords,
		})
	}

	return commitments, nil
}

// parseGeo reads the GEO property ("lat;lon"). Returns nil when absent or
// malformed; the commitment then blocks time without a travel coordinate.
func parseGeo(ve *ical.VEvent) *domain.Coordinates {
	p := ve.GetProperty("GEO")
	if p == nil || p.Value == "" {
		return nil
	}

	parts := strings.SplitN(p.Value, ";", 2)
	if len(parts) != 2 {
		return nil
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil
	}

	return &domain.Coordinates{Lat: lat, Lon: lon}
}

// exDates collects EXDATE values; EXDATE may appear multiple times and
// hold comma-separated lists.
func exDates(ve *ical.VEvent) []time.Time {
	var out []time.Time
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, err := parseICSTime(part); err == nil {
				out = append(out, t)
			}
		}
	}
	return out
}

// parseICSTime parses the basic ICS DATE/DATE-TIME/UTC forms.
func parseICSTime(v string) (time.Time, error) {
	switch {
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, time.Local)
	default:
		return time.ParseInLocation("20060102", v, time.Local)
	}
}
