package calendar

import (
	"strings"
	"testing"
	"time"

	"visit-scheduler-service/internal/domain"
)

// icsPayload normalizes line endings so test fixtures can be written as
// plain Go strings.
func icsPayload(s string) []byte {
	s = strings.TrimSpace(s) + "\n"
	return []byte(strings.ReplaceAll(s, "\n", "\r\n"))
}

const feedFixture = `
BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//test//EN
BEGIN:VEVENT
UID:plain-1
DTSTART:20260901T070000Z
DTEND:20260901T080000Z
SUMMARY:Inspection
GEO:55.4581;12.1822
END:VEVENT
BEGIN:VEVENT
UID:daily-1
DTSTART:20260901T120000Z
DTEND:20260901T130000Z
SUMMARY:Daily rounds
RRULE:FREQ=DAILY;COUNT=3
EXDATE:20260902T120000Z
END:VEVENT
BEGIN:VEVENT
UID:old-1
DTSTART:20260810T070000Z
DTEND:20260810T080000Z
SUMMARY:Long past
END:VEVENT
BEGIN:VEVENT
UID:broken-1
SUMMARY:No times at all
END:VEVENT
END:VCALENDAR
`

func TestParseCommitments(t *testing.T) {
	window := domain.SearchWindow{
		Start: time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.September, 8, 0, 0, 0, 0, time.UTC),
	}
	src := Source{ID: "test-feed", URL: "https://example.test/cal.ics"}

	commitments, err := ParseCommitments(src, icsPayload(feedFixture), window)
	if err != nil {
		t.Fatalf("ParseCommitments() err = %v", err)
	}

	byID := map[string]domain.Commitment{}
	for _, c := range commitments {
		byID[c.ID] = c
	}

	if len(commitments) != 3 {
		t.Fatalf("len = %d, want 3 (plain + two recurrences), got ids %v", len(commitments), ids(commitments))
	}

	plain, ok := byID["plain-1"]
	if !ok {
		t.Fatal("plain event missing")
	}
	if plain.Title != "Inspection" {
		t.Errorf("plain title = %q, want Inspection", plain.Title)
	}
	if plain.Coords == nil || plain.Coords.Lat != 55.4581 || plain.Coords.Lon != 12.1822 {
		t.Errorf("plain coords = %+v, want GEO value", plain.Coords)
	}
	if !plain.Start.Equal(time.Date(2026, time.September, 1, 7, 0, 0, 0, time.UTC)) {
		t.Errorf("plain start = %v, want 07:00 UTC", plain.Start)
	}

	// Daily event recurs on Sep 1-3, with Sep 2 excluded by EXDATE.
	first, ok := byID["daily-1/2026-09-01T12:00:00Z"]
	if !ok {
		t.Fatalf("first recurrence missing, got ids %v", ids(commitments))
	}
	if !first.End.Equal(first.Start.Add(time.Hour)) {
		t.Errorf("recurrence duration = %v, want 1h", first.End.Sub(first.Start))
	}
	if _, ok := byID["daily-1/2026-09-03T12:00:00Z"]; !ok {
		t.Errorf("third recurrence missing, got ids %v", ids(commitments))
	}
	if _, ok := byID["daily-1/2026-09-02T12:00:00Z"]; ok {
		t.Error("excluded recurrence should not appear")
	}

	if _, ok := byID["old-1"]; ok {
		t.Error("event before the window should not appear")
	}
}

func TestParseCommitmentsErrors(t *testing.T) {
	window := domain.SearchWindow{
		Start: time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.September, 8, 0, 0, 0, 0, time.UTC),
	}
	src := Source{ID: "test-feed"}

	if _, err := ParseCommitments(src, nil, window); err == nil {
		t.Error("ParseCommitments(empty) err = nil, want non-nil")
	}
	if _, err := ParseCommitments(src, []byte("not an ics file"), window); err == nil {
		t.Error("ParseCommitments(garbage) err = nil, want non-nil")
	}
}

func TestParseGeoForms(t *testing.T) {
	base := `
BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//test//EN
BEGIN:VEVENT
UID:geo-1
DTSTART:20260901T070000Z
DTEND:20260901T080000Z
SUMMARY:Visit
GEO:%s
END:VEVENT
END:VCALENDAR
`
	window := domain.SearchWindow{
		Start: time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.September, 2, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name      string
		geo       string
		wantCoord bool
	}{
		{name: "valid", geo: "55.45;12.18", wantCoord: true},
		{name: "missing lon", geo: "55.45", wantCoord: false},
		{name: "not numbers", geo: "north;south", wantCoord: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			payload := icsPayload(strings.Replace(base, "%s", tc.geo, 1))
			commitments, err := ParseCommitments(Source{ID: "geo"}, payload, window)
			if err != nil {
				t.Fatalf("ParseCommitments() err = %v", err)
			}
			if len(commitments) != 1 {
				t.Fatalf("len = %d, want 1", len(commitments))
			}
			if got := commitments[0].Coords != nil; got != tc.wantCoord {
				t.Errorf("coords present = %v, want %v", got, tc.wantCoord)
			}
		})
	}
}

func ids(commitments []domain.Commitment) []string {
	out := make([]string, 0, len(commitments))
	for _, c := range commitments {
		out = append(out, c.ID)
	}
	return out
}
