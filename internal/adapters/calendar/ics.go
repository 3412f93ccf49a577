package calendar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	ical "github.com/arran4/golang-ical"

	"visit-scheduler-service/internal/domain"
)

// Source describes one ICS subscription feed.
type Source struct {
	ID  string
	URL string
}

// Feed fetches ICS calendars over HTTP and turns them into commitments.
// It is the calendar-integration collaborator; the slot search itself
// never fetches anything.
type Feed struct {
	client *http.Client
}

func NewFeed() *Feed {
	return &Feed{client: &http.Client{Timeout: 15 * time.Second}}
}

// FetchCommitments downloads the feed and returns the commitments whose
// occurrences intersect [window.Start, window.End).
func (f *Feed) FetchCommitments(
	ctx context.Context,
	src Source,
	window domain.SearchWindow,
) ([]domain.Commitment, error) {
	if src.URL == "" {
		return nil, errors.New("fetch commitments: source URL is empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch commitments: create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch commitments: get feed %q: %w", src.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch commitments: feed %q returned %s", src.ID, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch commitments: read feed %q: %w", src.ID, err)
	}

	return ParseCommitments(src, body, window)
}

// ParseCommitments parses an ICS payload into commitments, expanding
// recurring events within the window.
//
// A malformed event is logged and skipped; one bad calendar entry must
// not lose the rest of the feed.
func ParseCommitments(src Source, body []byte, window domain.SearchWindow) ([]domain.Commitment, error) {
	if len(body) == 0 {
		return nil, errors.New("parse commitments: empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse commitments: parse calendar for feed %q: %w", src.ID, err)
	}

	commitments := make([]domain.Commitment, 0)
	for _, ve := range cal.Events() {
		expanded, err := expandEvent(ve, window)
		if err != nil {
			log.Printf("ics event skipped: feed=%s err=%v", src.ID, err)
			continue
		}
		commitments = append(commitments, expanded...)
	}

	return commitments, nil
}
