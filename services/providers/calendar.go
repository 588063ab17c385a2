package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Fallback window used when the requested dates cannot be parsed. The
// planner degrades to this range instead of failing the session.
var (
	fallbackStart = time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	fallbackEnd   = time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC)
)

// MockCalendar reports every day in the range as free.
type MockCalendar struct{}

func (MockCalendar) FreeDates(ctx context.Context, startDate, endDate string) ([]string, error) {
	start, end := parseRangeOrFallback(startDate, endDate)
	return datesBetween(start, end, nil), nil
}

// GoogleCalendar queries the Google Calendar free/busy API and returns the
// days in range that have no busy blocks. Only the freebusy scope is used;
// no event contents are ever read.
type GoogleCalendar struct {
	AccessToken string
	HTTPClient  *http.Client
}

const freeBusyURL = "https://www.googleapis.com/calendar/v3/freeBusy"

func (g *GoogleCalendar) FreeDates(ctx context.Context, startDate, endDate string) ([]string, error) {
	start, end := parseRangeOrFallback(startDate, endDate)

	body, err := json.Marshal(map[string]any{
		"timeMin": start.Format("2006-01-02") + "T00:00:00Z",
		"timeMax": end.Format("2006-01-02") + "T23:59:59Z",
		"items":   []map[string]string{{"id": "primary"}},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, freeBusyURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("freebusy query failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("freebusy query failed: status %d", resp.StatusCode)
	}

	var result struct {
		Calendars map[string]struct {
			Busy []struct {
				Start string `json:"start"`
			} `json:"busy"`
		} `json:"calendars"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode freebusy response: %w", err)
	}

	busy := map[string]bool{}
	for _, block := range result.Calendars["primary"].Busy {
		if len(block.Start) >= 10 {
			busy[block.Start[:10]] = true
		}
	}
	return datesBetween(start, end, busy), nil
}

func (g *GoogleCalendar) client() *http.Client {
	if g.HTTPClient != nil {
		return g.HTTPClient
	}
	return http.DefaultClient
}

func parseRangeOrFallback(startDate, endDate string) (time.Time, time.Time) {
	start, err1 := time.Parse("2006-01-02", strings.TrimSpace(startDate))
	end, err2 := time.Parse("2006-01-02", strings.TrimSpace(endDate))
	if err1 != nil || err2 != nil || end.Before(start) {
		return fallbackStart, fallbackEnd
	}
	return start, end
}

// datesBetween lists every date from start to end inclusive, skipping any
// present in the busy set.
func datesBetween(start, end time.Time, busy map[string]bool) []string {
	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		iso := d.Format("2006-01-02")
		if !busy[iso] {
			dates = append(dates, iso)
		}
	}
	return dates
}
