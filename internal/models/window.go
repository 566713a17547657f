package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for event dates.
const DateLayout = "2006-01-02"

// Window scopes which events take part in a report. It only filters when
// both bounds are set; otherwise every event participates.
type Window struct {
	Start *time.Time `json:"start_date,omitempty"`
	End   *time.Time `json:"end_date,omitempty"`
}

// Bounded reports whether the window filters anything.
func (w Window) Bounded() bool {
	return w.Start != nil && w.End != nil
}

// Contains reports whether t falls inside [Start, End] at day granularity.
func (w Window) Contains(t time.Time) bool {
	if !w.Bounded() {
		return true
	}
	d := Day(t)
	return !d.Before(Day(*w.Start)) && !d.After(Day(*w.End))
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts YYYY-MM-DD or RFC 3339 and returns the calendar day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Day(t), nil
}

// ParseWindow builds a Window from optional query values. Empty strings leave
// the corresponding bound unset.
func ParseWindow(start, end string) (Window, error) {
	var w Window
	if start != "" {
		t, err := ParseDate(start)
		if err != nil {
			return Window{}, err
		}
		w.Start = &t
	}
	if end != "" {
		t, err := ParseDate(end)
		if err != nil {
			return Window{}, err
		}
		w.End = &t
	}
	return w, nil
}

// eventDate decodes a JSON date through ParseDate so request bodies accept
// the same formats as query strings.
type eventDate time.Time

func (d *eventDate) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = eventDate{}
		return nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = eventDate(t)
	return nil
}
