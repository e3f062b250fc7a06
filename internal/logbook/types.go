// Package logbook holds the duty-status domain model and the pure projections
// derived from it: the 24-slot hourly grid, per-status totals, remarks, daily
// log generation, and trip-level aggregation.
package logbook

import (
	"fmt"
	"strings"
	"time"
)

// Status is a duty status class.
type Status string

const (
	// StatusOff is off duty. It is also the sentinel for uncovered time.
	StatusOff Status = "OFF"
	// StatusSleeper is sleeper berth.
	StatusSleeper Status = "SB"
	// StatusDriving is driving.
	StatusDriving Status = "D"
	// StatusOnDuty is on duty, not driving.
	StatusOnDuty Status = "ON"
)

// Valid reports whether the status is one of the four duty classes.
func (s Status) Valid() bool {
	switch s {
	case StatusOff, StatusSleeper, StatusDriving, StatusOnDuty:
		return true
	}
	return false
}

// Timestamp is a time.Time that also accepts timezone-naive ISO-8601 strings.
// The planning service emits both "2006-01-02T15:04:05Z" and naive datetimes;
// naive values are interpreted as UTC.
type Timestamp struct {
	time.Time
}

const naiveLayout = "2006-01-02T15:04:05"

// UnmarshalJSON parses RFC 3339 or naive ISO-8601 datetimes.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		t.Time = time.Time{}
		return nil
	}

	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		t.Time = parsed.UTC()
		return nil
	}

	parsed, err := time.Parse(naiveLayout, raw)
	if err != nil {
		return fmt.Errorf("invalid datetime %q", raw)
	}
	t.Time = parsed.UTC()
	return nil
}

// MarshalJSON emits RFC 3339 UTC.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.UTC().Format(time.RFC3339) + `"`), nil
}

// At builds a Timestamp from a time.Time.
func At(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

// Segment is a contiguous interval tagged with one duty status.
type Segment struct {
	Status Status    `json:"status"`
	Start  Timestamp `json:"start_datetime"`
	End    Timestamp `json:"end_datetime"`
	Miles  float64   `json:"miles"`
	Note   string    `json:"note,omitempty"`
}

// Hours returns the segment duration in fractional hours, never negative.
func (s Segment) Hours() float64 {
	d := s.End.Sub(s.Start.Time).Hours()
	if d < 0 {
		return 0
	}
	return d
}

// Totals holds per-status hour totals for one day.
type Totals struct {
	OffHours     float64 `json:"OFF_hours"`
	SleeperHours float64 `json:"SB_hours"`
	DrivingHours float64 `json:"D_hours"`
	OnDutyHours  float64 `json:"ON_hours"`
}

// Sum returns the total hours across all status classes.
func (t Totals) Sum() float64 {
	return t.OffHours + t.SleeperHours + t.DrivingHours + t.OnDutyHours
}

func (t *Totals) add(status Status, hours float64) {
	switch status {
	case StatusOff:
		t.OffHours += hours
	case StatusSleeper:
		t.SleeperHours += hours
	case StatusDriving:
		t.DrivingHours += hours
	case StatusOnDuty:
		t.OnDutyHours += hours
	}
}

// DailyLog is one calendar day of duty segments with derived totals.
// Constructed once from the service response and never mutated.
type DailyLog struct {
	Date     string    `json:"date"`
	Segments []Segment `json:"segments"`
	Totals   Totals    `json:"totals"`
	Miles    float64   `json:"miles"`
	Remarks  []string  `json:"remarks"`
}
