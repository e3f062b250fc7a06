package logbook

import (
	"encoding/json"
	"testing"
	"time"

	"tripgateway/platform/apperr"
)

func seg(t *testing.T, status Status, start, end string, miles float64, note string) Segment {
	t.Helper()
	return Segment{
		Status: status,
		Start:  At(mustTime(t, start)),
		End:    At(mustTime(t, end)),
		Miles:  miles,
		Note:   note,
	}
}

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("bad test datetime %q: %v", value, err)
	}
	return parsed
}

func fullDay(t *testing.T) DailyLog {
	t.Helper()
	segments := []Segment{
		seg(t, StatusOff, "2025-01-22T00:00:00Z", "2025-01-22T06:00:00Z", 0, ""),
		seg(t, StatusDriving, "2025-01-22T06:00:00Z", "2025-01-22T11:30:00Z", 310, "I-80 westbound"),
		seg(t, StatusOnDuty, "2025-01-22T11:30:00Z", "2025-01-22T12:00:00Z", 0, "Fuel stop"),
		seg(t, StatusDriving, "2025-01-22T12:00:00Z", "2025-01-22T14:00:00Z", 120, ""),
		seg(t, StatusOff, "2025-01-22T14:00:00Z", "2025-01-23T00:00:00Z", 0, ""),
	}
	return DailyLog{
		Date:     "2025-01-22",
		Segments: segments,
		Totals:   ComputeTotals(segments),
		Miles:    430,
		Remarks:  Remarks(segments),
	}
}

func TestComputeTotalsFullyCoveredDay(t *testing.T) {
	log := fullDay(t)
	totals := ComputeTotals(log.Segments)

	if totals.OffHours != 16.0 {
		t.Fatalf("expected OFF 16.0, got %v", totals.OffHours)
	}
	if totals.DrivingHours != 7.5 {
		t.Fatalf("expected D 7.5, got %v", totals.DrivingHours)
	}
	if totals.OnDutyHours != 0.5 {
		t.Fatalf("expected ON 0.5, got %v", totals.OnDutyHours)
	}
	if totals.SleeperHours != 0.0 {
		t.Fatalf("expected SB 0.0, got %v", totals.SleeperHours)
	}
	if totals.Sum() != 24.0 {
		t.Fatalf("expected totals to sum to 24.0, got %v", totals.Sum())
	}
}

func TestHourlyGridClassification(t *testing.T) {
	grid := HourlyGrid(fullDay(t))

	if grid[5] != StatusOff {
		t.Fatalf("expected hour 5 OFF, got %s", grid[5])
	}
	if grid[6] != StatusDriving {
		t.Fatalf("expected hour 6 D, got %s", grid[6])
	}
	// The driving segment ends at 11:30 but still covers slot 11.
	if grid[11] != StatusDriving {
		t.Fatalf("expected hour 11 D, got %s", grid[11])
	}
	if grid[12] != StatusDriving {
		t.Fatalf("expected hour 12 D, got %s", grid[12])
	}
	if grid[14] != StatusOff {
		t.Fatalf("expected hour 14 OFF, got %s", grid[14])
	}
}

func TestHourlyGridUncoveredSlotsDefaultToOff(t *testing.T) {
	log := DailyLog{
		Date: "2025-01-22",
		Segments: []Segment{
			seg(t, StatusDriving, "2025-01-22T10:00:00Z", "2025-01-22T12:00:00Z", 100, ""),
		},
	}

	grid := HourlyGrid(log)
	for h, status := range grid {
		want := StatusOff
		if h == 10 || h == 11 {
			want = StatusDriving
		}
		if status != want {
			t.Fatalf("hour %d: expected %s, got %s", h, want, status)
		}
	}
}

func TestHourlyGridOverlappingSegmentsFirstWins(t *testing.T) {
	log := DailyLog{
		Date: "2025-01-22",
		Segments: []Segment{
			seg(t, StatusOnDuty, "2025-01-22T08:00:00Z", "2025-01-22T10:00:00Z", 0, ""),
			seg(t, StatusDriving, "2025-01-22T08:00:00Z", "2025-01-22T12:00:00Z", 200, ""),
		},
	}

	grid := HourlyGrid(log)
	if grid[8] != StatusOnDuty || grid[9] != StatusOnDuty {
		t.Fatalf("expected hours 8-9 to take the first covering segment (ON), got %s/%s", grid[8], grid[9])
	}
	if grid[10] != StatusDriving || grid[11] != StatusDriving {
		t.Fatalf("expected hours 10-11 D, got %s/%s", grid[10], grid[11])
	}
}

func TestProjectionIsIdempotent(t *testing.T) {
	log := fullDay(t)

	first := HourlyGrid(log)
	second := HourlyGrid(log)
	if first != second {
		t.Fatalf("hourly grid differs between projections: %v vs %v", first, second)
	}

	if ComputeTotals(log.Segments) != ComputeTotals(log.Segments) {
		t.Fatal("totals differ between projections")
	}
}

func TestValidateRejectsNonPositiveDuration(t *testing.T) {
	log := DailyLog{
		Date: "2025-01-22",
		Segments: []Segment{
			seg(t, StatusDriving, "2025-01-22T10:00:00Z", "2025-01-22T10:00:00Z", 0, ""),
		},
	}

	err := Validate(log)
	if err == nil {
		t.Fatal("expected validation error for zero-duration segment")
	}
	if !apperr.Is(err, apperr.KindUnprocessable) {
		t.Fatalf("expected KindUnprocessable, got %v", apperr.GetKind(err))
	}

	log.Segments[0].End = At(mustTime(t, "2025-01-22T09:00:00Z"))
	if Validate(log) == nil {
		t.Fatal("expected validation error for end before start")
	}
}

func TestValidateRejectsDivergentTotals(t *testing.T) {
	log := fullDay(t)
	log.Totals.DrivingHours = 9.0

	err := Validate(log)
	if err == nil {
		t.Fatal("expected validation error for irreconcilable totals")
	}
	if !apperr.Is(err, apperr.KindUnprocessable) {
		t.Fatalf("expected KindUnprocessable, got %v", apperr.GetKind(err))
	}
}

func TestValidateAcceptsTotalsWithinTolerance(t *testing.T) {
	log := fullDay(t)
	log.Totals.DrivingHours += 0.04

	if err := Validate(log); err != nil {
		t.Fatalf("expected totals within tolerance to pass, got %v", err)
	}
}

func TestSegmentHoursNeverNegative(t *testing.T) {
	s := seg(t, StatusDriving, "2025-01-22T10:00:00Z", "2025-01-22T08:00:00Z", 0, "")
	if s.Hours() != 0 {
		t.Fatalf("expected 0 hours for inverted segment, got %v", s.Hours())
	}
}

func TestRemarksPreserveSegmentOrder(t *testing.T) {
	log := fullDay(t)

	remarks := Remarks(log.Segments)
	if len(remarks) != 2 {
		t.Fatalf("expected 2 remarks, got %d", len(remarks))
	}
	if remarks[0] != "I-80 westbound" || remarks[1] != "Fuel stop" {
		t.Fatalf("expected remarks in segment order, got %v", remarks)
	}

	empty := Remarks(nil)
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil remarks for a day without notes, got %#v", empty)
	}
}

func TestTimestampAcceptsNaiveDatetimes(t *testing.T) {
	var s Segment
	payload := `{"status":"D","start_datetime":"2025-01-22T06:00:00","end_datetime":"2025-01-22T11:30:00Z","miles":310}`
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if s.Hours() != 5.5 {
		t.Fatalf("expected 5.5 hours, got %v", s.Hours())
	}
	if s.Start.Location() != time.UTC {
		t.Fatal("expected naive datetime to be interpreted as UTC")
	}
}
