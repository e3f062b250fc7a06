package logbook

import "testing"

func TestSummarizeDerivesFromSegmentsOnly(t *testing.T) {
	logs := []DailyLog{
		{
			Date: "2025-01-22",
			Segments: []Segment{
				seg(t, StatusDriving, "2025-01-22T06:00:00Z", "2025-01-22T11:30:00Z", 310, ""),
				seg(t, StatusOnDuty, "2025-01-22T11:30:00Z", "2025-01-22T12:00:00Z", 0, ""),
			},
			// Embedded totals are deliberately wrong; Summarize must ignore them.
			Totals: Totals{DrivingHours: 99, OnDutyHours: 99},
		},
		{
			Date: "2025-01-23",
			Segments: []Segment{
				seg(t, StatusDriving, "2025-01-23T08:00:00Z", "2025-01-23T10:00:00Z", 120, ""),
				seg(t, StatusSleeper, "2025-01-23T10:00:00Z", "2025-01-23T18:00:00Z", 0, ""),
			},
		},
	}

	summary := Summarize(logs)

	if summary.TotalDrivingHours != 7.5 {
		t.Fatalf("expected 7.5 driving hours, got %v", summary.TotalDrivingHours)
	}
	if summary.TotalOnDutyHours != 0.5 {
		t.Fatalf("expected 0.5 on-duty hours, got %v", summary.TotalOnDutyHours)
	}
	if summary.TripDays != 2 {
		t.Fatalf("expected 2 trip days, got %d", summary.TripDays)
	}
}

func TestSummarizeEmptyTrip(t *testing.T) {
	summary := Summarize(nil)
	if summary.TripDays != 0 || summary.TotalDrivingHours != 0 || summary.TotalOnDutyHours != 0 {
		t.Fatalf("expected zero summary for empty trip, got %+v", summary)
	}
}
