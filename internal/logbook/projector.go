package logbook

import (
	"fmt"
	"math"

	"tripgateway/platform/apperr"
)

// totalsTolerance is the maximum per-status divergence accepted between a
// log's embedded totals and the totals recomputed from its segments.
const totalsTolerance = 0.05

// HourlyGrid classifies each of the 24 hour slots of a day. A slot takes the
// status of the chronologically-first segment whose [start_hour, end_hour)
// interval (fractional UTC hour-of-day) contains it; uncovered slots are OFF.
//
// The grid is a display aid at hour granularity. Compliance totals come from
// ComputeTotals, which uses exact segment durations; the two may diverge for
// segments that cross hour boundaries.
func HourlyGrid(log DailyLog) [24]Status {
	var grid [24]Status
	for h := 0; h < 24; h++ {
		grid[h] = StatusOff
		for _, seg := range log.Segments {
			start := hourOfDay(seg)
			end := start + seg.Hours()
			if end > 24 {
				end = 24
			}
			if float64(h) >= start && float64(h) < end {
				grid[h] = seg.Status
				break
			}
		}
	}
	return grid
}

// ComputeTotals sums exact segment durations per status class.
func ComputeTotals(segments []Segment) Totals {
	var totals Totals
	for _, seg := range segments {
		totals.add(seg.Status, seg.Hours())
	}
	return totals
}

// Remarks returns the non-empty segment notes in segment order. A day without
// notes yields an empty slice, never nil, so it serializes as [].
func Remarks(segments []Segment) []string {
	remarks := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg.Note != "" {
			remarks = append(remarks, seg.Note)
		}
	}
	return remarks
}

// Validate rejects a daily log whose segments or totals are corrupt: a
// segment with end <= start, or embedded totals that do not reconcile with
// the segment sums within tolerance. Corrupt logs fail loudly rather than
// rendering wrong numbers.
func Validate(log DailyLog) error {
	for i, seg := range log.Segments {
		if !seg.End.After(seg.Start.Time) {
			return apperr.Unprocessable(
				fmt.Sprintf("daily log %s: segment %d (%s) has non-positive duration", log.Date, i, seg.Status),
			)
		}
	}

	computed := ComputeTotals(log.Segments)
	if diverges(log.Totals.OffHours, computed.OffHours) ||
		diverges(log.Totals.SleeperHours, computed.SleeperHours) ||
		diverges(log.Totals.DrivingHours, computed.DrivingHours) ||
		diverges(log.Totals.OnDutyHours, computed.OnDutyHours) {
		return apperr.Unprocessable(
			fmt.Sprintf("daily log %s: totals do not reconcile with segment durations", log.Date),
		).WithDetails(computed)
	}

	return nil
}

func diverges(embedded, computed float64) bool {
	return math.Abs(embedded-computed) > totalsTolerance
}

// hourOfDay returns the fractional UTC hour-of-day of the segment start.
func hourOfDay(seg Segment) float64 {
	t := seg.Start.UTC()
	return float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600
}
