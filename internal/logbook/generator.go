package logbook

import (
	"math"
	"sort"
	"time"
)

// BuildDailyLogs clips a trip-spanning segment list at UTC midnight
// boundaries and produces one DailyLog per calendar day the trip touches.
// Miles are prorated by the clipped fraction of each segment's duration.
// Used to cross-check upstream-produced logs and to build logs locally when
// the service returns only a flat segment list.
func BuildDailyLogs(segments []Segment) []DailyLog {
	if len(segments) == 0 {
		return []DailyLog{}
	}

	firstStart := segments[0].Start.UTC()
	lastEnd := segments[len(segments)-1].End.UTC()

	day := time.Date(firstStart.Year(), firstStart.Month(), firstStart.Day(), 0, 0, 0, 0, time.UTC)
	endDay := time.Date(lastEnd.Year(), lastEnd.Month(), lastEnd.Day(), 0, 0, 0, 0, time.UTC)

	logs := make([]DailyLog, 0, int(endDay.Sub(day).Hours()/24)+1)

	for !day.After(endDay) {
		nextDay := day.AddDate(0, 0, 1)

		var (
			clipped []Segment
			totals  Totals
			miles   float64
		)
		noted := make(map[string]struct{})
		var remarks []string

		for _, seg := range segments {
			segStart := seg.Start.UTC()
			segEnd := seg.End.UTC()

			if !segEnd.After(day) || !segStart.Before(nextDay) {
				continue
			}

			clipStart := maxTime(segStart, day)
			clipEnd := minTime(segEnd, nextDay)

			clipHours := clipEnd.Sub(clipStart).Hours()
			segHours := segEnd.Sub(segStart).Hours()

			var clipMiles float64
			if segHours > 0 {
				clipMiles = seg.Miles * clipHours / segHours
			}

			clipped = append(clipped, Segment{
				Status: seg.Status,
				Start:  At(clipStart),
				End:    At(clipEnd),
				Miles:  clipMiles,
				Note:   seg.Note,
			})

			totals.add(seg.Status, clipHours)
			miles += clipMiles

			if seg.Note != "" {
				if _, seen := noted[seg.Note]; !seen {
					noted[seg.Note] = struct{}{}
					remarks = append(remarks, seg.Note)
				}
			}
		}

		// A trip ending exactly at midnight would otherwise yield an empty
		// trailing day.
		if len(clipped) == 0 {
			day = nextDay
			continue
		}

		sort.Strings(remarks)
		if remarks == nil {
			remarks = []string{}
		}

		logs = append(logs, DailyLog{
			Date:     day.Format("2006-01-02"),
			Segments: clipped,
			Totals: Totals{
				OffHours:     round2(totals.OffHours),
				SleeperHours: round2(totals.SleeperHours),
				DrivingHours: round2(totals.DrivingHours),
				OnDutyHours:  round2(totals.OnDutyHours),
			},
			Miles:   round2(miles),
			Remarks: remarks,
		})

		day = nextDay
	}

	return logs
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
