package logbook

// TripSummary holds trip-wide totals recomputed from segment data.
type TripSummary struct {
	TotalDrivingHours float64 `json:"total_driving_hours"`
	TotalOnDutyHours  float64 `json:"total_on_duty_hours"`
	TripDays          int     `json:"trip_days"`
}

// Summarize derives trip totals strictly from the segments of every daily
// log. It never reads aggregate fields the planning service may have embedded
// in the route object, so it doubles as a cross-check of service output.
func Summarize(logs []DailyLog) TripSummary {
	summary := TripSummary{TripDays: len(logs)}
	for _, log := range logs {
		for _, seg := range log.Segments {
			switch seg.Status {
			case StatusDriving:
				summary.TotalDrivingHours += seg.Hours()
			case StatusOnDuty:
				summary.TotalOnDutyHours += seg.Hours()
			}
		}
	}
	return summary
}
