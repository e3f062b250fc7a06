// Package transport holds the wire contracts exchanged with the external
// trip-planning service and with the gateway's own clients.
package transport

import (
	"encoding/json"

	"tripgateway/internal/logbook"
)

// Role identifies one of the three trip locations.
type Role string

const (
	RoleStart   Role = "start"
	RolePickup  Role = "pickup"
	RoleDropoff Role = "dropoff"
)

// RoleOrder is the canonical role order for sequential operations.
var RoleOrder = []Role{RoleStart, RolePickup, RoleDropoff}

// Valid reports whether the role is one of the three known roles.
func (r Role) Valid() bool {
	return r == RoleStart || r == RolePickup || r == RoleDropoff
}

// LocationPayload is a resolved coordinate pair with its source address.
// Both coordinates must be finite; the address is optional on the wire.
type LocationPayload struct {
	Lat     float64 `json:"lat" validate:"finite"`
	Lng     float64 `json:"lng" validate:"finite"`
	Address string  `json:"address,omitempty"`
}

// PlanTripRequest is the outbound trip plan request body.
type PlanTripRequest struct {
	Start                 LocationPayload `json:"start" validate:"required"`
	Pickup                LocationPayload `json:"pickup" validate:"required"`
	Dropoff               LocationPayload `json:"dropoff" validate:"required"`
	CurrentCycleUsedHours float64         `json:"current_cycle_used_hours" validate:"gte=0,lte=70"`
	StartDatetime         string          `json:"start_datetime" validate:"required"`
}

// Route describes the computed route returned by the planning service.
// Geometry is passed through untouched for the map layer.
type Route struct {
	Geometry           json.RawMessage `json:"geometry,omitempty"`
	TotalDistanceMiles float64         `json:"total_distance_miles"`
	TotalDurationHours float64         `json:"total_duration_hours"`
}

// StopType classifies a planned stop.
type StopType string

const (
	StopTypeFuel StopType = "fuel"
	StopTypeRest StopType = "rest"
)

// Stop is a planned fuel or rest stop along the route.
type Stop struct {
	Type             StopType          `json:"type"`
	Lat              float64           `json:"lat"`
	Lng              float64           `json:"lng"`
	Label            string            `json:"label"`
	EstimatedArrival logbook.Timestamp `json:"estimated_arrival"`
}

// WeatherSnapshot is an optional point-in-time weather reading.
type WeatherSnapshot struct {
	TemperatureC *float64 `json:"temperature_c,omitempty"`
	WindspeedKmh *float64 `json:"windspeed_kmh,omitempty"`
}

// Weather carries optional snapshots for the start and dropoff locations.
type Weather struct {
	Start   *WeatherSnapshot `json:"start,omitempty"`
	Dropoff *WeatherSnapshot `json:"dropoff,omitempty"`
}

// PlanTripResponse is the planning service response. Immutable once decoded;
// all derived views are pure functions over this value.
type PlanTripResponse struct {
	Route     Route              `json:"route"`
	Stops     []Stop             `json:"stops"`
	DailyLogs []logbook.DailyLog `json:"daily_logs"`
	// Segments is the alternate upstream shape: a flat trip-spanning
	// segment list without per-day packaging. Ignored when DailyLogs
	// is populated.
	Segments []logbook.Segment `json:"segments,omitempty"`
	Warnings []string          `json:"warnings"`
	Weather  *Weather          `json:"weather,omitempty"`
}

// DailyView is one projected day in the gateway response: the upstream log
// plus its 24-slot hourly classification.
type DailyView struct {
	logbook.DailyLog
	HourlyGrid []logbook.Status `json:"hourly_grid"`
}

// PlanTripResult is the gateway response: the upstream plan enriched with
// per-day hourly grids and a trip summary recomputed from segment data.
type PlanTripResult struct {
	Route    Route               `json:"route"`
	Stops    []Stop              `json:"stops"`
	Days     []DailyView         `json:"daily_logs"`
	Warnings []string            `json:"warnings"`
	Weather  *Weather            `json:"weather,omitempty"`
	Summary  logbook.TripSummary `json:"summary"`
}

// GeocodeRequest is the query for the geocode passthrough endpoint.
type GeocodeRequest struct {
	Query string `form:"q" binding:"required,min=3"`
}
