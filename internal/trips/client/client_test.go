package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tripgateway/internal/trips/transport"
	"tripgateway/platform/apperr"
	"tripgateway/platform/logger"
)

type plannerConfig struct {
	baseURL string
}

func (c plannerConfig) GetPlannerBaseURL() string        { return c.baseURL }
func (c plannerConfig) GetPlannerTimeout() time.Duration { return 5 * time.Second }

var testLog = logger.New("development")

func request() transport.PlanTripRequest {
	return transport.PlanTripRequest{
		Start:                 transport.LocationPayload{Lat: 40.7128, Lng: -74.0060, Address: "New York, NY"},
		Pickup:                transport.LocationPayload{Lat: 40.7489, Lng: -73.9680, Address: "Queens, NY"},
		Dropoff:               transport.LocationPayload{Lat: 34.0522, Lng: -118.2437, Address: "Los Angeles, CA"},
		CurrentCycleUsedHours: 20,
		StartDatetime:         "2025-01-22T08:00:00",
	}
}

func TestPlanTripDecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/trips/plan" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"route": {"total_distance_miles": 2790.5, "total_duration_hours": 46.2},
			"stops": [{"type": "fuel", "lat": 41.0, "lng": -80.0, "label": "Fuel Stop 1", "estimated_arrival": "2025-01-22T15:00:00Z"}],
			"daily_logs": [{"date": "2025-01-22", "segments": [
				{"status": "D", "start_datetime": "2025-01-22T08:00:00", "end_datetime": "2025-01-22T12:00:00", "miles": 220}
			], "totals": {"OFF_hours": 0, "SB_hours": 0, "D_hours": 4, "ON_hours": 0}, "miles": 220, "remarks": []}],
			"warnings": ["Adverse weather possible"]
		}`))
	}))
	defer srv.Close()

	c := New(plannerConfig{baseURL: srv.URL + "/"}, testLog)

	plan, err := c.PlanTrip(context.Background(), request())
	if err != nil {
		t.Fatalf("PlanTrip failed: %v", err)
	}

	if plan.Route.TotalDistanceMiles != 2790.5 {
		t.Fatalf("unexpected distance: %v", plan.Route.TotalDistanceMiles)
	}
	if len(plan.Stops) != 1 || plan.Stops[0].Type != transport.StopTypeFuel {
		t.Fatalf("unexpected stops: %+v", plan.Stops)
	}
	if len(plan.DailyLogs) != 1 || plan.DailyLogs[0].Segments[0].Hours() != 4.0 {
		t.Fatalf("unexpected daily logs: %+v", plan.DailyLogs)
	}
	if len(plan.Warnings) != 1 {
		t.Fatalf("unexpected warnings: %v", plan.Warnings)
	}
}

func TestPlanTripSummarizesFieldErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"current_cycle_used_hours": ["Ensure this value is less than or equal to 70."], "pickup": ["This field is required."]}`))
	}))
	defer srv.Close()

	c := New(plannerConfig{baseURL: srv.URL}, testLog)

	_, err := c.PlanTrip(context.Background(), request())
	if err == nil {
		t.Fatal("expected error")
	}
	want := "current_cycle_used_hours: Ensure this value is less than or equal to 70. | pickup: This field is required."
	if err.Error() != want {
		t.Fatalf("unexpected summary:\n got %q\nwant %q", err.Error(), want)
	}
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected KindBadRequest, got %v", apperr.GetKind(err))
	}
}

func TestPlanTripUsesDetailMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "routing engine rejected the request"}`))
	}))
	defer srv.Close()

	c := New(plannerConfig{baseURL: srv.URL}, testLog)

	_, err := c.PlanTrip(context.Background(), request())
	if err == nil || err.Error() != "routing engine rejected the request" {
		t.Fatalf("expected detail message, got %v", err)
	}
}

func TestPlanTripFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<html>crashed</html>`))
	}))
	defer srv.Close()

	c := New(plannerConfig{baseURL: srv.URL}, testLog)

	_, err := c.PlanTrip(context.Background(), request())
	if err == nil {
		t.Fatal("expected error")
	}
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected KindUnavailable for 5xx, got %v", apperr.GetKind(err))
	}
	if err.Error() != "500 Internal Server Error" {
		t.Fatalf("expected status text fallback, got %q", err.Error())
	}
}
