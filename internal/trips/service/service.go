// Package service orchestrates the trip planning pipeline: resolve addresses,
// validate the payload, submit it upstream, and project the returned logs.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tripgateway/internal/geocode"
	"tripgateway/internal/logbook"
	"tripgateway/internal/trips/resolver"
	"tripgateway/internal/trips/transport"
	"tripgateway/platform/apperr"
	"tripgateway/platform/logger"
	"tripgateway/platform/validator"

	playgroundvalidator "github.com/go-playground/validator/v10"
)

// Planner submits trip plan requests to the external planning service.
type Planner interface {
	PlanTrip(ctx context.Context, req transport.PlanTripRequest) (*transport.PlanTripResponse, error)
}

// LocationField is one location in the inbound gateway request. Coordinates
// are optional; a location arriving without them is resolved from its address
// during the consolidation pass.
type LocationField struct {
	Address string   `json:"address"`
	Lat     *float64 `json:"lat,omitempty" validate:"omitempty,finite"`
	Lng     *float64 `json:"lng,omitempty" validate:"omitempty,finite"`
}

// PlanTripInput is the inbound gateway request body.
type PlanTripInput struct {
	Start                 LocationField `json:"start"`
	Pickup                LocationField `json:"pickup"`
	Dropoff               LocationField `json:"dropoff"`
	CurrentCycleUsedHours float64       `json:"current_cycle_used_hours" validate:"finite,gte=0,lte=70"`
	StartDate             string        `json:"start_date" validate:"required"`
}

// Service runs the planning pipeline. Each request gets its own resolver
// session; nothing is cached across requests.
type Service struct {
	geocoder resolver.Geocoder
	planner  Planner
	validate *validator.Validator
	log      *logger.Logger
}

// New creates the trips service.
func New(geocoder resolver.Geocoder, planner Planner, validate *validator.Validator, log *logger.Logger) *Service {
	return &Service{
		geocoder: geocoder,
		planner:  planner,
		validate: validate,
		log:      log,
	}
}

// PlanTrip validates the input, consolidates unresolved locations, submits
// the plan request, verifies every returned daily log, and returns the plan
// enriched with hourly grids and a recomputed trip summary.
func (s *Service) PlanTrip(ctx context.Context, input PlanTripInput) (*transport.PlanTripResult, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}

	sess := resolver.NewSession(s.geocoder, s.log)
	defer sess.Close()

	seed := func(role transport.Role, field LocationField) {
		_ = sess.SetAddress(role, field.Address)
		if field.Lat != nil && field.Lng != nil {
			_ = sess.SetCoordinates(role, *field.Lat, *field.Lng)
		}
	}
	seed(transport.RoleStart, input.Start)
	seed(transport.RolePickup, input.Pickup)
	seed(transport.RoleDropoff, input.Dropoff)

	if err := sess.Consolidate(ctx); err != nil {
		return nil, err
	}

	planReq, err := sess.BuildRequest(input.CurrentCycleUsedHours, input.StartDate)
	if err != nil {
		return nil, err
	}

	plan, err := s.planner.PlanTrip(ctx, planReq)
	if err != nil {
		return nil, err
	}

	return s.project(plan)
}

// SearchAddress is the geocode passthrough for form address lookups.
func (s *Service) SearchAddress(ctx context.Context, query string) ([]geocode.Match, error) {
	matches, err := s.geocoder.Search(ctx, query)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "geocoding service unavailable", err)
	}
	if matches == nil {
		matches = []geocode.Match{}
	}
	return matches, nil
}

// project verifies each daily log and derives the per-day hourly grids and
// the trip summary. A corrupt log rejects the whole response; better a loud
// failure than rendering wrong totals.
func (s *Service) project(plan *transport.PlanTripResponse) (*transport.PlanTripResult, error) {
	if len(plan.DailyLogs) == 0 && len(plan.Segments) > 0 {
		plan.DailyLogs = logbook.BuildDailyLogs(plan.Segments)
	}

	days := make([]transport.DailyView, 0, len(plan.DailyLogs))
	for _, dayLog := range plan.DailyLogs {
		if err := logbook.Validate(dayLog); err != nil {
			s.log.Error("rejecting daily log", "date", dayLog.Date, "error", err)
			return nil, err
		}

		if dayLog.Remarks == nil {
			dayLog.Remarks = logbook.Remarks(dayLog.Segments)
		}

		grid := logbook.HourlyGrid(dayLog)
		days = append(days, transport.DailyView{
			DailyLog:   dayLog,
			HourlyGrid: grid[:],
		})
	}

	warnings := plan.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	return &transport.PlanTripResult{
		Route:    plan.Route,
		Stops:    plan.Stops,
		Days:     days,
		Warnings: warnings,
		Weather:  plan.Weather,
		Summary:  logbook.Summarize(plan.DailyLogs),
	}, nil
}

// validationError flattens go-playground field errors into one message.
func validationError(err error) error {
	var fieldErrs playgroundvalidator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperr.Wrap(apperr.KindValidation, "invalid request", err)
	}

	entries := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		entries = append(entries, fmt.Sprintf("%s: failed %s validation", fe.Namespace(), fe.Tag()))
	}
	return apperr.Validation(strings.Join(entries, " | ")).WithDetails(entries)
}
