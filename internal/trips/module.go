// Package trips wires the trip planning bounded context: the geocoding
// client, the planning service client, the orchestration service, and the
// HTTP handler.
package trips

import (
	"tripgateway/internal/geocode"
	apphttp "tripgateway/internal/http"
	"tripgateway/internal/trips/client"
	"tripgateway/internal/trips/handler"
	"tripgateway/internal/trips/service"
	"tripgateway/platform/config"
	"tripgateway/platform/logger"
	"tripgateway/platform/validator"
)

// ModuleConfig combines the config interfaces the trips module needs.
type ModuleConfig interface {
	config.GeocoderConfig
	config.PlannerConfig
}

// Module wires the trips HTTP routes.
type Module struct {
	handler *handler.Handler
	svc     *service.Service
}

func NewModule(cfg ModuleConfig, val *validator.Validator, log *logger.Logger) *Module {
	geocoder := geocode.NewClient(cfg, log)
	planner := client.New(cfg, log)
	svc := service.New(geocoder, planner, val, log)
	return &Module{
		handler: handler.New(svc, log),
		svc:     svc,
	}
}

func (m *Module) Name() string {
	return "trips"
}

// Service exposes the orchestration service for non-HTTP consumers.
func (m *Module) Service() *service.Service {
	return m.svc
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1)
}

var _ apphttp.Module = (*Module)(nil)
