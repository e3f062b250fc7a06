// Package handler exposes the trips HTTP endpoints.
package handler

import (
	"net/http"

	"tripgateway/internal/trips/service"
	"tripgateway/internal/trips/transport"
	"tripgateway/platform/httpkit"
	"tripgateway/platform/logger"

	"github.com/gin-gonic/gin"
)

// Handler serves the trip planning and geocode passthrough routes.
type Handler struct {
	svc *service.Service
	log *logger.Logger
}

func New(svc *service.Service, log *logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// RegisterRoutes mounts the trips routes on the provided group.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/trips/plan", h.PlanTrip)
	group.GET("/geocode", h.Geocode)
}

// PlanTrip handles POST /api/v1/trips/plan.
func (h *Handler) PlanTrip(c *gin.Context) {
	var input service.PlanTripInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	result, err := h.svc.PlanTrip(c.Request.Context(), input)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Geocode handles GET /api/v1/geocode?q=...
func (h *Handler) Geocode(c *gin.Context) {
	var req transport.GeocodeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "query 'q' is required (min 3 chars)", nil)
		return
	}

	matches, err := h.svc.SearchAddress(c.Request.Context(), req.Query)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, matches)
}
