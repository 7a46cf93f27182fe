package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"clinicdesk/internal/behavior/service"
	"clinicdesk/internal/behavior/transport"
	"clinicdesk/platform/httpkit"
	"clinicdesk/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for behavior profiles and recommendations.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new behavior handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the behavior routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/clients/:id/events", h.Events)
	rg.GET("/clients/:id/profile", h.Profile)
	rg.GET("/recommendations", h.Recommendations)
}

// Events handles GET /api/v1/behavior/clients/:id/events
func (h *Handler) Events(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	events, err := h.svc.Events(c.Request.Context(), clientID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.EventsResponse{
		ClientID: clientID.String(),
		Events:   events,
		Count:    len(events),
	})
}

// Profile handles GET /api/v1/behavior/clients/:id/profile
func (h *Handler) Profile(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var query transport.ProfileQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	profile, err := h.svc.Profile(c.Request.Context(), clientID, service.EvaluationOverrides{
		WindowDays:       query.WindowDays,
		RecencyWeighting: query.RecencyWeighting,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ProfileResponse{Profile: profile})
}

// Recommendations handles GET /api/v1/behavior/recommendations
func (h *Handler) Recommendations(c *gin.Context) {
	result, err := h.svc.Recommendations(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.RecommendationsResponse{
		Recommendations: result.Recommendations,
		Failures:        result.Failures,
		EvaluatedAt:     result.EvaluatedAt,
		Count:           len(result.Recommendations),
	})
}
