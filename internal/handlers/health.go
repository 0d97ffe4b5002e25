package handlers

import (
	"net/http"

	"github.com/omkarinteriors/contact-api/internal/models"
)

// ServiceName identifies this API in liveness responses
const ServiceName = "contact-api"

// HealthHandler provides the liveness endpoint
type HealthHandler struct{}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Check handles GET /api/health (liveness probe)
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.HealthStatus{
		OK:      true,
		Service: ServiceName,
		Status:  "active",
	})
}
