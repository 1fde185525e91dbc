package controller

import (
	"context"
	"net/http"

	"telconova-dispatch/models"
	"telconova-dispatch/services"
	"telconova-dispatch/utils/logger"

	"github.com/gin-gonic/gin"
)

type AdvisorController struct {
	ctx     context.Context
	service services.AdvisorServiceInterface
	logger  logger.Logger
}

func NewAdvisorController(ctx context.Context, service services.AdvisorServiceInterface, logger logger.Logger) *AdvisorController {
	return &AdvisorController{
		ctx:     ctx,
		service: service,
		logger:  logger,
	}
}

// GetRecommendations handles GET /api/v1/orders/{id}/recommendations
// @Summary Recommend technicians
// @Description Technicians with capacity scored by workload, zone and specialty, best first
// @Tags Advisor
// @Security BearerAuth
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} models.APIResponse "Recommendations retrieved successfully"
// @Failure 404 {object} models.APIResponse "Not Found - refresh and retry"
// @Router /orders/{id}/recommendations [get]
func (h *AdvisorController) GetRecommendations(c *gin.Context) {
	recs, err := h.service.Recommend(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Failed to get recommendations", err, nil)
		return
	}
	respondSuccess(c, http.StatusOK, "Recommendations retrieved successfully", recs)
}

// GetConflicts handles GET /api/v1/orders/{id}/conflicts
// @Summary Check assignment conflicts
// @Description Advisory warnings for assigning the order to a technician; they never block an assignment
// @Tags Advisor
// @Security BearerAuth
// @Produce json
// @Param id path string true "Order ID"
// @Param technicianId query string true "Technician ID"
// @Success 200 {object} models.APIResponse "Conflicts checked"
// @Failure 400 {object} models.APIResponse "Bad Request - technicianId missing"
// @Failure 404 {object} models.APIResponse "Not Found - refresh and retry"
// @Router /orders/{id}/conflicts [get]
func (h *AdvisorController) GetConflicts(c *gin.Context) {
	technicianID := c.Query("technicianId")
	if technicianID == "" {
		respondError(c, h.logger, "Validation failed", models.NewValidationError("technicianId", "technicianId is required"), nil)
		return
	}

	conflicts, err := h.service.CheckConflicts(technicianID, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Failed to check conflicts", err, nil)
		return
	}
	respondSuccess(c, http.StatusOK, "Conflicts checked", conflicts)
}

// GetBestMatch handles GET /api/v1/orders/{id}/best-match
// @Summary Best technician for an order
// @Tags Advisor
// @Security BearerAuth
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} models.APIResponse "Best match found"
// @Failure 404 {object} models.APIResponse "Not Found - refresh and retry"
// @Failure 409 {object} models.APIResponse "Conflict - No technician with capacity"
// @Router /orders/{id}/best-match [get]
func (h *AdvisorController) GetBestMatch(c *gin.Context) {
	technician, err := h.service.BestMatch(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "No best match", err, nil)
		return
	}
	respondSuccess(c, http.StatusOK, "Best match found", technician)
}
