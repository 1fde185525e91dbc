package controller

import (
	"context"
	"net/http"

	"telconova-dispatch/models"
	"telconova-dispatch/services"
	"telconova-dispatch/utils/logger"

	"github.com/gin-gonic/gin"
)

type InfrastructureController struct {
	ctx     context.Context
	service services.InfrastructureServiceInterface
	config  *models.Config
	logger  logger.Logger
}

func NewInfrastructureController(ctx context.Context, service services.InfrastructureServiceInterface, config *models.Config, logger logger.Logger) *InfrastructureController {
	return &InfrastructureController{
		ctx:     ctx,
		service: service,
		config:  config,
		logger:  logger,
	}
}

// Health handles GET /api/v1/health
// @Summary Health check
// @Description The API is healthy when it answers; worker health is reported alongside
// @Tags Infrastructure
// @Produce json
// @Success 200 {object} models.APIResponse "Service is healthy"
// @Router /health [get]
func (h *InfrastructureController) Health(c *gin.Context) {
	healthy, message, _ := h.service.IsWorkerHealthy()
	respondSuccess(c, http.StatusOK, "Service is healthy", map[string]interface{}{
		"status":  "healthy",
		"service": h.config.AppName,
		"version": h.config.AppVersion,
		"worker": map[string]interface{}{
			"healthy": healthy,
			"message": message,
		},
	})
}

// GetWorkerStatus handles GET /api/v1/worker/status
// @Summary Get worker execution status
// @Description Scheduled job runs recorded by the maintenance worker
// @Tags Infrastructure
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Worker status retrieved successfully"
// @Failure 503 {object} models.APIResponse "Worker status unavailable"
// @Router /worker/status [get]
func (h *InfrastructureController) GetWorkerStatus(c *gin.Context) {
	workerStatus, err := h.service.GetWorkerStatus(c.Request.Context())
	if err != nil {
		h.logger.Warnf("Failed to get worker status: %v", err)
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse(http.StatusServiceUnavailable,
			"Worker status unavailable", "WorkerError", err.Error()))
		return
	}

	healthy, message, _ := h.service.IsWorkerHealthy()
	respondSuccess(c, http.StatusOK, message, map[string]interface{}{
		"healthy": healthy,
		"status":  workerStatus,
	})
}
