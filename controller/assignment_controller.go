package controller

import (
	"context"
	"net/http"

	"telconova-dispatch/models"
	"telconova-dispatch/services"
	"telconova-dispatch/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type AssignmentController struct {
	ctx       context.Context
	service   services.AssignmentServiceInterface
	logger    logger.Logger
	validator *validator.Validate
}

func NewAssignmentController(ctx context.Context, service services.AssignmentServiceInterface, logger logger.Logger) *AssignmentController {
	return &AssignmentController{
		ctx:       ctx,
		service:   service,
		logger:    logger,
		validator: validator.New(),
	}
}

// commandResult is returned by every mutating assignment endpoint.
type commandResult struct {
	Command     *models.Command     `json:"command,omitempty"`
	Description string              `json:"description,omitempty"`
	History     models.HistoryState `json:"history"`
}

func (h *AssignmentController) result(cmd *models.Command) commandResult {
	out := commandResult{Command: cmd, History: h.service.History()}
	if cmd != nil {
		out.Description = cmd.Description()
	}
	return out
}

// respondCommand answers an assign or unassign. A PersistenceFailure still
// carries the command, which is live in memory.
func (h *AssignmentController) respondCommand(c *gin.Context, cmd *models.Command, err error, failure string) {
	if err != nil {
		var data interface{}
		if cmd != nil {
			data = h.result(cmd)
		}
		respondError(c, h.logger, failure, err, data)
		return
	}
	message := "Assignment updated successfully"
	if cmd.IsNoop() {
		message = "No change: order already in requested state"
	}
	respondSuccess(c, http.StatusOK, message, h.result(cmd))
}

// AssignOrder handles POST /api/v1/orders/assign
// @Summary Assign order
// @Description Assign or reassign an order. Technicians at maximum workload are rejected unless they already hold the order.
// @Tags Assignments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.AssignOrderRequest true "Assignment"
// @Success 200 {object} models.APIResponse "Assignment updated successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Validation failed"
// @Failure 404 {object} models.APIResponse "Not Found - refresh and retry"
// @Failure 409 {object} models.APIResponse "Conflict - Technician at maximum workload"
// @Failure 503 {object} models.APIResponse "Applied but not saved"
// @Router /orders/assign [post]
func (h *AssignmentController) AssignOrder(c *gin.Context) {
	var req models.AssignOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.logger, err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		field := "orderId"
		if req.OrderID != "" {
			field = "technicianId"
		}
		respondError(c, h.logger, "Validation failed", models.NewValidationError(field, field+" is required"), nil)
		return
	}

	cmd, err := h.service.Assign(c.Request.Context(), req.OrderID, req.TechnicianID)
	h.respondCommand(c, cmd, err, "Failed to assign order")
}

// UnassignOrder handles POST /api/v1/orders/{id}/unassign
// @Summary Unassign order
// @Tags Assignments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} models.APIResponse "Assignment updated successfully"
// @Failure 404 {object} models.APIResponse "Not Found - refresh and retry"
// @Failure 503 {object} models.APIResponse "Applied but not saved"
// @Router /orders/{id}/unassign [post]
func (h *AssignmentController) UnassignOrder(c *gin.Context) {
	cmd, err := h.service.Unassign(c.Request.Context(), c.Param("id"))
	h.respondCommand(c, cmd, err, "Failed to unassign order")
}

// AutoAssignOrder handles POST /api/v1/orders/{id}/auto-assign
// @Summary Auto-assign order
// @Description Assign a pending order to the least busy technician, preferring its zone
// @Tags Assignments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} models.APIResponse "Assignment updated successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Order already assigned"
// @Failure 404 {object} models.APIResponse "Not Found - refresh and retry"
// @Failure 409 {object} models.APIResponse "Conflict - No technician with capacity"
// @Router /orders/{id}/auto-assign [post]
func (h *AssignmentController) AutoAssignOrder(c *gin.Context) {
	cmd, err := h.service.AutoAssign(c.Request.Context(), c.Param("id"))
	h.respondCommand(c, cmd, err, "Failed to auto-assign order")
}

// AutoAssignAll handles POST /api/v1/orders/auto-assign
// @Summary Auto-assign all pending orders
// @Description Oldest pending orders first; failures are reported per order
// @Tags Assignments
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Auto-assign finished"
// @Router /orders/auto-assign [post]
func (h *AssignmentController) AutoAssignAll(c *gin.Context) {
	report := h.service.AutoAssignAll(c.Request.Context())
	respondSuccess(c, http.StatusOK, "Auto-assign finished", report)
}

// GetHistory handles GET /api/v1/history
// @Summary Undo history
// @Tags History
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "History retrieved successfully"
// @Router /history [get]
func (h *AssignmentController) GetHistory(c *gin.Context) {
	respondSuccess(c, http.StatusOK, "History retrieved successfully", map[string]interface{}{
		"state":   h.service.History(),
		"entries": h.service.HistoryEntries(),
	})
}

// Undo handles POST /api/v1/history/undo
// @Summary Undo last assignment change
// @Tags History
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Undone"
// @Failure 404 {object} models.APIResponse "Not Found - entity no longer exists"
// @Failure 409 {object} models.APIResponse "Conflict - Nothing to undo"
// @Failure 503 {object} models.APIResponse "Undone but not saved"
// @Router /history/undo [post]
func (h *AssignmentController) Undo(c *gin.Context) {
	h.step(c, true)
}

// Redo handles POST /api/v1/history/redo
// @Summary Redo last undone change
// @Tags History
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Redone"
// @Failure 409 {object} models.APIResponse "Conflict - Nothing to redo"
// @Failure 503 {object} models.APIResponse "Redone but not saved"
// @Router /history/redo [post]
func (h *AssignmentController) Redo(c *gin.Context) {
	h.step(c, false)
}

func (h *AssignmentController) step(c *gin.Context, undo bool) {
	action, move := "redo", h.service.Redo
	if undo {
		action, move = "undo", h.service.Undo
	}

	ok, err := move(c.Request.Context())
	if err != nil {
		var data interface{}
		if ok {
			data = map[string]interface{}{"history": h.service.History()}
		}
		respondError(c, h.logger, "Failed to "+action, err, data)
		return
	}
	if !ok {
		respondError(c, h.logger, "Nothing to "+action,
			models.NewConflict("nothing to "+action, nil), map[string]interface{}{"history": h.service.History()})
		return
	}
	respondSuccess(c, http.StatusOK, "History updated", map[string]interface{}{"history": h.service.History()})
}
