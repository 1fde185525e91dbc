package controller

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"telconova-dispatch/models"
	"telconova-dispatch/services"
	"telconova-dispatch/utils/logger"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	ctx     context.Context
	service services.CatalogServiceInterface
	logger  logger.Logger
}

func NewCatalogController(ctx context.Context, service services.CatalogServiceInterface, logger logger.Logger) *CatalogController {
	return &CatalogController{
		ctx:     ctx,
		service: service,
		logger:  logger,
	}
}

// ListTechnicians handles GET /api/v1/technicians
// @Summary List technicians
// @Description Filter technicians and sort them least busy first. Technicians at capacity are listed but not selectable.
// @Tags Technicians
// @Security BearerAuth
// @Produce json
// @Param zones query string false "Comma-separated zones (north, south, center, west, east)"
// @Param specialties query string false "Comma-separated specialties"
// @Param timeBlocks query string false "Comma-separated time blocks, e.g. 06:00-12:00"
// @Param maxWorkload query int false "Maximum workload (0-5)"
// @Param search query string false "Matches name, email or phone"
// @Success 200 {object} models.APIResponse "Technicians retrieved successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid filter"
// @Router /technicians [get]
func (h *CatalogController) ListTechnicians(c *gin.Context) {
	spec := models.FilterSpec{SearchTerm: c.Query("search")}
	for _, z := range queryList(c, "zones") {
		spec.Zones = append(spec.Zones, models.Zone(z))
	}
	for _, s := range queryList(c, "specialties") {
		spec.Specialties = append(spec.Specialties, models.Specialty(s))
	}
	for _, b := range queryList(c, "timeBlocks") {
		spec.TimeBlocks = append(spec.TimeBlocks, models.TimeBlock(b))
	}
	if raw := c.Query("maxWorkload"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 || limit > models.MaxWorkload {
			respondError(c, h.logger, "Invalid filter",
				models.NewValidationError("maxWorkload", fmt.Sprintf("maxWorkload must be between 0 and %d", models.MaxWorkload)), nil)
			return
		}
		spec.MaxWorkload = &limit
	}

	technicians := h.service.ListTechnicians(spec)
	respondSuccess(c, http.StatusOK, "Technicians retrieved successfully", map[string]interface{}{
		"technicians": technicians,
		"total":       len(technicians),
	})
}

// GetTechnician handles GET /api/v1/technicians/{id}
// @Summary Get technician
// @Tags Technicians
// @Security BearerAuth
// @Produce json
// @Param id path string true "Technician ID"
// @Success 200 {object} models.APIResponse "Technician retrieved successfully"
// @Failure 404 {object} models.APIResponse "Not Found"
// @Router /technicians/{id} [get]
func (h *CatalogController) GetTechnician(c *gin.Context) {
	technician, err := h.service.GetTechnician(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Failed to get technician", err, nil)
		return
	}
	respondSuccess(c, http.StatusOK, "Technician retrieved successfully", technician)
}

// CreateTechnician handles POST /api/v1/technicians
// @Summary Create technician
// @Description New technicians start with no workload
// @Tags Technicians
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateTechnicianRequest true "Technician"
// @Success 201 {object} models.APIResponse "Technician created successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Validation failed"
// @Failure 503 {object} models.APIResponse "Created but not saved"
// @Router /technicians [post]
func (h *CatalogController) CreateTechnician(c *gin.Context) {
	var req models.CreateTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.logger, err)
		return
	}

	technician, err := h.service.CreateTechnician(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, "Failed to create technician", err, technician)
		return
	}
	respondSuccess(c, http.StatusCreated, "Technician created successfully", technician)
}

// DeleteTechnician handles DELETE /api/v1/technicians/{id}
// @Summary Delete technician
// @Description Only technicians without workload or assigned orders can be deleted
// @Tags Technicians
// @Security BearerAuth
// @Produce json
// @Param id path string true "Technician ID"
// @Success 200 {object} models.APIResponse "Technician deleted successfully"
// @Failure 404 {object} models.APIResponse "Not Found"
// @Failure 409 {object} models.APIResponse "Conflict - Technician still has workload"
// @Router /technicians/{id} [delete]
func (h *CatalogController) DeleteTechnician(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.DeleteTechnician(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "Failed to delete technician", err, nil)
		return
	}
	respondSuccess(c, http.StatusOK, "Technician deleted successfully", map[string]string{"id": id})
}

// ReconcileWorkload handles PATCH /api/v1/technicians/{id}/workload
// @Summary Check a reported workload
// @Description Workload only changes through assignments; a differing value is answered with 409 and the current value
// @Tags Technicians
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Technician ID"
// @Param request body models.WorkloadUpdate true "Reported workload"
// @Success 200 {object} models.APIResponse "Workload matches"
// @Failure 409 {object} models.APIResponse "Conflict - Workload differs"
// @Router /technicians/{id}/workload [patch]
func (h *CatalogController) ReconcileWorkload(c *gin.Context) {
	var req models.WorkloadUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.logger, err)
		return
	}
	if req.Workload == nil || *req.Workload < 0 || *req.Workload > models.MaxWorkload {
		respondError(c, h.logger, "Invalid workload",
			models.NewValidationError("workload", fmt.Sprintf("workload must be between 0 and %d", models.MaxWorkload)), nil)
		return
	}

	technician, err := h.service.ReconcileWorkload(c.Param("id"), *req.Workload)
	if err != nil {
		respondError(c, h.logger, "Workload out of date", err, technician)
		return
	}
	respondSuccess(c, http.StatusOK, "Workload matches", technician)
}

// ListOrders handles GET /api/v1/orders
// @Summary List orders
// @Description Newest first
// @Tags Orders
// @Security BearerAuth
// @Produce json
// @Param search query string false "Matches id, service name or description"
// @Param zone query string false "Zone"
// @Param assigned query bool false "true for assigned, false for pending"
// @Success 200 {object} models.APIResponse "Orders retrieved successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid filter"
// @Router /orders [get]
func (h *CatalogController) ListOrders(c *gin.Context) {
	filter := models.OrderFilter{
		SearchTerm: c.Query("search"),
		Zone:       models.Zone(c.Query("zone")),
	}
	if raw := c.Query("assigned"); raw != "" {
		assigned, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, h.logger, "Invalid filter", models.NewValidationError("assigned", "assigned must be true or false"), nil)
			return
		}
		filter.Assigned = &assigned
	}

	orders := h.service.ListOrders(filter)
	respondSuccess(c, http.StatusOK, "Orders retrieved successfully", map[string]interface{}{
		"orders": orders,
		"total":  len(orders),
	})
}

// GetOrder handles GET /api/v1/orders/{id}
// @Summary Get order
// @Tags Orders
// @Security BearerAuth
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} models.APIResponse "Order retrieved successfully"
// @Failure 404 {object} models.APIResponse "Not Found"
// @Router /orders/{id} [get]
func (h *CatalogController) GetOrder(c *gin.Context) {
	order, err := h.service.GetOrder(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Failed to get order", err, nil)
		return
	}
	respondSuccess(c, http.StatusOK, "Order retrieved successfully", order)
}

// CreateOrder handles POST /api/v1/orders
// @Summary Create order
// @Tags Orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateOrderRequest true "Order"
// @Success 201 {object} models.APIResponse "Order created successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Validation failed"
// @Failure 503 {object} models.APIResponse "Created but not saved"
// @Router /orders [post]
func (h *CatalogController) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.logger, err)
		return
	}

	order, err := h.service.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, "Failed to create order", err, order)
		return
	}
	respondSuccess(c, http.StatusCreated, "Order created successfully", order)
}

// GetStats handles GET /api/v1/stats
// @Summary Assignment statistics
// @Description Order totals per zone, assignment rate and technician utilization
// @Tags Statistics
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Statistics retrieved successfully"
// @Router /stats [get]
func (h *CatalogController) GetStats(c *gin.Context) {
	respondSuccess(c, http.StatusOK, "Statistics retrieved successfully", map[string]interface{}{
		"stats":         h.service.Stats(),
		"discrepancies": h.service.AuditWorkloads(),
	})
}

// ResetCatalog handles POST /api/v1/catalog/reset
// @Summary Reset catalog
// @Description Restore the seed technicians and orders and clear the undo history
// @Tags Catalog
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Catalog reset successfully"
// @Failure 503 {object} models.APIResponse "Reset but not saved"
// @Router /catalog/reset [post]
func (h *CatalogController) ResetCatalog(c *gin.Context) {
	if err := h.service.Reset(c.Request.Context()); err != nil {
		respondError(c, h.logger, "Failed to reset catalog", err, nil)
		return
	}
	h.logger.Info("Catalog reset requested")
	respondSuccess(c, http.StatusOK, "Catalog reset successfully", nil)
}

// queryList accepts both repeated parameters and comma-separated values.
func queryList(c *gin.Context, key string) []string {
	var out []string
	for _, raw := range c.QueryArray(key) {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
