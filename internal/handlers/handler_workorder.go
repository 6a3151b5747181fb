package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/falconsoft3d/falconerp/internal/core/domain"
	portssvc "github.com/falconsoft3d/falconerp/internal/core/ports/services"
	"github.com/falconsoft3d/falconerp/internal/dto"
	"github.com/falconsoft3d/falconerp/internal/middleware"
)

// workOrderHandler handles HTTP requests related to work orders.
type workOrderHandler struct {
	workOrderService portssvc.WorkOrderSvcFacade
}

// newWorkOrderHandler creates a new workOrderHandler.
func newWorkOrderHandler(ws portssvc.WorkOrderSvcFacade) *workOrderHandler {
	return &workOrderHandler{workOrderService: ws}
}

// registerWorkOrderRoutes registers work order routes nested under a company.
func registerWorkOrderRoutes(rg *gin.RouterGroup, workOrderService portssvc.WorkOrderSvcFacade) {
	h := newWorkOrderHandler(workOrderService)

	workOrders := rg.Group("/workorders")
	{
		workOrders.POST("", h.createWorkOrder)
		workOrders.GET("", h.listWorkOrders)
		workOrders.GET("/:work_order_id", h.getWorkOrder)
		workOrders.PUT("/:work_order_id/status", h.updateWorkOrderStatus)
	}
}

// createWorkOrder godoc
// @Summary Create a work order
// @Description Computes item totals and allocates the next number from the OT series.
// @Tags workorders
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   workOrder body dto.CreateWorkOrderRequest true "Work order details"
// @Success 201 {object} dto.WorkOrderResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Requires member role"
// @Security BearerAuth
// @Router /companies/{company_id}/workorders [post]
func (h *workOrderHandler) createWorkOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.CreateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createWorkOrder", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	workOrder, err := h.workOrderService.CreateWorkOrder(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create work order")
		return
	}

	c.JSON(http.StatusCreated, dto.ToWorkOrderResponse(workOrder))
}

// listWorkOrders godoc
// @Summary List work orders in a company
// @Tags workorders
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination cursor"
// @Success 200 {object} dto.ListWorkOrdersResponse
// @Failure 404 {object} map[string]string "Company not found"
// @Security BearerAuth
// @Router /companies/{company_id}/workorders [get]
func (h *workOrderHandler) listWorkOrders(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var params dto.ListWorkOrdersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.workOrderService.ListWorkOrders(c.Request.Context(), companyID, userID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list work orders")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getWorkOrder godoc
// @Summary Get a work order with its items
// @Tags workorders
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   work_order_id path string true "Work Order ID"
// @Success 200 {object} dto.WorkOrderResponse
// @Failure 404 {object} map[string]string "Work order not found"
// @Security BearerAuth
// @Router /companies/{company_id}/workorders/{work_order_id} [get]
func (h *workOrderHandler) getWorkOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	workOrderID := c.Param("work_order_id")

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	workOrder, err := h.workOrderService.GetWorkOrderByID(c.Request.Context(), companyID, workOrderID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve work order")
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkOrderResponse(workOrder))
}

// updateWorkOrderStatus godoc
// @Summary Transition a work order's status
// @Description PENDING -> IN_PROGRESS -> DONE; CANCELLED from PENDING or IN_PROGRESS.
// @Tags workorders
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   work_order_id path string true "Work Order ID"
// @Param   status body dto.UpdateWorkOrderStatusRequest true "Target status"
// @Success 200 {object} dto.WorkOrderResponse
// @Failure 409 {object} map[string]string "Invalid status transition"
// @Security BearerAuth
// @Router /companies/{company_id}/workorders/{work_order_id}/status [put]
func (h *workOrderHandler) updateWorkOrderStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	workOrderID := c.Param("work_order_id")

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.UpdateWorkOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateWorkOrderStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	workOrder, err := h.workOrderService.UpdateWorkOrderStatus(c.Request.Context(), companyID, workOrderID, domain.WorkOrderStatus(req.Status), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update work order status")
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkOrderResponse(workOrder))
}
