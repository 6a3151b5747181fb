package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/falconsoft3d/falconerp/internal/apperrors"
	"github.com/falconsoft3d/falconerp/internal/core/domain"
	portsrepo "github.com/falconsoft3d/falconerp/internal/core/ports/repositories"
	portssvc "github.com/falconsoft3d/falconerp/internal/core/ports/services"
	"github.com/falconsoft3d/falconerp/internal/dto"
	"github.com/falconsoft3d/falconerp/internal/middleware"
	"github.com/falconsoft3d/falconerp/internal/utils/accounting"
)

// workOrderService manages work orders.
type workOrderService struct {
	workOrderRepo portsrepo.WorkOrderRepositoryFacade
	companySvc    portssvc.CompanyAuthorizerSvc
	sequenceSvc   portssvc.SequenceSvcFacade
}

// NewWorkOrderService creates a new WorkOrderSvcFacade.
func NewWorkOrderService(workOrderRepo portsrepo.WorkOrderRepositoryFacade, companySvc portssvc.CompanyAuthorizerSvc, sequenceSvc portssvc.SequenceSvcFacade) portssvc.WorkOrderSvcFacade {
	return &workOrderService{
		workOrderRepo: workOrderRepo,
		companySvc:    companySvc,
		sequenceSvc:   sequenceSvc,
	}
}

var _ portssvc.WorkOrderSvcFacade = (*workOrderService)(nil)

// CreateWorkOrder validates items, computes totals, allocates the next number
// and persists the work order with its items atomically.
func (s *workOrderService) CreateWorkOrder(ctx context.Context, companyID string, req dto.CreateWorkOrderRequest, creatorUserID string) (*domain.WorkOrder, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, creatorUserID, companyID, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for CreateWorkOrder", slog.String("user_id", creatorUserID), slog.String("company_id", companyID), slog.String("error", err.Error()))
		return nil, err
	}

	if err := validateItemRequests(req.Items); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	workOrderID := uuid.NewString()

	items := make([]domain.WorkOrderItem, len(req.Items))
	subtotal, taxTotal, total := decimal.Zero, decimal.Zero, decimal.Zero
	for i, itemReq := range req.Items {
		lineSubtotal, lineTax, lineTotal := accounting.ComputeLineTotals(itemReq.Quantity, itemReq.UnitPrice, itemReq.TaxRate)
		items[i] = domain.WorkOrderItem{
			ItemID:      uuid.NewString(),
			WorkOrderID: workOrderID,
			Description: itemReq.Description,
			Quantity:    itemReq.Quantity,
			UnitPrice:   itemReq.UnitPrice,
			TaxRate:     itemReq.TaxRate,
			Subtotal:    lineSubtotal,
			TaxAmount:   lineTax,
			Total:       lineTotal,
			Position:    i,
		}
		subtotal = subtotal.Add(lineSubtotal)
		taxTotal = taxTotal.Add(lineTax)
		total = total.Add(lineTotal)
	}

	workOrder := domain.WorkOrder{
		WorkOrderID:  workOrderID,
		CompanyID:    companyID,
		CustomerName: req.CustomerName,
		OrderDate:    req.Date,
		Status:       domain.WorkOrderPending,
		Notes:        req.Notes,
		Subtotal:     subtotal,
		TaxTotal:     taxTotal,
		Total:        total,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	for attempt := 0; attempt < 2; attempt++ {
		number, err := s.sequenceSvc.Allocate(ctx, companyID, domain.DocTypeWorkOrder)
		if err != nil {
			return nil, fmt.Errorf("failed to allocate work order number: %w", err)
		}
		workOrder.Number = number

		err = s.workOrderRepo.SaveWorkOrder(ctx, workOrder, items)
		if err == nil {
			break
		}
		if errors.Is(err, apperrors.ErrDuplicate) && attempt == 0 {
			logger.Warn("Work order number collision, retrying allocation", slog.String("company_id", companyID), slog.String("number", number))
			continue
		}
		logger.Error("Failed to save work order", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to save work order: %w", err)
	}

	logger.Info("Work order created", slog.String("work_order_id", workOrder.WorkOrderID), slog.String("number", workOrder.Number), slog.String("company_id", companyID))
	workOrder.Items = items
	return &workOrder, nil
}

// GetWorkOrderByID retrieves a work order with its items.
func (s *workOrderService) GetWorkOrderByID(ctx context.Context, companyID string, workOrderID string, requestingUserID string) (*domain.WorkOrder, error) {
	if err := s.companySvc.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	workOrder, err := s.workOrderRepo.FindWorkOrderByID(ctx, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to find work order %s: %w", workOrderID, err)
	}
	if workOrder.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return workOrder, nil
}

// ListWorkOrders retrieves a paginated list of work orders for a company.
func (s *workOrderService) ListWorkOrders(ctx context.Context, companyID string, userID string, params dto.ListWorkOrdersParams) (*dto.ListWorkOrdersResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	workOrders, nextToken, err := s.workOrderRepo.ListWorkOrdersByCompany(ctx, companyID, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list work orders", "error", err)
		return nil, fmt.Errorf("failed to retrieve work orders: %w", err)
	}

	responses := make([]dto.WorkOrderResponse, len(workOrders))
	for i, wo := range workOrders {
		responses[i] = dto.ToWorkOrderResponse(&wo)
	}

	return &dto.ListWorkOrdersResponse{WorkOrders: responses, NextToken: nextToken}, nil
}

// validWorkOrderTransitions lists the allowed status moves.
var validWorkOrderTransitions = map[domain.WorkOrderStatus][]domain.WorkOrderStatus{
	domain.WorkOrderPending:    {domain.WorkOrderInProgress, domain.WorkOrderCancelled},
	domain.WorkOrderInProgress: {domain.WorkOrderDone, domain.WorkOrderCancelled},
}

// UpdateWorkOrderStatus transitions a work order along its lifecycle.
// DONE and CANCELLED are terminal.
func (s *workOrderService) UpdateWorkOrderStatus(ctx context.Context, companyID string, workOrderID string, status domain.WorkOrderStatus, requestingUserID string) (*domain.WorkOrder, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleMember); err != nil {
		return nil, err
	}

	workOrder, err := s.workOrderRepo.FindWorkOrderByID(ctx, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to find work order %s: %w", workOrderID, err)
	}
	if workOrder.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}

	allowed := false
	for _, next := range validWorkOrderTransitions[workOrder.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apperrors.NewConflictError(fmt.Sprintf("cannot transition work order from %s to %s", workOrder.Status, status))
	}

	if err := s.workOrderRepo.UpdateWorkOrderStatus(ctx, workOrderID, status, requestingUserID); err != nil {
		logger.Error("Failed to update work order status", slog.String("error", err.Error()), slog.String("work_order_id", workOrderID))
		return nil, fmt.Errorf("failed to update work order status: %w", err)
	}

	workOrder.Status = status
	workOrder.LastUpdatedAt = time.Now().UTC()
	workOrder.LastUpdatedBy = requestingUserID

	logger.Info("Work order status updated", slog.String("work_order_id", workOrderID), slog.String("status", string(status)))
	return workOrder, nil
}
