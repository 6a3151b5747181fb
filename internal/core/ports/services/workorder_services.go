package services

import (
	"context"

	"github.com/falconsoft3d/falconerp/internal/core/domain"
	"github.com/falconsoft3d/falconerp/internal/dto"
)

// WorkOrderSvcFacade defines operations for work orders.
type WorkOrderSvcFacade interface {
	// CreateWorkOrder computes item totals, allocates the next number and
	// persists the work order with its items atomically.
	CreateWorkOrder(ctx context.Context, companyID string, req dto.CreateWorkOrderRequest, creatorUserID string) (*domain.WorkOrder, error)

	// GetWorkOrderByID retrieves a work order with its items.
	GetWorkOrderByID(ctx context.Context, companyID string, workOrderID string, requestingUserID string) (*domain.WorkOrder, error)

	// ListWorkOrders retrieves a paginated list of work orders in a company.
	ListWorkOrders(ctx context.Context, companyID string, userID string, params dto.ListWorkOrdersParams) (*dto.ListWorkOrdersResponse, error)

	// UpdateWorkOrderStatus transitions a work order's lifecycle status.
	UpdateWorkOrderStatus(ctx context.Context, companyID string, workOrderID string, status domain.WorkOrderStatus, requestingUserID string) (*domain.WorkOrder, error)
}
