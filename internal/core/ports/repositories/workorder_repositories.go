package repositories

import (
	"context"

	"github.com/falconsoft3d/falconerp/internal/core/domain"
)

// WorkOrderReader defines read operations for work order data
type WorkOrderReader interface {
	// FindWorkOrderByID retrieves a work order with its items.
	FindWorkOrderByID(ctx context.Context, workOrderID string) (*domain.WorkOrder, error)

	// ListWorkOrdersByCompany retrieves a paginated list of work orders for a
	// company using token-based pagination.
	ListWorkOrdersByCompany(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.WorkOrder, *string, error)
}

// WorkOrderWriter defines write operations for work order data
type WorkOrderWriter interface {
	// SaveWorkOrder persists a work order and all its items in one database
	// transaction. Returns an error matching apperrors.ErrDuplicate when the
	// work order number collides within the company.
	SaveWorkOrder(ctx context.Context, workOrder domain.WorkOrder, items []domain.WorkOrderItem) error

	// UpdateWorkOrderStatus transitions a work order to a new status.
	UpdateWorkOrderStatus(ctx context.Context, workOrderID string, status domain.WorkOrderStatus, updatedByUserID string) error
}

// WorkOrderRepositoryFacade combines all work-order-related repository interfaces
type WorkOrderRepositoryFacade interface {
	WorkOrderReader
	WorkOrderWriter
}
