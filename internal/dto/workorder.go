package dto

import (
	"time"

	"github.com/falconsoft3d/falconerp/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateWorkOrderRequest is the payload for creating a work order.
type CreateWorkOrderRequest struct {
	CustomerName string              `json:"customerName" binding:"required"`
	Date         time.Time           `json:"date" binding:"required"`
	Notes        string              `json:"notes"`
	Items        []CreateItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateWorkOrderStatusRequest transitions a work order's status.
type UpdateWorkOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING IN_PROGRESS DONE CANCELLED"`
}

// ListWorkOrdersParams holds query parameters for listing work orders.
type ListWorkOrdersParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// WorkOrderResponse defines the data returned for a work order.
type WorkOrderResponse struct {
	WorkOrderID  string          `json:"workOrderID"`
	CompanyID    string          `json:"companyID"`
	Number       string          `json:"number"`
	CustomerName string          `json:"customerName"`
	Date         time.Time       `json:"date"`
	Status       string          `json:"status"`
	Notes        string          `json:"notes,omitempty"`
	Items        []ItemResponse  `json:"items,omitempty"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	TaxTotal     decimal.Decimal `json:"taxTotal"`
	Total        decimal.Decimal `json:"total"`
	CreatedAt    time.Time       `json:"createdAt"`
	CreatedBy    string          `json:"createdBy"`
}

// ListWorkOrdersResponse is the paginated work order list payload.
type ListWorkOrdersResponse struct {
	WorkOrders []WorkOrderResponse `json:"workOrders"`
	NextToken  *string             `json:"nextToken,omitempty"`
}

// ToWorkOrderResponse converts a domain.WorkOrder to its response DTO.
func ToWorkOrderResponse(wo *domain.WorkOrder) WorkOrderResponse {
	resp := WorkOrderResponse{
		WorkOrderID:  wo.WorkOrderID,
		CompanyID:    wo.CompanyID,
		Number:       wo.Number,
		CustomerName: wo.CustomerName,
		Date:         wo.OrderDate,
		Status:       string(wo.Status),
		Notes:        wo.Notes,
		Subtotal:     wo.Subtotal,
		TaxTotal:     wo.TaxTotal,
		Total:        wo.Total,
		CreatedAt:    wo.CreatedAt,
		CreatedBy:    wo.CreatedBy,
	}
	for _, item := range wo.Items {
		resp.Items = append(resp.Items, ItemResponse{
			ItemID:      item.ItemID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TaxRate:     item.TaxRate,
			Subtotal:    item.Subtotal,
			TaxAmount:   item.TaxAmount,
			Total:       item.Total,
		})
	}
	return resp
}
