package dto

import (
	"time"

	"github.com/falconsoft3d/falconerp/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest is the payload for creating a sales or purchase invoice.
type CreateInvoiceRequest struct {
	Kind        string              `json:"kind" binding:"required,oneof=SALES PURCHASE"`
	PartnerName string              `json:"partnerName" binding:"required"`
	Date        time.Time           `json:"date" binding:"required"`
	DueDate     *time.Time          `json:"dueDate"`
	Items       []CreateItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateInvoiceStatusRequest transitions an invoice's status.
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=DRAFT POSTED PAID CANCELLED"`
}

// ListInvoicesParams holds query parameters for listing invoices.
type ListInvoicesParams struct {
	Kind      *string `form:"kind"`
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// InvoiceResponse defines the data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID   string          `json:"invoiceID"`
	CompanyID   string          `json:"companyID"`
	Kind        string          `json:"kind"`
	Number      string          `json:"number"`
	PartnerName string          `json:"partnerName"`
	Date        time.Time       `json:"date"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
	Status      string          `json:"status"`
	Items       []ItemResponse  `json:"items,omitempty"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxTotal    decimal.Decimal `json:"taxTotal"`
	Total       decimal.Decimal `json:"total"`
	CreatedAt   time.Time       `json:"createdAt"`
	CreatedBy   string          `json:"createdBy"`
}

// ListInvoicesResponse is the paginated invoice list payload.
type ListInvoicesResponse struct {
	Invoices  []InvoiceResponse `json:"invoices"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToInvoiceResponse converts a domain.Invoice to its response DTO.
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		InvoiceID:   inv.InvoiceID,
		CompanyID:   inv.CompanyID,
		Kind:        string(inv.Kind),
		Number:      inv.Number,
		PartnerName: inv.PartnerName,
		Date:        inv.InvoiceDate,
		DueDate:     inv.DueDate,
		Status:      string(inv.Status),
		Subtotal:    inv.Subtotal,
		TaxTotal:    inv.TaxTotal,
		Total:       inv.Total,
		CreatedAt:   inv.CreatedAt,
		CreatedBy:   inv.CreatedBy,
	}
	for _, item := range inv.Items {
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
