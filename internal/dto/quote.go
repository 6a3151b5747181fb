package dto

import (
	"time"

	"github.com/falconsoft3d/falconerp/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateQuoteRequest is the payload for creating a quote.
type CreateQuoteRequest struct {
	CustomerName string              `json:"customerName" binding:"required"`
	Date         time.Time           `json:"date" binding:"required"`
	ValidUntil   *time.Time          `json:"validUntil"`
	Items        []CreateItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateQuoteStatusRequest transitions a quote's status.
type UpdateQuoteStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=DRAFT SENT ACCEPTED REJECTED"`
}

// ListQuotesParams holds query parameters for listing quotes.
type ListQuotesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// QuoteResponse defines the data returned for a quote.
type QuoteResponse struct {
	QuoteID      string          `json:"quoteID"`
	CompanyID    string          `json:"companyID"`
	Number       string          `json:"number"`
	CustomerName string          `json:"customerName"`
	Date         time.Time       `json:"date"`
	ValidUntil   *time.Time      `json:"validUntil,omitempty"`
	Status       string          `json:"status"`
	Items        []ItemResponse  `json:"items,omitempty"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	TaxTotal     decimal.Decimal `json:"taxTotal"`
	Total        decimal.Decimal `json:"total"`
	CreatedAt    time.Time       `json:"createdAt"`
	CreatedBy    string          `json:"createdBy"`
}

// ListQuotesResponse is the paginated quote list payload.
type ListQuotesResponse struct {
	Quotes    []QuoteResponse `json:"quotes"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToQuoteResponse converts a domain.Quote to its response DTO.
func ToQuoteResponse(q *domain.Quote) QuoteResponse {
	resp := QuoteResponse{
		QuoteID:      q.QuoteID,
		CompanyID:    q.CompanyID,
		Number:       q.Number,
		CustomerName: q.CustomerName,
		Date:         q.QuoteDate,
		ValidUntil:   q.ValidUntil,
		Status:       string(q.Status),
		Subtotal:     q.Subtotal,
		TaxTotal:     q.TaxTotal,
		Total:        q.Total,
		CreatedAt:    q.CreatedAt,
		CreatedBy:    q.CreatedBy,
	}
	for _, item := range q.Items {
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
