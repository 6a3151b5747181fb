package services

import (
	"context"

	"github.com/falconsoft3d/falconerp/internal/core/domain"
	"github.com/falconsoft3d/falconerp/internal/dto"
)

// InvoiceSvcFacade defines operations for sales and purchase invoices.
type InvoiceSvcFacade interface {
	// CreateInvoice computes item totals, allocates the next number from the
	// kind's series and persists the invoice with its items atomically.
	CreateInvoice(ctx context.Context, companyID string, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, error)

	// GetInvoiceByID retrieves an invoice with its items.
	GetInvoiceByID(ctx context.Context, companyID string, invoiceID string, requestingUserID string) (*domain.Invoice, error)

	// ListInvoices retrieves a paginated list of invoices in a company.
	ListInvoices(ctx context.Context, companyID string, userID string, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error)

	// UpdateInvoiceStatus transitions an invoice's lifecycle status.
	UpdateInvoiceStatus(ctx context.Context, companyID string, invoiceID string, status domain.InvoiceStatus, requestingUserID string) (*domain.Invoice, error)
}
