package repositories

import (
	"context"

	"github.com/falconsoft3d/falconerp/internal/core/domain"
)

// InvoiceReader defines read operations for invoice data
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice with its items.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// ListInvoicesByCompany retrieves a paginated list of invoices for a company,
	// optionally filtered by kind, using token-based pagination.
	ListInvoicesByCompany(ctx context.Context, companyID string, kind *domain.InvoiceKind, limit int, nextToken *string) ([]domain.Invoice, *string, error)
}

// InvoiceWriter defines write operations for invoice data
type InvoiceWriter interface {
	// SaveInvoice persists an invoice and all its items in one database
	// transaction. Returns an error matching apperrors.ErrDuplicate when the
	// invoice number collides within the company.
	SaveInvoice(ctx context.Context, invoice domain.Invoice, items []domain.InvoiceItem) error

	// UpdateInvoiceStatus transitions an invoice to a new status.
	UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus, updatedByUserID string) error
}

// InvoiceRepositoryFacade combines all invoice-related repository interfaces
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}
