package repositories

import (
	"context"

	"github.com/falconsoft3d/falconerp/internal/core/domain"
)

// QuoteReader defines read operations for quote data
type QuoteReader interface {
	// FindQuoteByID retrieves a quote with its items.
	FindQuoteByID(ctx context.Context, quoteID string) (*domain.Quote, error)

	// ListQuotesByCompany retrieves a paginated list of quotes for a company
	// using token-based pagination.
	ListQuotesByCompany(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Quote, *string, error)
}

// QuoteWriter defines write operations for quote data
type QuoteWriter interface {
	// SaveQuote persists a quote and all its items in one database transaction.
	// Returns an error matching apperrors.ErrDuplicate when the quote number
	// collides within the company.
	SaveQuote(ctx context.Context, quote domain.Quote, items []domain.QuoteItem) error

	// UpdateQuoteStatus transitions a quote to a new status.
	UpdateQuoteStatus(ctx context.Context, quoteID string, status domain.QuoteStatus, updatedByUserID string) error
}

// QuoteRepositoryFacade combines all quote-related repository interfaces
type QuoteRepositoryFacade interface {
	QuoteReader
	QuoteWriter
}
