package services

import (
	"context"

	"github.com/falconsoft3d/falconerp/internal/core/domain"
	"github.com/falconsoft3d/falconerp/internal/dto"
)

// QuoteSvcFacade defines operations for quotes.
type QuoteSvcFacade interface {
	// CreateQuote computes item totals, allocates the next year-embedded number
	// and persists the quote with its items atomically.
	CreateQuote(ctx context.Context, companyID string, req dto.CreateQuoteRequest, creatorUserID string) (*domain.Quote, error)

	// GetQuoteByID retrieves a quote with its items.
	GetQuoteByID(ctx context.Context, companyID string, quoteID string, requestingUserID string) (*domain.Quote, error)

	// ListQuotes retrieves a paginated list of quotes in a company.
	ListQuotes(ctx context.Context, companyID string, userID string, params dto.ListQuotesParams) (*dto.ListQuotesResponse, error)

	// UpdateQuoteStatus transitions a quote's lifecycle status.
	UpdateQuoteStatus(ctx context.Context, companyID string, quoteID string, status domain.QuoteStatus, requestingUserID string) (*domain.Quote, error)
}
