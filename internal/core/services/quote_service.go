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

// quoteService manages commercial quotes.
type quoteService struct {
	quoteRepo   portsrepo.QuoteRepositoryFacade
	companySvc  portssvc.CompanyAuthorizerSvc
	sequenceSvc portssvc.SequenceSvcFacade
}

// NewQuoteService creates a new QuoteSvcFacade.
func NewQuoteService(quoteRepo portsrepo.QuoteRepositoryFacade, companySvc portssvc.CompanyAuthorizerSvc, sequenceSvc portssvc.SequenceSvcFacade) portssvc.QuoteSvcFacade {
	return &quoteService{
		quoteRepo:   quoteRepo,
		companySvc:  companySvc,
		sequenceSvc: sequenceSvc,
	}
}

var _ portssvc.QuoteSvcFacade = (*quoteService)(nil)

// CreateQuote validates items, computes totals, allocates the next
// year-embedded number ("COT-2025-007") and persists atomically. The counter
// behind the number keeps running across year boundaries.
func (s *quoteService) CreateQuote(ctx context.Context, companyID string, req dto.CreateQuoteRequest, creatorUserID string) (*domain.Quote, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, creatorUserID, companyID, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for CreateQuote", slog.String("user_id", creatorUserID), slog.String("company_id", companyID), slog.String("error", err.Error()))
		return nil, err
	}

	if err := validateItemRequests(req.Items); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	quoteID := uuid.NewString()

	items := make([]domain.QuoteItem, len(req.Items))
	subtotal, taxTotal, total := decimal.Zero, decimal.Zero, decimal.Zero
	for i, itemReq := range req.Items {
		lineSubtotal, lineTax, lineTotal := accounting.ComputeLineTotals(itemReq.Quantity, itemReq.UnitPrice, itemReq.TaxRate)
		items[i] = domain.QuoteItem{
			ItemID:      uuid.NewString(),
			QuoteID:     quoteID,
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

	quote := domain.Quote{
		QuoteID:      quoteID,
		CompanyID:    companyID,
		CustomerName: req.CustomerName,
		QuoteDate:    req.Date,
		ValidUntil:   req.ValidUntil,
		Status:       domain.QuoteDraft,
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
		number, err := s.sequenceSvc.Allocate(ctx, companyID, domain.DocTypeQuote)
		if err != nil {
			return nil, fmt.Errorf("failed to allocate quote number: %w", err)
		}
		quote.Number = number

		err = s.quoteRepo.SaveQuote(ctx, quote, items)
		if err == nil {
			break
		}
		if errors.Is(err, apperrors.ErrDuplicate) && attempt == 0 {
			logger.Warn("Quote number collision, retrying allocation", slog.String("company_id", companyID), slog.String("number", number))
			continue
		}
		logger.Error("Failed to save quote", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to save quote: %w", err)
	}

	logger.Info("Quote created", slog.String("quote_id", quote.QuoteID), slog.String("number", quote.Number), slog.String("company_id", companyID))
	quote.Items = items
	return &quote, nil
}

// GetQuoteByID retrieves a quote with its items.
func (s *quoteService) GetQuoteByID(ctx context.Context, companyID string, quoteID string, requestingUserID string) (*domain.Quote, error) {
	if err := s.companySvc.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	quote, err := s.quoteRepo.FindQuoteByID(ctx, quoteID)
	if err != nil {
		return nil, fmt.Errorf("failed to find quote %s: %w", quoteID, err)
	}
	if quote.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return quote, nil
}

// ListQuotes retrieves a paginated list of quotes for a company.
func (s *quoteService) ListQuotes(ctx context.Context, companyID string, userID string, params dto.ListQuotesParams) (*dto.ListQuotesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	quotes, nextToken, err := s.quoteRepo.ListQuotesByCompany(ctx, companyID, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list quotes", "error", err)
		return nil, fmt.Errorf("failed to retrieve quotes: %w", err)
	}

	responses := make([]dto.QuoteResponse, len(quotes))
	for i, q := range quotes {
		responses[i] = dto.ToQuoteResponse(&q)
	}

	return &dto.ListQuotesResponse{Quotes: responses, NextToken: nextToken}, nil
}

// validQuoteTransitions lists the allowed status moves.
var validQuoteTransitions = map[domain.QuoteStatus][]domain.QuoteStatus{
	domain.QuoteDraft: {domain.QuoteSent, domain.QuoteRejected},
	domain.QuoteSent:  {domain.QuoteAccepted, domain.QuoteRejected},
}

// UpdateQuoteStatus transitions a quote along its lifecycle.
// ACCEPTED and REJECTED are terminal.
func (s *quoteService) UpdateQuoteStatus(ctx context.Context, companyID string, quoteID string, status domain.QuoteStatus, requestingUserID string) (*domain.Quote, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleMember); err != nil {
		return nil, err
	}

	quote, err := s.quoteRepo.FindQuoteByID(ctx, quoteID)
	if err != nil {
		return nil, fmt.Errorf("failed to find quote %s: %w", quoteID, err)
	}
	if quote.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}

	allowed := false
	for _, next := range validQuoteTransitions[quote.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apperrors.NewConflictError(fmt.Sprintf("cannot transition quote from %s to %s", quote.Status, status))
	}

	if err := s.quoteRepo.UpdateQuoteStatus(ctx, quoteID, status, requestingUserID); err != nil {
		logger.Error("Failed to update quote status", slog.String("error", err.Error()), slog.String("quote_id", quoteID))
		return nil, fmt.Errorf("failed to update quote status: %w", err)
	}

	quote.Status = status
	quote.LastUpdatedAt = time.Now().UTC()
	quote.LastUpdatedBy = requestingUserID

	logger.Info("Quote status updated", slog.String("quote_id", quoteID), slog.String("status", string(status)))
	return quote, nil
}
