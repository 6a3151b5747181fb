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

// validateItemRequests checks the amount rules shared by all priced documents:
// positive quantity and unit price, non-negative tax rate.
func validateItemRequests(items []dto.CreateItemRequest) error {
	if len(items) == 0 {
		return apperrors.NewValidationFailedError("document must have at least one item")
	}
	for i, item := range items {
		if !item.Quantity.IsPositive() {
			return apperrors.NewValidationFailedError(fmt.Sprintf("item %d: quantity must be positive", i+1))
		}
		if !item.UnitPrice.IsPositive() {
			return apperrors.NewValidationFailedError(fmt.Sprintf("item %d: unit price must be positive", i+1))
		}
		if item.TaxRate.IsNegative() {
			return apperrors.NewValidationFailedError(fmt.Sprintf("item %d: tax rate must not be negative", i+1))
		}
	}
	return nil
}

// invoiceService manages sales and purchase invoices.
type invoiceService struct {
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	companySvc  portssvc.CompanyAuthorizerSvc
	sequenceSvc portssvc.SequenceSvcFacade
}

// NewInvoiceService creates a new InvoiceSvcFacade.
func NewInvoiceService(invoiceRepo portsrepo.InvoiceRepositoryFacade, companySvc portssvc.CompanyAuthorizerSvc, sequenceSvc portssvc.SequenceSvcFacade) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		companySvc:  companySvc,
		sequenceSvc: sequenceSvc,
	}
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// invoiceDocType maps an invoice kind onto its numbering series.
func invoiceDocType(kind domain.InvoiceKind) (domain.DocumentType, error) {
	switch kind {
	case domain.SalesInvoice:
		return domain.DocTypeSalesInvoice, nil
	case domain.PurchaseInvoice:
		return domain.DocTypePurchaseInvoice, nil
	default:
		return "", apperrors.NewValidationFailedError(fmt.Sprintf("invalid invoice kind: %s", kind))
	}
}

// CreateInvoice validates items, computes per-line and document totals,
// allocates the next number from the kind's series and persists everything
// atomically. Validation happens before allocation so rejected requests
// never consume a number.
func (s *invoiceService) CreateInvoice(ctx context.Context, companyID string, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, creatorUserID, companyID, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for CreateInvoice", slog.String("user_id", creatorUserID), slog.String("company_id", companyID), slog.String("error", err.Error()))
		return nil, err
	}

	kind := domain.InvoiceKind(req.Kind)
	docType, err := invoiceDocType(kind)
	if err != nil {
		return nil, err
	}

	if err := validateItemRequests(req.Items); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	invoiceID := uuid.NewString()

	items := make([]domain.InvoiceItem, len(req.Items))
	subtotal, taxTotal, total := decimal.Zero, decimal.Zero, decimal.Zero
	for i, itemReq := range req.Items {
		lineSubtotal, lineTax, lineTotal := accounting.ComputeLineTotals(itemReq.Quantity, itemReq.UnitPrice, itemReq.TaxRate)
		items[i] = domain.InvoiceItem{
			ItemID:      uuid.NewString(),
			InvoiceID:   invoiceID,
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

	invoice := domain.Invoice{
		InvoiceID:   invoiceID,
		CompanyID:   companyID,
		Kind:        kind,
		PartnerName: req.PartnerName,
		InvoiceDate: req.Date,
		DueDate:     req.DueDate,
		Status:      domain.InvoiceDraft,
		Subtotal:    subtotal,
		TaxTotal:    taxTotal,
		Total:       total,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	for attempt := 0; attempt < 2; attempt++ {
		number, err := s.sequenceSvc.Allocate(ctx, companyID, docType)
		if err != nil {
			return nil, fmt.Errorf("failed to allocate invoice number: %w", err)
		}
		invoice.Number = number

		err = s.invoiceRepo.SaveInvoice(ctx, invoice, items)
		if err == nil {
			break
		}
		if errors.Is(err, apperrors.ErrDuplicate) && attempt == 0 {
			logger.Warn("Invoice number collision, retrying allocation", slog.String("company_id", companyID), slog.String("number", number))
			continue
		}
		logger.Error("Failed to save invoice", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	logger.Info("Invoice created", slog.String("invoice_id", invoice.InvoiceID), slog.String("number", invoice.Number), slog.String("kind", string(kind)), slog.String("company_id", companyID))
	invoice.Items = items
	return &invoice, nil
}

// GetInvoiceByID retrieves an invoice with its items.
func (s *invoiceService) GetInvoiceByID(ctx context.Context, companyID string, invoiceID string, requestingUserID string) (*domain.Invoice, error) {
	if err := s.companySvc.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	if invoice.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return invoice, nil
}

// ListInvoices retrieves a paginated list of invoices, optionally filtered by kind.
func (s *invoiceService) ListInvoices(ctx context.Context, companyID string, userID string, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	var kind *domain.InvoiceKind
	if params.Kind != nil {
		k := domain.InvoiceKind(*params.Kind)
		if _, err := invoiceDocType(k); err != nil {
			return nil, err
		}
		kind = &k
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	invoices, nextToken, err := s.invoiceRepo.ListInvoicesByCompany(ctx, companyID, kind, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list invoices", "error", err)
		return nil, fmt.Errorf("failed to retrieve invoices: %w", err)
	}

	responses := make([]dto.InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		responses[i] = dto.ToInvoiceResponse(&inv)
	}

	return &dto.ListInvoicesResponse{Invoices: responses, NextToken: nextToken}, nil
}

// validInvoiceTransitions lists the allowed status moves.
var validInvoiceTransitions = map[domain.InvoiceStatus][]domain.InvoiceStatus{
	domain.InvoiceDraft:  {domain.InvoicePosted, domain.InvoiceCancelled},
	domain.InvoicePosted: {domain.InvoicePaid, domain.InvoiceCancelled},
}

// UpdateInvoiceStatus transitions an invoice along its lifecycle.
// PAID and CANCELLED are terminal.
func (s *invoiceService) UpdateInvoiceStatus(ctx context.Context, companyID string, invoiceID string, status domain.InvoiceStatus, requestingUserID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleMember); err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	if invoice.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}

	allowed := false
	for _, next := range validInvoiceTransitions[invoice.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apperrors.NewConflictError(fmt.Sprintf("cannot transition invoice from %s to %s", invoice.Status, status))
	}

	if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, invoiceID, status, requestingUserID); err != nil {
		logger.Error("Failed to update invoice status", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to update invoice status: %w", err)
	}

	invoice.Status = status
	invoice.LastUpdatedAt = time.Now().UTC()
	invoice.LastUpdatedBy = requestingUserID

	logger.Info("Invoice status updated", slog.String("invoice_id", invoiceID), slog.String("status", string(status)))
	return invoice, nil
}
