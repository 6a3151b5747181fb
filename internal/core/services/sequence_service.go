package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/falconsoft3d/falconerp/internal/apperrors"
	"github.com/falconsoft3d/falconerp/internal/core/domain"
	portsrepo "github.com/falconsoft3d/falconerp/internal/core/ports/repositories"
	portssvc "github.com/falconsoft3d/falconerp/internal/core/ports/services"
	"github.com/falconsoft3d/falconerp/internal/middleware"
)

// ErrInvalidDocumentType indicates an unrecognized numbering series was requested.
var ErrInvalidDocumentType = errors.New("invalid document type")

// sequenceService allocates document numbers from per-company numbering series.
// The counter advance is delegated to the repository as a single atomic
// increment-and-return, so two concurrent allocations can never yield the
// same number.
type sequenceService struct {
	sequenceRepo portsrepo.SequenceRepository
	companySvc   portssvc.CompanyAuthorizerSvc
}

// NewSequenceService creates a new SequenceSvcFacade.
func NewSequenceService(sequenceRepo portsrepo.SequenceRepository, companySvc portssvc.CompanyAuthorizerSvc) portssvc.SequenceSvcFacade {
	return &sequenceService{
		sequenceRepo: sequenceRepo,
		companySvc:   companySvc,
	}
}

var _ portssvc.SequenceSvcFacade = (*sequenceService)(nil)

// Allocate returns the next formatted number for the series and advances its
// counter. Counters are continuous: they never reset on year boundaries (even
// for year-embedded formats) and never reuse a value, regardless of later
// document deletion.
func (s *sequenceService) Allocate(ctx context.Context, companyID string, docType domain.DocumentType) (string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !domain.ValidDocumentType(docType) {
		return "", fmt.Errorf("%w: %s", ErrInvalidDocumentType, docType)
	}

	series, counter, err := s.sequenceRepo.AllocateNext(ctx, companyID, docType)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", fmt.Errorf("numbering series for company %s and type %s: %w", companyID, docType, apperrors.ErrNotFound)
		}
		logger.Error("Failed to allocate document number", slog.String("company_id", companyID), slog.String("doc_type", string(docType)), slog.String("error", err.Error()))
		return "", fmt.Errorf("failed to allocate number for %s: %w", docType, err)
	}

	number := series.Format(counter, time.Now().UTC().Year())
	logger.Debug("Document number allocated", slog.String("company_id", companyID), slog.String("doc_type", string(docType)), slog.String("number", number))
	return number, nil
}

// Peek returns the current series state without advancing the counter. Any
// company member, including read-only users, may inspect a series.
func (s *sequenceService) Peek(ctx context.Context, companyID string, docType domain.DocumentType, requestingUserID string) (*domain.NumberingSeries, error) {
	if err := s.companySvc.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	if !domain.ValidDocumentType(docType) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDocumentType, docType)
	}
	return s.sequenceRepo.FindSeries(ctx, companyID, docType)
}
