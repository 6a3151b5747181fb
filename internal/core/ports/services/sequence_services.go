package services

import (
	"context"

	"github.com/falconsoft3d/falconerp/internal/core/domain"
)

// SequenceSvcFacade allocates document numbers from per-company numbering series.
type SequenceSvcFacade interface {
	// Allocate returns the next formatted number for the (company, documentType)
	// series and advances the counter. Allocation is atomic: concurrent callers
	// always receive distinct numbers.
	Allocate(ctx context.Context, companyID string, docType domain.DocumentType) (string, error)

	// Peek returns the series state without advancing the counter, after
	// verifying the requesting user belongs to the company.
	Peek(ctx context.Context, companyID string, docType domain.DocumentType, requestingUserID string) (*domain.NumberingSeries, error)
}
