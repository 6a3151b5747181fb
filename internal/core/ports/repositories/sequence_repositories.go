package repositories

import (
	"context"

	"github.com/falconsoft3d/falconerp/internal/core/domain"
)

// SequenceRepository manages per-company, per-document-type numbering series.
type SequenceRepository interface {
	// AllocateNext atomically claims the next counter value for the series and
	// advances it, returning the series configuration together with the claimed
	// value. The increment happens in a single conditional UPDATE so concurrent
	// callers can never observe the same counter value.
	AllocateNext(ctx context.Context, companyID string, docType domain.DocumentType) (domain.NumberingSeries, int64, error)

	// FindSeries retrieves the current state of a numbering series.
	FindSeries(ctx context.Context, companyID string, docType domain.DocumentType) (*domain.NumberingSeries, error)
}
