package pgsql

import (
	"context"
	"errors"

	"github.com/falconsoft3d/falconerp/internal/apperrors"
	"github.com/falconsoft3d/falconerp/internal/core/domain"
	portsrepo "github.com/falconsoft3d/falconerp/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxSequenceRepository struct {
	BaseRepository
}

// newPgxSequenceRepository creates a new repository for numbering series data.
func newPgxSequenceRepository(pool *pgxpool.Pool) portsrepo.SequenceRepository {
	return &PgxSequenceRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.SequenceRepository = (*PgxSequenceRepository)(nil)

// AllocateNext claims the next counter value for the series in a single
// conditional UPDATE. Postgres row locking serializes concurrent updates on
// the same series row, so every caller observes a distinct counter value and
// the series never skips or repeats under concurrency.
func (r *PgxSequenceRepository) AllocateNext(ctx context.Context, companyID string, docType domain.DocumentType) (domain.NumberingSeries, int64, error) {
	query := `
		UPDATE numbering_series
		SET next_number = next_number + 1
		WHERE company_id = $1 AND document_type = $2
		RETURNING prefix, padding, embed_year, next_number - 1;
	`
	series := domain.NumberingSeries{
		CompanyID:    companyID,
		DocumentType: docType,
	}
	var allocated int64
	err := r.Pool.QueryRow(ctx, query, companyID, docType).Scan(
		&series.Prefix,
		&series.Padding,
		&series.EmbedYear,
		&allocated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NumberingSeries{}, 0, apperrors.ErrNotFound
		}
		return domain.NumberingSeries{}, 0, apperrors.NewAppError(500, "failed to allocate next number for "+string(docType), err)
	}
	series.NextNumber = allocated + 1
	return series, allocated, nil
}

// FindSeries retrieves the current state of a numbering series.
func (r *PgxSequenceRepository) FindSeries(ctx context.Context, companyID string, docType domain.DocumentType) (*domain.NumberingSeries, error) {
	query := `
		SELECT company_id, document_type, prefix, padding, embed_year, next_number
		FROM numbering_series
		WHERE company_id = $1 AND document_type = $2;
	`
	var series domain.NumberingSeries
	err := r.Pool.QueryRow(ctx, query, companyID, docType).Scan(
		&series.CompanyID,
		&series.DocumentType,
		&series.Prefix,
		&series.Padding,
		&series.EmbedYear,
		&series.NextNumber,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find numbering series for "+string(docType), err)
	}
	return &series, nil
}
