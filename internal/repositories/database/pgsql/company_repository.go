package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/falconsoft3d/falconerp/internal/apperrors"
	"github.com/falconsoft3d/falconerp/internal/core/domain"
	portsrepo "github.com/falconsoft3d/falconerp/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCompanyRepository struct {
	BaseRepository
}

// newPgxCompanyRepository creates a new repository for company and membership data.
func newPgxCompanyRepository(pool *pgxpool.Pool) portsrepo.CompanyRepositoryWithTx {
	return &PgxCompanyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.CompanyRepositoryWithTx = (*PgxCompanyRepository)(nil)

// SaveCompany inserts the company, the creator's ADMIN membership and the
// default numbering series rows within one DB transaction.
func (r *PgxCompanyRepository) SaveCompany(ctx context.Context, company domain.Company, creatorUserID string, series []domain.NumberingSeries) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Ignored after a successful commit

	companyQuery := `
		INSERT INTO companies (company_id, name, tax_id, address, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = tx.Exec(ctx, companyQuery,
		company.CompanyID,
		company.Name,
		company.TaxID,
		company.Address,
		company.IsActive,
		company.CreatedAt,
		company.CreatedBy,
		company.LastUpdatedAt,
		company.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert company "+company.CompanyID, err)
	}

	membershipQuery := `
		INSERT INTO user_companies (user_id, company_id, role, joined_at, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err = tx.Exec(ctx, membershipQuery,
		creatorUserID,
		company.CompanyID,
		domain.RoleAdmin,
		company.CreatedAt,
		company.CreatedAt,
		creatorUserID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert creator membership for company "+company.CompanyID, err)
	}

	batch := &pgx.Batch{}
	seriesQuery := `
		INSERT INTO numbering_series (company_id, document_type, prefix, padding, embed_year, next_number)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	for _, s := range series {
		batch.Queue(seriesQuery, s.CompanyID, s.DocumentType, s.Prefix, s.Padding, s.EmbedYear, s.NextNumber)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to seed numbering series for company "+company.CompanyID, err)
	}

	return r.Commit(ctx, tx)
}

// FindCompanyByID retrieves a company by its ID.
func (r *PgxCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	query := `
		SELECT company_id, name, tax_id, address, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM companies
		WHERE company_id = $1;
	`
	var company domain.Company
	err := r.Pool.QueryRow(ctx, query, companyID).Scan(
		&company.CompanyID,
		&company.Name,
		&company.TaxID,
		&company.Address,
		&company.IsActive,
		&company.CreatedAt,
		&company.CreatedBy,
		&company.LastUpdatedAt,
		&company.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find company by ID "+companyID, err)
	}
	return &company, nil
}

// ListUserCompanies retrieves companies the user is a member of.
func (r *PgxCompanyRepository) ListUserCompanies(ctx context.Context, userID string, includeDisabled bool) ([]domain.Company, error) {
	query := `
		SELECT c.company_id, c.name, c.tax_id, c.address, c.is_active, c.created_at, c.created_by, c.last_updated_at, c.last_updated_by
		FROM companies c
		JOIN user_companies uc ON uc.company_id = c.company_id
		WHERE uc.user_id = $1 AND uc.role != $2
	`
	if !includeDisabled {
		query += ` AND c.is_active = TRUE`
	}
	query += ` ORDER BY c.created_at;`

	rows, err := r.Pool.Query(ctx, query, userID, domain.RoleRemoved)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query companies for user "+userID, err)
	}
	defer rows.Close()

	companies := []domain.Company{}
	for rows.Next() {
		var c domain.Company
		err := rows.Scan(
			&c.CompanyID,
			&c.Name,
			&c.TaxID,
			&c.Address,
			&c.IsActive,
			&c.CreatedAt,
			&c.CreatedBy,
			&c.LastUpdatedAt,
			&c.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan company row", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating company rows", err)
	}
	return companies, nil
}

// ListCompanyUsers retrieves all memberships of a company together with the user names.
func (r *PgxCompanyRepository) ListCompanyUsers(ctx context.Context, companyID string) ([]domain.UserCompany, error) {
	query := `
		SELECT uc.user_id, u.name, uc.company_id, uc.role, uc.joined_at
		FROM user_companies uc
		JOIN users u ON u.user_id = uc.user_id
		WHERE uc.company_id = $1 AND uc.role != $2
		ORDER BY uc.joined_at;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, domain.RoleRemoved)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query users for company "+companyID, err)
	}
	defer rows.Close()

	members := []domain.UserCompany{}
	for rows.Next() {
		var m domain.UserCompany
		if err := rows.Scan(&m.UserID, &m.UserName, &m.CompanyID, &m.Role, &m.JoinedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan membership row", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating membership rows", err)
	}
	return members, nil
}

// FindUserCompanyRole retrieves a single membership row.
func (r *PgxCompanyRepository) FindUserCompanyRole(ctx context.Context, userID, companyID string) (*domain.UserCompany, error) {
	query := `
		SELECT uc.user_id, u.name, uc.company_id, uc.role, uc.joined_at
		FROM user_companies uc
		JOIN users u ON u.user_id = uc.user_id
		WHERE uc.user_id = $1 AND uc.company_id = $2;
	`
	var m domain.UserCompany
	err := r.Pool.QueryRow(ctx, query, userID, companyID).Scan(&m.UserID, &m.UserName, &m.CompanyID, &m.Role, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find membership for user "+userID, err)
	}
	return &m, nil
}

// UpdateCompany updates company details.
func (r *PgxCompanyRepository) UpdateCompany(ctx context.Context, company domain.Company) error {
	query := `
		UPDATE companies
		SET name = $2, tax_id = $3, address = $4, last_updated_at = $5, last_updated_by = $6
		WHERE company_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		company.CompanyID,
		company.Name,
		company.TaxID,
		company.Address,
		company.LastUpdatedAt,
		company.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update company "+company.CompanyID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateCompany marks a company as inactive.
func (r *PgxCompanyRepository) DeactivateCompany(ctx context.Context, companyID string, userID string, now time.Time) error {
	query := `
		UPDATE companies
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE company_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, companyID, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate company "+companyID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// AddUserToCompany inserts a membership row.
func (r *PgxCompanyRepository) AddUserToCompany(ctx context.Context, membership domain.UserCompany) error {
	query := `
		INSERT INTO user_companies (user_id, company_id, role, joined_at, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $4, $1);
	`
	_, err := r.Pool.Exec(ctx, query, membership.UserID, membership.CompanyID, membership.Role, membership.JoinedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewDuplicateError("user is already a member of this company")
		}
		return apperrors.NewAppError(500, "failed to add user to company "+membership.CompanyID, err)
	}
	return nil
}

// UpdateUserCompanyRole changes the role of an existing membership.
func (r *PgxCompanyRepository) UpdateUserCompanyRole(ctx context.Context, userID, companyID string, role domain.UserCompanyRole, updatedByUserID string, now time.Time) error {
	query := `
		UPDATE user_companies
		SET role = $3, last_updated_at = $4, last_updated_by = $5
		WHERE user_id = $1 AND company_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, userID, companyID, role, now, updatedByUserID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update membership role", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
