package repositories

import (
	"context"
	"time"

	"github.com/falconsoft3d/falconerp/internal/core/domain"
)

// CompanyReader defines read operations for company data
type CompanyReader interface {
	// FindCompanyByID retrieves a specific company by its unique identifier.
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)

	// ListUserCompanies retrieves companies a user belongs to.
	// If includeDisabled is true, inactive companies are included.
	ListUserCompanies(ctx context.Context, userID string, includeDisabled bool) ([]domain.Company, error)

	// ListCompanyUsers retrieves all memberships for a specific company.
	ListCompanyUsers(ctx context.Context, companyID string) ([]domain.UserCompany, error)

	// FindUserCompanyRole retrieves the membership role of a user in a company.
	FindUserCompanyRole(ctx context.Context, userID, companyID string) (*domain.UserCompany, error)
}

// CompanyWriter defines write operations for company data
type CompanyWriter interface {
	// SaveCompany persists a new company, the creator's ADMIN membership and the
	// company's default numbering series in a single database transaction.
	SaveCompany(ctx context.Context, company domain.Company, creatorUserID string, series []domain.NumberingSeries) error

	// UpdateCompany updates an existing company's details.
	UpdateCompany(ctx context.Context, company domain.Company) error

	// DeactivateCompany marks a company as inactive.
	DeactivateCompany(ctx context.Context, companyID string, userID string, now time.Time) error
}

// CompanyMembershipWriter defines write operations for company membership
type CompanyMembershipWriter interface {
	// AddUserToCompany adds a membership row with the given role.
	AddUserToCompany(ctx context.Context, membership domain.UserCompany) error

	// UpdateUserCompanyRole changes the role of an existing membership.
	UpdateUserCompanyRole(ctx context.Context, userID, companyID string, role domain.UserCompanyRole, updatedByUserID string, now time.Time) error
}

// CompanyRepositoryFacade combines all company-related repository interfaces
type CompanyRepositoryFacade interface {
	CompanyReader
	CompanyWriter
	CompanyMembershipWriter
}

// CompanyRepositoryWithTx extends CompanyRepositoryFacade with transaction capabilities
type CompanyRepositoryWithTx interface {
	CompanyRepositoryFacade
	TransactionManager
}
