package services

import (
	"context"

	"github.com/falconsoft3d/falconerp/internal/core/domain"
	"github.com/falconsoft3d/falconerp/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account scoped to a company.
	GetAccountByID(ctx context.Context, companyID string, accountID string, requestingUserID string) (*domain.Account, error)

	// GetAccountByIDs retrieves multiple accounts scoped to a company.
	GetAccountByIDs(ctx context.Context, companyID string, accountIDs []string, requestingUserID string) (map[string]domain.Account, error)

	// ListAccounts retrieves accounts for a company.
	ListAccounts(ctx context.Context, companyID string, requestingUserID string, params dto.ListAccountsParams) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account after validating code uniqueness.
	CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	// UpdateAccount updates account details.
	UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, requestingUserID string) (*domain.Account, error)

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, companyID string, accountID string, requestingUserID string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
