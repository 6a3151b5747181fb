package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/falconsoft3d/falconerp/internal/apperrors"
	"github.com/falconsoft3d/falconerp/internal/core/domain"
	portsrepo "github.com/falconsoft3d/falconerp/internal/core/ports/repositories"
	portssvc "github.com/falconsoft3d/falconerp/internal/core/ports/services"
	"github.com/falconsoft3d/falconerp/internal/dto"
	"github.com/falconsoft3d/falconerp/internal/middleware"
)

// companyService manages companies, memberships and tenant authorization.
type companyService struct {
	companyRepo portsrepo.CompanyRepositoryFacade
	userRepo    portsrepo.UserRepositoryFacade
}

// NewCompanyService creates a new CompanySvcFacade.
func NewCompanyService(companyRepo portsrepo.CompanyRepositoryFacade, userRepo portsrepo.UserRepositoryFacade) portssvc.CompanySvcFacade {
	return &companyService{
		companyRepo: companyRepo,
		userRepo:    userRepo,
	}
}

var _ portssvc.CompanySvcFacade = (*companyService)(nil)

// AuthorizeUserAction checks that the user holds at least the required role in
// the company. Returns apperrors.ErrForbidden on insufficient role and wraps
// apperrors.ErrNotFound when no membership exists, so callers do not leak
// company existence to outsiders.
func (s *companyService) AuthorizeUserAction(ctx context.Context, userID, companyID string, requiredRole domain.UserCompanyRole) error {
	membership, err := s.companyRepo.FindUserCompanyRole(ctx, userID, companyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFoundError(fmt.Sprintf("company %s not found", companyID))
		}
		return fmt.Errorf("failed to check company membership: %w", err)
	}

	if membership.Role == domain.RoleRemoved {
		return apperrors.NewNotFoundError(fmt.Sprintf("company %s not found", companyID))
	}

	if !membership.Role.CanActAs(requiredRole) {
		return apperrors.NewForbiddenError(fmt.Sprintf("role %s cannot perform this action (requires %s)", membership.Role, requiredRole))
	}

	return nil
}

// CreateCompany persists a new company with the creator as ADMIN and seeds the
// default numbering series for every document type, all in one transaction.
func (s *companyService) CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	company := domain.Company{
		CompanyID: uuid.NewString(),
		Name:      req.Name,
		TaxID:     req.TaxID,
		Address:   req.Address,
		IsActive:  true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	series := domain.DefaultSeries(company.CompanyID)

	if err := s.companyRepo.SaveCompany(ctx, company, creatorUserID, series); err != nil {
		logger.Error("Failed to save company", slog.String("error", err.Error()), slog.String("name", req.Name))
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	logger.Info("Company created", slog.String("company_id", company.CompanyID), slog.String("creator", creatorUserID))
	return &company, nil
}

// FindCompanyByID retrieves a company by its ID.
func (s *companyService) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to find company %s: %w", companyID, err)
	}
	return company, nil
}

// ListUserCompanies retrieves companies the user belongs to.
func (s *companyService) ListUserCompanies(ctx context.Context, userID string, includeDisabled bool) ([]domain.Company, error) {
	companies, err := s.companyRepo.ListUserCompanies(ctx, userID, includeDisabled)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies for user %s: %w", userID, err)
	}
	return companies, nil
}

// ListCompanyUsers retrieves the membership roster of a company.
func (s *companyService) ListCompanyUsers(ctx context.Context, companyID string, requestingUserID string) ([]domain.UserCompany, error) {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	members, err := s.companyRepo.ListCompanyUsers(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list users for company %s: %w", companyID, err)
	}
	return members, nil
}

// UpdateCompany updates company details. Requires ADMIN role.
func (s *companyService) UpdateCompany(ctx context.Context, companyID string, req dto.UpdateCompanyRequest, requestingUserID string) (*domain.Company, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleAdmin); err != nil {
		logger.Warn("Authorization failed for UpdateCompany", slog.String("user_id", requestingUserID), slog.String("company_id", companyID), slog.String("error", err.Error()))
		return nil, err
	}

	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to find company %s: %w", companyID, err)
	}

	updated := false
	if req.Name != nil && *req.Name != "" {
		company.Name = *req.Name
		updated = true
	}
	if req.TaxID != nil {
		company.TaxID = *req.TaxID
		updated = true
	}
	if req.Address != nil {
		company.Address = *req.Address
		updated = true
	}

	if !updated {
		return company, nil
	}

	now := time.Now().UTC()
	company.LastUpdatedAt = now
	company.LastUpdatedBy = requestingUserID

	if err := s.companyRepo.UpdateCompany(ctx, *company); err != nil {
		logger.Error("Failed to update company", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to update company: %w", err)
	}

	logger.Info("Company updated", slog.String("company_id", companyID))
	return company, nil
}

// DeactivateCompany marks a company as inactive. Requires ADMIN role.
func (s *companyService) DeactivateCompany(ctx context.Context, companyID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleAdmin); err != nil {
		return err
	}

	if err := s.companyRepo.DeactivateCompany(ctx, companyID, requestingUserID, time.Now().UTC()); err != nil {
		logger.Error("Failed to deactivate company", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return fmt.Errorf("failed to deactivate company: %w", err)
	}

	logger.Info("Company deactivated", slog.String("company_id", companyID))
	return nil
}

// AddUserToCompany adds a user to a company with the given role.
// Only ADMINs can manage membership. Re-adding a previously removed user
// updates the existing membership row instead of inserting a duplicate.
func (s *companyService) AddUserToCompany(ctx context.Context, addingUserID, targetUserID, companyID string, role domain.UserCompanyRole) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.AuthorizeUserAction(ctx, addingUserID, companyID, domain.RoleAdmin); err != nil {
		return err
	}

	targetUser, err := s.userRepo.FindUserByID(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFoundError(fmt.Sprintf("user %s not found", targetUserID))
		}
		return fmt.Errorf("failed to find user %s: %w", targetUserID, err)
	}
	if !targetUser.IsActive {
		return apperrors.NewValidationFailedError(fmt.Sprintf("user %s is inactive", targetUserID))
	}

	existing, err := s.companyRepo.FindUserCompanyRole(ctx, targetUserID, companyID)
	now := time.Now().UTC()
	switch {
	case err == nil && existing.Role != domain.RoleRemoved:
		return apperrors.NewConflictError(fmt.Sprintf("user %s is already a member of company %s", targetUserID, companyID))
	case err == nil:
		// Previously removed, reinstate with the new role.
		if err := s.companyRepo.UpdateUserCompanyRole(ctx, targetUserID, companyID, role, addingUserID, now); err != nil {
			return fmt.Errorf("failed to reinstate user in company: %w", err)
		}
	case errors.Is(err, apperrors.ErrNotFound):
		membership := domain.UserCompany{
			UserID:    targetUserID,
			CompanyID: companyID,
			Role:      role,
			JoinedAt:  now,
		}
		if err := s.companyRepo.AddUserToCompany(ctx, membership); err != nil {
			return fmt.Errorf("failed to add user to company: %w", err)
		}
	default:
		return fmt.Errorf("failed to check existing membership: %w", err)
	}

	logger.Info("User added to company", slog.String("company_id", companyID), slog.String("user_id", targetUserID), slog.String("role", string(role)))
	return nil
}
