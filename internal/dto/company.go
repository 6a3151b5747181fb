package dto

import (
	"time"

	"github.com/falconsoft3d/falconerp/internal/core/domain"
)

// CreateCompanyRequest is the payload for creating a company.
type CreateCompanyRequest struct {
	Name    string `json:"name" binding:"required"`
	TaxID   string `json:"taxID"`
	Address string `json:"address"`
}

// UpdateCompanyRequest is the payload for updating company details.
type UpdateCompanyRequest struct {
	Name    *string `json:"name"`
	TaxID   *string `json:"taxID"`
	Address *string `json:"address"`
}

// AddCompanyUserRequest adds a user to a company with a role.
type AddCompanyUserRequest struct {
	UserID string `json:"userID" binding:"required"`
	Role   string `json:"role" binding:"required,oneof=ADMIN MEMBER READONLY"`
}

// CompanyResponse defines the data returned for a company.
type CompanyResponse struct {
	CompanyID string    `json:"companyID"`
	Name      string    `json:"name"`
	TaxID     string    `json:"taxID,omitempty"`
	Address   string    `json:"address,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// CompanyUserResponse defines one membership row.
type CompanyUserResponse struct {
	UserID   string    `json:"userID"`
	UserName string    `json:"userName"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

// ToCompanyResponse converts a domain.Company to its response DTO.
func ToCompanyResponse(c *domain.Company) CompanyResponse {
	return CompanyResponse{
		CompanyID: c.CompanyID,
		Name:      c.Name,
		TaxID:     c.TaxID,
		Address:   c.Address,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
	}
}

// ToCompanyResponses converts a slice of domain.Company to response DTOs.
func ToCompanyResponses(companies []domain.Company) []CompanyResponse {
	responses := make([]CompanyResponse, len(companies))
	for i, c := range companies {
		responses[i] = ToCompanyResponse(&c)
	}
	return responses
}

// ToCompanyUserResponses converts membership rows to response DTOs.
func ToCompanyUserResponses(members []domain.UserCompany) []CompanyUserResponse {
	responses := make([]CompanyUserResponse, len(members))
	for i, m := range members {
		responses[i] = CompanyUserResponse{
			UserID:   m.UserID,
			UserName: m.UserName,
			Role:     string(m.Role),
			JoinedAt: m.JoinedAt,
		}
	}
	return responses
}
