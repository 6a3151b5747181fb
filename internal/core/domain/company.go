package domain

import "time"

// Company is the multi-tenant root: every account, journal and document
// belongs to exactly one company.
type Company struct {
	CompanyID   string `json:"companyID"`   // Primary Key (UUID)
	Name        string `json:"name"`        // Legal or display name
	TaxID       string `json:"taxID"`       // Optional fiscal identifier
	Address     string `json:"address"`     // Optional
	IsActive    bool   `json:"isActive"`    // Soft delete flag
	AuditFields        // Embed common audit fields
}

// UserCompanyRole defines the possible roles a user can have within a company.
type UserCompanyRole string

const (
	RoleAdmin    UserCompanyRole = "ADMIN"
	RoleMember   UserCompanyRole = "MEMBER"
	RoleReadOnly UserCompanyRole = "READONLY"
	RoleRemoved  UserCompanyRole = "REMOVED" // For users who have been removed from the company
)

// CanActAs reports whether the role satisfies the required minimum role.
func (r UserCompanyRole) CanActAs(required UserCompanyRole) bool {
	rank := map[UserCompanyRole]int{
		RoleReadOnly: 1,
		RoleMember:   2,
		RoleAdmin:    3,
	}
	have, ok := rank[r]
	if !ok {
		return false
	}
	want, ok := rank[required]
	if !ok {
		return false
	}
	return have >= want
}

// UserCompany represents the membership of a User in a Company.
type UserCompany struct {
	UserID    string          `json:"userID"`    // FK -> users.user_id
	UserName  string          `json:"userName"`  // Name of the user
	CompanyID string          `json:"companyID"` // FK -> companies.company_id
	Role      UserCompanyRole `json:"role"`      // Role of the user in this specific company
	JoinedAt  time.Time       `json:"joinedAt"`
}
