package domain

import "github.com/shopspring/decimal"

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// ValidAccountType reports whether t is one of the five supported types.
func ValidAccountType(t AccountType) bool {
	switch t {
	case Asset, Liability, Equity, Income, Expense:
		return true
	}
	return false
}

// Account represents a ledger account within a company's chart of accounts.
// Code is unique per company; accounts are referenced, never owned, by journal lines.
type Account struct {
	AccountID   string          `json:"accountID"`   // Primary Key (UUID)
	CompanyID   string          `json:"companyID"`   // FK -> companies.company_id (NON-NULL)
	Code        string          `json:"code"`        // Unique within the company, e.g. "1100"
	Name        string          `json:"name"`        // User-defined name
	AccountType AccountType     `json:"accountType"` // ASSET, LIABILITY, etc.
	Description string          `json:"description"` // Nullable user description
	IsActive    bool            `json:"isActive"`    // Soft delete or status flag
	AuditFields                 // Embed CreatedAt, CreatedBy, etc.
	Balance     decimal.Decimal `json:"balance"` // Persisted account balance
}
