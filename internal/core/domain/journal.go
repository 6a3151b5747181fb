package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Posted JournalStatus = "POSTED"
)

// Journal represents a single, balanced financial event composed of multiple lines.
// Number is assigned from the company's journal series at creation and never changes.
type Journal struct {
	JournalID   string        `json:"journalID"`   // Primary Key (UUID)
	CompanyID   string        `json:"companyID"`   // FK -> companies.company_id (NON-NULL)
	Number      string        `json:"number"`      // Sequential document number, e.g. "JRN0042"
	JournalDate time.Time     `json:"journalDate"` // Date the event occurred
	Reference   string        `json:"reference"`   // Optional external reference
	Description string        `json:"description"` // Required user description
	Status      JournalStatus `json:"status"`      // Default: Posted
	Lines       []JournalLine `json:"lines,omitempty"`
	AuditFields
}

// JournalLine is a single debit or credit posting against one account.
// Debit and Credit are both non-negative; the system does not require that
// exactly one of them is nonzero per line.
type JournalLine struct {
	LineID      string          `json:"lineID"`      // Primary Key (UUID)
	JournalID   string          `json:"journalID"`   // FK -> journals.journal_id (NON-NULL)
	AccountID   string          `json:"accountID"`   // FK -> accounts.account_id (NON-NULL)
	Debit       decimal.Decimal `json:"debit"`       // >= 0
	Credit      decimal.Decimal `json:"credit"`      // >= 0
	Description string          `json:"description"` // Optional per-line note
	AuditFields
	RunningBalance decimal.Decimal `json:"runningBalance"` // Account balance after this line
}

// Net returns the line's contribution in debit-normal terms, debit minus credit.
func (l JournalLine) Net() decimal.Decimal {
	return l.Debit.Sub(l.Credit)
}
