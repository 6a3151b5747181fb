package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuoteStatus indicates the lifecycle state of a quote.
type QuoteStatus string

const (
	QuoteDraft    QuoteStatus = "DRAFT"
	QuoteSent     QuoteStatus = "SENT"
	QuoteAccepted QuoteStatus = "ACCEPTED"
	QuoteRejected QuoteStatus = "REJECTED"
)

// Quote is a numbered commercial offer. Its number embeds the creation year
// ("COT-2025-007") while the underlying counter runs continuously across years.
type Quote struct {
	QuoteID      string          `json:"quoteID"`   // Primary Key (UUID)
	CompanyID    string          `json:"companyID"` // FK -> companies.company_id
	Number       string          `json:"number"`
	CustomerName string          `json:"customerName"`
	QuoteDate    time.Time       `json:"quoteDate"`
	ValidUntil   *time.Time      `json:"validUntil,omitempty"`
	Status       QuoteStatus     `json:"status"`
	Items        []QuoteItem     `json:"items,omitempty"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	TaxTotal     decimal.Decimal `json:"taxTotal"`
	Total        decimal.Decimal `json:"total"`
	AuditFields
}

// QuoteItem is a single priced line on a quote.
type QuoteItem struct {
	ItemID      string          `json:"itemID"`  // Primary Key (UUID)
	QuoteID     string          `json:"quoteID"` // FK -> quotes.quote_id
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxRate     decimal.Decimal `json:"taxRate"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxAmount   decimal.Decimal `json:"taxAmount"`
	Total       decimal.Decimal `json:"total"`
	Position    int             `json:"position"`
}
