package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceKind distinguishes customer invoices from supplier bills.
// Each kind draws its number from its own series.
type InvoiceKind string

const (
	SalesInvoice    InvoiceKind = "SALES"
	PurchaseInvoice InvoiceKind = "PURCHASE"
)

// InvoiceStatus indicates the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "DRAFT"
	InvoicePosted    InvoiceStatus = "POSTED"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

// Invoice is a numbered sales or purchase document with ordered line items.
type Invoice struct {
	InvoiceID   string        `json:"invoiceID"` // Primary Key (UUID)
	CompanyID   string        `json:"companyID"` // FK -> companies.company_id
	Kind        InvoiceKind   `json:"kind"`
	Number      string        `json:"number"`      // e.g. "INV0007", immutable once assigned
	PartnerName string        `json:"partnerName"` // Customer or supplier name
	InvoiceDate time.Time     `json:"invoiceDate"`
	DueDate     *time.Time    `json:"dueDate,omitempty"`
	Status      InvoiceStatus `json:"status"`
	Items       []InvoiceItem `json:"items,omitempty"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxTotal    decimal.Decimal `json:"taxTotal"`
	Total       decimal.Decimal `json:"total"`
	AuditFields
}

// InvoiceItem is a single priced line on an invoice.
type InvoiceItem struct {
	ItemID      string          `json:"itemID"`    // Primary Key (UUID)
	InvoiceID   string          `json:"invoiceID"` // FK -> invoices.invoice_id
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxRate     decimal.Decimal `json:"taxRate"` // Percentage, e.g. 21 for 21%
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxAmount   decimal.Decimal `json:"taxAmount"`
	Total       decimal.Decimal `json:"total"`
	Position    int             `json:"position"` // Preserves line ordering
}
