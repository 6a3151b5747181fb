package domain

import "fmt"

// DocumentType identifies a numbering series within a company.
type DocumentType string

const (
	DocTypeSalesInvoice    DocumentType = "SALES_INVOICE"
	DocTypePurchaseInvoice DocumentType = "PURCHASE_INVOICE"
	DocTypeQuote           DocumentType = "QUOTE"
	DocTypeWorkOrder       DocumentType = "WORK_ORDER"
	DocTypeJournal         DocumentType = "JOURNAL"
)

// ValidDocumentType reports whether t names a supported numbering series.
func ValidDocumentType(t DocumentType) bool {
	switch t {
	case DocTypeSalesInvoice, DocTypePurchaseInvoice, DocTypeQuote, DocTypeWorkOrder, DocTypeJournal:
		return true
	}
	return false
}

// NumberingSeries is a per-company, per-document-type monotonic counter used
// to generate human-readable document numbers. NextNumber is the value the
// next allocation will receive; it only ever increases and is never reused,
// even if the numbered document is later deleted.
type NumberingSeries struct {
	CompanyID    string       `json:"companyID"`    // FK -> companies.company_id
	DocumentType DocumentType `json:"documentType"` // Series key within the company
	Prefix       string       `json:"prefix"`       // e.g. "INV", "COT"
	Padding      int          `json:"padding"`      // Zero-pad width of the counter
	EmbedYear    bool         `json:"embedYear"`    // Quote style: PREFIX-YYYY-NNN
	NextNumber   int64        `json:"nextNumber"`   // Counter, starts at 1
}

// Format renders a counter value as a document number in this series' convention.
// Year-embedded series render as "{prefix}-{year}-{zero-padded n}"; the counter
// itself is continuous across years and is never reset.
func (s NumberingSeries) Format(n int64, year int) string {
	if s.EmbedYear {
		return fmt.Sprintf("%s-%d-%0*d", s.Prefix, year, s.Padding, n)
	}
	return fmt.Sprintf("%s%0*d", s.Prefix, s.Padding, n)
}

// DefaultSeries returns the series seeded for a newly created company.
func DefaultSeries(companyID string) []NumberingSeries {
	return []NumberingSeries{
		{CompanyID: companyID, DocumentType: DocTypeSalesInvoice, Prefix: "INV", Padding: 4, NextNumber: 1},
		{CompanyID: companyID, DocumentType: DocTypePurchaseInvoice, Prefix: "BILL", Padding: 4, NextNumber: 1},
		{CompanyID: companyID, DocumentType: DocTypeQuote, Prefix: "COT", Padding: 3, EmbedYear: true, NextNumber: 1},
		{CompanyID: companyID, DocumentType: DocTypeWorkOrder, Prefix: "OT", Padding: 4, NextNumber: 1},
		{CompanyID: companyID, DocumentType: DocTypeJournal, Prefix: "JRN", Padding: 4, NextNumber: 1},
	}
}
