package dto

import (
	"time"

	"github.com/falconsoft3d/falconerp/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateJournalLineRequest is one debit or credit posting in a creation request.
// Debit and Credit must both be >= 0; the service enforces this because the
// binding layer cannot compare decimals.
type CreateJournalLineRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// CreateJournalRequest is the payload for creating a journal entry.
type CreateJournalRequest struct {
	Date        time.Time                  `json:"date" binding:"required"`
	Reference   string                     `json:"reference"`
	Description string                     `json:"description" binding:"required"`
	Lines       []CreateJournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// UpdateJournalRequest is the payload for updating mutable journal fields.
type UpdateJournalRequest struct {
	Date        *time.Time `json:"date"`
	Reference   *string    `json:"reference"`
	Description *string    `json:"description"`
}

// ListJournalsParams holds query parameters for listing journals.
type ListJournalsParams struct {
	Limit        int     `form:"limit"`
	NextToken    *string `form:"nextToken"`
	IncludeLines bool    `form:"includeLines"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID         string          `json:"lineID"`
	AccountID      string          `json:"accountID"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	Description    string          `json:"description,omitempty"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// JournalResponse defines the data returned for a journal entry.
type JournalResponse struct {
	JournalID   string                `json:"journalID"`
	CompanyID   string                `json:"companyID"`
	Number      string                `json:"number"`
	Date        time.Time             `json:"date"`
	Reference   string                `json:"reference,omitempty"`
	Description string                `json:"description"`
	Status      string                `json:"status"`
	Lines       []JournalLineResponse `json:"lines,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
	CreatedBy   string                `json:"createdBy"`
}

// ListJournalsResponse is the paginated journal list payload.
type ListJournalsResponse struct {
	Journals  []JournalResponse `json:"journals"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ListJournalLinesParams holds query parameters for listing lines by account.
type ListJournalLinesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListJournalLinesResponse is the paginated line list payload.
type ListJournalLinesResponse struct {
	Lines     []JournalLineResponse `json:"lines"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// ToJournalLineResponse converts a domain.JournalLine to its response DTO.
func ToJournalLineResponse(line *domain.JournalLine) JournalLineResponse {
	return JournalLineResponse{
		LineID:         line.LineID,
		AccountID:      line.AccountID,
		Debit:          line.Debit,
		Credit:         line.Credit,
		Description:    line.Description,
		RunningBalance: line.RunningBalance,
	}
}

// ToJournalLineResponses converts a slice of domain.JournalLine to response DTOs.
func ToJournalLineResponses(lines []domain.JournalLine) []JournalLineResponse {
	responses := make([]JournalLineResponse, len(lines))
	for i, line := range lines {
		responses[i] = ToJournalLineResponse(&line)
	}
	return responses
}

// ToJournalResponse converts a domain.Journal to its response DTO.
func ToJournalResponse(j *domain.Journal) JournalResponse {
	resp := JournalResponse{
		JournalID:   j.JournalID,
		CompanyID:   j.CompanyID,
		Number:      j.Number,
		Date:        j.JournalDate,
		Reference:   j.Reference,
		Description: j.Description,
		Status:      string(j.Status),
		CreatedAt:   j.CreatedAt,
		CreatedBy:   j.CreatedBy,
	}
	if len(j.Lines) > 0 {
		resp.Lines = ToJournalLineResponses(j.Lines)
	}
	return resp
}
