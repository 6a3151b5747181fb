package services

import (
	"context"

	"github.com/falconsoft3d/falconerp/internal/core/domain"
	"github.com/falconsoft3d/falconerp/internal/dto"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetJournalByID retrieves a specific journal with its lines.
	GetJournalByID(ctx context.Context, companyID string, journalID string, requestingUserID string) (*domain.Journal, error)

	// ListJournals retrieves a paginated list of journals in a company.
	ListJournals(ctx context.Context, companyID string, userID string, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error)
}

// JournalWriterSvc defines write operations for journal data
type JournalWriterSvc interface {
	// CreateJournal validates the balance invariant, allocates the next journal
	// number and persists the journal with its lines atomically.
	CreateJournal(ctx context.Context, companyID string, req dto.CreateJournalRequest, creatorUserID string) (*domain.Journal, error)

	// UpdateJournal updates mutable journal fields (description, reference, date).
	// The number is immutable once assigned.
	UpdateJournal(ctx context.Context, companyID string, journalID string, req dto.UpdateJournalRequest, requestingUserID string) (*domain.Journal, error)
}

// JournalLineReaderSvc defines read operations for journal line data
type JournalLineReaderSvc interface {
	// ListLinesByAccount retrieves lines posted against a specific account.
	ListLinesByAccount(ctx context.Context, companyID string, accountID string, userID string, params dto.ListJournalLinesParams) (*dto.ListJournalLinesResponse, error)
}

// LedgerValidatorSvc exposes the balance invariant check on candidate lines.
type LedgerValidatorSvc interface {
	// ValidateBalance accepts the lines iff there are at least two of them, each
	// side is non-negative, and total debits equal total credits within the
	// accepted tolerance.
	ValidateBalance(lines []domain.JournalLine) error
}

// LedgerSvcFacade combines all ledger-related service interfaces
type LedgerSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
	JournalLineReaderSvc
	LedgerValidatorSvc
}
