package repositories

import (
	"context"

	"github.com/falconsoft3d/falconerp/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindJournalByID retrieves a specific journal by its unique identifier.
	FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// ListJournalsByCompany retrieves a paginated list of journals for a given company
	// using token-based pagination. It returns the journals, a token for the next page,
	// and an error.
	ListJournalsByCompany(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Journal, *string, error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// SaveJournal persists a journal and its lines, updating account balances,
	// all within one database transaction (all rows or none).
	// Returns an error matching apperrors.ErrDuplicate when the journal number
	// collides with an existing one in the same company.
	SaveJournal(ctx context.Context, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) error

	// UpdateJournal updates mutable fields of a journal (description, reference, date).
	UpdateJournal(ctx context.Context, journal domain.Journal) error
}

// JournalLineReader defines read operations for journal line data
type JournalLineReader interface {
	// FindLinesByJournalID retrieves all lines associated with a single journal ID.
	FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.JournalLine, error)

	// ListLinesByAccountID retrieves a paginated list of lines posted against a
	// specific account using token-based pagination.
	ListLinesByAccountID(ctx context.Context, companyID, accountID string, limit int, nextToken *string) ([]domain.JournalLine, *string, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	JournalLineReader
}

// JournalRepositoryWithTx extends JournalRepositoryFacade with transaction capabilities
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TransactionManager
}
