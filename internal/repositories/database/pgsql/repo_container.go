package pgsql

import (
	portsrepo "github.com/falconsoft3d/falconerp/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider creates all pgx-backed repositories sharing one pool.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(pool)
	return portsrepo.RepositoryProvider{
		CompanyRepo:   newPgxCompanyRepository(pool),
		AccountRepo:   accountRepo,
		JournalRepo:   newPgxJournalRepository(pool, accountRepo),
		SequenceRepo:  newPgxSequenceRepository(pool),
		InvoiceRepo:   newPgxInvoiceRepository(pool),
		QuoteRepo:     newPgxQuoteRepository(pool),
		WorkOrderRepo: newPgxWorkOrderRepository(pool),
		UserRepo:      newPgxUserRepository(pool),
	}
}
