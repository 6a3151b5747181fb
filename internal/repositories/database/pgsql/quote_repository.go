package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/falconsoft3d/falconerp/internal/apperrors"
	"github.com/falconsoft3d/falconerp/internal/core/domain"
	portsrepo "github.com/falconsoft3d/falconerp/internal/core/ports/repositories"
	"github.com/falconsoft3d/falconerp/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxQuoteRepository struct {
	BaseRepository
}

// newPgxQuoteRepository creates a new repository for quote data.
func newPgxQuoteRepository(pool *pgxpool.Pool) portsrepo.QuoteRepositoryFacade {
	return &PgxQuoteRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.QuoteRepositoryFacade = (*PgxQuoteRepository)(nil)

const quoteColumns = `quote_id, company_id, number, customer_name, quote_date, valid_until, status, subtotal, tax_total, total, created_at, created_by, last_updated_at, last_updated_by`

func scanQuote(row pgx.Row) (domain.Quote, error) {
	var q domain.Quote
	err := row.Scan(
		&q.QuoteID,
		&q.CompanyID,
		&q.Number,
		&q.CustomerName,
		&q.QuoteDate,
		&q.ValidUntil,
		&q.Status,
		&q.Subtotal,
		&q.TaxTotal,
		&q.Total,
		&q.CreatedAt,
		&q.CreatedBy,
		&q.LastUpdatedAt,
		&q.LastUpdatedBy,
	)
	return q, err
}

// SaveQuote persists a quote and all its items within one DB transaction.
// Violations of the (company_id, number) constraint surface as ErrDuplicate.
func (r *PgxQuoteRepository) SaveQuote(ctx context.Context, quote domain.Quote, items []domain.QuoteItem) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	quoteQuery := `
		INSERT INTO quotes (` + quoteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, quoteQuery,
		quote.QuoteID,
		quote.CompanyID,
		quote.Number,
		quote.CustomerName,
		quote.QuoteDate,
		quote.ValidUntil,
		quote.Status,
		quote.Subtotal,
		quote.TaxTotal,
		quote.Total,
		quote.CreatedAt,
		quote.CreatedBy,
		quote.LastUpdatedAt,
		quote.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewDuplicateError("quote number " + quote.Number + " already exists in this company")
		}
		return apperrors.NewAppError(500, "failed to insert quote "+quote.QuoteID, err)
	}

	batch := &pgx.Batch{}
	itemQuery := `
		INSERT INTO quote_items (item_id, quote_id, description, quantity, unit_price, tax_rate, subtotal, tax_amount, total, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for _, item := range items {
		batch.Queue(itemQuery,
			item.ItemID,
			quote.QuoteID,
			item.Description,
			item.Quantity,
			item.UnitPrice,
			item.TaxRate,
			item.Subtotal,
			item.TaxAmount,
			item.Total,
			item.Position,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute item batch for quote "+quote.QuoteID, err)
	}

	return r.Commit(ctx, tx)
}

// FindQuoteByID retrieves a quote with its items.
func (r *PgxQuoteRepository) FindQuoteByID(ctx context.Context, quoteID string) (*domain.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE quote_id = $1;`
	quote, err := scanQuote(r.Pool.QueryRow(ctx, query, quoteID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find quote by ID "+quoteID, err)
	}

	itemQuery := `
		SELECT item_id, quote_id, description, quantity, unit_price, tax_rate, subtotal, tax_amount, total, position
		FROM quote_items
		WHERE quote_id = $1
		ORDER BY position;
	`
	rows, err := r.Pool.Query(ctx, itemQuery, quoteID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query items for quote "+quoteID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.QuoteItem
		err := rows.Scan(
			&item.ItemID,
			&item.QuoteID,
			&item.Description,
			&item.Quantity,
			&item.UnitPrice,
			&item.TaxRate,
			&item.Subtotal,
			&item.TaxAmount,
			&item.Total,
			&item.Position,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan item row for quote "+quoteID, err)
		}
		quote.Items = append(quote.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating item rows for quote "+quoteID, err)
	}

	return &quote, nil
}

// ListQuotesByCompany retrieves a paginated list of quotes, newest first,
// using token-based cursor pagination.
func (r *PgxQuoteRepository) ListQuotesByCompany(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Quote, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE company_id = $1`
	args := []interface{}{companyID}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastDate, lastCreatedAt)
		query += ` AND (quote_date, created_at) < ($2, $3)`
	}

	args = append(args, fetchLimit)
	query += ` ORDER BY quote_date DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query quotes for company "+companyID, err)
	}
	defer rows.Close()

	quotes := make([]domain.Quote, 0, fetchLimit)
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan quote row", err)
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating quote rows", err)
	}

	var newNextToken *string
	if len(quotes) > limit {
		quotes = quotes[:limit]
		last := quotes[len(quotes)-1]
		token := pagination.EncodeToken(last.QuoteDate, last.CreatedAt)
		newNextToken = &token
	}
	return quotes, newNextToken, nil
}

// UpdateQuoteStatus transitions a quote to a new status.
func (r *PgxQuoteRepository) UpdateQuoteStatus(ctx context.Context, quoteID string, status domain.QuoteStatus, updatedByUserID string) error {
	query := `
		UPDATE quotes
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE quote_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, quoteID, status, time.Now().UTC(), updatedByUserID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status for quote "+quoteID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
