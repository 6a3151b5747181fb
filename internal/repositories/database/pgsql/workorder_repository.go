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

type PgxWorkOrderRepository struct {
	BaseRepository
}

// newPgxWorkOrderRepository creates a new repository for work order data.
func newPgxWorkOrderRepository(pool *pgxpool.Pool) portsrepo.WorkOrderRepositoryFacade {
	return &PgxWorkOrderRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.WorkOrderRepositoryFacade = (*PgxWorkOrderRepository)(nil)

const workOrderColumns = `work_order_id, company_id, number, customer_name, order_date, status, notes, subtotal, tax_total, total, created_at, created_by, last_updated_at, last_updated_by`

func scanWorkOrder(row pgx.Row) (domain.WorkOrder, error) {
	var wo domain.WorkOrder
	err := row.Scan(
		&wo.WorkOrderID,
		&wo.CompanyID,
		&wo.Number,
		&wo.CustomerName,
		&wo.OrderDate,
		&wo.Status,
		&wo.Notes,
		&wo.Subtotal,
		&wo.TaxTotal,
		&wo.Total,
		&wo.CreatedAt,
		&wo.CreatedBy,
		&wo.LastUpdatedAt,
		&wo.LastUpdatedBy,
	)
	return wo, err
}

// SaveWorkOrder persists a work order and all its items within one DB
// transaction. Violations of the (company_id, number) constraint surface as
// ErrDuplicate.
func (r *PgxWorkOrderRepository) SaveWorkOrder(ctx context.Context, workOrder domain.WorkOrder, items []domain.WorkOrderItem) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	workOrderQuery := `
		INSERT INTO work_orders (` + workOrderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, workOrderQuery,
		workOrder.WorkOrderID,
		workOrder.CompanyID,
		workOrder.Number,
		workOrder.CustomerName,
		workOrder.OrderDate,
		workOrder.Status,
		workOrder.Notes,
		workOrder.Subtotal,
		workOrder.TaxTotal,
		workOrder.Total,
		workOrder.CreatedAt,
		workOrder.CreatedBy,
		workOrder.LastUpdatedAt,
		workOrder.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewDuplicateError("work order number " + workOrder.Number + " already exists in this company")
		}
		return apperrors.NewAppError(500, "failed to insert work order "+workOrder.WorkOrderID, err)
	}

	batch := &pgx.Batch{}
	itemQuery := `
		INSERT INTO work_order_items (item_id, work_order_id, description, quantity, unit_price, tax_rate, subtotal, tax_amount, total, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for _, item := range items {
		batch.Queue(itemQuery,
			item.ItemID,
			workOrder.WorkOrderID,
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
		return apperrors.NewAppError(500, "failed to execute item batch for work order "+workOrder.WorkOrderID, err)
	}

	return r.Commit(ctx, tx)
}

// FindWorkOrderByID retrieves a work order with its items.
func (r *PgxWorkOrderRepository) FindWorkOrderByID(ctx context.Context, workOrderID string) (*domain.WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + ` FROM work_orders WHERE work_order_id = $1;`
	workOrder, err := scanWorkOrder(r.Pool.QueryRow(ctx, query, workOrderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find work order by ID "+workOrderID, err)
	}

	itemQuery := `
		SELECT item_id, work_order_id, description, quantity, unit_price, tax_rate, subtotal, tax_amount, total, position
		FROM work_order_items
		WHERE work_order_id = $1
		ORDER BY position;
	`
	rows, err := r.Pool.Query(ctx, itemQuery, workOrderID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query items for work order "+workOrderID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.WorkOrderItem
		err := rows.Scan(
			&item.ItemID,
			&item.WorkOrderID,
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
			return nil, apperrors.NewAppError(500, "failed to scan item row for work order "+workOrderID, err)
		}
		workOrder.Items = append(workOrder.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating item rows for work order "+workOrderID, err)
	}

	return &workOrder, nil
}

// ListWorkOrdersByCompany retrieves a paginated list of work orders, newest
// first, using token-based cursor pagination.
func (r *PgxWorkOrderRepository) ListWorkOrdersByCompany(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.WorkOrder, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `SELECT ` + workOrderColumns + ` FROM work_orders WHERE company_id = $1`
	args := []interface{}{companyID}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastDate, lastCreatedAt)
		query += ` AND (order_date, created_at) < ($2, $3)`
	}

	args = append(args, fetchLimit)
	query += ` ORDER BY order_date DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query work orders for company "+companyID, err)
	}
	defer rows.Close()

	workOrders := make([]domain.WorkOrder, 0, fetchLimit)
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan work order row", err)
		}
		workOrders = append(workOrders, wo)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating work order rows", err)
	}

	var newNextToken *string
	if len(workOrders) > limit {
		workOrders = workOrders[:limit]
		last := workOrders[len(workOrders)-1]
		token := pagination.EncodeToken(last.OrderDate, last.CreatedAt)
		newNextToken = &token
	}
	return workOrders, newNextToken, nil
}

// UpdateWorkOrderStatus transitions a work order to a new status.
func (r *PgxWorkOrderRepository) UpdateWorkOrderStatus(ctx context.Context, workOrderID string, status domain.WorkOrderStatus, updatedByUserID string) error {
	query := `
		UPDATE work_orders
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE work_order_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, workOrderID, status, time.Now().UTC(), updatedByUserID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status for work order "+workOrderID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
