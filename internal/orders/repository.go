package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("sales order not found")

type Repository interface {
	Get(ctx context.Context, id int64) (*SalesOrder, error)
	GetByQuotation(ctx context.Context, quotationID int64) (*SalesOrder, error)
	List(ctx context.Context, req ListSalesOrdersRequest) ([]SalesOrderWithDetails, int, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	UpdateStatus(ctx context.Context, id int64, status SalesOrderStatus) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const orderColumns = `id, doc_number, quotation_id, customer_id, order_date,
	expected_delivery_date, status, total_amount, notes, created_at, updated_at`

func scanOrder(row pgx.Row) (*SalesOrder, error) {
	var o SalesOrder
	err := row.Scan(
		&o.ID, &o.DocNumber, &o.QuotationID, &o.CustomerID, &o.OrderDate,
		&o.ExpectedDeliveryDate, &o.Status, &o.TotalAmount, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*SalesOrder, error) {
	return scanOrder(r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM sales_orders WHERE id = $1`, id))
}

func (r *repository) GetByQuotation(ctx context.Context, quotationID int64) (*SalesOrder, error) {
	return scanOrder(r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM sales_orders WHERE quotation_id = $1`, quotationID))
}

func (r *repository) List(ctx context.Context, req ListSalesOrdersRequest) ([]SalesOrderWithDetails, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("o.customer_id = $%d", argPos))
		args = append(args, *req.CustomerID)
		argPos++
	}
	if req.Status != nil {
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", argPos))
		args = append(args, *req.Status)
		argPos++
	}

	whereClause := ""
	for i, cond := range conditions {
		if i == 0 {
			whereClause = "WHERE " + cond
		} else {
			whereClause += " AND " + cond
		}
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM sales_orders o %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT o.id, o.doc_number, o.quotation_id, o.customer_id, o.order_date,
		       o.expected_delivery_date, o.status, o.total_amount, o.notes, o.created_at, o.updated_at,
		       c.name AS customer_name, q.doc_number AS quotation_number
		FROM sales_orders o
		JOIN customers c ON o.customer_id = c.id
		JOIN quotations q ON o.quotation_id = q.id
		%s
		ORDER BY o.order_date DESC, o.id DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []SalesOrderWithDetails
	for rows.Next() {
		var o SalesOrderWithDetails
		err := rows.Scan(
			&o.ID, &o.DocNumber, &o.QuotationID, &o.CustomerID, &o.OrderDate,
			&o.ExpectedDeliveryDate, &o.Status, &o.TotalAmount, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
			&o.CustomerName, &o.QuotationNumber,
		)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, o)
	}
	return out, total, rows.Err()
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	query := "UPDATE sales_orders SET updated_at = NOW()"
	var args []interface{}
	argPos := 1

	for _, col := range []string{"expected_delivery_date", "notes"} {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}

	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status SalesOrderStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE sales_orders SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
