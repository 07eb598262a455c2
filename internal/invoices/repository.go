package invoices

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("invoice not found")

type Repository interface {
	Get(ctx context.Context, id int64) (*Invoice, error)
	GetByQuotation(ctx context.Context, quotationID int64) (*Invoice, error)
	List(ctx context.Context, req ListInvoicesRequest) ([]InvoiceWithDetails, int, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	UpdateStatus(ctx context.Context, id int64, status InvoiceStatus) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const invoiceColumns = `id, doc_number, quotation_id, sales_order_id, customer_id, invoice_date,
	due_date, status, total_amount, amount_paid, notes, created_at, updated_at`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(
		&inv.ID, &inv.DocNumber, &inv.QuotationID, &inv.SalesOrderID, &inv.CustomerID, &inv.InvoiceDate,
		&inv.DueDate, &inv.Status, &inv.TotalAmount, &inv.AmountPaid, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Invoice, error) {
	return scanInvoice(r.pool.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
}

func (r *repository) GetByQuotation(ctx context.Context, quotationID int64) (*Invoice, error) {
	return scanInvoice(r.pool.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE quotation_id = $1`, quotationID))
}

func (r *repository) List(ctx context.Context, req ListInvoicesRequest) ([]InvoiceWithDetails, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("i.customer_id = $%d", argPos))
		args = append(args, *req.CustomerID)
		argPos++
	}
	if req.Status != nil {
		conditions = append(conditions, fmt.Sprintf("i.status = $%d", argPos))
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

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM invoices i %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT i.id, i.doc_number, i.quotation_id, i.sales_order_id, i.customer_id, i.invoice_date,
		       i.due_date, i.status, i.total_amount, i.amount_paid, i.notes, i.created_at, i.updated_at,
		       c.name AS customer_name, q.doc_number AS quotation_number
		FROM invoices i
		JOIN customers c ON i.customer_id = c.id
		JOIN quotations q ON i.quotation_id = q.id
		%s
		ORDER BY i.invoice_date DESC, i.id DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []InvoiceWithDetails
	for rows.Next() {
		var inv InvoiceWithDetails
		err := rows.Scan(
			&inv.ID, &inv.DocNumber, &inv.QuotationID, &inv.SalesOrderID, &inv.CustomerID, &inv.InvoiceDate,
			&inv.DueDate, &inv.Status, &inv.TotalAmount, &inv.AmountPaid, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt,
			&inv.CustomerName, &inv.QuotationNumber,
		)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, inv)
	}
	return out, total, rows.Err()
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	query := "UPDATE invoices SET updated_at = NOW()"
	var args []interface{}
	argPos := 1

	for _, col := range []string{"due_date", "notes"} {
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

func (r *repository) UpdateStatus(ctx context.Context, id int64, status InvoiceStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE invoices SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
