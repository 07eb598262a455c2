package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Urbanera/Quotation-sub001/internal/invoices"
	"github.com/Urbanera/Quotation-sub001/internal/platform/db"
)

var (
	ErrNotFound        = errors.New("payment not found")
	ErrInvoiceNotFound = errors.New("invoice not found")
)

// Repository spans customer_payments and invoices so a receipt and its
// balance effect commit together.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error

	Get(ctx context.Context, id int64) (*CustomerPayment, error)
	List(ctx context.Context, req ListPaymentsRequest) ([]PaymentWithDetails, int, error)
	Insert(ctx context.Context, p CustomerPayment) (*CustomerPayment, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
	GenerateNumber(ctx context.Context, date time.Time) (string, error)

	LockInvoice(ctx context.Context, invoiceID int64) (*invoices.Invoice, error)
	ApplyToInvoice(ctx context.Context, invoiceID int64, delta float64) error
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const paymentColumns = `id, receipt_number, customer_id, invoice_id, amount,
	payment_method, payment_date, reference, notes, created_at`

func scanPayment(row pgx.Row) (*CustomerPayment, error) {
	var p CustomerPayment
	err := row.Scan(
		&p.ID, &p.ReceiptNumber, &p.CustomerID, &p.InvoiceID, &p.Amount,
		&p.PaymentMethod, &p.PaymentDate, &p.Reference, &p.Notes, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*CustomerPayment, error) {
	return scanPayment(r.db.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM customer_payments WHERE id = $1`, id))
}

func (r *repository) List(ctx context.Context, req ListPaymentsRequest) ([]PaymentWithDetails, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("p.customer_id = $%d", argPos))
		args = append(args, *req.CustomerID)
		argPos++
	}
	if req.InvoiceID != nil {
		conditions = append(conditions, fmt.Sprintf("p.invoice_id = $%d", argPos))
		args = append(args, *req.InvoiceID)
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

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM customer_payments p %s", whereClause)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT p.id, p.receipt_number, p.customer_id, p.invoice_id, p.amount,
		       p.payment_method, p.payment_date, p.reference, p.notes, p.created_at,
		       c.name AS customer_name, i.doc_number AS invoice_number
		FROM customer_payments p
		JOIN customers c ON p.customer_id = c.id
		LEFT JOIN invoices i ON p.invoice_id = i.id
		%s
		ORDER BY p.payment_date DESC, p.id DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []PaymentWithDetails
	for rows.Next() {
		var p PaymentWithDetails
		err := rows.Scan(
			&p.ID, &p.ReceiptNumber, &p.CustomerID, &p.InvoiceID, &p.Amount,
			&p.PaymentMethod, &p.PaymentDate, &p.Reference, &p.Notes, &p.CreatedAt,
			&p.CustomerName, &p.InvoiceNumber,
		)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *repository) Insert(ctx context.Context, p CustomerPayment) (*CustomerPayment, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO customer_payments (receipt_number, customer_id, invoice_id, amount,
			payment_method, payment_date, reference, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, p.ReceiptNumber, p.CustomerID, p.InvoiceID, p.Amount,
		p.PaymentMethod, p.PaymentDate, p.Reference, p.Notes).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Update touches the annotation fields only. Amount, customer and invoice
// are immutable once the receipt exists.
func (r *repository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	var sets []string
	var args []interface{}
	argPos := 1

	for _, col := range []string{"payment_method", "reference", "notes"} {
		if v, ok := updates[col]; ok {
			sets = append(sets, fmt.Sprintf("%s = $%d", col, argPos))
			args = append(args, v)
			argPos++
		}
	}
	if len(sets) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE customer_payments SET %s WHERE id = $%d",
		strings.Join(sets, ", "), argPos)
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM customer_payments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) GenerateNumber(ctx context.Context, date time.Time) (string, error) {
	var seq int64
	period := date.Format("200601")
	err := r.db.QueryRow(ctx, `
		INSERT INTO document_sequences (doc_type, period, seq)
		VALUES ($1, $2, 1)
		ON CONFLICT (doc_type, period)
		DO UPDATE SET seq = document_sequences.seq + 1
		RETURNING seq
	`, "RCPT", period).Scan(&seq)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("RCPT-%s-%04d", period, seq), nil
}

func (r *repository) LockInvoice(ctx context.Context, invoiceID int64) (*invoices.Invoice, error) {
	var inv invoices.Invoice
	err := r.db.QueryRow(ctx, `
		SELECT id, doc_number, quotation_id, sales_order_id, customer_id, invoice_date,
		       due_date, status, total_amount, amount_paid, notes, created_at, updated_at
		FROM invoices WHERE id = $1 FOR UPDATE
	`, invoiceID).Scan(
		&inv.ID, &inv.DocNumber, &inv.QuotationID, &inv.SalesOrderID, &inv.CustomerID, &inv.InvoiceDate,
		&inv.DueDate, &inv.Status, &inv.TotalAmount, &inv.AmountPaid, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// ApplyToInvoice shifts the invoice balance by delta and rolls the status
// forward or back to match. Caller holds the row lock.
func (r *repository) ApplyToInvoice(ctx context.Context, invoiceID int64, delta float64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE invoices
		SET amount_paid = amount_paid + $1,
		    status = CASE
		        WHEN amount_paid + $1 >= total_amount THEN 'PAID'
		        WHEN amount_paid + $1 > 0 THEN 'PARTIALLY_PAID'
		        ELSE 'PENDING'
		    END,
		    updated_at = NOW()
		WHERE id = $2
	`, delta, invoiceID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}
