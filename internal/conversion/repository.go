package conversion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Urbanera/Quotation-sub001/internal/invoices"
	"github.com/Urbanera/Quotation-sub001/internal/orders"
	"github.com/Urbanera/Quotation-sub001/internal/platform/db"
	"github.com/Urbanera/Quotation-sub001/internal/quotations"
)

var (
	ErrQuotationNotFound  = errors.New("quotation not found")
	ErrSalesOrderNotFound = errors.New("sales order not found")
	errStatusChanged      = errors.New("quotation status changed concurrently")
)

// Repository spans the quotations, sales_orders and invoices tables so a
// conversion commits or rolls back as one unit.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error

	LockQuotation(ctx context.Context, id int64) (*quotationLock, error)
	GetSalesOrder(ctx context.Context, id int64) (*orders.SalesOrder, error)
	FindSalesOrderID(ctx context.Context, quotationID int64) (*int64, error)
	FindInvoiceID(ctx context.Context, quotationID int64) (*int64, error)
	InsertSalesOrder(ctx context.Context, o orders.SalesOrder) (*orders.SalesOrder, error)
	InsertInvoice(ctx context.Context, inv invoices.Invoice) (*invoices.Invoice, error)
	SetQuotationStatus(ctx context.Context, id int64, from, to quotations.QuotationStatus) error
	GenerateNumber(ctx context.Context, docType string, date time.Time) (string, error)
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

// LockQuotation takes the row lock that serialises concurrent conversion
// attempts on the same quotation.
func (r *repository) LockQuotation(ctx context.Context, id int64) (*quotationLock, error) {
	var q quotationLock
	err := r.db.QueryRow(ctx, `
		SELECT id, doc_number, customer_id, status, final_price
		FROM quotations WHERE id = $1 FOR UPDATE
	`, id).Scan(&q.ID, &q.DocNumber, &q.CustomerID, &q.Status, &q.FinalPrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuotationNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *repository) GetSalesOrder(ctx context.Context, id int64) (*orders.SalesOrder, error) {
	var o orders.SalesOrder
	err := r.db.QueryRow(ctx, `
		SELECT id, doc_number, quotation_id, customer_id, order_date,
		       expected_delivery_date, status, total_amount, notes, created_at, updated_at
		FROM sales_orders WHERE id = $1
	`, id).Scan(
		&o.ID, &o.DocNumber, &o.QuotationID, &o.CustomerID, &o.OrderDate,
		&o.ExpectedDeliveryDate, &o.Status, &o.TotalAmount, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSalesOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *repository) FindSalesOrderID(ctx context.Context, quotationID int64) (*int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`SELECT id FROM sales_orders WHERE quotation_id = $1`, quotationID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (r *repository) FindInvoiceID(ctx context.Context, quotationID int64) (*int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`SELECT id FROM invoices WHERE quotation_id = $1`, quotationID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (r *repository) InsertSalesOrder(ctx context.Context, o orders.SalesOrder) (*orders.SalesOrder, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO sales_orders (doc_number, quotation_id, customer_id, order_date,
			expected_delivery_date, status, total_amount, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, o.DocNumber, o.QuotationID, o.CustomerID, o.OrderDate,
		o.ExpectedDeliveryDate, o.Status, o.TotalAmount, o.Notes).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) InsertInvoice(ctx context.Context, inv invoices.Invoice) (*invoices.Invoice, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO invoices (doc_number, quotation_id, sales_order_id, customer_id, invoice_date,
			due_date, status, total_amount, amount_paid, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, inv.DocNumber, inv.QuotationID, inv.SalesOrderID, inv.CustomerID, inv.InvoiceDate,
		inv.DueDate, inv.Status, inv.TotalAmount, inv.AmountPaid, inv.Notes).
		Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// SetQuotationStatus is a compare-and-set on the status column. The caller
// already holds the row lock, so a miss means the lock snapshot went stale.
func (r *repository) SetQuotationStatus(ctx context.Context, id int64, from, to quotations.QuotationStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE quotations SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		to, id, from)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errStatusChanged
	}
	return nil
}

func (r *repository) GenerateNumber(ctx context.Context, docType string, date time.Time) (string, error) {
	var seq int64
	period := date.Format("200601")
	err := r.db.QueryRow(ctx, `
		INSERT INTO document_sequences (doc_type, period, seq)
		VALUES ($1, $2, 1)
		ON CONFLICT (doc_type, period)
		DO UPDATE SET seq = document_sequences.seq + 1
		RETURNING seq
	`, docType, period).Scan(&seq)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%04d", docType, date.Format("0601"), seq), nil
}
