package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Urbanera/Quotation-sub001/internal/platform/db"
)

var (
	ErrNotFound   = errors.New("customer not found")
	ErrReferenced = errors.New("customer is referenced by quotations")
)

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*Customer, error)
	List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error)
	Create(ctx context.Context, c Customer) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	UpdateStage(ctx context.Context, id int64, stage Stage) error
	CountQuotations(ctx context.Context, id int64) (int, error)
	Delete(ctx context.Context, id int64) error

	InsertFollowUp(ctx context.Context, f FollowUp) (int64, error)
	ListFollowUps(ctx context.Context, customerID int64) ([]FollowUp, error)
	ListDueFollowUps(ctx context.Context) ([]FollowUp, error)
	CompleteFollowUp(ctx context.Context, id int64) error
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

const customerColumns = `id, name, email, phone, address, city, stage, lead_source, gst_number, is_active, notes, created_at, updated_at`

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.City, &c.Stage,
		&c.LeadSource, &c.GSTNumber, &c.IsActive, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Customer, error) {
	return scanCustomer(r.db.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
}

func (r *repository) List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.Stage != nil {
		conditions = append(conditions, fmt.Sprintf("stage = $%d", argPos))
		args = append(args, *req.Stage)
		argPos++
	}
	if req.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argPos))
		args = append(args, *req.IsActive)
		argPos++
	}
	if req.Search != nil {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR phone ILIKE $%d OR email ILIKE $%d)", argPos, argPos, argPos))
		args = append(args, "%"+*req.Search+"%")
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

	var total int
	if err := r.db.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM customers %s", whereClause), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM customers %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		customerColumns, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *c)
	}
	return out, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, c Customer) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO customers (name, email, phone, address, city, stage, lead_source, gst_number, is_active, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id
	`, c.Name, c.Email, c.Phone, c.Address, c.City, c.Stage, c.LeadSource, c.GSTNumber, c.IsActive, c.Notes).Scan(&id)
	return id, err
}

var customerUpdateColumns = []string{
	"name", "email", "phone", "address", "city", "lead_source", "gst_number", "is_active", "notes",
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	query := "UPDATE customers SET updated_at = NOW()"
	var args []interface{}
	argPos := 1
	for _, col := range customerUpdateColumns {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}
	query += fmt.Sprintf(" WHERE id = $%d", argPos)
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

func (r *repository) UpdateStage(ctx context.Context, id int64, stage Stage) error {
	tag, err := r.db.Exec(ctx, `UPDATE customers SET stage = $1, updated_at = NOW() WHERE id = $2`, stage, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) CountQuotations(ctx context.Context, id int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM quotations WHERE customer_id = $1`, id).Scan(&n)
	return n, err
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) InsertFollowUp(ctx context.Context, f FollowUp) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO follow_ups (customer_id, interaction_type, notes, next_follow_up_on, completed)
		VALUES ($1, $2, $3, $4, $5) RETURNING id
	`, f.CustomerID, f.InteractionType, f.Notes, f.NextFollowUpOn, f.Completed).Scan(&id)
	return id, err
}

const followUpColumns = `id, customer_id, interaction_type, notes, next_follow_up_on, completed, created_at`

func (r *repository) ListFollowUps(ctx context.Context, customerID int64) ([]FollowUp, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+followUpColumns+` FROM follow_ups WHERE customer_id = $1 ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFollowUps(rows)
}

func (r *repository) ListDueFollowUps(ctx context.Context) ([]FollowUp, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+followUpColumns+` FROM follow_ups
		 WHERE completed = FALSE AND next_follow_up_on IS NOT NULL AND next_follow_up_on <= NOW()
		 ORDER BY next_follow_up_on`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFollowUps(rows)
}

func (r *repository) CompleteFollowUp(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE follow_ups SET completed = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func collectFollowUps(rows pgx.Rows) ([]FollowUp, error) {
	var out []FollowUp
	for rows.Next() {
		var f FollowUp
		if err := rows.Scan(&f.ID, &f.CustomerID, &f.InteractionType, &f.Notes,
			&f.NextFollowUpOn, &f.Completed, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
