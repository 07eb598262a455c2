package stats

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Dashboard(ctx context.Context, now time.Time) (*Dashboard, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Dashboard(ctx context.Context, now time.Time) (*Dashboard, error) {
	d := &Dashboard{
		CustomersByStage:   make(map[string]int),
		QuotationsByStatus: make(map[string]int),
		OrdersByStatus:     make(map[string]int),
	}

	rows, err := r.pool.Query(ctx,
		`SELECT stage, COUNT(*) FROM customers WHERE is_active GROUP BY stage`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var stage string
		var count int
		if err := rows.Scan(&stage, &count); err != nil {
			rows.Close()
			return nil, err
		}
		d.CustomersByStage[stage] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM quotations GROUP BY status`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			rows.Close()
			return nil, err
		}
		d.QuotationsByStatus[status] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM sales_orders GROUP BY status`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			rows.Close()
			return nil, err
		}
		d.OrdersByStatus[status] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(final_price), 0) FROM quotations
		WHERE status IN ('SAVED', 'SENT', 'APPROVED')
	`).Scan(&d.QuotationPipeline)
	if err != nil {
		return nil, err
	}

	err = r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_amount - amount_paid), 0) FROM invoices
		WHERE status IN ('PENDING', 'PARTIALLY_PAID')
	`).Scan(&d.OutstandingAmount)
	if err != nil {
		return nil, err
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	err = r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM customer_payments WHERE payment_date >= $1
	`, monthStart).Scan(&d.ReceivedThisMonth)
	if err != nil {
		return nil, err
	}

	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM follow_ups
		WHERE NOT completed AND next_follow_up_on IS NOT NULL AND next_follow_up_on <= $1
	`, now).Scan(&d.DueFollowUps)
	if err != nil {
		return nil, err
	}

	return d, nil
}
