package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("settings row missing")

type Repository interface {
	Get(ctx context.Context) (*Settings, error)
	Update(ctx context.Context, updates map[string]interface{}) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Get(ctx context.Context) (*Settings, error) {
	var s Settings
	err := r.pool.QueryRow(ctx, `
		SELECT company_name, address, phone, email, gst_number, logo_url, currency_code,
		       default_global_discount, default_gst_percentage, default_terms,
		       quotation_validity_days, updated_at
		FROM app_settings WHERE id = 1
	`).Scan(
		&s.CompanyName, &s.Address, &s.Phone, &s.Email, &s.GSTNumber, &s.LogoURL, &s.CurrencyCode,
		&s.DefaultGlobalDiscount, &s.DefaultGSTPercentage, &s.DefaultTerms,
		&s.QuotationValidityDays, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

var settingsUpdateColumns = []string{
	"company_name", "address", "phone", "email", "gst_number", "logo_url", "currency_code",
	"default_global_discount", "default_gst_percentage", "default_terms",
	"quotation_validity_days",
}

func (r *repository) Update(ctx context.Context, updates map[string]interface{}) error {
	query := "UPDATE app_settings SET updated_at = NOW()"
	var args []interface{}
	argPos := 1

	for _, col := range settingsUpdateColumns {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}

	query += " WHERE id = 1"

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
