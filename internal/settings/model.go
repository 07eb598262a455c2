package settings

import "time"

// Settings is the single-row company/application configuration. The row is
// seeded by the schema migration and only ever updated in place.
type Settings struct {
	CompanyName           string    `json:"company_name"`
	Address               *string   `json:"address,omitempty"`
	Phone                 *string   `json:"phone,omitempty"`
	Email                 *string   `json:"email,omitempty"`
	GSTNumber             *string   `json:"gst_number,omitempty"`
	LogoURL               *string   `json:"logo_url,omitempty"`
	CurrencyCode          string    `json:"currency_code"`
	DefaultGlobalDiscount float64   `json:"default_global_discount"`
	DefaultGSTPercentage  float64   `json:"default_gst_percentage"`
	DefaultTerms          *string   `json:"default_terms,omitempty"`
	QuotationValidityDays int       `json:"quotation_validity_days"`
	UpdatedAt             time.Time `json:"updated_at"`
}
