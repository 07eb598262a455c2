package catalog

import "time"

// Item is an accessory from the reusable catalog. Quotation accessory lines
// may reference an item but always carry their own price snapshot.
type Item struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	SKU          *string   `json:"sku,omitempty"`
	Category     *string   `json:"category,omitempty"`
	SellingPrice float64   `json:"selling_price"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
