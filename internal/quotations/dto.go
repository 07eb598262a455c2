package quotations

import "time"

type CreateQuotationRequest struct {
	CustomerID           int64      `json:"customer_id" validate:"required,gt=0"`
	QuoteDate            *time.Time `json:"quote_date,omitempty"`
	ValidUntil           *time.Time `json:"valid_until,omitempty"`
	GlobalDiscount       *float64   `json:"global_discount,omitempty" validate:"omitempty,gte=0,lte=100"`
	InstallationHandling float64    `json:"installation_handling" validate:"gte=0"`
	GSTPercentage        *float64   `json:"gst_percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	Terms                *string    `json:"terms,omitempty"`
	Notes                *string    `json:"notes,omitempty"`
}

type UpdateQuotationRequest struct {
	QuoteDate            *time.Time `json:"quote_date,omitempty"`
	ValidUntil           *time.Time `json:"valid_until,omitempty"`
	GlobalDiscount       *float64   `json:"global_discount,omitempty" validate:"omitempty,gte=0,lte=100"`
	InstallationHandling *float64   `json:"installation_handling,omitempty" validate:"omitempty,gte=0"`
	GSTPercentage        *float64   `json:"gst_percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	Terms                *string    `json:"terms,omitempty"`
	Notes                *string    `json:"notes,omitempty"`
}

type ChangeStatusRequest struct {
	Status QuotationStatus `json:"status" validate:"required"`
}

type RoomRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description,omitempty"`
	Position    int     `json:"position" validate:"gte=0"`
}

type LineItemRequest struct {
	Name            string  `json:"name" validate:"required,max=200"`
	Description     *string `json:"description,omitempty"`
	CatalogItemID   *int64  `json:"catalog_item_id,omitempty"`
	Quantity        float64 `json:"quantity" validate:"required,gt=0"`
	SellingPrice    float64 `json:"selling_price" validate:"gte=0"`
	DiscountedPrice float64 `json:"discounted_price" validate:"gte=0"`
	Position        int     `json:"position" validate:"gte=0"`
}

type InstallationChargeRequest struct {
	Description string  `json:"description" validate:"required,max=200"`
	Amount      float64 `json:"amount" validate:"gt=0"`
}

type RoomImageRequest struct {
	URL     string  `json:"url" validate:"required,url"`
	Caption *string `json:"caption,omitempty"`
}

type ListQuotationsRequest struct {
	CustomerID *int64           `json:"customer_id,omitempty"`
	Status     *QuotationStatus `json:"status,omitempty"`
	DateFrom   *time.Time       `json:"date_from,omitempty"`
	DateTo     *time.Time       `json:"date_to,omitempty"`
	Limit      int              `json:"limit" validate:"gte=0,lte=1000"`
	Offset     int              `json:"offset" validate:"gte=0"`
}
