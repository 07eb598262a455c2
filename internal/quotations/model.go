package quotations

import "time"

// QuotationStatus enumerates the quotation lifecycle states.
type QuotationStatus string

const (
	StatusDraft     QuotationStatus = "DRAFT"
	StatusSaved     QuotationStatus = "SAVED"
	StatusSent      QuotationStatus = "SENT"
	StatusApproved  QuotationStatus = "APPROVED"
	StatusRejected  QuotationStatus = "REJECTED"
	StatusExpired   QuotationStatus = "EXPIRED"
	StatusConverted QuotationStatus = "CONVERTED"
)

type Quotation struct {
	ID                   int64           `json:"id" db:"id"`
	DocNumber            string          `json:"doc_number" db:"doc_number"`
	CustomerID           int64           `json:"customer_id" db:"customer_id"`
	QuoteDate            time.Time       `json:"quote_date" db:"quote_date"`
	ValidUntil           time.Time       `json:"valid_until" db:"valid_until"`
	Status               QuotationStatus `json:"status" db:"status"`
	GlobalDiscount       float64         `json:"global_discount" db:"global_discount"`
	InstallationHandling float64         `json:"installation_handling" db:"installation_handling"`
	GSTPercentage        float64         `json:"gst_percentage" db:"gst_percentage"`
	TotalSellingPrice    float64         `json:"total_selling_price" db:"total_selling_price"`
	TotalDiscountedPrice float64         `json:"total_discounted_price" db:"total_discounted_price"`
	GSTAmount            float64         `json:"gst_amount" db:"gst_amount"`
	FinalPrice           float64         `json:"final_price" db:"final_price"`
	Terms                *string         `json:"terms,omitempty" db:"terms"`
	Notes                *string         `json:"notes,omitempty" db:"notes"`
	CreatedAt            time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at" db:"updated_at"`
	Rooms                []Room          `json:"rooms,omitempty" db:"-"`
}

// Room is a pricing bucket within a quotation. SellingPrice and
// DiscountedPrice are rollups of the room's product and accessory lines.
type Room struct {
	ID                  int64                `json:"id" db:"id"`
	QuotationID         int64                `json:"quotation_id" db:"quotation_id"`
	Name                string               `json:"name" db:"name"`
	Description         *string              `json:"description,omitempty" db:"description"`
	SellingPrice        float64              `json:"selling_price" db:"selling_price"`
	DiscountedPrice     float64              `json:"discounted_price" db:"discounted_price"`
	Position            int                  `json:"position" db:"position"`
	CreatedAt           time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at" db:"updated_at"`
	Products            []Product            `json:"products,omitempty" db:"-"`
	Accessories         []Accessory          `json:"accessories,omitempty" db:"-"`
	InstallationCharges []InstallationCharge `json:"installation_charges,omitempty" db:"-"`
	Images              []RoomImage          `json:"images,omitempty" db:"-"`
}

type Product struct {
	ID              int64     `json:"id" db:"id"`
	RoomID          int64     `json:"room_id" db:"room_id"`
	Name            string    `json:"name" db:"name"`
	Description     *string   `json:"description,omitempty" db:"description"`
	Quantity        float64   `json:"quantity" db:"quantity"`
	SellingPrice    float64   `json:"selling_price" db:"selling_price"`
	DiscountedPrice float64   `json:"discounted_price" db:"discounted_price"`
	Position        int       `json:"position" db:"position"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

type Accessory struct {
	ID              int64     `json:"id" db:"id"`
	RoomID          int64     `json:"room_id" db:"room_id"`
	CatalogItemID   *int64    `json:"catalog_item_id,omitempty" db:"catalog_item_id"`
	Name            string    `json:"name" db:"name"`
	Quantity        float64   `json:"quantity" db:"quantity"`
	SellingPrice    float64   `json:"selling_price" db:"selling_price"`
	DiscountedPrice float64   `json:"discounted_price" db:"discounted_price"`
	Position        int       `json:"position" db:"position"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

type InstallationCharge struct {
	ID          int64     `json:"id" db:"id"`
	RoomID      int64     `json:"room_id" db:"room_id"`
	Description string    `json:"description" db:"description"`
	Amount      float64   `json:"amount" db:"amount"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// RoomImage references an already-hosted image. Upload handling lives
// outside this service.
type RoomImage struct {
	ID        int64     `json:"id" db:"id"`
	RoomID    int64     `json:"room_id" db:"room_id"`
	URL       string    `json:"url" db:"url"`
	Caption   *string   `json:"caption,omitempty" db:"caption"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// QuotationWithDetails joins customer identity for list views.
type QuotationWithDetails struct {
	Quotation
	CustomerName  string  `json:"customer_name" db:"customer_name"`
	CustomerEmail *string `json:"customer_email,omitempty" db:"customer_email"`
}
