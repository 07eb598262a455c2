package invoices

import "time"

type UpdateInvoiceRequest struct {
	DueDate *time.Time `json:"due_date,omitempty"`
	Notes   *string    `json:"notes,omitempty"`
}

type ListInvoicesRequest struct {
	CustomerID *int64         `json:"customer_id,omitempty"`
	Status     *InvoiceStatus `json:"status,omitempty"`
	Limit      int            `json:"limit" validate:"gte=0,lte=1000"`
	Offset     int            `json:"offset" validate:"gte=0"`
}
