package invoices

import "time"

type InvoiceStatus string

const (
	StatusPending       InvoiceStatus = "PENDING"
	StatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	StatusPaid          InvoiceStatus = "PAID"
	StatusCancelled     InvoiceStatus = "CANCELLED"
)

// Invoice is a payment document snapshotted from a converted quotation.
// AmountPaid and Status are maintained by receipt recording, never set
// directly by callers.
type Invoice struct {
	ID           int64         `json:"id"`
	DocNumber    string        `json:"doc_number"`
	QuotationID  int64         `json:"quotation_id"`
	SalesOrderID *int64        `json:"sales_order_id,omitempty"`
	CustomerID   int64         `json:"customer_id"`
	InvoiceDate  time.Time     `json:"invoice_date"`
	DueDate      *time.Time    `json:"due_date,omitempty"`
	Status       InvoiceStatus `json:"status"`
	TotalAmount  float64       `json:"total_amount"`
	AmountPaid   float64       `json:"amount_paid"`
	Notes        *string       `json:"notes,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Balance is the amount still owed on the invoice.
func (inv *Invoice) Balance() float64 {
	return inv.TotalAmount - inv.AmountPaid
}

type InvoiceWithDetails struct {
	Invoice
	CustomerName    string `json:"customer_name"`
	QuotationNumber string `json:"quotation_number"`
}
