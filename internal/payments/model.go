package payments

import "time"

type PaymentMethod string

const (
	MethodCash         PaymentMethod = "CASH"
	MethodCard         PaymentMethod = "CARD"
	MethodUPI          PaymentMethod = "UPI"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodCheque       PaymentMethod = "CHEQUE"
	MethodOther        PaymentMethod = "OTHER"
)

// CustomerPayment is a receipt. Once recorded it is immutable; deleting one
// is an administrative correction that reverses the invoice balance.
type CustomerPayment struct {
	ID            int64         `json:"id"`
	ReceiptNumber string        `json:"receipt_number"`
	CustomerID    int64         `json:"customer_id"`
	InvoiceID     *int64        `json:"invoice_id,omitempty"`
	Amount        float64       `json:"amount"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	PaymentDate   time.Time     `json:"payment_date"`
	Reference     *string       `json:"reference,omitempty"`
	Notes         *string       `json:"notes,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

type PaymentWithDetails struct {
	CustomerPayment
	CustomerName  string  `json:"customer_name"`
	InvoiceNumber *string `json:"invoice_number,omitempty"`
}
