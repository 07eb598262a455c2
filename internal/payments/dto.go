package payments

import "time"

type CreatePaymentRequest struct {
	CustomerID    int64         `json:"customer_id" validate:"required,gt=0"`
	InvoiceID     *int64        `json:"invoice_id,omitempty" validate:"omitempty,gt=0"`
	Amount        float64       `json:"amount" validate:"required,gt=0"`
	PaymentMethod PaymentMethod `json:"payment_method" validate:"required,oneof=CASH CARD UPI BANK_TRANSFER CHEQUE OTHER"`
	PaymentDate   *time.Time    `json:"payment_date,omitempty"`
	Reference     *string       `json:"reference,omitempty" validate:"omitempty,max=100"`
	Notes         *string       `json:"notes,omitempty"`
}

// UpdatePaymentRequest covers the annotation fields a finished receipt may
// still change. The amount and parties stay fixed.
type UpdatePaymentRequest struct {
	PaymentMethod *PaymentMethod `json:"payment_method,omitempty" validate:"omitempty,oneof=CASH CARD UPI BANK_TRANSFER CHEQUE OTHER"`
	Reference     *string        `json:"reference,omitempty" validate:"omitempty,max=100"`
	Notes         *string        `json:"notes,omitempty"`
}

type ListPaymentsRequest struct {
	CustomerID *int64 `json:"customer_id,omitempty"`
	InvoiceID  *int64 `json:"invoice_id,omitempty"`
	Limit      int    `json:"limit" validate:"gte=0,lte=1000"`
	Offset     int    `json:"offset" validate:"gte=0"`
}
