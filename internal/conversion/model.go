package conversion

import (
	"fmt"
	"time"

	"github.com/Urbanera/Quotation-sub001/internal/quotations"
)

// SalesOrderOverrides carries optional header values for the created order.
type SalesOrderOverrides struct {
	OrderDate            *time.Time `json:"order_date,omitempty"`
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date,omitempty"`
	Notes                *string    `json:"notes,omitempty"`
}

// InvoiceOverrides carries optional header values for the created invoice.
type InvoiceOverrides struct {
	InvoiceDate *time.Time `json:"invoice_date,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

// quotationLock is the header snapshot taken while holding the row lock.
type quotationLock struct {
	ID         int64
	DocNumber  string
	CustomerID int64
	Status     quotations.QuotationStatus
	FinalPrice float64
}

// AlreadyConvertedError signals a second conversion attempt. ExistingID is
// the target document created by the first attempt.
type AlreadyConvertedError struct {
	Target     string
	ExistingID int64
}

func (e *AlreadyConvertedError) Error() string {
	return fmt.Sprintf("quotation already converted: %s %d exists", e.Target, e.ExistingID)
}

// NotApprovedError signals an invoice conversion on a quotation that never
// reached APPROVED.
type NotApprovedError struct {
	Status quotations.QuotationStatus
}

func (e *NotApprovedError) Error() string {
	return fmt.Sprintf("quotation is %s, must be APPROVED to invoice", e.Status)
}

// OrderCancelledError signals an invoice conversion on a cancelled sales
// order.
type OrderCancelledError struct {
	SalesOrderID int64
}

func (e *OrderCancelledError) Error() string {
	return fmt.Sprintf("sales order %d is CANCELLED and cannot be invoiced", e.SalesOrderID)
}
