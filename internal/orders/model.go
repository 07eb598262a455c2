package orders

import "time"

type SalesOrderStatus string

const (
	StatusPending          SalesOrderStatus = "PENDING"
	StatusConfirmed        SalesOrderStatus = "CONFIRMED"
	StatusInProduction     SalesOrderStatus = "IN_PRODUCTION"
	StatusReadyForDelivery SalesOrderStatus = "READY_FOR_DELIVERY"
	StatusDelivered        SalesOrderStatus = "DELIVERED"
	StatusCompleted        SalesOrderStatus = "COMPLETED"
	StatusCancelled        SalesOrderStatus = "CANCELLED"
)

// fulfilmentChain is the forward path an order walks after conversion.
// CANCELLED is reachable from any non-terminal status.
var fulfilmentChain = map[SalesOrderStatus]SalesOrderStatus{
	StatusPending:          StatusConfirmed,
	StatusConfirmed:        StatusInProduction,
	StatusInProduction:     StatusReadyForDelivery,
	StatusReadyForDelivery: StatusDelivered,
	StatusDelivered:        StatusCompleted,
}

func (s SalesOrderStatus) terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition reports whether an order may move from s to next.
func (s SalesOrderStatus) CanTransition(next SalesOrderStatus) bool {
	if s.terminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	return fulfilmentChain[s] == next
}

// SalesOrder is a fulfilment document snapshotted from a converted quotation.
type SalesOrder struct {
	ID                   int64            `json:"id"`
	DocNumber            string           `json:"doc_number"`
	QuotationID          int64            `json:"quotation_id"`
	CustomerID           int64            `json:"customer_id"`
	OrderDate            time.Time        `json:"order_date"`
	ExpectedDeliveryDate *time.Time       `json:"expected_delivery_date,omitempty"`
	Status               SalesOrderStatus `json:"status"`
	TotalAmount          float64          `json:"total_amount"`
	Notes                *string          `json:"notes,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

type SalesOrderWithDetails struct {
	SalesOrder
	CustomerName    string `json:"customer_name"`
	QuotationNumber string `json:"quotation_number"`
}
