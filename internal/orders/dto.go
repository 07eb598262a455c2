package orders

import "time"

type UpdateSalesOrderRequest struct {
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date,omitempty"`
	Notes                *string    `json:"notes,omitempty"`
}

type ChangeStatusRequest struct {
	Status SalesOrderStatus `json:"status" validate:"required"`
}

type ListSalesOrdersRequest struct {
	CustomerID *int64            `json:"customer_id,omitempty"`
	Status     *SalesOrderStatus `json:"status,omitempty"`
	Limit      int               `json:"limit" validate:"gte=0,lte=1000"`
	Offset     int               `json:"offset" validate:"gte=0"`
}
