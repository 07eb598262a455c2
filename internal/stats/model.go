package stats

// Dashboard is the aggregate snapshot served to the overview screen.
type Dashboard struct {
	CustomersByStage   map[string]int `json:"customers_by_stage"`
	QuotationsByStatus map[string]int `json:"quotations_by_status"`
	OrdersByStatus     map[string]int `json:"orders_by_status"`
	QuotationPipeline  float64        `json:"quotation_pipeline"`
	OutstandingAmount  float64        `json:"outstanding_amount"`
	ReceivedThisMonth  float64        `json:"received_this_month"`
	DueFollowUps       int            `json:"due_follow_ups"`
}
