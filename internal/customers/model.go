package customers

import "time"

// Stage enumerates the sales pipeline stages a customer moves through.
type Stage string

const (
	StageNew      Stage = "NEW"
	StagePipeline Stage = "PIPELINE"
	StageCold     Stage = "COLD"
	StageWarm     Stage = "WARM"
	StageBooked   Stage = "BOOKED"
	StageLost     Stage = "LOST"
)

// ValidStage reports whether s is a known pipeline stage.
func ValidStage(s Stage) bool {
	switch s {
	case StageNew, StagePipeline, StageCold, StageWarm, StageBooked, StageLost:
		return true
	}
	return false
}

type Customer struct {
	ID         int64     `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Email      *string   `json:"email,omitempty" db:"email"`
	Phone      string    `json:"phone" db:"phone"`
	Address    *string   `json:"address,omitempty" db:"address"`
	City       *string   `json:"city,omitempty" db:"city"`
	Stage      Stage     `json:"stage" db:"stage"`
	LeadSource *string   `json:"lead_source,omitempty" db:"lead_source"`
	GSTNumber  *string   `json:"gst_number,omitempty" db:"gst_number"`
	IsActive   bool      `json:"is_active" db:"is_active"`
	Notes      *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// FollowUp records an interaction with a customer and when to chase next.
type FollowUp struct {
	ID              int64      `json:"id" db:"id"`
	CustomerID      int64      `json:"customer_id" db:"customer_id"`
	InteractionType string     `json:"interaction_type" db:"interaction_type"`
	Notes           string     `json:"notes" db:"notes"`
	NextFollowUpOn  *time.Time `json:"next_follow_up_on,omitempty" db:"next_follow_up_on"`
	Completed       bool       `json:"completed" db:"completed"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}
