package customers

import "time"

type CreateCustomerRequest struct {
	Name       string  `json:"name" validate:"required,max=200"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      string  `json:"phone" validate:"required,max=20"`
	Address    *string `json:"address,omitempty" validate:"omitempty,max=500"`
	City       *string `json:"city,omitempty" validate:"omitempty,max=100"`
	LeadSource *string `json:"lead_source,omitempty" validate:"omitempty,max=100"`
	GSTNumber  *string `json:"gst_number,omitempty" validate:"omitempty,max=20"`
	Notes      *string `json:"notes,omitempty"`
}

type UpdateCustomerRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Address    *string `json:"address,omitempty" validate:"omitempty,max=500"`
	City       *string `json:"city,omitempty" validate:"omitempty,max=100"`
	LeadSource *string `json:"lead_source,omitempty" validate:"omitempty,max=100"`
	GSTNumber  *string `json:"gst_number,omitempty" validate:"omitempty,max=20"`
	IsActive   *bool   `json:"is_active,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

type ChangeStageRequest struct {
	Stage Stage `json:"stage" validate:"required"`
}

type CreateFollowUpRequest struct {
	InteractionType string     `json:"interaction_type" validate:"required,oneof=call meeting email site_visit other"`
	Notes           string     `json:"notes" validate:"required"`
	NextFollowUpOn  *time.Time `json:"next_follow_up_on,omitempty"`
}

type ListCustomersRequest struct {
	Stage    *Stage  `json:"stage,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
	Search   *string `json:"search,omitempty"`
	Limit    int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int     `json:"offset" validate:"gte=0"`
}
