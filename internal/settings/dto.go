package settings

type UpdateSettingsRequest struct {
	CompanyName           *string  `json:"company_name,omitempty" validate:"omitempty,max=200"`
	Address               *string  `json:"address,omitempty"`
	Phone                 *string  `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email                 *string  `json:"email,omitempty" validate:"omitempty,email"`
	GSTNumber             *string  `json:"gst_number,omitempty" validate:"omitempty,max=30"`
	LogoURL               *string  `json:"logo_url,omitempty" validate:"omitempty,url"`
	CurrencyCode          *string  `json:"currency_code,omitempty" validate:"omitempty,len=3"`
	DefaultGlobalDiscount *float64 `json:"default_global_discount,omitempty" validate:"omitempty,gte=0,lte=100"`
	DefaultGSTPercentage  *float64 `json:"default_gst_percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	DefaultTerms          *string  `json:"default_terms,omitempty"`
	QuotationValidityDays *int     `json:"quotation_validity_days,omitempty" validate:"omitempty,gt=0,lte=365"`
}
