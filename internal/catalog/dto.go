package catalog

type CreateItemRequest struct {
	Name         string  `json:"name" validate:"required,max=200"`
	Description  *string `json:"description,omitempty"`
	SKU          *string `json:"sku,omitempty" validate:"omitempty,max=50"`
	Category     *string `json:"category,omitempty" validate:"omitempty,max=100"`
	SellingPrice float64 `json:"selling_price" validate:"gte=0"`
}

type UpdateItemRequest struct {
	Name         *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	Description  *string  `json:"description,omitempty"`
	SKU          *string  `json:"sku,omitempty" validate:"omitempty,max=50"`
	Category     *string  `json:"category,omitempty" validate:"omitempty,max=100"`
	SellingPrice *float64 `json:"selling_price,omitempty" validate:"omitempty,gte=0"`
	IsActive     *bool    `json:"is_active,omitempty"`
}

type ListItemsRequest struct {
	Category *string `json:"category,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
	Search   *string `json:"search,omitempty"`
	Limit    int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int     `json:"offset" validate:"gte=0"`
}
