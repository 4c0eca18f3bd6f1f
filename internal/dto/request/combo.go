package request

type CreateComboRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description,omitempty"`
	PriceCents  int64   `json:"price_cents" validate:"min=0"`
}

type UpdateComboRequest struct {
	CreateComboRequest
	IsActive *bool `json:"is_active,omitempty"`
}
