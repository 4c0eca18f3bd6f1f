package response

import "cinema-ticketing/internal/data/entity"

type ComboResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	PriceCents  int64   `json:"price_cents"`
	IsActive    bool    `json:"is_active"`
}

func ComboToResponse(c *entity.Combo) ComboResponse {
	return ComboResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Description: c.Description,
		PriceCents:  c.PriceCents,
		IsActive:    c.IsActive,
	}
}
