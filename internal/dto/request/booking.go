package request

type CreateBookingRequest struct {
	FunctionID string `json:"function_id" validate:"required,uuid"`
}

type SelectSeatsRequest struct {
	SeatIDs []string `json:"seat_ids" validate:"required,min=1,dive,uuid"`
}

type AddComboRequest struct {
	ComboID  string `json:"combo_id" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

type PayBookingRequest struct {
	PaymentMethodID string `json:"payment_method_id" validate:"required,uuid"`
	AmountCents     int64  `json:"amount_cents" validate:"min=0"`
}
