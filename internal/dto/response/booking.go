package response

import (
	"time"

	"cinema-ticketing/internal/data/entity"
)

type PaymentMethodResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

type TicketResponse struct {
	ID         string     `json:"id"`
	SeatID     string     `json:"seat_id"`
	TicketCode string     `json:"ticket_code"`
	PriceCents int64      `json:"price_cents"`
	IsScanned  bool       `json:"is_scanned"`
	VoidedAt   *time.Time `json:"voided_at,omitempty"`
	IssuedAt   time.Time  `json:"issued_at"`
}

type ComboAttachmentResponse struct {
	ID              string `json:"id"`
	ComboID         string `json:"combo_id"`
	Quantity        int    `json:"quantity"`
	UnitPriceCents  int64  `json:"unit_price_cents"`
	TotalPriceCents int64  `json:"total_price_cents"`
}

type BookingResponse struct {
	ID               string                    `json:"id"`
	OrderID          string                    `json:"order_id"`
	UserID           string                    `json:"user_id"`
	FunctionID       string                    `json:"function_id"`
	Status           entity.BookingStatus      `json:"status"`
	TicketCount      int                       `json:"ticket_count"`
	TicketTotalCents int64                     `json:"ticket_total_cents"`
	ComboTotalCents  int64                     `json:"combo_total_cents"`
	TotalPriceCents  int64                     `json:"total_price_cents"`
	HoldExpiresAt    *time.Time                `json:"hold_expires_at,omitempty"`
	PaidAt           *time.Time                `json:"paid_at,omitempty"`
	Tickets          []TicketResponse          `json:"tickets,omitempty"`
	Combos           []ComboAttachmentResponse `json:"combos,omitempty"`
	Payment          *PaymentResponse          `json:"payment,omitempty"`
	CreatedAt        time.Time                 `json:"created_at"`
}

type PaymentResponse struct {
	ID            string                `json:"id"`
	BookingID     string                `json:"booking_id"`
	PaymentMethod PaymentMethodResponse `json:"payment_method"`
	AmountCents   int64                 `json:"amount_cents"`
	Status        entity.PaymentStatus  `json:"status"`
	TransactionID string                `json:"transaction_id"`
	CreatedAt     time.Time             `json:"created_at"`
}

type CancelBookingResponse struct {
	BookingID     string `json:"booking_id"`
	ReleasedSeats int    `json:"released_seats"`
}

type ExpireBookingsResponse struct {
	Expired int `json:"expired"`
}

type ScanTicketResponse struct {
	TicketCode string    `json:"ticket_code"`
	BookingID  string    `json:"booking_id"`
	SeatID     string    `json:"seat_id"`
	ScannedAt  time.Time `json:"scanned_at"`
}

// Helper converters
func PaymentMethodToResponse(pm *entity.PaymentMethod) PaymentMethodResponse {
	return PaymentMethodResponse{
		ID:       pm.ID.String(),
		Name:     pm.Name,
		IsActive: pm.IsActive,
	}
}

func PaymentToResponse(payment *entity.Payment, method *entity.PaymentMethod) PaymentResponse {
	return PaymentResponse{
		ID:            payment.ID.String(),
		BookingID:     payment.BookingID.String(),
		PaymentMethod: PaymentMethodToResponse(method),
		AmountCents:   payment.AmountCents,
		Status:        payment.Status,
		TransactionID: payment.TransactionID.String(),
		CreatedAt:     payment.CreatedAt,
	}
}

func TicketToResponse(t *entity.Ticket) TicketResponse {
	return TicketResponse{
		ID:         t.ID.String(),
		SeatID:     t.SeatID.String(),
		TicketCode: t.TicketCode,
		PriceCents: t.PriceCents,
		IsScanned:  t.IsScanned,
		VoidedAt:   t.VoidedAt,
		IssuedAt:   t.CreatedAt,
	}
}

func ComboAttachmentToResponse(a *entity.ComboAttachment) ComboAttachmentResponse {
	return ComboAttachmentResponse{
		ID:              a.ID.String(),
		ComboID:         a.ComboID.String(),
		Quantity:        a.Quantity,
		UnitPriceCents:  a.UnitPriceCents,
		TotalPriceCents: a.TotalPriceCents,
	}
}

// BookingToResponse builds the response from the derived summary. hold is
// only reported while the booking is pending.
func BookingToResponse(s *entity.BookingSummary, hold time.Duration) BookingResponse {
	resp := BookingResponse{
		ID:               s.ID.String(),
		OrderID:          s.OrderID,
		UserID:           s.UserID.String(),
		FunctionID:       s.FunctionID.String(),
		Status:           s.Status,
		TicketCount:      s.TicketCount,
		TicketTotalCents: s.TicketTotalCents,
		ComboTotalCents:  s.ComboTotalCents,
		TotalPriceCents:  s.TotalCents(),
		PaidAt:           s.PaidAt,
		CreatedAt:        s.CreatedAt,
	}

	if s.Status == entity.BookingStatusPending {
		expires := s.CreatedAt.Add(hold)
		resp.HoldExpiresAt = &expires
	}

	return resp
}
