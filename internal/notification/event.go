package notification

import (
	"time"

	"github.com/google/uuid"
)

// TicketIssued is emitted once per ticket after the booking transaction commits.
type TicketIssued struct {
	TicketID   uuid.UUID `json:"ticket_id"`
	TicketCode string    `json:"ticket_code"`
	BookingID  uuid.UUID `json:"booking_id"`
	OrderID    string    `json:"order_id"`
	UserID     uuid.UUID `json:"user_id"`
	UserEmail  string    `json:"user_email,omitempty"`
	FunctionID uuid.UUID `json:"function_id"`
	SeatID     uuid.UUID `json:"seat_id"`
	SeatLabel  string    `json:"seat_label"`
	PriceCents int64     `json:"price_cents"`
	IssuedAt   time.Time `json:"issued_at"`
}
