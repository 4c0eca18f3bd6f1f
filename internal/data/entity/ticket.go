package entity

import (
	"time"

	"github.com/google/uuid"
)

// Ticket - satu kursi untuk satu function. Tiket yang di-void tidak lagi memegang kursi.
type Ticket struct {
	BaseSimple
	BookingID  uuid.UUID  `db:"booking_id"`
	FunctionID uuid.UUID  `db:"function_id"`
	SeatID     uuid.UUID  `db:"seat_id"`
	TicketCode string     `db:"ticket_code"`
	PriceCents int64      `db:"price_cents"`
	IsScanned  bool       `db:"is_scanned"`
	ScannedAt  *time.Time `db:"scanned_at"`
	VoidedAt   *time.Time `db:"voided_at"`
}

func (t *Ticket) Voided() bool {
	return t.VoidedAt != nil
}
