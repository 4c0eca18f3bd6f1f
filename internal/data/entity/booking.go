package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusPaid      BookingStatus = "paid"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusExpired   BookingStatus = "expired"
)

// Active - booking pending/paid masih memegang kursi
func (s BookingStatus) Active() bool {
	return s == BookingStatusPending || s == BookingStatusPaid
}

// Booking tidak menyimpan total harga, total selalu dihitung dari tiket dan combo
type Booking struct {
	BaseNoDelete
	OrderID    string        `db:"order_id"`
	UserID     uuid.UUID     `db:"user_id"`
	FunctionID uuid.UUID     `db:"function_id"`
	Status     BookingStatus `db:"status"`
	PaidAt     *time.Time    `db:"paid_at"`
}

// HoldExpired reports whether a pending booking has outlived its hold.
func (b *Booking) HoldExpired(now time.Time, hold time.Duration) bool {
	return b.Status == BookingStatusPending && !now.Before(b.CreatedAt.Add(hold))
}

type BookingSummary struct {
	Booking
	TicketCount      int   `db:"ticket_count"`
	TicketTotalCents int64 `db:"ticket_total_cents"`
	ComboTotalCents  int64 `db:"combo_total_cents"`
}

func (b *BookingSummary) TotalCents() int64 {
	return b.TicketTotalCents + b.ComboTotalCents
}
