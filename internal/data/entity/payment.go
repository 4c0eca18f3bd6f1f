package entity

import (
	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
)

type Payment struct {
	BaseNoDelete
	BookingID       uuid.UUID     `db:"booking_id"`
	PaymentMethodID uuid.UUID     `db:"payment_method_id"`
	AmountCents     int64         `db:"amount_cents"`
	Status          PaymentStatus `db:"status"`
	TransactionID   uuid.UUID     `db:"transaction_id"`
}

type PaymentMethod struct {
	BaseNoDelete
	Name     string `db:"name"`
	IsActive bool   `db:"is_active"`
}
