package entity

import "github.com/google/uuid"

type Combo struct {
	Base
	Name        string  `db:"name"`
	Description *string `db:"description"`
	PriceCents  int64   `db:"price_cents"`
	IsActive    bool    `db:"is_active"`
}

// ComboAttachment menyimpan harga combo saat ditambahkan ke booking
type ComboAttachment struct {
	BaseSimple
	BookingID       uuid.UUID `db:"booking_id"`
	ComboID         uuid.UUID `db:"combo_id"`
	Quantity        int       `db:"quantity"`
	UnitPriceCents  int64     `db:"unit_price_cents"`
	TotalPriceCents int64     `db:"total_price_cents"`
}
