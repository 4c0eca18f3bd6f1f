package entity

import (
	"time"

	"github.com/google/uuid"
)

// Base - tabel master dengan soft delete: users, movies, halls, functions, combos
type Base struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

func NewBase(now time.Time) Base {
	return Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// BaseNoDelete - baris yang berubah status tapi tidak pernah dihapus:
// bookings, payments, payment_methods
type BaseNoDelete struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewBaseNoDelete(now time.Time) BaseNoDelete {
	return BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// BaseSimple - baris append-only: seats, tickets, sessions, notifications,
// combo_attachments
type BaseSimple struct {
	ID        uuid.UUID
	CreatedAt time.Time
}

func NewBaseSimple(now time.Time) BaseSimple {
	return BaseSimple{ID: uuid.New(), CreatedAt: now}
}
