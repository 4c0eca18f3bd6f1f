package entity

import (
	"fmt"

	"github.com/google/uuid"
)

// Seat hanya posisi fisik di hall. Ketersediaan dihitung dari tiket aktif.
type Seat struct {
	BaseSimple
	HallID uuid.UUID `db:"hall_id"`
	Row    string    `db:"seat_row"`    // A, B, C, ...
	Number int       `db:"seat_number"` // 1, 2, 3, ...
}

func (s *Seat) Label() string {
	return fmt.Sprintf("%s%d", s.Row, s.Number)
}

// SeatStatus is a seat of a function's hall with its derived availability.
type SeatStatus struct {
	Seat
	Available bool
}
