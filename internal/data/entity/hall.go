package entity

type Hall struct {
	Base
	Name        string `db:"name"`
	Rows        int    `db:"rows"`
	SeatsPerRow int    `db:"seats_per_row"`
	Available   bool   `db:"available"`
}

func (h *Hall) TotalSeats() int {
	return h.Rows * h.SeatsPerRow
}
