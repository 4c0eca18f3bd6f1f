package entity

import "time"

type Movie struct {
	Base
	Title           string    `db:"title"`
	Synopsis        string    `db:"synopsis"`
	PosterURL       *string   `db:"poster_url"`
	DurationMinutes int       `db:"duration_minutes"`
	Genre           string    `db:"genre"`
	Classification  *string   `db:"classification"`
	TrailerURL      *string   `db:"trailer_url"`
	ReleaseDate     time.Time `db:"release_date"`
	FinishDate      time.Time `db:"finish_date"`
	Available       bool      `db:"available"`
}

// ShowingOn - film tampil ke customer antara release dan finish date
func (m *Movie) ShowingOn(t time.Time) bool {
	return m.Available && !t.Before(m.ReleaseDate) && !t.After(m.FinishDate)
}
