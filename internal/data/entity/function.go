package entity

import (
	"time"

	"github.com/google/uuid"
)

type FunctionLanguage string

const (
	LanguageSubtitled FunctionLanguage = "subtitled"
	LanguageDubbed    FunctionLanguage = "dubbed"
)

type FunctionFormat string

const (
	Format2D   FunctionFormat = "2D"
	Format3D   FunctionFormat = "3D"
	FormatIMAX FunctionFormat = "IMAX"
)

// Function adalah satu jadwal tayang film di satu hall
type Function struct {
	Base
	MovieID    uuid.UUID        `db:"movie_id"`
	HallID     uuid.UUID        `db:"hall_id"`
	StartsAt   time.Time        `db:"starts_at"`
	EndsAt     time.Time        `db:"ends_at"`
	PriceCents int64            `db:"price_cents"`
	Language   FunctionLanguage `db:"language"`
	Format     FunctionFormat   `db:"format"`
}

func (f *Function) Ended(now time.Time) bool {
	return !now.Before(f.EndsAt)
}

// FunctionDetail joins the movie title and hall name for listings.
type FunctionDetail struct {
	Function
	MovieTitle string `db:"movie_title"`
	HallName   string `db:"hall_name"`
}
