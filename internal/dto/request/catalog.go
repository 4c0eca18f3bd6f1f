package request

import "time"

type CreateMovieRequest struct {
	Title           string  `json:"title" validate:"required,max=255"`
	Synopsis        string  `json:"synopsis" validate:"required"`
	PosterURL       *string `json:"poster_url,omitempty" validate:"omitempty,url"`
	DurationMinutes int     `json:"duration_minutes" validate:"required,min=1,max=600"`
	Genre           string  `json:"genre" validate:"required,max=50"`
	Classification  *string `json:"classification,omitempty" validate:"omitempty,max=50"`
	TrailerURL      *string `json:"trailer_url,omitempty" validate:"omitempty,url"`
	ReleaseDate     string  `json:"release_date" validate:"required,datetime=2006-01-02"`
	FinishDate      string  `json:"finish_date" validate:"required,datetime=2006-01-02"`
	Available       *bool   `json:"available,omitempty"`
}

type UpdateMovieRequest = CreateMovieRequest

type MovieListRequest struct {
	PaginatedRequest
	Genre string
	// Showing hanya film yang tersedia dan sedang tayang hari ini
	Showing bool
}

type CreateHallRequest struct {
	Name        string `json:"name" validate:"required,max=50"`
	Rows        int    `json:"rows" validate:"required,min=1,max=26"`
	SeatsPerRow int    `json:"seats_per_row" validate:"required,min=1,max=50"`
}

type UpdateHallRequest struct {
	CreateHallRequest
	Available *bool `json:"available,omitempty"`
}

type CreateFunctionRequest struct {
	MovieID    string    `json:"movie_id" validate:"required,uuid"`
	HallID     string    `json:"hall_id" validate:"required,uuid"`
	StartsAt   time.Time `json:"starts_at" validate:"required"`
	EndsAt     time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
	PriceCents int64     `json:"price_cents" validate:"min=0"`
	Language   string    `json:"language" validate:"required,oneof=subtitled dubbed"`
	Format     string    `json:"format" validate:"required,oneof=2D 3D IMAX"`
}

type FunctionListRequest struct {
	MovieID string
	HallID  string
	// IncludePast - default hanya function yang belum selesai
	IncludePast bool
}

type UpdateFunctionRequest = CreateFunctionRequest
