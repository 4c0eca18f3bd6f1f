package response

import (
	"time"

	"cinema-ticketing/internal/data/entity"
)

const dateLayout = "2006-01-02"

type MovieResponse struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Synopsis        string  `json:"synopsis"`
	PosterURL       *string `json:"poster_url,omitempty"`
	DurationMinutes int     `json:"duration_minutes"`
	Genre           string  `json:"genre"`
	Classification  *string `json:"classification,omitempty"`
	TrailerURL      *string `json:"trailer_url,omitempty"`
	ReleaseDate     string  `json:"release_date"`
	FinishDate      string  `json:"finish_date"`
	Available       bool    `json:"available"`
}

func MovieToResponse(m *entity.Movie) MovieResponse {
	return MovieResponse{
		ID:              m.ID.String(),
		Title:           m.Title,
		Synopsis:        m.Synopsis,
		PosterURL:       m.PosterURL,
		DurationMinutes: m.DurationMinutes,
		Genre:           m.Genre,
		Classification:  m.Classification,
		TrailerURL:      m.TrailerURL,
		ReleaseDate:     m.ReleaseDate.Format(dateLayout),
		FinishDate:      m.FinishDate.Format(dateLayout),
		Available:       m.Available,
	}
}

type HallResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Rows        int                `json:"rows"`
	SeatsPerRow int                `json:"seats_per_row"`
	TotalSeats  int                `json:"total_seats"`
	Available   bool               `json:"available"`
	Seats       []HallSeatResponse `json:"seats,omitempty"`
}

type HallSeatResponse struct {
	ID     string `json:"id"`
	Row    string `json:"row"`
	Number int    `json:"number"`
	Label  string `json:"label"`
}

func HallToResponse(h *entity.Hall) HallResponse {
	return HallResponse{
		ID:          h.ID.String(),
		Name:        h.Name,
		Rows:        h.Rows,
		SeatsPerRow: h.SeatsPerRow,
		TotalSeats:  h.TotalSeats(),
		Available:   h.Available,
	}
}

// HallWithSeatsToResponse - detail hall beserta denah kursinya
func HallWithSeatsToResponse(h *entity.Hall, seats []*entity.Seat) HallResponse {
	resp := HallToResponse(h)
	resp.Seats = make([]HallSeatResponse, 0, len(seats))
	for _, s := range seats {
		resp.Seats = append(resp.Seats, HallSeatResponse{
			ID:     s.ID.String(),
			Row:    s.Row,
			Number: s.Number,
			Label:  s.Label(),
		})
	}
	return resp
}

type FunctionResponse struct {
	ID         string    `json:"id"`
	MovieID    string    `json:"movie_id"`
	MovieTitle string    `json:"movie_title,omitempty"`
	HallID     string    `json:"hall_id"`
	HallName   string    `json:"hall_name,omitempty"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
	PriceCents int64     `json:"price_cents"`
	Language   string    `json:"language"`
	Format     string    `json:"format"`
}

func FunctionToResponse(f *entity.Function) FunctionResponse {
	return FunctionResponse{
		ID:         f.ID.String(),
		MovieID:    f.MovieID.String(),
		HallID:     f.HallID.String(),
		StartsAt:   f.StartsAt,
		EndsAt:     f.EndsAt,
		PriceCents: f.PriceCents,
		Language:   string(f.Language),
		Format:     string(f.Format),
	}
}

func FunctionDetailToResponse(d *entity.FunctionDetail) FunctionResponse {
	resp := FunctionToResponse(&d.Function)
	resp.MovieTitle = d.MovieTitle
	resp.HallName = d.HallName
	return resp
}

type SeatResponse struct {
	ID        string `json:"id"`
	Row       string `json:"row"`
	Number    int    `json:"number"`
	Label     string `json:"label"`
	Available bool   `json:"available"`
}

type SeatMapResponse struct {
	FunctionID     string         `json:"function_id"`
	HallID         string         `json:"hall_id"`
	TotalSeats     int            `json:"total_seats"`
	AvailableSeats int            `json:"available_seats"`
	Seats          []SeatResponse `json:"seats"`
}

func SeatMapToResponse(f *entity.Function, seats []*entity.SeatStatus) SeatMapResponse {
	resp := SeatMapResponse{
		FunctionID: f.ID.String(),
		HallID:     f.HallID.String(),
		TotalSeats: len(seats),
		Seats:      make([]SeatResponse, 0, len(seats)),
	}

	for _, s := range seats {
		if s.Available {
			resp.AvailableSeats++
		}
		resp.Seats = append(resp.Seats, SeatResponse{
			ID:        s.ID.String(),
			Row:       s.Row,
			Number:    s.Number,
			Label:     s.Label(),
			Available: s.Available,
		})
	}

	return resp
}
