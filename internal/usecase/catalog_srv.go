package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/internal/dto/request"
	"cinema-ticketing/internal/dto/response"
	"cinema-ticketing/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type CatalogService interface {
	// Movies
	CreateMovie(ctx context.Context, req *request.CreateMovieRequest) (*response.MovieResponse, error)
	UpdateMovie(ctx context.Context, id uuid.UUID, req *request.UpdateMovieRequest) (*response.MovieResponse, error)
	DeleteMovie(ctx context.Context, id uuid.UUID) error
	GetMovie(ctx context.Context, id uuid.UUID) (*response.MovieResponse, error)
	ListMovies(ctx context.Context, req *request.MovieListRequest) (*response.PaginatedResponse[response.MovieResponse], error)

	// Halls
	CreateHall(ctx context.Context, req *request.CreateHallRequest) (*response.HallResponse, error)
	UpdateHall(ctx context.Context, id uuid.UUID, req *request.UpdateHallRequest) (*response.HallResponse, error)
	GetHall(ctx context.Context, id uuid.UUID) (*response.HallResponse, error)
	ListHalls(ctx context.Context) ([]response.HallResponse, error)

	// Functions
	CreateFunction(ctx context.Context, req *request.CreateFunctionRequest) (*response.FunctionResponse, error)
	UpdateFunction(ctx context.Context, id uuid.UUID, req *request.UpdateFunctionRequest) (*response.FunctionResponse, error)
	GetFunction(ctx context.Context, id uuid.UUID) (*response.FunctionResponse, error)
	ListFunctions(ctx context.Context, req *request.FunctionListRequest) ([]response.FunctionResponse, error)
	DeleteFunction(ctx context.Context, id uuid.UUID) error

	// Seats
	SeatMap(ctx context.Context, functionID uuid.UUID) (*response.SeatMapResponse, error)
	IsAvailable(ctx context.Context, functionID, seatID uuid.UUID) (bool, error)
}

type catalogService struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewCatalogService(repo *repository.Repository, log *zap.Logger) CatalogService {
	return &catalogService{
		repo: repo,
		now:  time.Now,
		log:  log.With(zap.String("service", "catalog")),
	}
}

// ==================== MOVIES ====================

func (s *catalogService) CreateMovie(ctx context.Context, req *request.CreateMovieRequest) (*response.MovieResponse, error) {
	movie := &entity.Movie{Available: true}
	if err := s.applyMovie(movie, req); err != nil {
		return nil, err
	}

	movie.Base = entity.NewBase(s.now())

	if err := s.repo.Movie.Create(ctx, movie); err != nil {
		return nil, fmt.Errorf("create movie: %w", err)
	}

	s.log.Info("Movie created",
		zap.String("movie_id", movie.ID.String()),
		zap.String("title", movie.Title))

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *catalogService) UpdateMovie(ctx context.Context, id uuid.UUID, req *request.UpdateMovieRequest) (*response.MovieResponse, error) {
	movie, err := s.repo.Movie.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find movie %s: %w", id, err)
	}
	if movie == nil {
		return nil, ErrMovieNotFound
	}

	if err := s.applyMovie(movie, req); err != nil {
		return nil, err
	}
	movie.UpdatedAt = s.now()

	if err := s.repo.Movie.Update(ctx, movie); err != nil {
		return nil, fmt.Errorf("update movie %s: %w", id, err)
	}

	s.log.Info("Movie updated", zap.String("movie_id", id.String()))

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *catalogService) DeleteMovie(ctx context.Context, id uuid.UUID) error {
	movie, err := s.repo.Movie.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find movie %s: %w", id, err)
	}
	if movie == nil {
		return ErrMovieNotFound
	}

	if err := s.repo.Movie.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete movie %s: %w", id, err)
	}

	s.log.Info("Movie deleted", zap.String("movie_id", id.String()))
	return nil
}

func (s *catalogService) GetMovie(ctx context.Context, id uuid.UUID) (*response.MovieResponse, error) {
	movie, err := s.repo.Movie.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find movie %s: %w", id, err)
	}
	if movie == nil {
		return nil, ErrMovieNotFound
	}

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *catalogService) ListMovies(ctx context.Context, req *request.MovieListRequest) (*response.PaginatedResponse[response.MovieResponse], error) {
	movies, total, err := s.repo.Movie.FindAll(ctx, repository.MovieFilter{
		OnlyAvailable: req.Showing,
		Genre:         req.Genre,
		Limit:         req.Limit(),
		Offset:        req.Offset(),
	})
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}

	data := make([]response.MovieResponse, 0, len(movies))
	for _, m := range movies {
		data = append(data, response.MovieToResponse(m))
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func (s *catalogService) applyMovie(movie *entity.Movie, req *request.CreateMovieRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Movie validation failed", zap.Any("errors", errs))
		return validationError("%s", utils.FormatValidationErrors(errs))
	}

	release, err := time.Parse(dateLayout, req.ReleaseDate)
	if err != nil {
		return validationError("release_date must be YYYY-MM-DD")
	}
	finish, err := time.Parse(dateLayout, req.FinishDate)
	if err != nil {
		return validationError("finish_date must be YYYY-MM-DD")
	}
	if finish.Before(release) {
		return validationError("finish_date must not be before release_date")
	}

	movie.Title = req.Title
	movie.Synopsis = req.Synopsis
	movie.PosterURL = req.PosterURL
	movie.DurationMinutes = req.DurationMinutes
	movie.Genre = req.Genre
	movie.Classification = req.Classification
	movie.TrailerURL = req.TrailerURL
	movie.ReleaseDate = release
	movie.FinishDate = finish
	if req.Available != nil {
		movie.Available = *req.Available
	}

	return nil
}

// ==================== HALLS ====================

func (s *catalogService) CreateHall(ctx context.Context, req *request.CreateHallRequest) (*response.HallResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create hall validation failed", zap.Any("errors", errs))
		return nil, validationError("%s", utils.FormatValidationErrors(errs))
	}

	now := s.now()
	hall := &entity.Hall{
		Base:        entity.NewBase(now),
		Name:        req.Name,
		Rows:        req.Rows,
		SeatsPerRow: req.SeatsPerRow,
		Available:   true,
	}

	// hall dan seluruh kursinya dibuat atomik
	err := s.repo.Tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Hall.Create(ctx, hall); err != nil {
			return fmt.Errorf("create hall: %w", err)
		}
		if err := s.repo.Seat.CreateBatch(ctx, seatGrid(hall, now)); err != nil {
			return fmt.Errorf("create seats for hall %s: %w", hall.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Hall created",
		zap.String("hall_id", hall.ID.String()),
		zap.Int("seats", hall.TotalSeats()))

	resp := response.HallToResponse(hall)
	return &resp, nil
}

func (s *catalogService) UpdateHall(ctx context.Context, id uuid.UUID, req *request.UpdateHallRequest) (*response.HallResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update hall validation failed", zap.Any("errors", errs))
		return nil, validationError("%s", utils.FormatValidationErrors(errs))
	}

	var hall *entity.Hall
	err := s.repo.Tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		hall, err = s.repo.Hall.FindByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("lock hall %s: %w", id, err)
		}
		if hall == nil {
			return ErrHallNotFound
		}

		inUse, err := s.repo.Hall.HasFunctions(ctx, id)
		if err != nil {
			return fmt.Errorf("check hall %s functions: %w", id, err)
		}
		if inUse {
			return ErrHallInUse
		}

		now := s.now()
		regrid := hall.Rows != req.Rows || hall.SeatsPerRow != req.SeatsPerRow

		hall.Name = req.Name
		hall.Rows = req.Rows
		hall.SeatsPerRow = req.SeatsPerRow
		if req.Available != nil {
			hall.Available = *req.Available
		}
		hall.UpdatedAt = now

		if err := s.repo.Hall.Update(ctx, hall); err != nil {
			return fmt.Errorf("update hall %s: %w", id, err)
		}

		if !regrid {
			return nil
		}

		// tiket lama (function terhapus, tiket void) masih menunjuk ke kursi ini
		ticketed, err := s.repo.Hall.HasTickets(ctx, id)
		if err != nil {
			return fmt.Errorf("check hall %s tickets: %w", id, err)
		}
		if ticketed {
			return ErrHallInUse
		}
		if err := s.repo.Seat.DeleteByHallID(ctx, id); err != nil {
			return fmt.Errorf("delete seats of hall %s: %w", id, err)
		}
		if err := s.repo.Seat.CreateBatch(ctx, seatGrid(hall, now)); err != nil {
			return fmt.Errorf("create seats for hall %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Hall updated", zap.String("hall_id", id.String()))

	resp := response.HallToResponse(hall)
	return &resp, nil
}

func (s *catalogService) GetHall(ctx context.Context, id uuid.UUID) (*response.HallResponse, error) {
	hall, err := s.repo.Hall.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find hall %s: %w", id, err)
	}
	if hall == nil {
		return nil, ErrHallNotFound
	}

	seats, err := s.repo.Seat.FindByHallID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find seats of hall %s: %w", id, err)
	}

	resp := response.HallWithSeatsToResponse(hall, seats)
	return &resp, nil
}

func (s *catalogService) ListHalls(ctx context.Context) ([]response.HallResponse, error) {
	halls, err := s.repo.Hall.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list halls: %w", err)
	}

	resp := make([]response.HallResponse, 0, len(halls))
	for _, h := range halls {
		resp = append(resp, response.HallToResponse(h))
	}
	return resp, nil
}

// seatGrid - baris A, B, C, ... dan nomor kursi mulai dari 1
func seatGrid(hall *entity.Hall, now time.Time) []*entity.Seat {
	seats := make([]*entity.Seat, 0, hall.TotalSeats())
	for r := 0; r < hall.Rows; r++ {
		row := string(rune('A' + r))
		for n := 1; n <= hall.SeatsPerRow; n++ {
			seats = append(seats, &entity.Seat{
				BaseSimple: entity.NewBaseSimple(now),
				HallID:     hall.ID,
				Row:        row,
				Number:     n,
			})
		}
	}
	return seats
}

// ==================== FUNCTIONS ====================

func (s *catalogService) CreateFunction(ctx context.Context, req *request.CreateFunctionRequest) (*response.FunctionResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create function validation failed", zap.Any("errors", errs))
		return nil, validationError("%s", utils.FormatValidationErrors(errs))
	}
	if !req.EndsAt.After(req.StartsAt) {
		return nil, validationError("ends_at must be after starts_at")
	}

	movieID, err := uuid.Parse(req.MovieID)
	if err != nil {
		return nil, validationError("invalid movie_id %q", req.MovieID)
	}
	hallID, err := uuid.Parse(req.HallID)
	if err != nil {
		return nil, validationError("invalid hall_id %q", req.HallID)
	}

	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("find movie %s: %w", movieID, err)
	}
	if movie == nil {
		return nil, ErrMovieNotFound
	}

	now := s.now()
	function := &entity.Function{
		Base:       entity.NewBase(now),
		MovieID:    movieID,
		HallID:     hallID,
		StartsAt:   req.StartsAt,
		EndsAt:     req.EndsAt,
		PriceCents: req.PriceCents,
		Language:   entity.FunctionLanguage(req.Language),
		Format:     entity.FunctionFormat(req.Format),
	}

	err = s.repo.Tx.WithTx(ctx, func(ctx context.Context) error {
		// lock hall supaya dua function tidak lolos cek overlap bersamaan
		hall, err := s.repo.Hall.FindByIDForUpdate(ctx, hallID)
		if err != nil {
			return fmt.Errorf("lock hall %s: %w", hallID, err)
		}
		if hall == nil {
			return ErrHallNotFound
		}
		if !hall.Available {
			return ErrHallNotAvailable
		}

		overlap, err := s.repo.Function.HasOverlap(ctx, hallID, function.StartsAt, function.EndsAt, uuid.Nil)
		if err != nil {
			return fmt.Errorf("check function overlap in hall %s: %w", hallID, err)
		}
		if overlap {
			return ErrFunctionOverlap
		}

		if err := s.repo.Function.Create(ctx, function); err != nil {
			if errors.Is(err, repository.ErrFunctionOverlap) {
				return ErrFunctionOverlap
			}
			return fmt.Errorf("create function: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrFunctionOverlap) {
			s.log.Warn("Function overlaps existing schedule",
				zap.String("hall_id", hallID.String()),
				zap.Time("starts_at", function.StartsAt),
				zap.Time("ends_at", function.EndsAt))
		}
		return nil, err
	}

	s.log.Info("Function created",
		zap.String("function_id", function.ID.String()),
		zap.String("movie_id", movieID.String()),
		zap.String("hall_id", hallID.String()))

	resp := response.FunctionToResponse(function)
	return &resp, nil
}

func (s *catalogService) UpdateFunction(ctx context.Context, id uuid.UUID, req *request.UpdateFunctionRequest) (*response.FunctionResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update function validation failed", zap.Any("errors", errs))
		return nil, validationError("%s", utils.FormatValidationErrors(errs))
	}
	if !req.EndsAt.After(req.StartsAt) {
		return nil, validationError("ends_at must be after starts_at")
	}

	movieID, err := uuid.Parse(req.MovieID)
	if err != nil {
		return nil, validationError("invalid movie_id %q", req.MovieID)
	}
	hallID, err := uuid.Parse(req.HallID)
	if err != nil {
		return nil, validationError("invalid hall_id %q", req.HallID)
	}

	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("find movie %s: %w", movieID, err)
	}
	if movie == nil {
		return nil, ErrMovieNotFound
	}

	var function *entity.Function
	err = s.repo.Tx.WithTx(ctx, func(ctx context.Context) error {
		// urutan lock sama dengan DeleteFunction: function dulu, lalu hall
		var err error
		function, err = s.repo.Function.FindByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("lock function %s: %w", id, err)
		}
		if function == nil {
			return ErrFunctionNotFound
		}

		for _, lockID := range hallLockOrder(function.HallID, hallID) {
			hall, err := s.repo.Hall.FindByIDForUpdate(ctx, lockID)
			if err != nil {
				return fmt.Errorf("lock hall %s: %w", lockID, err)
			}
			if lockID != hallID {
				continue
			}
			if hall == nil {
				return ErrHallNotFound
			}
			if !hall.Available {
				return ErrHallNotAvailable
			}
		}

		active, err := s.repo.Ticket.CountActiveByFunction(ctx, id)
		if err != nil {
			return fmt.Errorf("count tickets of function %s: %w", id, err)
		}
		if active > 0 {
			return ErrFunctionHasSales
		}

		overlap, err := s.repo.Function.HasOverlap(ctx, hallID, req.StartsAt, req.EndsAt, id)
		if err != nil {
			return fmt.Errorf("check function overlap in hall %s: %w", hallID, err)
		}
		if overlap {
			return ErrFunctionOverlap
		}

		function.MovieID = movieID
		function.HallID = hallID
		function.StartsAt = req.StartsAt
		function.EndsAt = req.EndsAt
		function.PriceCents = req.PriceCents
		function.Language = entity.FunctionLanguage(req.Language)
		function.Format = entity.FunctionFormat(req.Format)
		function.UpdatedAt = s.now()

		if err := s.repo.Function.Update(ctx, function); err != nil {
			if errors.Is(err, repository.ErrFunctionOverlap) {
				return ErrFunctionOverlap
			}
			return fmt.Errorf("update function %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrFunctionOverlap) {
			s.log.Warn("Function overlaps existing schedule",
				zap.String("function_id", id.String()),
				zap.String("hall_id", hallID.String()),
				zap.Time("starts_at", req.StartsAt),
				zap.Time("ends_at", req.EndsAt))
		}
		return nil, err
	}

	s.log.Info("Function updated",
		zap.String("function_id", id.String()),
		zap.String("hall_id", hallID.String()))

	resp := response.FunctionToResponse(function)
	return &resp, nil
}

// hallLockOrder - dua hall dikunci dengan urutan tetap
func hallLockOrder(a, b uuid.UUID) []uuid.UUID {
	switch c := bytes.Compare(a[:], b[:]); {
	case c == 0:
		return []uuid.UUID{a}
	case c < 0:
		return []uuid.UUID{a, b}
	default:
		return []uuid.UUID{b, a}
	}
}

func (s *catalogService) GetFunction(ctx context.Context, id uuid.UUID) (*response.FunctionResponse, error) {
	detail, err := s.repo.Function.FindDetailByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find function %s: %w", id, err)
	}
	if detail == nil {
		return nil, ErrFunctionNotFound
	}

	resp := response.FunctionDetailToResponse(detail)
	return &resp, nil
}

func (s *catalogService) ListFunctions(ctx context.Context, req *request.FunctionListRequest) ([]response.FunctionResponse, error) {
	var filter repository.FunctionFilter

	if req.MovieID != "" {
		id, err := uuid.Parse(req.MovieID)
		if err != nil {
			return nil, validationError("invalid movie_id %q", req.MovieID)
		}
		filter.MovieID = &id
	}
	if req.HallID != "" {
		id, err := uuid.Parse(req.HallID)
		if err != nil {
			return nil, validationError("invalid hall_id %q", req.HallID)
		}
		filter.HallID = &id
	}
	if !req.IncludePast {
		now := s.now()
		filter.From = &now
	}

	functions, err := s.repo.Function.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list functions: %w", err)
	}

	resp := make([]response.FunctionResponse, 0, len(functions))
	for _, f := range functions {
		resp = append(resp, response.FunctionDetailToResponse(f))
	}
	return resp, nil
}

func (s *catalogService) DeleteFunction(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Tx.WithTx(ctx, func(ctx context.Context) error {
		// FOR UPDATE menunggu SelectSeats/PayBooking yang memegang FOR SHARE
		function, err := s.repo.Function.FindByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("lock function %s: %w", id, err)
		}
		if function == nil {
			return ErrFunctionNotFound
		}

		// lock hall juga menahan CreateFunction di hall yang sama
		if _, err := s.repo.Hall.FindByIDForUpdate(ctx, function.HallID); err != nil {
			return fmt.Errorf("lock hall %s: %w", function.HallID, err)
		}

		active, err := s.repo.Ticket.CountActiveByFunction(ctx, id)
		if err != nil {
			return fmt.Errorf("count tickets of function %s: %w", id, err)
		}
		if active > 0 {
			return ErrFunctionHasSales
		}

		if err := s.repo.Function.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete function %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("Function deleted", zap.String("function_id", id.String()))
	return nil
}

// ==================== SEATS ====================

func (s *catalogService) SeatMap(ctx context.Context, functionID uuid.UUID) (*response.SeatMapResponse, error) {
	function, err := s.repo.Function.FindByID(ctx, functionID)
	if err != nil {
		return nil, fmt.Errorf("find function %s: %w", functionID, err)
	}
	if function == nil {
		return nil, ErrFunctionNotFound
	}

	seats, err := s.repo.Ticket.SeatMap(ctx, functionID)
	if err != nil {
		return nil, fmt.Errorf("seat map of function %s: %w", functionID, err)
	}

	resp := response.SeatMapToResponse(function, seats)
	return &resp, nil
}

func (s *catalogService) IsAvailable(ctx context.Context, functionID, seatID uuid.UUID) (bool, error) {
	function, err := s.repo.Function.FindByID(ctx, functionID)
	if err != nil {
		return false, fmt.Errorf("find function %s: %w", functionID, err)
	}
	if function == nil {
		return false, ErrFunctionNotFound
	}

	seats, err := s.repo.Seat.FindByIDs(ctx, []uuid.UUID{seatID})
	if err != nil {
		return false, fmt.Errorf("find seat %s: %w", seatID, err)
	}
	if len(seats) == 0 || seats[0].HallID != function.HallID {
		return false, ErrSeatNotFound
	}

	available, err := s.repo.Ticket.IsAvailable(ctx, functionID, seatID)
	if err != nil {
		return false, fmt.Errorf("check seat %s availability: %w", seatID, err)
	}
	return available, nil
}
