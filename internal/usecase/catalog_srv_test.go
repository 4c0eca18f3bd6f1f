package usecase

import (
	"context"
	"testing"
	"time"

	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func functionRequest(f *fixture, hallID uuid.UUID, startsAt, endsAt time.Time) *request.CreateFunctionRequest {
	return &request.CreateFunctionRequest{
		MovieID:    f.movie.ID.String(),
		HallID:     hallID.String(),
		StartsAt:   startsAt,
		EndsAt:     endsAt,
		PriceCents: 6000,
		Language:   "dubbed",
		Format:     "IMAX",
	}
}

func TestCreateHall_BuildsSeatGrid(t *testing.T) {
	f := newFixture(t)
	svc := f.catalog()
	ctx := context.Background()

	hall, err := svc.CreateHall(ctx, &request.CreateHallRequest{Name: "Studio 7", Rows: 3, SeatsPerRow: 4})
	require.NoError(t, err)
	assert.Equal(t, 12, hall.TotalSeats)

	seats, err := f.repo.Seat.FindByHallID(ctx, uuid.MustParse(hall.ID))
	require.NoError(t, err)
	require.Len(t, seats, 12)
	assert.Equal(t, "A1", seats[0].Label())
	assert.Equal(t, "A4", seats[3].Label())
	assert.Equal(t, "C4", seats[11].Label())
}

func TestCreateHall_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.catalog().CreateHall(context.Background(), &request.CreateHallRequest{Name: "Empty", Rows: 0, SeatsPerRow: 10})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateFunction_Overlap(t *testing.T) {
	f := newFixture(t)
	svc := f.catalog()
	ctx := context.Background()
	start := f.function.StartsAt

	_, err := svc.CreateFunction(ctx, functionRequest(f, f.hall.ID, start.Add(2*time.Hour), start.Add(5*time.Hour)))
	assert.ErrorIs(t, err, ErrFunctionOverlap)
	assert.ErrorIs(t, err, ErrConflict)

	// bersebelahan tidak dianggap overlap
	created, err := svc.CreateFunction(ctx, functionRequest(f, f.hall.ID, f.function.EndsAt, f.function.EndsAt.Add(3*time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, "IMAX", created.Format)
	assert.Equal(t, "dubbed", created.Language)
}

func TestCreateFunction_Rejections(t *testing.T) {
	f := newFixture(t)
	svc := f.catalog()
	ctx := context.Background()
	start := fixtureNow.Add(72 * time.Hour)

	t.Run("ends before start", func(t *testing.T) {
		_, err := svc.CreateFunction(ctx, functionRequest(f, f.hall.ID, start, start.Add(-time.Hour)))
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown format", func(t *testing.T) {
		req := functionRequest(f, f.hall.ID, start, start.Add(2*time.Hour))
		req.Format = "4DX"
		_, err := svc.CreateFunction(ctx, req)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown hall", func(t *testing.T) {
		_, err := svc.CreateFunction(ctx, functionRequest(f, uuid.New(), start, start.Add(2*time.Hour)))
		assert.ErrorIs(t, err, ErrHallNotFound)
	})

	t.Run("unknown movie", func(t *testing.T) {
		req := functionRequest(f, f.hall.ID, start, start.Add(2*time.Hour))
		req.MovieID = uuid.NewString()
		_, err := svc.CreateFunction(ctx, req)
		assert.ErrorIs(t, err, ErrMovieNotFound)
	})
}

func TestGetHall_ListsSeats(t *testing.T) {
	f := newFixture(t)

	hall, err := f.catalog().GetHall(context.Background(), f.hall.ID)
	require.NoError(t, err)
	require.Len(t, hall.Seats, 20)
	assert.Equal(t, "A1", hall.Seats[0].Label)
	assert.Equal(t, f.seats["A1"].ID.String(), hall.Seats[0].ID)
	assert.Equal(t, "B10", hall.Seats[19].Label)

	_, err = f.catalog().GetHall(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrHallNotFound)
}

func TestUpdateHall_InUse(t *testing.T) {
	f := newFixture(t)
	svc := f.catalog()
	ctx := context.Background()

	_, err := svc.UpdateHall(ctx, f.hall.ID, &request.UpdateHallRequest{
		CreateHallRequest: request.CreateHallRequest{Name: "Hall 1", Rows: 5, SeatsPerRow: 10},
	})
	assert.ErrorIs(t, err, ErrHallInUse)

	seats, err := f.repo.Seat.FindByHallID(ctx, f.hall.ID)
	require.NoError(t, err)
	assert.Len(t, seats, 20)
}

func TestUpdateHall_Regrid(t *testing.T) {
	f := newFixture(t)
	svc := f.catalog()
	ctx := context.Background()

	hall, err := svc.CreateHall(ctx, &request.CreateHallRequest{Name: "Studio 2", Rows: 2, SeatsPerRow: 2})
	require.NoError(t, err)
	hallID := uuid.MustParse(hall.ID)

	updated, err := svc.UpdateHall(ctx, hallID, &request.UpdateHallRequest{
		CreateHallRequest: request.CreateHallRequest{Name: "Studio 2 Deluxe", Rows: 3, SeatsPerRow: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, "Studio 2 Deluxe", updated.Name)
	assert.Equal(t, 15, updated.TotalSeats)

	seats, err := f.repo.Seat.FindByHallID(ctx, hallID)
	require.NoError(t, err)
	assert.Len(t, seats, 15)
}

func TestDeleteFunction_WithSales(t *testing.T) {
	f := newFixture(t)
	catalog := f.catalog()
	reservation, _ := f.reservation(nil)
	ctx := context.Background()

	userID := uuid.New()
	bookingID := createBooking(t, reservation, f, userID)
	require.NoError(t, selectSeats(reservation, f, userID, bookingID, "A1"))

	err := catalog.DeleteFunction(ctx, f.function.ID)
	assert.ErrorIs(t, err, ErrFunctionHasSales)

	_, err = reservation.CancelBooking(ctx, userID, bookingID, false)
	require.NoError(t, err)

	require.NoError(t, catalog.DeleteFunction(ctx, f.function.ID))
	_, err = catalog.GetFunction(ctx, f.function.ID)
	assert.ErrorIs(t, err, ErrFunctionNotFound)
}

func TestDeleteFunction_PendingBookingCannotContinue(t *testing.T) {
	f := newFixture(t)
	catalog := f.catalog()
	reservation, _ := f.reservation(nil)
	ctx := context.Background()

	userID := uuid.New()
	bookingID := createBooking(t, reservation, f, userID)
	require.NoError(t, catalog.DeleteFunction(ctx, f.function.ID))

	err := selectSeats(reservation, f, userID, bookingID, "A1")
	assert.ErrorIs(t, err, ErrFunctionNotFound)

	_, err = reservation.PayBooking(ctx, userID, bookingID, &request.PayBookingRequest{
		PaymentMethodID: f.method.ID.String(),
		AmountCents:     0,
	})
	assert.ErrorIs(t, err, ErrFunctionNotFound)
}

func TestFunctionRowLocksRequireTransaction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.repo.Function.FindByIDForShare(ctx, f.function.ID)
	assert.ErrorIs(t, err, repository.ErrNotInTransaction)
	_, err = f.repo.Function.FindByIDForUpdate(ctx, f.function.ID)
	assert.ErrorIs(t, err, repository.ErrNotInTransaction)

	err = f.repo.Tx.WithTx(ctx, func(ctx context.Context) error {
		function, err := f.repo.Function.FindByIDForShare(ctx, f.function.ID)
		require.NoError(t, err)
		assert.Equal(t, f.function.HallID, function.HallID)
		return nil
	})
	require.NoError(t, err)
}

func TestUpdateFunction(t *testing.T) {
	f := newFixture(t)
	svc := f.catalog()
	ctx := context.Background()
	start := f.function.StartsAt

	other, err := svc.CreateFunction(ctx, functionRequest(f, f.hall.ID, f.function.EndsAt, f.function.EndsAt.Add(3*time.Hour)))
	require.NoError(t, err)

	t.Run("overlaps own slot", func(t *testing.T) {
		updated, err := svc.UpdateFunction(ctx, f.function.ID, functionRequest(f, f.hall.ID, start.Add(-time.Hour), start.Add(2*time.Hour)))
		require.NoError(t, err)
		assert.Equal(t, int64(6000), updated.PriceCents)
		assert.True(t, updated.StartsAt.Equal(start.Add(-time.Hour)))
	})

	t.Run("overlaps another function", func(t *testing.T) {
		_, err := svc.UpdateFunction(ctx, f.function.ID, functionRequest(f, f.hall.ID, start, f.function.EndsAt.Add(time.Hour)))
		assert.ErrorIs(t, err, ErrFunctionOverlap)

		stored, err := f.repo.Function.FindByID(ctx, uuid.MustParse(other.ID))
		require.NoError(t, err)
		assert.True(t, stored.StartsAt.Equal(f.function.EndsAt))
	})

	t.Run("moves to another hall", func(t *testing.T) {
		hall, err := svc.CreateHall(ctx, &request.CreateHallRequest{Name: "Studio 9", Rows: 1, SeatsPerRow: 5})
		require.NoError(t, err)

		updated, err := svc.UpdateFunction(ctx, uuid.MustParse(other.ID), functionRequest(f, uuid.MustParse(hall.ID), start, start.Add(3*time.Hour)))
		require.NoError(t, err)
		assert.Equal(t, hall.ID, updated.HallID)
	})

	t.Run("unknown function", func(t *testing.T) {
		_, err := svc.UpdateFunction(ctx, uuid.New(), functionRequest(f, f.hall.ID, start, start.Add(time.Hour)))
		assert.ErrorIs(t, err, ErrFunctionNotFound)
	})

	t.Run("ends before start", func(t *testing.T) {
		_, err := svc.UpdateFunction(ctx, f.function.ID, functionRequest(f, f.hall.ID, start, start.Add(-time.Hour)))
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestUpdateFunction_WithSales(t *testing.T) {
	f := newFixture(t)
	catalog := f.catalog()
	reservation, _ := f.reservation(nil)
	ctx := context.Background()

	userID := uuid.New()
	bookingID := createBooking(t, reservation, f, userID)
	require.NoError(t, selectSeats(reservation, f, userID, bookingID, "A1"))

	start := f.function.StartsAt.Add(time.Hour)
	_, err := catalog.UpdateFunction(ctx, f.function.ID, functionRequest(f, f.hall.ID, start, start.Add(3*time.Hour)))
	assert.ErrorIs(t, err, ErrFunctionHasSales)

	stored, err := f.repo.Function.FindByID(ctx, f.function.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), stored.PriceCents)
}

func TestUpdateHall_RegridAfterDeletedFunction(t *testing.T) {
	f := newFixture(t)
	catalog := f.catalog()
	reservation, _ := f.reservation(nil)
	ctx := context.Background()

	userID := uuid.New()
	bookingID := createBooking(t, reservation, f, userID)
	require.NoError(t, selectSeats(reservation, f, userID, bookingID, "B2"))
	_, err := reservation.CancelBooking(ctx, userID, bookingID, false)
	require.NoError(t, err)
	require.NoError(t, catalog.DeleteFunction(ctx, f.function.ID))

	// tiket void masih menunjuk kursi lama
	_, err = catalog.UpdateHall(ctx, f.hall.ID, &request.UpdateHallRequest{
		CreateHallRequest: request.CreateHallRequest{Name: "Hall 1", Rows: 4, SeatsPerRow: 10},
	})
	assert.ErrorIs(t, err, ErrHallInUse)

	seats, err := f.repo.Seat.FindByHallID(ctx, f.hall.ID)
	require.NoError(t, err)
	assert.Len(t, seats, 20)

	renamed, err := catalog.UpdateHall(ctx, f.hall.ID, &request.UpdateHallRequest{
		CreateHallRequest: request.CreateHallRequest{Name: "Hall One", Rows: 2, SeatsPerRow: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hall One", renamed.Name)
}

func TestSeatMap(t *testing.T) {
	f := newFixture(t)
	catalog := f.catalog()
	reservation, _ := f.reservation(nil)
	ctx := context.Background()

	userID := uuid.New()
	bookingID := createBooking(t, reservation, f, userID)
	require.NoError(t, selectSeats(reservation, f, userID, bookingID, "A2", "B7"))

	seatMap, err := catalog.SeatMap(ctx, f.function.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, seatMap.TotalSeats)
	assert.Equal(t, 18, seatMap.AvailableSeats)
	assert.Equal(t, "A1", seatMap.Seats[0].Label)
	assert.True(t, seatMap.Seats[0].Available)
	assert.False(t, seatMap.Seats[1].Available)

	_, err = catalog.SeatMap(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrFunctionNotFound)
}

func TestIsAvailable_SeatOfAnotherHall(t *testing.T) {
	f := newFixture(t)

	_, err := f.catalog().IsAvailable(context.Background(), f.function.ID, uuid.New())
	assert.ErrorIs(t, err, ErrSeatNotFound)
}

func TestMovies(t *testing.T) {
	f := newFixture(t)
	svc := f.catalog()
	ctx := context.Background()

	created, err := svc.CreateMovie(ctx, &request.CreateMovieRequest{
		Title:           "Perfect Days",
		Synopsis:        "A toilet cleaner in Tokyo.",
		DurationMinutes: 124,
		Genre:           "Drama",
		ReleaseDate:     "2026-06-01",
		FinishDate:      "2026-07-01",
	})
	require.NoError(t, err)
	assert.True(t, created.Available)

	// belum tayang di tanggal fixture
	showing, err := svc.ListMovies(ctx, &request.MovieListRequest{
		PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 10},
		Showing:          true,
	})
	require.NoError(t, err)
	require.Len(t, showing.Data, 1)
	assert.Equal(t, f.movie.Title, showing.Data[0].Title)

	all, err := svc.ListMovies(ctx, &request.MovieListRequest{PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 10}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Pagination.Total)

	_, err = svc.CreateMovie(ctx, &request.CreateMovieRequest{
		Title:           "Backwards",
		Synopsis:        "Ends before it starts.",
		DurationMinutes: 90,
		Genre:           "Drama",
		ReleaseDate:     "2026-06-01",
		FinishDate:      "2026-05-01",
	})
	assert.ErrorIs(t, err, ErrValidation)

	id := uuid.MustParse(created.ID)
	require.NoError(t, svc.DeleteMovie(ctx, id))
	_, err = svc.GetMovie(ctx, id)
	assert.ErrorIs(t, err, ErrMovieNotFound)
}
