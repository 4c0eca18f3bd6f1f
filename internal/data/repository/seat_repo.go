package repository

import (
	"context"
	"fmt"
	"strings"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SeatRepository interface {
	CreateBatch(ctx context.Context, seats []*entity.Seat) error
	FindByHallID(ctx context.Context, hallID uuid.UUID) ([]*entity.Seat, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Seat, error)
	DeleteByHallID(ctx context.Context, hallID uuid.UUID) error
}

type seatRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSeatRepository(db database.PgxIface, log *zap.Logger) SeatRepository {
	return &seatRepository{
		db:  db,
		log: log.With(zap.String("repository", "seat")),
	}
}

func (r *seatRepository) CreateBatch(ctx context.Context, seats []*entity.Seat) error {
	if len(seats) == 0 {
		return nil
	}

	var query strings.Builder
	query.WriteString(`INSERT INTO seats (id, hall_id, seat_row, seat_number, created_at) VALUES `)
	args := make([]any, 0, len(seats)*5)

	for i, seat := range seats {
		if i > 0 {
			query.WriteString(", ")
		}
		query.WriteString(fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)",
			i*5+1, i*5+2, i*5+3, i*5+4, i*5+5))

		args = append(args,
			seat.ID,
			seat.HallID,
			seat.Row,
			seat.Number,
			seat.CreatedAt,
		)
	}

	if _, err := database.Conn(ctx, r.db).Exec(ctx, query.String(), args...); err != nil {
		r.log.Error("Failed to create batch seats",
			zap.Error(err),
			zap.Int("count", len(seats)),
		)
		return fmt.Errorf("create batch seats: %w", err)
	}

	return nil
}

func (r *seatRepository) FindByHallID(ctx context.Context, hallID uuid.UUID) ([]*entity.Seat, error) {
	query := `
		SELECT id, hall_id, seat_row, seat_number, created_at
		FROM seats
		WHERE hall_id = $1
		ORDER BY seat_row, seat_number
	`
	return r.query(ctx, query, hallID)
}

// FindByIDs returns the seats that exist among ids, in no particular order.
func (r *seatRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Seat, error) {
	if len(ids) == 0 {
		return []*entity.Seat{}, nil
	}

	query := `
		SELECT id, hall_id, seat_row, seat_number, created_at
		FROM seats
		WHERE id = ANY($1)
	`
	return r.query(ctx, query, ids)
}

func (r *seatRepository) DeleteByHallID(ctx context.Context, hallID uuid.UUID) error {
	if _, err := database.Conn(ctx, r.db).Exec(ctx, `DELETE FROM seats WHERE hall_id = $1`, hallID); err != nil {
		r.log.Error("Failed to delete hall seats",
			zap.Error(err),
			zap.String("hall_id", hallID.String()),
		)
		return fmt.Errorf("delete seats of hall %s: %w", hallID.String(), err)
	}
	return nil
}

func (r *seatRepository) query(ctx context.Context, query string, args ...any) ([]*entity.Seat, error) {
	rows, err := database.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query seats", zap.Error(err))
		return nil, fmt.Errorf("query seats: %w", err)
	}
	defer rows.Close()

	var seats []*entity.Seat
	for rows.Next() {
		var seat entity.Seat
		if err := rows.Scan(
			&seat.ID,
			&seat.HallID,
			&seat.Row,
			&seat.Number,
			&seat.CreatedAt,
		); err != nil {
			r.log.Error("Failed to scan seat row", zap.Error(err))
			return nil, fmt.Errorf("scan seat: %w", err)
		}
		seats = append(seats, &seat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seats: %w", err)
	}

	return seats, nil
}
