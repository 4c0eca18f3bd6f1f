package repository

import (
	"context"
	"errors"
	"fmt"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type HallRepository interface {
	Create(ctx context.Context, hall *entity.Hall) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Hall, error)
	// FindByIDForUpdate mengunci baris hall sampai transaksi selesai
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Hall, error)
	FindAll(ctx context.Context) ([]*entity.Hall, error)
	Update(ctx context.Context, hall *entity.Hall) error
	HasFunctions(ctx context.Context, hallID uuid.UUID) (bool, error)
	// HasTickets - kursi hall pernah dipakai tiket, termasuk yang sudah void
	HasTickets(ctx context.Context, hallID uuid.UUID) (bool, error)
}

type hallRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewHallRepository(db database.PgxIface, log *zap.Logger) HallRepository {
	return &hallRepository{
		db:  db,
		log: log.With(zap.String("repository", "hall")),
	}
}

const hallColumns = `id, name, rows, seats_per_row, available, created_at, updated_at`

func scanHall(row pgx.Row) (*entity.Hall, error) {
	var hall entity.Hall
	err := row.Scan(
		&hall.ID,
		&hall.Name,
		&hall.Rows,
		&hall.SeatsPerRow,
		&hall.Available,
		&hall.CreatedAt,
		&hall.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &hall, nil
}

func (r *hallRepository) Create(ctx context.Context, hall *entity.Hall) error {
	query := `
		INSERT INTO halls (id, name, rows, seats_per_row, available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		hall.ID,
		hall.Name,
		hall.Rows,
		hall.SeatsPerRow,
		hall.Available,
		hall.CreatedAt,
		hall.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create hall",
			zap.Error(err),
			zap.String("name", hall.Name),
		)
		return fmt.Errorf("create hall %s: %w", hall.Name, err)
	}

	return nil
}

func (r *hallRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Hall, error) {
	return r.findByID(ctx, id, false)
}

func (r *hallRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Hall, error) {
	return r.findByID(ctx, id, true)
}

func (r *hallRepository) findByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*entity.Hall, error) {
	query := `SELECT ` + hallColumns + ` FROM halls WHERE id = $1 AND deleted_at IS NULL`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	hall, err := scanHall(database.Conn(ctx, r.db).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find hall by ID",
			zap.Error(err),
			zap.String("hall_id", id.String()),
			zap.Bool("for_update", forUpdate),
		)
		return nil, fmt.Errorf("find hall %s: %w", id.String(), err)
	}

	return hall, nil
}

func (r *hallRepository) FindAll(ctx context.Context) ([]*entity.Hall, error) {
	query := `SELECT ` + hallColumns + ` FROM halls WHERE deleted_at IS NULL ORDER BY name`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find halls", zap.Error(err))
		return nil, fmt.Errorf("find halls: %w", err)
	}
	defer rows.Close()

	var halls []*entity.Hall
	for rows.Next() {
		hall, err := scanHall(rows)
		if err != nil {
			r.log.Error("Failed to scan hall row", zap.Error(err))
			return nil, fmt.Errorf("scan hall: %w", err)
		}
		halls = append(halls, hall)
	}

	return halls, rows.Err()
}

func (r *hallRepository) Update(ctx context.Context, hall *entity.Hall) error {
	query := `
		UPDATE halls
		SET name = $2, rows = $3, seats_per_row = $4, available = $5, updated_at = $6
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query,
		hall.ID,
		hall.Name,
		hall.Rows,
		hall.SeatsPerRow,
		hall.Available,
		hall.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update hall",
			zap.Error(err),
			zap.String("hall_id", hall.ID.String()),
		)
		return fmt.Errorf("update hall %s: %w", hall.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update hall %s: %w", hall.ID.String(), pgx.ErrNoRows)
	}

	return nil
}

func (r *hallRepository) HasFunctions(ctx context.Context, hallID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM functions WHERE hall_id = $1 AND deleted_at IS NULL)`

	var exists bool
	if err := database.Conn(ctx, r.db).QueryRow(ctx, query, hallID).Scan(&exists); err != nil {
		r.log.Error("Failed to check hall functions",
			zap.Error(err),
			zap.String("hall_id", hallID.String()),
		)
		return false, fmt.Errorf("check hall functions %s: %w", hallID.String(), err)
	}

	return exists, nil
}

func (r *hallRepository) HasTickets(ctx context.Context, hallID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM tickets t
			JOIN seats s ON s.id = t.seat_id
			WHERE s.hall_id = $1
		)
	`

	var exists bool
	if err := database.Conn(ctx, r.db).QueryRow(ctx, query, hallID).Scan(&exists); err != nil {
		r.log.Error("Failed to check hall tickets",
			zap.Error(err),
			zap.String("hall_id", hallID.String()),
		)
		return false, fmt.Errorf("check hall tickets %s: %w", hallID.String(), err)
	}

	return exists, nil
}
