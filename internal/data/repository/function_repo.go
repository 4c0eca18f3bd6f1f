package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type FunctionFilter struct {
	MovieID *uuid.UUID
	HallID  *uuid.UUID
	// From hides functions that ended before this instant
	From *time.Time
}

type FunctionRepository interface {
	Create(ctx context.Context, function *entity.Function) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Function, error)
	// FindByIDForShare - baris function tidak bisa dihapus/diubah sampai transaksi selesai
	FindByIDForShare(ctx context.Context, id uuid.UUID) (*entity.Function, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Function, error)
	FindDetailByID(ctx context.Context, id uuid.UUID) (*entity.FunctionDetail, error)
	FindAll(ctx context.Context, filter FunctionFilter) ([]*entity.FunctionDetail, error)
	// HasOverlap - ada function lain di hall yang sama dengan jam yang beririsan.
	// excludeID dilewati (uuid.Nil untuk function baru).
	HasOverlap(ctx context.Context, hallID uuid.UUID, startsAt, endsAt time.Time, excludeID uuid.UUID) (bool, error)
	Update(ctx context.Context, function *entity.Function) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type functionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewFunctionRepository(db database.PgxIface, log *zap.Logger) FunctionRepository {
	return &functionRepository{
		db:  db,
		log: log.With(zap.String("repository", "function")),
	}
}

const functionColumns = `f.id, f.movie_id, f.hall_id, f.starts_at, f.ends_at, f.price_cents,
	f.language, f.format, f.created_at, f.updated_at`

func functionDest(f *entity.Function) []any {
	return []any{
		&f.ID,
		&f.MovieID,
		&f.HallID,
		&f.StartsAt,
		&f.EndsAt,
		&f.PriceCents,
		&f.Language,
		&f.Format,
		&f.CreatedAt,
		&f.UpdatedAt,
	}
}

func (r *functionRepository) Create(ctx context.Context, function *entity.Function) error {
	query := `
		INSERT INTO functions (id, movie_id, hall_id, starts_at, ends_at, price_cents,
		                       language, format, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		function.ID,
		function.MovieID,
		function.HallID,
		function.StartsAt,
		function.EndsAt,
		function.PriceCents,
		function.Language,
		function.Format,
		function.CreatedAt,
		function.UpdatedAt,
	)
	if err != nil {
		if name, ok := database.ExclusionViolation(err); ok && name == constraintFunctionOverlap {
			return ErrFunctionOverlap
		}
		r.log.Error("Failed to create function",
			zap.Error(err),
			zap.String("movie_id", function.MovieID.String()),
			zap.String("hall_id", function.HallID.String()),
		)
		return fmt.Errorf("create function: %w", err)
	}

	return nil
}

func (r *functionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Function, error) {
	return r.findByID(ctx, id, "")
}

func (r *functionRepository) FindByIDForShare(ctx context.Context, id uuid.UUID) (*entity.Function, error) {
	if !database.InTx(ctx) {
		return nil, ErrNotInTransaction
	}
	return r.findByID(ctx, id, " FOR SHARE OF f")
}

func (r *functionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Function, error) {
	if !database.InTx(ctx) {
		return nil, ErrNotInTransaction
	}
	return r.findByID(ctx, id, " FOR UPDATE OF f")
}

func (r *functionRepository) findByID(ctx context.Context, id uuid.UUID, lock string) (*entity.Function, error) {
	query := `SELECT ` + functionColumns + ` FROM functions f WHERE f.id = $1 AND f.deleted_at IS NULL` + lock

	var function entity.Function
	err := database.Conn(ctx, r.db).QueryRow(ctx, query, id).Scan(functionDest(&function)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find function by ID",
			zap.Error(err),
			zap.String("function_id", id.String()),
			zap.String("lock", lock),
		)
		return nil, fmt.Errorf("find function %s: %w", id.String(), err)
	}

	return &function, nil
}

func (r *functionRepository) FindDetailByID(ctx context.Context, id uuid.UUID) (*entity.FunctionDetail, error) {
	query := `
		SELECT ` + functionColumns + `, m.title, h.name
		FROM functions f
		JOIN movies m ON m.id = f.movie_id
		JOIN halls h ON h.id = f.hall_id
		WHERE f.id = $1 AND f.deleted_at IS NULL
	`

	var detail entity.FunctionDetail
	dest := append(functionDest(&detail.Function), &detail.MovieTitle, &detail.HallName)
	err := database.Conn(ctx, r.db).QueryRow(ctx, query, id).Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find function detail",
			zap.Error(err),
			zap.String("function_id", id.String()),
		)
		return nil, fmt.Errorf("find function detail %s: %w", id.String(), err)
	}

	return &detail, nil
}

func (r *functionRepository) FindAll(ctx context.Context, filter FunctionFilter) ([]*entity.FunctionDetail, error) {
	var query strings.Builder
	query.WriteString(`
		SELECT ` + functionColumns + `, m.title, h.name
		FROM functions f
		JOIN movies m ON m.id = f.movie_id
		JOIN halls h ON h.id = f.hall_id
		WHERE f.deleted_at IS NULL`)

	args := []any{}
	if filter.MovieID != nil {
		args = append(args, *filter.MovieID)
		query.WriteString(fmt.Sprintf(" AND f.movie_id = $%d", len(args)))
	}
	if filter.HallID != nil {
		args = append(args, *filter.HallID)
		query.WriteString(fmt.Sprintf(" AND f.hall_id = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query.WriteString(fmt.Sprintf(" AND f.ends_at > $%d", len(args)))
	}
	query.WriteString(" ORDER BY f.starts_at")

	rows, err := database.Conn(ctx, r.db).Query(ctx, query.String(), args...)
	if err != nil {
		r.log.Error("Failed to find functions", zap.Error(err))
		return nil, fmt.Errorf("find functions: %w", err)
	}
	defer rows.Close()

	var functions []*entity.FunctionDetail
	for rows.Next() {
		var detail entity.FunctionDetail
		dest := append(functionDest(&detail.Function), &detail.MovieTitle, &detail.HallName)
		if err := rows.Scan(dest...); err != nil {
			r.log.Error("Failed to scan function row", zap.Error(err))
			return nil, fmt.Errorf("scan function: %w", err)
		}
		functions = append(functions, &detail)
	}

	return functions, rows.Err()
}

func (r *functionRepository) HasOverlap(ctx context.Context, hallID uuid.UUID, startsAt, endsAt time.Time, excludeID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM functions
			WHERE hall_id = $1 AND deleted_at IS NULL
			  AND starts_at < $3 AND ends_at > $2
			  AND id <> $4
		)
	`

	var overlap bool
	if err := database.Conn(ctx, r.db).QueryRow(ctx, query, hallID, startsAt, endsAt, excludeID).Scan(&overlap); err != nil {
		r.log.Error("Failed to check function overlap",
			zap.Error(err),
			zap.String("hall_id", hallID.String()),
		)
		return false, fmt.Errorf("check function overlap: %w", err)
	}

	return overlap, nil
}

func (r *functionRepository) Update(ctx context.Context, function *entity.Function) error {
	query := `
		UPDATE functions
		SET movie_id = $2, hall_id = $3, starts_at = $4, ends_at = $5, price_cents = $6,
		    language = $7, format = $8, updated_at = $9
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query,
		function.ID,
		function.MovieID,
		function.HallID,
		function.StartsAt,
		function.EndsAt,
		function.PriceCents,
		function.Language,
		function.Format,
		function.UpdatedAt,
	)
	if err != nil {
		if name, ok := database.ExclusionViolation(err); ok && name == constraintFunctionOverlap {
			return ErrFunctionOverlap
		}
		r.log.Error("Failed to update function",
			zap.Error(err),
			zap.String("function_id", function.ID.String()),
		)
		return fmt.Errorf("update function %s: %w", function.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update function %s: %w", function.ID.String(), pgx.ErrNoRows)
	}

	return nil
}

// Delete - soft delete
func (r *functionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE functions SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete function",
			zap.Error(err),
			zap.String("function_id", id.String()),
		)
		return fmt.Errorf("delete function %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete function %s: %w", id.String(), pgx.ErrNoRows)
	}

	return nil
}
