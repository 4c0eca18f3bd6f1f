package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type MovieFilter struct {
	OnlyAvailable bool
	Genre         string
	Limit         int
	Offset        int
}

type MovieRepository interface {
	Create(ctx context.Context, movie *entity.Movie) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error)
	FindAll(ctx context.Context, filter MovieFilter) ([]*entity.Movie, int64, error)
	Update(ctx context.Context, movie *entity.Movie) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type movieRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewMovieRepository(db database.PgxIface, log *zap.Logger) MovieRepository {
	return &movieRepository{
		db:  db,
		log: log.With(zap.String("repository", "movie")),
	}
}

const movieColumns = `id, title, synopsis, poster_url, duration_minutes, genre,
	classification, trailer_url, release_date, finish_date, available, created_at, updated_at`

func scanMovie(row pgx.Row) (*entity.Movie, error) {
	var movie entity.Movie
	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.Synopsis,
		&movie.PosterURL,
		&movie.DurationMinutes,
		&movie.Genre,
		&movie.Classification,
		&movie.TrailerURL,
		&movie.ReleaseDate,
		&movie.FinishDate,
		&movie.Available,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *movieRepository) Create(ctx context.Context, movie *entity.Movie) error {
	query := `
		INSERT INTO movies (id, title, synopsis, poster_url, duration_minutes, genre,
		                    classification, trailer_url, release_date, finish_date,
		                    available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		movie.ID,
		movie.Title,
		movie.Synopsis,
		movie.PosterURL,
		movie.DurationMinutes,
		movie.Genre,
		movie.Classification,
		movie.TrailerURL,
		movie.ReleaseDate,
		movie.FinishDate,
		movie.Available,
		movie.CreatedAt,
		movie.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create movie",
			zap.Error(err),
			zap.String("title", movie.Title),
		)
		return fmt.Errorf("create movie %s: %w", movie.Title, err)
	}

	return nil
}

func (r *movieRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = $1 AND deleted_at IS NULL`

	movie, err := scanMovie(database.Conn(ctx, r.db).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find movie by ID",
			zap.Error(err),
			zap.String("movie_id", id.String()),
		)
		return nil, fmt.Errorf("find movie %s: %w", id.String(), err)
	}

	return movie, nil
}

func (r *movieRepository) FindAll(ctx context.Context, filter MovieFilter) ([]*entity.Movie, int64, error) {
	var where strings.Builder
	where.WriteString(" WHERE deleted_at IS NULL")

	args := []any{}
	if filter.OnlyAvailable {
		where.WriteString(" AND available = TRUE AND CURRENT_DATE BETWEEN release_date AND finish_date")
	}
	if filter.Genre != "" {
		args = append(args, filter.Genre)
		where.WriteString(fmt.Sprintf(" AND genre = $%d", len(args)))
	}

	conn := database.Conn(ctx, r.db)

	var total int64
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM movies`+where.String(), args...).Scan(&total); err != nil {
		r.log.Error("Failed to count movies", zap.Error(err))
		return nil, 0, fmt.Errorf("count movies: %w", err)
	}

	query := `SELECT ` + movieColumns + ` FROM movies` + where.String() +
		fmt.Sprintf(" ORDER BY release_date DESC, title LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find all movies",
			zap.Error(err),
			zap.Int("offset", filter.Offset),
			zap.Int("limit", filter.Limit),
		)
		return nil, 0, fmt.Errorf("find movies: %w", err)
	}
	defer rows.Close()

	var movies []*entity.Movie
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			r.log.Error("Failed to scan movie row", zap.Error(err))
			return nil, 0, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, 0, fmt.Errorf("iterate movies: %w", err)
	}

	return movies, total, nil
}

func (r *movieRepository) Update(ctx context.Context, movie *entity.Movie) error {
	query := `
		UPDATE movies
		SET title = $2, synopsis = $3, poster_url = $4, duration_minutes = $5,
		    genre = $6, classification = $7, trailer_url = $8, release_date = $9,
		    finish_date = $10, available = $11, updated_at = $12
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query,
		movie.ID,
		movie.Title,
		movie.Synopsis,
		movie.PosterURL,
		movie.DurationMinutes,
		movie.Genre,
		movie.Classification,
		movie.TrailerURL,
		movie.ReleaseDate,
		movie.FinishDate,
		movie.Available,
		movie.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update movie",
			zap.Error(err),
			zap.String("movie_id", movie.ID.String()),
		)
		return fmt.Errorf("update movie %s: %w", movie.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update movie %s: %w", movie.ID.String(), pgx.ErrNoRows)
	}

	return nil
}

// Delete - soft delete
func (r *movieRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE movies SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete movie",
			zap.Error(err),
			zap.String("movie_id", id.String()),
		)
		return fmt.Errorf("delete movie %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete movie %s: %w", id.String(), pgx.ErrNoRows)
	}

	return nil
}
