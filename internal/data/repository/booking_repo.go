package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	// FindByIDForUpdate mengunci baris booking, wajib di dalam transaksi
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindSummaryByID(ctx context.Context, id uuid.UUID) (*entity.BookingSummary, error)
	FindSummariesByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.BookingSummary, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus, at time.Time) error
	// ExpirePendingBefore moves every pending booking created at or before
	// cutoff to expired and returns their ids.
	ExpirePendingBefore(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `b.id, b.order_id, b.user_id, b.function_id, b.status, b.paid_at, b.created_at, b.updated_at`

// total tidak disimpan, selalu dijumlah dari tiket dan combo
const bookingSummaryColumns = bookingColumns + `,
	(SELECT COUNT(*) FROM tickets t WHERE t.booking_id = b.id AND t.voided_at IS NULL),
	(SELECT COALESCE(SUM(t.price_cents), 0) FROM tickets t WHERE t.booking_id = b.id AND t.voided_at IS NULL),
	(SELECT COALESCE(SUM(c.total_price_cents), 0) FROM combo_attachments c WHERE c.booking_id = b.id)`

func bookingDest(b *entity.Booking) []any {
	return []any{
		&b.ID,
		&b.OrderID,
		&b.UserID,
		&b.FunctionID,
		&b.Status,
		&b.PaidAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	}
}

func summaryDest(s *entity.BookingSummary) []any {
	return append(bookingDest(&s.Booking), &s.TicketCount, &s.TicketTotalCents, &s.ComboTotalCents)
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, order_id, user_id, function_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		booking.ID,
		booking.OrderID,
		booking.UserID,
		booking.FunctionID,
		booking.Status,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		if name, ok := database.UniqueViolation(err); ok && name == constraintBookingOrderID {
			return ErrOrderIDTaken
		}
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("order_id", booking.OrderID),
			zap.String("user_id", booking.UserID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.OrderID, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return r.findByID(ctx, id, false)
}

func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	if !database.InTx(ctx) {
		return nil, ErrNotInTransaction
	}
	return r.findByID(ctx, id, true)
}

func (r *bookingRepository) findByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var booking entity.Booking
	err := database.Conn(ctx, r.db).QueryRow(ctx, query, id).Scan(bookingDest(&booking)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.Bool("for_update", forUpdate),
		)
		return nil, fmt.Errorf("find booking %s: %w", id.String(), err)
	}

	return &booking, nil
}

func (r *bookingRepository) FindSummaryByID(ctx context.Context, id uuid.UUID) (*entity.BookingSummary, error) {
	query := `SELECT ` + bookingSummaryColumns + ` FROM bookings b WHERE b.id = $1`

	var summary entity.BookingSummary
	err := database.Conn(ctx, r.db).QueryRow(ctx, query, id).Scan(summaryDest(&summary)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking summary",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking summary %s: %w", id.String(), err)
	}

	return &summary, nil
}

func (r *bookingRepository) FindSummariesByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.BookingSummary, int64, error) {
	conn := database.Conn(ctx, r.db)

	var total int64
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE user_id = $1`, userID).Scan(&total); err != nil {
		r.log.Error("Failed to count user bookings",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, 0, fmt.Errorf("count bookings of user %s: %w", userID.String(), err)
	}

	query := `
		SELECT ` + bookingSummaryColumns + `
		FROM bookings b
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := conn.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find user bookings",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, 0, fmt.Errorf("find bookings of user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var summaries []*entity.BookingSummary
	for rows.Next() {
		var summary entity.BookingSummary
		if err := rows.Scan(summaryDest(&summary)...); err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, 0, fmt.Errorf("scan booking: %w", err)
		}
		summaries = append(summaries, &summary)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate bookings: %w", err)
	}

	return summaries, total, nil
}

// UpdateStatus sets the status; paid_at is stamped when the new status is paid.
func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus, at time.Time) error {
	query := `
		UPDATE bookings
		SET status = $2,
		    updated_at = $3,
		    paid_at = CASE WHEN $2 = 'paid' THEN $3 ELSE paid_at END
		WHERE id = $1
	`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, id, string(status), at)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %s status: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update booking %s status: %w", id.String(), pgx.ErrNoRows)
	}

	return nil
}

func (r *bookingRepository) ExpirePendingBefore(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	query := `
		UPDATE bookings
		SET status = 'expired', updated_at = NOW()
		WHERE status = 'pending' AND created_at <= $1
		RETURNING id
	`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, cutoff)
	if err != nil {
		r.log.Error("Failed to expire pending bookings",
			zap.Error(err),
			zap.Time("cutoff", cutoff),
		)
		return nil, fmt.Errorf("expire pending bookings: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		r.log.Error("Failed to collect expired booking ids", zap.Error(err))
		return nil, fmt.Errorf("collect expired bookings: %w", err)
	}

	return ids, nil
}
