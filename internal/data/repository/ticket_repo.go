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

type TicketRepository interface {
	// LockUserFunction serializes ticket-cap checks of one user for one function.
	LockUserFunction(ctx context.Context, userID, functionID uuid.UUID) error
	// LockSeat serializes claims on one seat of one function.
	LockSeat(ctx context.Context, functionID, seatID uuid.UUID) error
	CountActiveByUserAndFunction(ctx context.Context, userID, functionID uuid.UUID) (int, error)
	CountActiveByFunction(ctx context.Context, functionID uuid.UUID) (int, error)
	IsAvailable(ctx context.Context, functionID, seatID uuid.UUID) (bool, error)
	// Create inserts the ticket under a savepoint. Constraint conflicts come
	// back as ErrTicketCodeTaken or ErrSeatTaken and leave the outer
	// transaction usable.
	Create(ctx context.Context, ticket *entity.Ticket) error
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Ticket, error)
	FindByCodeForUpdate(ctx context.Context, code string) (*entity.Ticket, error)
	MarkScanned(ctx context.Context, id uuid.UUID, at time.Time) error
	VoidByBookingIDs(ctx context.Context, bookingIDs []uuid.UUID, at time.Time) (int64, error)
	SeatMap(ctx context.Context, functionID uuid.UUID) ([]*entity.SeatStatus, error)
}

type ticketRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTicketRepository(db database.PgxIface, log *zap.Logger) TicketRepository {
	return &ticketRepository{
		db:  db,
		log: log.With(zap.String("repository", "ticket")),
	}
}

const ticketColumns = `id, booking_id, function_id, seat_id, ticket_code, price_cents,
	is_scanned, scanned_at, voided_at, created_at`

func scanTicket(row pgx.Row) (*entity.Ticket, error) {
	var t entity.Ticket
	err := row.Scan(
		&t.ID,
		&t.BookingID,
		&t.FunctionID,
		&t.SeatID,
		&t.TicketCode,
		&t.PriceCents,
		&t.IsScanned,
		&t.ScannedAt,
		&t.VoidedAt,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ticketRepository) advisoryLock(ctx context.Context, key string) error {
	if !database.InTx(ctx) {
		return ErrNotInTransaction
	}

	// dilepas otomatis saat commit/rollback
	_, err := database.Conn(ctx, r.db).Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key)
	if err != nil {
		r.log.Error("Failed to take advisory lock", zap.Error(err), zap.String("key", key))
		return fmt.Errorf("advisory lock %s: %w", key, err)
	}
	return nil
}

func (r *ticketRepository) LockUserFunction(ctx context.Context, userID, functionID uuid.UUID) error {
	return r.advisoryLock(ctx, "user-function:"+userID.String()+":"+functionID.String())
}

func (r *ticketRepository) LockSeat(ctx context.Context, functionID, seatID uuid.UUID) error {
	return r.advisoryLock(ctx, "function-seat:"+functionID.String()+":"+seatID.String())
}

func (r *ticketRepository) CountActiveByUserAndFunction(ctx context.Context, userID, functionID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM tickets t
		JOIN bookings b ON b.id = t.booking_id
		WHERE b.user_id = $1 AND t.function_id = $2
		  AND t.voided_at IS NULL
		  AND b.status IN ('pending', 'paid')
	`

	var count int
	if err := database.Conn(ctx, r.db).QueryRow(ctx, query, userID, functionID).Scan(&count); err != nil {
		r.log.Error("Failed to count user tickets",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("function_id", functionID.String()),
		)
		return 0, fmt.Errorf("count tickets of user %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *ticketRepository) CountActiveByFunction(ctx context.Context, functionID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM tickets t
		JOIN bookings b ON b.id = t.booking_id
		WHERE t.function_id = $1 AND t.voided_at IS NULL AND b.status IN ('pending', 'paid')
	`

	var count int
	if err := database.Conn(ctx, r.db).QueryRow(ctx, query, functionID).Scan(&count); err != nil {
		r.log.Error("Failed to count function tickets",
			zap.Error(err),
			zap.String("function_id", functionID.String()),
		)
		return 0, fmt.Errorf("count tickets of function %s: %w", functionID.String(), err)
	}

	return count, nil
}

func (r *ticketRepository) IsAvailable(ctx context.Context, functionID, seatID uuid.UUID) (bool, error) {
	query := `
		SELECT NOT EXISTS (
			SELECT 1
			FROM tickets t
			JOIN bookings b ON b.id = t.booking_id
			WHERE t.function_id = $1 AND t.seat_id = $2
			  AND t.voided_at IS NULL
			  AND b.status IN ('pending', 'paid')
		)
	`

	var available bool
	if err := database.Conn(ctx, r.db).QueryRow(ctx, query, functionID, seatID).Scan(&available); err != nil {
		r.log.Error("Failed to check seat availability",
			zap.Error(err),
			zap.String("function_id", functionID.String()),
			zap.String("seat_id", seatID.String()),
		)
		return false, fmt.Errorf("check seat %s availability: %w", seatID.String(), err)
	}

	return available, nil
}

func (r *ticketRepository) Create(ctx context.Context, ticket *entity.Ticket) error {
	// savepoint saat dipanggil di dalam transaksi
	sp, err := database.Conn(ctx, r.db).Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin ticket savepoint: %w", err)
	}

	query := `
		INSERT INTO tickets (id, booking_id, function_id, seat_id, ticket_code,
		                     price_cents, is_scanned, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7)
	`

	_, err = sp.Exec(ctx, query,
		ticket.ID,
		ticket.BookingID,
		ticket.FunctionID,
		ticket.SeatID,
		ticket.TicketCode,
		ticket.PriceCents,
		ticket.CreatedAt,
	)
	if err != nil {
		_ = sp.Rollback(ctx)

		if name, ok := database.UniqueViolation(err); ok {
			switch name {
			case constraintTicketCode:
				return ErrTicketCodeTaken
			case constraintSeatActive:
				return ErrSeatTaken
			}
		}

		r.log.Error("Failed to create ticket",
			zap.Error(err),
			zap.String("booking_id", ticket.BookingID.String()),
			zap.String("seat_id", ticket.SeatID.String()),
		)
		return fmt.Errorf("create ticket for seat %s: %w", ticket.SeatID.String(), err)
	}

	if err := sp.Commit(ctx); err != nil {
		return fmt.Errorf("release ticket savepoint: %w", err)
	}

	return nil
}

func (r *ticketRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE booking_id = $1 ORDER BY created_at, id`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find booking tickets",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find tickets of booking %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var tickets []*entity.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			r.log.Error("Failed to scan ticket row", zap.Error(err))
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}

	return tickets, rows.Err()
}

func (r *ticketRepository) FindByCodeForUpdate(ctx context.Context, code string) (*entity.Ticket, error) {
	if !database.InTx(ctx) {
		return nil, ErrNotInTransaction
	}

	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE ticket_code = $1 FOR UPDATE`

	t, err := scanTicket(database.Conn(ctx, r.db).QueryRow(ctx, query, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find ticket by code",
			zap.Error(err),
			zap.String("ticket_code", code),
		)
		return nil, fmt.Errorf("find ticket %s: %w", code, err)
	}

	return t, nil
}

func (r *ticketRepository) MarkScanned(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE tickets SET is_scanned = TRUE, scanned_at = $2 WHERE id = $1 AND is_scanned = FALSE`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, id, at)
	if err != nil {
		r.log.Error("Failed to mark ticket scanned",
			zap.Error(err),
			zap.String("ticket_id", id.String()),
		)
		return fmt.Errorf("mark ticket %s scanned: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("mark ticket %s scanned: %w", id.String(), pgx.ErrNoRows)
	}

	return nil
}

func (r *ticketRepository) VoidByBookingIDs(ctx context.Context, bookingIDs []uuid.UUID, at time.Time) (int64, error) {
	if len(bookingIDs) == 0 {
		return 0, nil
	}

	query := `UPDATE tickets SET voided_at = $2 WHERE booking_id = ANY($1) AND voided_at IS NULL`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, bookingIDs, at)
	if err != nil {
		r.log.Error("Failed to void tickets",
			zap.Error(err),
			zap.Int("booking_count", len(bookingIDs)),
		)
		return 0, fmt.Errorf("void tickets: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *ticketRepository) SeatMap(ctx context.Context, functionID uuid.UUID) ([]*entity.SeatStatus, error) {
	query := `
		SELECT s.id, s.hall_id, s.seat_row, s.seat_number, s.created_at,
		       NOT EXISTS (
		           SELECT 1
		           FROM tickets t
		           JOIN bookings b ON b.id = t.booking_id
		           WHERE t.function_id = f.id AND t.seat_id = s.id
		             AND t.voided_at IS NULL
		             AND b.status IN ('pending', 'paid')
		       ) AS available
		FROM functions f
		JOIN seats s ON s.hall_id = f.hall_id
		WHERE f.id = $1
		ORDER BY s.seat_row, s.seat_number
	`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, functionID)
	if err != nil {
		r.log.Error("Failed to load seat map",
			zap.Error(err),
			zap.String("function_id", functionID.String()),
		)
		return nil, fmt.Errorf("seat map of function %s: %w", functionID.String(), err)
	}
	defer rows.Close()

	var seats []*entity.SeatStatus
	for rows.Next() {
		var s entity.SeatStatus
		if err := rows.Scan(
			&s.ID,
			&s.HallID,
			&s.Row,
			&s.Number,
			&s.CreatedAt,
			&s.Available,
		); err != nil {
			r.log.Error("Failed to scan seat map row", zap.Error(err))
			return nil, fmt.Errorf("scan seat map: %w", err)
		}
		seats = append(seats, &s)
	}

	return seats, rows.Err()
}
