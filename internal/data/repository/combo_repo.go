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

type ComboRepository interface {
	Create(ctx context.Context, combo *entity.Combo) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Combo, error)
	FindAllActive(ctx context.Context) ([]*entity.Combo, error)
	Update(ctx context.Context, combo *entity.Combo) error
	CreateAttachment(ctx context.Context, attachment *entity.ComboAttachment) error
	FindAttachmentsByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.ComboAttachment, error)
}

type comboRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewComboRepository(db database.PgxIface, log *zap.Logger) ComboRepository {
	return &comboRepository{
		db:  db,
		log: log.With(zap.String("repository", "combo")),
	}
}

const comboColumns = `id, name, description, price_cents, is_active, created_at, updated_at`

func scanCombo(row pgx.Row) (*entity.Combo, error) {
	var c entity.Combo
	if err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.PriceCents,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *comboRepository) Create(ctx context.Context, combo *entity.Combo) error {
	query := `
		INSERT INTO combos (id, name, description, price_cents, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		combo.ID,
		combo.Name,
		combo.Description,
		combo.PriceCents,
		combo.IsActive,
		combo.CreatedAt,
		combo.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create combo",
			zap.Error(err),
			zap.String("name", combo.Name),
		)
		return fmt.Errorf("create combo %s: %w", combo.Name, err)
	}

	return nil
}

func (r *comboRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Combo, error) {
	query := `SELECT ` + comboColumns + ` FROM combos WHERE id = $1 AND deleted_at IS NULL`

	combo, err := scanCombo(database.Conn(ctx, r.db).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find combo",
			zap.Error(err),
			zap.String("combo_id", id.String()),
		)
		return nil, fmt.Errorf("find combo %s: %w", id.String(), err)
	}

	return combo, nil
}

func (r *comboRepository) FindAllActive(ctx context.Context) ([]*entity.Combo, error) {
	query := `SELECT ` + comboColumns + ` FROM combos WHERE is_active = TRUE AND deleted_at IS NULL ORDER BY name`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find combos", zap.Error(err))
		return nil, fmt.Errorf("find combos: %w", err)
	}
	defer rows.Close()

	var combos []*entity.Combo
	for rows.Next() {
		combo, err := scanCombo(rows)
		if err != nil {
			r.log.Error("Failed to scan combo row", zap.Error(err))
			return nil, fmt.Errorf("scan combo: %w", err)
		}
		combos = append(combos, combo)
	}

	return combos, rows.Err()
}

func (r *comboRepository) Update(ctx context.Context, combo *entity.Combo) error {
	query := `
		UPDATE combos
		SET name = $2, description = $3, price_cents = $4, is_active = $5, updated_at = $6
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query,
		combo.ID,
		combo.Name,
		combo.Description,
		combo.PriceCents,
		combo.IsActive,
		combo.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update combo",
			zap.Error(err),
			zap.String("combo_id", combo.ID.String()),
		)
		return fmt.Errorf("update combo %s: %w", combo.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update combo %s: %w", combo.ID.String(), pgx.ErrNoRows)
	}

	return nil
}

func (r *comboRepository) CreateAttachment(ctx context.Context, a *entity.ComboAttachment) error {
	query := `
		INSERT INTO combo_attachments (id, booking_id, combo_id, quantity,
		                               unit_price_cents, total_price_cents, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		a.ID,
		a.BookingID,
		a.ComboID,
		a.Quantity,
		a.UnitPriceCents,
		a.TotalPriceCents,
		a.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to attach combo",
			zap.Error(err),
			zap.String("booking_id", a.BookingID.String()),
			zap.String("combo_id", a.ComboID.String()),
		)
		return fmt.Errorf("attach combo %s: %w", a.ComboID.String(), err)
	}

	return nil
}

func (r *comboRepository) FindAttachmentsByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.ComboAttachment, error) {
	query := `
		SELECT id, booking_id, combo_id, quantity, unit_price_cents, total_price_cents, created_at
		FROM combo_attachments
		WHERE booking_id = $1
		ORDER BY created_at, id
	`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find combo attachments",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find combo attachments of booking %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var attachments []*entity.ComboAttachment
	for rows.Next() {
		var a entity.ComboAttachment
		if err := rows.Scan(
			&a.ID,
			&a.BookingID,
			&a.ComboID,
			&a.Quantity,
			&a.UnitPriceCents,
			&a.TotalPriceCents,
			&a.CreatedAt,
		); err != nil {
			r.log.Error("Failed to scan combo attachment row", zap.Error(err))
			return nil, fmt.Errorf("scan combo attachment: %w", err)
		}
		attachments = append(attachments, &a)
	}

	return attachments, rows.Err()
}
