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

type PaymentMethodRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.PaymentMethod, error)
	FindAllActive(ctx context.Context) ([]*entity.PaymentMethod, error)
}

type paymentMethodRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPaymentMethodRepository(db database.PgxIface, log *zap.Logger) PaymentMethodRepository {
	return &paymentMethodRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment_method")),
	}
}

func (r *paymentMethodRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.PaymentMethod, error) {
	query := `
		SELECT id, name, is_active, created_at, updated_at
		FROM payment_methods
		WHERE id = $1
	`

	var pm entity.PaymentMethod
	err := database.Conn(ctx, r.db).QueryRow(ctx, query, id).Scan(
		&pm.ID,
		&pm.Name,
		&pm.IsActive,
		&pm.CreatedAt,
		&pm.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment method",
			zap.Error(err),
			zap.String("payment_method_id", id.String()),
		)
		return nil, fmt.Errorf("find payment method %s: %w", id.String(), err)
	}

	return &pm, nil
}

func (r *paymentMethodRepository) FindAllActive(ctx context.Context) ([]*entity.PaymentMethod, error) {
	query := `
		SELECT id, name, is_active, created_at, updated_at
		FROM payment_methods
		WHERE is_active = TRUE
		ORDER BY name
	`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find active payment methods", zap.Error(err))
		return nil, fmt.Errorf("find payment methods: %w", err)
	}
	defer rows.Close()

	var methods []*entity.PaymentMethod
	for rows.Next() {
		var pm entity.PaymentMethod
		if err := rows.Scan(
			&pm.ID,
			&pm.Name,
			&pm.IsActive,
			&pm.CreatedAt,
			&pm.UpdatedAt,
		); err != nil {
			r.log.Error("Failed to scan payment method row", zap.Error(err))
			return nil, fmt.Errorf("scan payment method: %w", err)
		}
		methods = append(methods, &pm)
	}

	return methods, rows.Err()
}
