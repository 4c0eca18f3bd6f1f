package usecase

import (
	"context"
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

type ComboService interface {
	CreateCombo(ctx context.Context, req *request.CreateComboRequest) (*response.ComboResponse, error)
	UpdateCombo(ctx context.Context, id uuid.UUID, req *request.UpdateComboRequest) (*response.ComboResponse, error)
	ListCombos(ctx context.Context) ([]response.ComboResponse, error)
	// AddCombo attaches a combo to the caller's booking at the current price.
	AddCombo(ctx context.Context, userID, bookingID uuid.UUID, req *request.AddComboRequest) (*response.ComboAttachmentResponse, error)
}

type comboService struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewComboService(repo *repository.Repository, log *zap.Logger) ComboService {
	return &comboService{
		repo: repo,
		now:  time.Now,
		log:  log.With(zap.String("service", "combo")),
	}
}

func (s *comboService) CreateCombo(ctx context.Context, req *request.CreateComboRequest) (*response.ComboResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create combo validation failed", zap.Any("errors", errs))
		return nil, validationError("%s", utils.FormatValidationErrors(errs))
	}

	now := s.now()
	combo := &entity.Combo{
		Base:        entity.NewBase(now),
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		IsActive:    true,
	}

	if err := s.repo.Combo.Create(ctx, combo); err != nil {
		return nil, fmt.Errorf("create combo: %w", err)
	}

	s.log.Info("Combo created",
		zap.String("combo_id", combo.ID.String()),
		zap.Int64("price_cents", combo.PriceCents))

	resp := response.ComboToResponse(combo)
	return &resp, nil
}

func (s *comboService) UpdateCombo(ctx context.Context, id uuid.UUID, req *request.UpdateComboRequest) (*response.ComboResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update combo validation failed", zap.Any("errors", errs))
		return nil, validationError("%s", utils.FormatValidationErrors(errs))
	}

	combo, err := s.repo.Combo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find combo %s: %w", id, err)
	}
	if combo == nil {
		return nil, ErrComboNotFound
	}

	// attachment lama tetap memakai harga snapshot
	combo.Name = req.Name
	combo.Description = req.Description
	combo.PriceCents = req.PriceCents
	if req.IsActive != nil {
		combo.IsActive = *req.IsActive
	}
	combo.UpdatedAt = s.now()

	if err := s.repo.Combo.Update(ctx, combo); err != nil {
		return nil, fmt.Errorf("update combo %s: %w", id, err)
	}

	s.log.Info("Combo updated",
		zap.String("combo_id", id.String()),
		zap.Int64("price_cents", combo.PriceCents))

	resp := response.ComboToResponse(combo)
	return &resp, nil
}

func (s *comboService) ListCombos(ctx context.Context) ([]response.ComboResponse, error) {
	combos, err := s.repo.Combo.FindAllActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list combos: %w", err)
	}

	resp := make([]response.ComboResponse, 0, len(combos))
	for _, c := range combos {
		resp = append(resp, response.ComboToResponse(c))
	}
	return resp, nil
}

func (s *comboService) AddCombo(ctx context.Context, userID, bookingID uuid.UUID, req *request.AddComboRequest) (*response.ComboAttachmentResponse, error) {
	if req.Quantity < 1 {
		return nil, validationError("quantity must be at least 1")
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Add combo validation failed", zap.Any("errors", errs))
		return nil, validationError("%s", utils.FormatValidationErrors(errs))
	}

	comboID, err := uuid.Parse(req.ComboID)
	if err != nil {
		return nil, validationError("invalid combo_id %q", req.ComboID)
	}

	var attachment *entity.ComboAttachment

	err = s.repo.Tx.WithTx(ctx, func(ctx context.Context) error {
		now := s.now()

		booking, err := s.repo.Booking.FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return fmt.Errorf("lock booking %s: %w", bookingID, err)
		}
		if booking == nil {
			return ErrBookingNotFound
		}
		if booking.UserID != userID {
			return ErrNotOwner
		}
		if !booking.Status.Active() {
			return ErrInvalidBookingState
		}
		if booking.HoldExpired(now, HoldDuration) {
			return ErrHoldExpired
		}

		combo, err := s.repo.Combo.FindByID(ctx, comboID)
		if err != nil {
			return fmt.Errorf("find combo %s: %w", comboID, err)
		}
		if combo == nil || !combo.IsActive {
			return ErrComboNotFound
		}

		attachment = &entity.ComboAttachment{
			BaseSimple:      entity.NewBaseSimple(now),
			BookingID:       bookingID,
			ComboID:         comboID,
			Quantity:        req.Quantity,
			UnitPriceCents:  combo.PriceCents,
			TotalPriceCents: int64(req.Quantity) * combo.PriceCents,
		}
		if err := s.repo.Combo.CreateAttachment(ctx, attachment); err != nil {
			return fmt.Errorf("attach combo %s to booking %s: %w", comboID, bookingID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Combo attached",
		zap.String("booking_id", bookingID.String()),
		zap.String("combo_id", comboID.String()),
		zap.Int("quantity", attachment.Quantity),
		zap.Int64("total_cents", attachment.TotalPriceCents))

	resp := response.ComboAttachmentToResponse(attachment)
	return &resp, nil
}
