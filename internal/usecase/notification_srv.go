package usecase

import (
	"context"
	"fmt"
	"time"

	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/internal/dto/request"
	"cinema-ticketing/internal/dto/response"
	"cinema-ticketing/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type NotificationService interface {
	List(ctx context.Context, userID uuid.UUID, req *request.NotificationListRequest) (*response.PaginatedResponse[response.NotificationResponse], error)
	ListUnread(ctx context.Context, userID uuid.UUID) ([]response.NotificationResponse, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (*response.MarkAllReadResponse, error)
	// Archive hides the user's notifications in req; ids of other users are skipped.
	Archive(ctx context.Context, userID uuid.UUID, req *request.ArchiveNotificationsRequest) (*response.ArchiveNotificationsResponse, error)
}

type notificationService struct {
	notifications repository.NotificationRepository
	log           *zap.Logger
}

func NewNotificationService(notifications repository.NotificationRepository, log *zap.Logger) NotificationService {
	return &notificationService{
		notifications: notifications,
		log:           log.With(zap.String("service", "notification")),
	}
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID, req *request.NotificationListRequest) (*response.PaginatedResponse[response.NotificationResponse], error) {
	list, total, err := s.notifications.FindByUser(ctx, userID, req.IncludeArchived, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list notifications of user %s: %w", userID, err)
	}

	data := make([]response.NotificationResponse, 0, len(list))
	for _, n := range list {
		data = append(data, response.NotificationToResponse(n))
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func (s *notificationService) ListUnread(ctx context.Context, userID uuid.UUID) ([]response.NotificationResponse, error) {
	list, err := s.notifications.FindUnread(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list unread notifications of user %s: %w", userID, err)
	}

	resp := make([]response.NotificationResponse, 0, len(list))
	for _, n := range list {
		resp = append(resp, response.NotificationToResponse(n))
	}
	return resp, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	ok, err := s.notifications.MarkRead(ctx, userID, id, time.Now())
	if err != nil {
		return fmt.Errorf("mark notification %s read: %w", id, err)
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (*response.MarkAllReadResponse, error) {
	updated, err := s.notifications.MarkAllRead(ctx, userID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("mark all notifications of user %s read: %w", userID, err)
	}

	s.log.Debug("Notifications marked read",
		zap.String("user_id", userID.String()),
		zap.Int64("updated", updated))

	return &response.MarkAllReadResponse{Updated: updated}, nil
}

func (s *notificationService) Archive(ctx context.Context, userID uuid.UUID, req *request.ArchiveNotificationsRequest) (*response.ArchiveNotificationsResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Archive notifications validation failed", zap.Any("errors", errs))
		return nil, validationError("%s", utils.FormatValidationErrors(errs))
	}

	ids := make([]uuid.UUID, 0, len(req.NotificationIDs))
	for _, raw := range req.NotificationIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, validationError("invalid notification id %q", raw)
		}
		ids = append(ids, id)
	}

	archived, err := s.notifications.Archive(ctx, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("archive notifications of user %s: %w", userID, err)
	}
	if archived == 0 {
		return nil, ErrNotificationNotFound
	}

	s.log.Debug("Notifications archived",
		zap.String("user_id", userID.String()),
		zap.Int64("archived", archived))

	return &response.ArchiveNotificationsResponse{Archived: archived}, nil
}
