package usecase

import (
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth         AuthService
	Catalog      CatalogService
	Reservation  ReservationService
	Combo        ComboService
	Notification NotificationService
}

func NewService(repo *repository.Repository, config *utils.Config, publisher TicketPublisher, log *zap.Logger) *Service {
	auth := NewAuthService(repo, config, log)

	return &Service{
		Auth:         auth,
		Catalog:      NewCatalogService(repo, log),
		Reservation:  NewReservationService(repo, auth, publisher, log),
		Combo:        NewComboService(repo, log),
		Notification: NewNotificationService(repo.Notification, log),
	}
}
