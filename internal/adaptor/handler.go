package adaptor

import (
	"cinema-ticketing/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth         *AuthHandler
	Catalog      *CatalogHandler
	Booking      *BookingHandler
	Combo        *ComboHandler
	Notification *NotificationHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(service.Auth, log),
		Catalog:      NewCatalogHandler(service.Catalog, log),
		Booking:      NewBookingHandler(service.Reservation, log),
		Combo:        NewComboHandler(service.Combo, service.Reservation, log),
		Notification: NewNotificationHandler(service.Notification, log),
	}
}
