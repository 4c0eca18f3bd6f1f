package notification

import (
	"context"
	"fmt"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/data/repository"

	"go.uber.org/zap"
)

// Handler delivers one TicketIssued event: QR image, email and in-app notification.
type Handler struct {
	users         repository.UserRepository
	notifications repository.NotificationRepository
	qr            *QRRenderer
	mailer        Mailer
	log           *zap.Logger
}

func NewHandler(
	users repository.UserRepository,
	notifications repository.NotificationRepository,
	qr *QRRenderer,
	mailer Mailer,
	log *zap.Logger,
) *Handler {
	return &Handler{
		users:         users,
		notifications: notifications,
		qr:            qr,
		mailer:        mailer,
		log:           log.With(zap.String("component", "ticket_notifier")),
	}
}

func (h *Handler) Handle(ctx context.Context, e TicketIssued) error {
	email, err := h.recipient(ctx, e)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("Ticket %s confirmed", e.SeatLabel)
	message := fmt.Sprintf("Order %s, seat %s. Show code %s at the entrance.",
		e.OrderID, e.SeatLabel, e.TicketCode)

	png, err := h.qr.Render(e.TicketCode)
	if err != nil {
		h.log.Error("Failed to render ticket QR",
			zap.Error(err),
			zap.String("ticket_code", e.TicketCode))
	}

	mail := Mail{To: email, Subject: title, Body: message}
	if png != nil {
		mail.Attachments = append(mail.Attachments, Attachment{Name: e.TicketCode + ".png", Data: png})
	}
	if err := h.mailer.Send(mail); err != nil {
		// email gagal tidak membatalkan notifikasi in-app
		h.log.Error("Failed to email ticket",
			zap.Error(err),
			zap.String("ticket_code", e.TicketCode),
			zap.String("user_id", e.UserID.String()))
	}

	n := &entity.Notification{
		BaseSimple: entity.NewBaseSimple(time.Now()),
		UserID:     e.UserID,
		Title:      title,
		Message:    message,
		Type:       entity.NotificationBooking,
		Status:     entity.NotificationUnread,
	}
	if err := h.notifications.Create(ctx, n); err != nil {
		return fmt.Errorf("store ticket notification: %w", err)
	}

	h.log.Info("Ticket notification delivered",
		zap.String("ticket_code", e.TicketCode),
		zap.String("booking_id", e.BookingID.String()),
		zap.String("user_id", e.UserID.String()))

	return nil
}

// recipient - email dari event, lookup ke users hanya untuk event lama tanpa email
func (h *Handler) recipient(ctx context.Context, e TicketIssued) (string, error) {
	if e.UserEmail != "" {
		return e.UserEmail, nil
	}

	user, err := h.users.FindByID(ctx, e.UserID)
	if err != nil {
		return "", fmt.Errorf("load ticket owner %s: %w", e.UserID, err)
	}
	if user == nil {
		return "", fmt.Errorf("ticket owner %s not found", e.UserID)
	}
	return user.Email, nil
}
