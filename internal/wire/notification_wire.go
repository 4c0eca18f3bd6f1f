package wire

import (
	"cinema-ticketing/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireNotification(r chi.Router, notificationHandler *adaptor.NotificationHandler, auth func(chi.Router) chi.Router) {
	// semua route notifikasi butuh auth
	auth(r).Route("/api/notifications", func(r chi.Router) {
		r.Get("/", notificationHandler.List)
		r.Get("/unread", notificationHandler.ListUnread)
		r.Post("/read-all", notificationHandler.MarkAllRead)
		r.Post("/archive", notificationHandler.ArchiveMany)
		r.Post("/{id}/read", notificationHandler.MarkRead)
		r.Post("/{id}/archive", notificationHandler.Archive)
	})
}
