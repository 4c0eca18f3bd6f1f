package wire

import (
	"cinema-ticketing/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	comboHandler *adaptor.ComboHandler,
	auth func(chi.Router) chi.Router,
	admin func(chi.Router) chi.Router,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/payment-methods", bookingHandler.ListPaymentMethods)
	r.Get("/api/combos", comboHandler.ListCombos)

	// ==================== PROTECTED ROUTES (require auth) ====================
	auth(r).Group(func(r chi.Router) {
		r.Get("/api/user/bookings", bookingHandler.ListUserBookings)

		r.Route("/api/bookings", func(r chi.Router) {
			r.Post("/", bookingHandler.CreateBooking)
			r.Get("/{id}", bookingHandler.GetBooking)
			r.Post("/{id}/seats", bookingHandler.SelectSeats)
			r.Post("/{id}/combos", comboHandler.AddCombo)
			r.Post("/{id}/pay", bookingHandler.PayBooking)
			r.Post("/{id}/cancel", bookingHandler.CancelBooking)
		})
	})

	// ==================== ADMIN ROUTES ====================
	admin(r).Group(func(r chi.Router) {
		r.Post("/api/admin/bookings/{id}/cancel", bookingHandler.CancelBooking)
		r.Post("/api/admin/bookings/expire", bookingHandler.ExpireBookings)
		r.Post("/api/admin/tickets/{code}/scan", bookingHandler.ScanTicket)

		r.Post("/api/admin/combos", comboHandler.CreateCombo)
		r.Put("/api/admin/combos/{id}", comboHandler.UpdateCombo)
	})
}
