package wire

import (
	"cinema-ticketing/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireCatalog(r chi.Router, catalogHandler *adaptor.CatalogHandler, admin func(chi.Router) chi.Router) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/movies", catalogHandler.ListMovies)
	r.Get("/api/movies/{id}", catalogHandler.GetMovie)

	r.Get("/api/functions", catalogHandler.ListFunctions)
	r.Get("/api/functions/{id}", catalogHandler.GetFunction)
	// GET /api/functions/{id}/seats - seat map dengan status available
	r.Get("/api/functions/{id}/seats", catalogHandler.SeatMap)

	// ==================== ADMIN ROUTES ====================
	adminRouter := admin(r)

	adminRouter.Route("/api/admin/movies", func(r chi.Router) {
		r.Post("/", catalogHandler.CreateMovie)
		r.Put("/{id}", catalogHandler.UpdateMovie)
		r.Delete("/{id}", catalogHandler.DeleteMovie)
	})

	adminRouter.Route("/api/admin/halls", func(r chi.Router) {
		r.Get("/", catalogHandler.ListHalls)
		r.Get("/{id}", catalogHandler.GetHall)
		r.Post("/", catalogHandler.CreateHall)
		r.Put("/{id}", catalogHandler.UpdateHall) // ditolak kalau hall sudah punya function
	})

	adminRouter.Route("/api/admin/functions", func(r chi.Router) {
		r.Post("/", catalogHandler.CreateFunction)
		r.Put("/{id}", catalogHandler.UpdateFunction) // ditolak kalau sudah ada tiket aktif
		r.Delete("/{id}", catalogHandler.DeleteFunction)
	})
}
