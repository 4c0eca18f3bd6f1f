package wire

import (
	"cinema-ticketing/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, auth func(chi.Router) chi.Router) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/api/register", authHandler.Register)
	r.Post("/api/login", authHandler.Login)

	// ==================== PROTECTED ROUTES ====================
	protected := auth(r)
	protected.Post("/api/logout", authHandler.Logout)
	protected.Get("/api/user/profile", authHandler.Profile)
	protected.Put("/api/user/profile", authHandler.UpdateProfile)
}
