package wire

import (
	"net/http"

	"cinema-ticketing/internal/adaptor"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/internal/usecase"
	"cinema-ticketing/pkg/middleware"
	"cinema-ticketing/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App menyimpan semua dependencies
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring menginisialisasi semua dependencies
func Wiring(
	repo *repository.Repository,
	config *utils.Config,
	publisher usecase.TicketPublisher,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, config, publisher, logger)
	handler := adaptor.NewHandler(service, logger)

	return &App{
		Router:  setupRouter(handler, repo, service.Auth, logger),
		Service: service,
	}
}

// setupRouter konfigurasi Chi router
func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	blocks middleware.BlockChecker,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	authSession := middleware.AuthSession(repo.Session, repo.User, blocks, logger)
	adminOnly := middleware.Admin(logger)

	auth := func(r chi.Router) chi.Router {
		return r.With(authSession)
	}
	admin := func(r chi.Router) chi.Router {
		return r.With(authSession, adminOnly)
	}

	// Apply routes
	wireAuth(r, handler.Auth, auth)
	wireCatalog(r, handler.Catalog, admin)
	wireBooking(r, handler.Booking, handler.Combo, auth, admin)
	wireNotification(r, handler.Notification, auth)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
