package wire

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"cinema-ticketing/internal/adaptor"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/internal/usecase"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRouter(t *testing.T) {
	handler := adaptor.NewHandler(&usecase.Service{}, zap.NewNop())
	router := setupRouter(handler, &repository.Repository{}, nil, zap.NewNop())

	tests := []struct {
		name   string
		method string
		path   string
		code   int
	}{
		{"health", http.MethodGet, "/health", http.StatusOK},
		{"booking needs auth", http.MethodPost, "/api/bookings", http.StatusUnauthorized},
		{"seat select needs auth", http.MethodPost, "/api/bookings/00000000-0000-0000-0000-000000000001/seats", http.StatusUnauthorized},
		{"notifications need auth", http.MethodGet, "/api/notifications/unread", http.StatusUnauthorized},
		{"admin needs auth", http.MethodPost, "/api/admin/halls", http.StatusUnauthorized},
		{"function update needs auth", http.MethodPut, "/api/admin/functions/00000000-0000-0000-0000-000000000001", http.StatusUnauthorized},
		{"profile update needs auth", http.MethodPut, "/api/user/profile", http.StatusUnauthorized},
		{"batch archive needs auth", http.MethodPost, "/api/notifications/archive", http.StatusUnauthorized},
		{"scan needs auth", http.MethodPost, "/api/admin/tickets/TKT-0A1B2C3D4E5F/scan", http.StatusUnauthorized},
		{"seat map bad id", http.MethodGet, "/api/functions/not-a-uuid/seats", http.StatusBadRequest},
		{"movie bad id", http.MethodGet, "/api/movies/42", http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/api/cinemas", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.code, w.Code)
		})
	}
}
