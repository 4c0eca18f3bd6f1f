package middleware

import (
	"context"
	"net/http"
	"strings"

	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BlockChecker melaporkan apakah user sedang terkunci karena gagal login
type BlockChecker interface {
	IsBlocked(ctx context.Context, userID uuid.UUID) (bool, error)
}

// AuthSession middleware untuk validasi session token UUID
func AuthSession(
	sessionRepo repository.SessionRepository,
	userRepo repository.UserRepository,
	blocks BlockChecker,
	logger *zap.Logger,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				utils.ResponseError(w, http.StatusUnauthorized, "Invalid token format. Use: Bearer <token>", nil)
				return
			}

			session, err := sessionRepo.FindValidSession(r.Context(), token)
			if err != nil {
				logger.Error("Failed to validate session", zap.Error(err))
				utils.ResponseError(w, http.StatusInternalServerError, "Internal server error", nil)
				return
			}
			if session == nil {
				logger.Warn("Invalid or expired session")
				utils.ResponseError(w, http.StatusUnauthorized, "Invalid or expired session", nil)
				return
			}

			user, err := userRepo.FindByID(r.Context(), session.UserID)
			if err != nil {
				logger.Error("Failed to load session user",
					zap.Error(err), zap.String("user_id", session.UserID.String()))
				utils.ResponseError(w, http.StatusInternalServerError, "Internal server error", nil)
				return
			}
			if user == nil || !user.IsActive {
				utils.ResponseError(w, http.StatusUnauthorized, "Account is not active", nil)
				return
			}

			blocked, err := blocks.IsBlocked(r.Context(), user.ID)
			if err != nil {
				logger.Error("Failed to check user block",
					zap.Error(err), zap.String("user_id", user.ID.String()))
				utils.ResponseError(w, http.StatusInternalServerError, "Internal server error", nil)
				return
			}
			if blocked {
				logger.Warn("Blocked user rejected", zap.String("user_id", user.ID.String()))
				utils.ResponseError(w, http.StatusForbidden, "Account is temporarily blocked", nil)
				return
			}

			ctx := utils.SetUserContext(r.Context(), user.ID, string(user.Role))
			ctx = utils.SetTokenContext(ctx, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Admin - middleware cek role admin, dipasang setelah AuthSession
func Admin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := utils.GetUserIDFromContext(r.Context())
			if !ok {
				utils.ResponseError(w, http.StatusUnauthorized, "Authentication required", nil)
				return
			}

			if !utils.IsAdminContext(r.Context()) {
				logger.Warn("Admin check: non-admin access attempt",
					zap.String("user_id", userID.String()),
					zap.String("path", r.URL.Path))
				utils.ResponseError(w, http.StatusForbidden, "Admin access required", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
