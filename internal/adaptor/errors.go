package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"cinema-ticketing/internal/usecase"
	"cinema-ticketing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// handleServiceError maps a usecase error to an HTTP response by its category.
func handleServiceError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error, operation string) {
	var status int
	switch {
	case errors.Is(err, usecase.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, usecase.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, usecase.ErrConflict), errors.Is(err, usecase.ErrInvalidState):
		status = http.StatusConflict
	case errors.Is(err, usecase.ErrLimitExceeded):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, usecase.ErrUnauthorized):
		// tanpa identitas 401, sudah login tapi ditolak 403
		status = http.StatusForbidden
		if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
			status = http.StatusUnauthorized
		}
	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseError(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	log.Warn(operation+" rejected", zap.Error(err), zap.Int("status", status))
	utils.ResponseError(w, status, err.Error(), nil)
}

// decodeBody decode JSON body lalu validasi; false berarti response sudah ditulis
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseError(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}

	if validationErrors := utils.ValidateStruct(dst); len(validationErrors) > 0 {
		utils.ResponseError(w, http.StatusBadRequest, "Validation failed", validationErrors)
		return false
	}

	return true
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		utils.ResponseError(w, http.StatusBadRequest, "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

func requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseError(w, http.StatusUnauthorized, "Authentication required", nil)
		return uuid.Nil, false
	}
	return userID, true
}

func paginationFromQuery(r *http.Request) (page, perPage int) {
	return utils.PageFromQuery(r.URL.Query())
}
