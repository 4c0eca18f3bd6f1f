package adaptor

import (
	"net/http"

	"cinema-ticketing/internal/dto/request"
	"cinema-ticketing/internal/usecase"
	"cinema-ticketing/pkg/utils"

	"go.uber.org/zap"
)

type ComboHandler struct {
	service     usecase.ComboService
	reservation usecase.ReservationService
	log         *zap.Logger
}

func NewComboHandler(service usecase.ComboService, reservation usecase.ReservationService, log *zap.Logger) *ComboHandler {
	return &ComboHandler{
		service:     service,
		reservation: reservation,
		log:         log.With(zap.String("handler", "combo")),
	}
}

// ListCombos handles GET /api/combos
func (h *ComboHandler) ListCombos(w http.ResponseWriter, r *http.Request) {
	combos, err := h.service.ListCombos(r.Context())
	if err != nil {
		handleServiceError(w, r, h.log, err, "list combos")
		return
	}

	utils.ResponseSuccess(w, "success", combos)
}

// CreateCombo handles POST /api/admin/combos
func (h *ComboHandler) CreateCombo(w http.ResponseWriter, r *http.Request) {
	var req request.CreateComboRequest
	if !decodeBody(w, r, &req) {
		return
	}

	combo, err := h.service.CreateCombo(r.Context(), &req)
	if err != nil {
		handleServiceError(w, r, h.log, err, "create combo")
		return
	}

	utils.ResponseCreated(w, "Combo created", combo)
}

// UpdateCombo handles PUT /api/admin/combos/{id}
func (h *ComboHandler) UpdateCombo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req request.UpdateComboRequest
	if !decodeBody(w, r, &req) {
		return
	}

	combo, err := h.service.UpdateCombo(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, r, h.log, err, "update combo")
		return
	}

	utils.ResponseSuccess(w, "Combo updated", combo)
}

// AddCombo handles POST /api/bookings/{id}/combos (protected). Response
// berisi booking terbaru supaya total langsung terlihat.
func (h *ComboHandler) AddCombo(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	bookingID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req request.AddComboRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if _, err := h.service.AddCombo(r.Context(), userID, bookingID, &req); err != nil {
		handleServiceError(w, r, h.log, err, "add combo")
		return
	}

	booking, err := h.reservation.GetBooking(r.Context(), userID, bookingID, false)
	if err != nil {
		handleServiceError(w, r, h.log, err, "get booking")
		return
	}

	utils.ResponseCreated(w, "Combo added", booking)
}
