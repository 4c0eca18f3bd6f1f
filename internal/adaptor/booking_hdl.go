package adaptor

import (
	"net/http"
	"time"

	"cinema-ticketing/internal/dto/request"
	"cinema-ticketing/internal/dto/response"
	"cinema-ticketing/internal/usecase"
	"cinema-ticketing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.ReservationService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.ReservationService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings (protected)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req request.CreateBookingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, r, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "Booking created", booking)
}

// SelectSeats handles POST /api/bookings/{id}/seats (protected)
func (h *BookingHandler) SelectSeats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	bookingID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req request.SelectSeatsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	booking, err := h.service.SelectSeats(r.Context(), userID, bookingID, &req)
	if err != nil {
		handleServiceError(w, r, h.log, err, "select seats")
		return
	}

	utils.ResponseCreated(w, "Seats reserved", booking)
}

// GetBooking handles GET /api/bookings/{id} (protected)
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	bookingID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	booking, err := h.service.GetBooking(r.Context(), userID, bookingID, utils.IsAdminContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, h.log, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// ListUserBookings handles GET /api/user/bookings (protected)
func (h *BookingHandler) ListUserBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	req := &request.PaginatedRequest{}
	req.Page, req.PerPage = paginationFromQuery(r)

	bookings, err := h.service.ListUserBookings(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, r, h.log, err, "list user bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// CancelBooking handles POST /api/bookings/{id}/cancel and
// POST /api/admin/bookings/{id}/cancel
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	bookingID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	resp, err := h.service.CancelBooking(r.Context(), userID, bookingID, utils.IsAdminContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, h.log, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "Booking cancelled", resp)
}

// PayBooking handles POST /api/bookings/{id}/pay (protected)
func (h *BookingHandler) PayBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	bookingID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req request.PayBookingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	payment, err := h.service.PayBooking(r.Context(), userID, bookingID, &req)
	if err != nil {
		handleServiceError(w, r, h.log, err, "pay booking")
		return
	}

	utils.ResponseSuccess(w, "Payment successful", payment)
}

// ListPaymentMethods handles GET /api/payment-methods (public)
func (h *BookingHandler) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	methods, err := h.service.ListPaymentMethods(r.Context())
	if err != nil {
		handleServiceError(w, r, h.log, err, "list payment methods")
		return
	}

	utils.ResponseSuccess(w, "success", methods)
}

// ==================== ADMIN METHODS ====================

// ScanTicket handles POST /api/admin/tickets/{code}/scan
func (h *BookingHandler) ScanTicket(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		utils.ResponseError(w, http.StatusBadRequest, "Ticket code is required", nil)
		return
	}

	resp, err := h.service.ScanTicket(r.Context(), code)
	if err != nil {
		handleServiceError(w, r, h.log, err, "scan ticket")
		return
	}

	utils.ResponseSuccess(w, "Ticket scanned", resp)
}

// ExpireBookings handles POST /api/admin/bookings/expire, sweep manual
func (h *BookingHandler) ExpireBookings(w http.ResponseWriter, r *http.Request) {
	expired, err := h.service.ExpireStaleBookings(r.Context(), time.Now())
	if err != nil {
		handleServiceError(w, r, h.log, err, "expire bookings")
		return
	}

	utils.ResponseSuccess(w, "success", response.ExpireBookingsResponse{Expired: expired})
}
