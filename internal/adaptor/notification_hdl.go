package adaptor

import (
	"net/http"

	"cinema-ticketing/internal/dto/request"
	"cinema-ticketing/internal/usecase"
	"cinema-ticketing/pkg/utils"

	"go.uber.org/zap"
)

type NotificationHandler struct {
	service usecase.NotificationService
	log     *zap.Logger
}

func NewNotificationHandler(service usecase.NotificationService, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		log:     log.With(zap.String("handler", "notification")),
	}
}

// List handles GET /api/notifications?page=&per_page=&archived=true
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	req := &request.NotificationListRequest{
		IncludeArchived: r.URL.Query().Get("archived") == "true",
	}
	req.Page, req.PerPage = paginationFromQuery(r)

	list, err := h.service.List(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, r, h.log, err, "list notifications")
		return
	}

	utils.ResponseSuccess(w, "success", list)
}

// ListUnread handles GET /api/notifications/unread
func (h *NotificationHandler) ListUnread(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	list, err := h.service.ListUnread(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, h.log, err, "list unread notifications")
		return
	}

	utils.ResponseSuccess(w, "success", list)
}

// MarkRead handles POST /api/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.MarkRead(r.Context(), userID, id); err != nil {
		handleServiceError(w, r, h.log, err, "mark notification read")
		return
	}

	utils.ResponseSuccess(w, "Notification marked as read", nil)
}

// MarkAllRead handles POST /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	resp, err := h.service.MarkAllRead(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, h.log, err, "mark all notifications read")
		return
	}

	utils.ResponseSuccess(w, "success", resp)
}

// Archive handles POST /api/notifications/{id}/archive
func (h *NotificationHandler) Archive(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	req := request.ArchiveNotificationsRequest{NotificationIDs: []string{id.String()}}
	if _, err := h.service.Archive(r.Context(), userID, &req); err != nil {
		handleServiceError(w, r, h.log, err, "archive notification")
		return
	}

	utils.ResponseSuccess(w, "Notification archived", nil)
}

// ArchiveMany handles POST /api/notifications/archive
func (h *NotificationHandler) ArchiveMany(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req request.ArchiveNotificationsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.service.Archive(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, r, h.log, err, "archive notifications")
		return
	}

	utils.ResponseSuccess(w, "Notifications archived", resp)
}
