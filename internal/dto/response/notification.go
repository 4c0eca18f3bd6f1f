package response

import (
	"time"

	"cinema-ticketing/internal/data/entity"
)

type NotificationResponse struct {
	ID      string                    `json:"id"`
	Title   string                    `json:"title"`
	Message string                    `json:"message"`
	Type    entity.NotificationType   `json:"type"`
	Status  entity.NotificationStatus `json:"status"`
	ReadAt  *time.Time                `json:"read_at,omitempty"`
	SentAt  time.Time                 `json:"sent_at"`
}

func NotificationToResponse(n *entity.Notification) NotificationResponse {
	return NotificationResponse{
		ID:      n.ID.String(),
		Title:   n.Title,
		Message: n.Message,
		Type:    n.Type,
		Status:  n.Status,
		ReadAt:  n.ReadAt,
		SentAt:  n.CreatedAt,
	}
}

type ArchiveNotificationsResponse struct {
	Archived int64 `json:"archived"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
