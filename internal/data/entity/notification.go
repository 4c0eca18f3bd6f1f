package entity

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationSystem   NotificationType = "SYSTEM"
	NotificationBooking  NotificationType = "BOOKING"
	NotificationReminder NotificationType = "REMINDER"
)

type NotificationStatus string

const (
	NotificationUnread   NotificationStatus = "UNREAD"
	NotificationRead     NotificationStatus = "READ"
	NotificationArchived NotificationStatus = "ARCHIVED"
)

// Notification in-app, created_at dipakai sebagai waktu kirim
type Notification struct {
	BaseSimple
	UserID  uuid.UUID          `db:"user_id"`
	Title   string             `db:"title"`
	Message string             `db:"message"`
	Type    NotificationType   `db:"notification_type"`
	Status  NotificationStatus `db:"status"`
	ReadAt  *time.Time         `db:"read_at"`
}
