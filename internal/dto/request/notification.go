package request

type ArchiveNotificationsRequest struct {
	NotificationIDs []string `json:"notification_ids" validate:"required,min=1,max=100,dive,uuid"`
}

type NotificationListRequest struct {
	PaginatedRequest
	IncludeArchived bool
}
