package dto

import "studlance_backend/internal/models"

type NotificationListQuery struct {
	PageQuery
}

type NotificationListResponse struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unread_count"`
	Pagination    Pagination            `json:"pagination"`
}
