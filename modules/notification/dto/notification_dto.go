package dto

import "github.com/google/uuid"

// CreateNotificationRequest creates one feed entry for a user.
type CreateNotificationRequest struct {
	UserID  uuid.UUID      `json:"user_id"`
	Title   string         `json:"title"`
	Message string         `json:"message"`
	Type    string         `json:"type"`
	Data    map[string]any `json:"data"`
}

// MarkAsReadRequest marks the listed notifications as read.
type MarkAsReadRequest struct {
	IDs []string `json:"ids"`
}
