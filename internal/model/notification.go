package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification categories
const (
	NotificationTypeAppointment = "APPOINTMENT"
	NotificationTypeChat        = "CHAT"
	NotificationTypeKYC         = "KYC"
	NotificationTypeSystem      = "SYSTEM"
)

type Notification struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Message   string    `json:"message" db:"message"`
	Type      string    `json:"type" db:"type"`
	IsRead    bool      `json:"is_read" db:"is_read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateNotificationInput is what producing services hand to the
// notification service; persistence fields are filled in there.
type CreateNotificationInput struct {
	UserID  uuid.UUID
	Title   string
	Message string
	Type    string
}
