package model

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one direct message between a doctor and a patient.
// Realtime delivery rides the message broker; this row is the durable copy.
type ChatMessage struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	SenderID    uuid.UUID  `json:"sender_id" db:"sender_id"`
	RecipientID uuid.UUID  `json:"recipient_id" db:"recipient_id"`
	Content     string     `json:"content" db:"content"`
	ReadAt      *time.Time `json:"read_at,omitempty" db:"read_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

type SendMessageRequest struct {
	RecipientID uuid.UUID `json:"recipient_id" binding:"required"`
	Content     string    `json:"content" binding:"required,max=4000"`
}
