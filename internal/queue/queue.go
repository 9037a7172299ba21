package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Email job names. The worker maps these onto templates.
const (
	JobNewAppointment        = "create-new-appointment"
	JobAcceptAppointment     = "accept-appointment"
	JobRejectAppointment     = "reject-appointment"
	JobRescheduleAppointment = "reschedule-appointment"
	JobWelcome               = "welcome"
	JobPasswordReset         = "password-reset"
	JobPasswordResetSuccess  = "password-reset-success"
)

// EmailJob is a named job with a flat payload bag. Delivery and retry are
// the queue consumer's responsibility; producers fire and forget.
type EmailJob struct {
	ID         uuid.UUID         `json:"id"`
	Name       string            `json:"name"`
	Payload    map[string]string `json:"payload"`
	EnqueuedAt time.Time         `json:"enqueued_at"`
}

// Enqueuer is the producer-side boundary services depend on.
type Enqueuer interface {
	Enqueue(ctx context.Context, name string, payload map[string]string) error
}

// Consumer is the worker-side boundary.
type Consumer interface {
	Dequeue(ctx context.Context) (*EmailJob, error)
}
