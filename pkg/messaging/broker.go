package messaging

import (
	"context"
)

// Broker is the realtime fan-out boundary. In-app notifications and chat
// messages are published here; delivery to connected clients is the
// subscriber's concern.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// UserChannel names the per-user realtime channel.
func UserChannel(userID string) string {
	return "user:" + userID
}
