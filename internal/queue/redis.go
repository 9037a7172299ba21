package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultQueueKey = "queue:email"

// ErrEmpty is returned by Dequeue when no job arrived within the poll
// window; callers should simply loop.
var ErrEmpty = errors.New("queue is empty")

// RedisQueue is a redis-list backed email job queue. Producers LPUSH,
// the worker BRPOPs, so jobs are delivered in enqueue order.
type RedisQueue struct {
	client  *redis.Client
	key     string
	popWait time.Duration
}

func NewRedisQueue(client *redis.Client) *RedisQueue {
	return &RedisQueue{
		client:  client,
		key:     defaultQueueKey,
		popWait: 5 * time.Second,
	}
}

func (q *RedisQueue) Enqueue(ctx context.Context, name string, payload map[string]string) error {
	job := EmailJob{
		ID:         uuid.New(),
		Name:       name,
		Payload:    payload,
		EnqueuedAt: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal email job: %w", err)
	}

	if err := q.client.LPush(ctx, q.key, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue email job: %w", err)
	}
	return nil
}

func (q *RedisQueue) Dequeue(ctx context.Context) (*EmailJob, error) {
	result, err := q.client.BRPop(ctx, q.popWait, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to dequeue email job: %w", err)
	}

	// BRPop returns [key, value]
	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply length %d", len(result))
	}

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal email job: %w", err)
	}
	return &job, nil
}
