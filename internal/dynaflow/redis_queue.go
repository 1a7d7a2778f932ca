package dynaflow

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultRedisQueueKey = "farmcore:dyna_flow:queue"
	defaultPollTimeout   = time.Second
)

// RedisQueue is a Queue on a Redis list: LPUSH to enqueue, BRPOP to dequeue.
type RedisQueue struct {
	client      redis.UniversalClient
	key         string
	pollTimeout time.Duration
	ownsClient  bool
	closed      atomic.Bool
}

// RedisQueueOption customises a RedisQueue.
type RedisQueueOption func(*RedisQueue)

// WithQueueKey sets the list key.
func WithQueueKey(key string) RedisQueueOption {
	return func(q *RedisQueue) {
		if key != "" {
			q.key = key
		}
	}
}

// WithPollTimeout bounds each BRPOP so Dequeue notices cancellation.
func WithPollTimeout(d time.Duration) RedisQueueOption {
	return func(q *RedisQueue) {
		if d > 0 {
			q.pollTimeout = d
		}
	}
}

// NewRedisQueue wraps an existing client. The caller keeps ownership of it.
func NewRedisQueue(client redis.UniversalClient, opts ...RedisQueueOption) *RedisQueue {
	q := &RedisQueue{client: client, key: DefaultRedisQueueKey, pollTimeout: defaultPollTimeout}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// DialRedisQueue connects with clientOpts and pings the server. Close
// releases the client.
func DialRedisQueue(ctx context.Context, clientOpts *redis.Options, opts ...RedisQueueOption) (*RedisQueue, error) {
	client := redis.NewClient(clientOpts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", clientOpts.Addr, err)
	}
	q := NewRedisQueue(client, opts...)
	q.ownsClient = true
	return q, nil
}

// Key returns the list key.
func (q *RedisQueue) Key() string { return q.key }

func (q *RedisQueue) Enqueue(ctx context.Context, id string) error {
	if q.closed.Load() {
		return ErrQueueClosed
	}
	if err := q.client.LPush(ctx, q.key, id).Err(); err != nil {
		return fmt.Errorf("enqueue dyna flow %s: %w", id, err)
	}
	return nil
}

func (q *RedisQueue) Dequeue(ctx context.Context) (string, error) {
	for {
		if q.closed.Load() {
			return "", ErrQueueClosed
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		res, err := q.client.BRPop(ctx, q.pollTimeout, q.key).Result()
		switch {
		case errors.Is(err, redis.Nil):
			continue
		case err != nil:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", ctxErr
			}
			return "", fmt.Errorf("dequeue dyna flow: %w", err)
		}
		// BRPOP replies with [key, value].
		if len(res) != 2 {
			return "", fmt.Errorf("dequeue dyna flow: unexpected reply %v", res)
		}
		return res[1], nil
	}
}

// Len returns the list length.
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}

func (q *RedisQueue) Close() error {
	if q.closed.Swap(true) {
		return nil
	}
	if q.ownsClient {
		return q.client.Close()
	}
	return nil
}
