package dynaflow

import (
	"context"
	"errors"
	"sync"
)

// ErrQueueClosed is returned by a queue after Close.
var ErrQueueClosed = errors.New("dyna flow queue closed")

// Queue carries dyna flow IDs from requesters to workers in FIFO order.
type Queue interface {
	Enqueue(ctx context.Context, id string) error
	// Dequeue blocks until an ID is available, ctx is done or the queue closes.
	Dequeue(ctx context.Context) (string, error)
	Close() error
}

// ChannelQueue is an in-process Queue backed by a buffered channel.
type ChannelQueue struct {
	ch     chan string
	done   chan struct{}
	closed sync.Once
}

// DefaultChannelQueueSize is used when NewChannelQueue gets a non-positive size.
const DefaultChannelQueueSize = 64

// NewChannelQueue returns a queue buffering up to size IDs.
func NewChannelQueue(size int) *ChannelQueue {
	if size <= 0 {
		size = DefaultChannelQueueSize
	}
	return &ChannelQueue{ch: make(chan string, size), done: make(chan struct{})}
}

func (q *ChannelQueue) Enqueue(ctx context.Context, id string) error {
	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}
	select {
	case q.ch <- id:
		return nil
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *ChannelQueue) Dequeue(ctx context.Context) (string, error) {
	select {
	case id := <-q.ch:
		return id, nil
	case <-q.done:
		return "", ErrQueueClosed
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Len reports the number of buffered IDs.
func (q *ChannelQueue) Len() int { return len(q.ch) }

func (q *ChannelQueue) Close() error {
	q.closed.Do(func() { close(q.done) })
	return nil
}
