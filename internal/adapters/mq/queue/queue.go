// Package queue buffers submitted training sessions between the HTTP layer
// and the ingestion workers.
package queue

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/toca/internal/domain/model"
	"github.com/okian/toca/pkg/metrics"
)

// Default queue configuration constants.
const (
	DefaultCapacity = 10_000
)

// Session is the payload type flowing through the queue.
type Session = model.TrainingSession

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a session without blocking.
	// Returns ErrFull under backpressure and ErrClosed after Close.
	Enqueue(ctx context.Context, s Session) error

	// Dequeue returns a channel that receives sessions as they become
	// available. The channel is closed when the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Session

	// Len returns the current number of queued sessions.
	Len() int

	// Capacity returns the maximum number of queued sessions.
	Capacity() int

	// Close stops accepting sessions. Already queued ones can still be drained.
	Close() error
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	sessions chan Session
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.sessions = make(chan Session, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue adds a session to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, s Session) error { //nolint:gocritic // hugeParam: sessions travel by value
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError("closed")
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordQueueEnqueueError("context_cancelled")
		return fmt.Errorf("enqueue: %w", err)
	}

	select {
	case q.sessions <- s:
		metrics.UpdateQueueSize(len(q.sessions))
		return nil
	default:
		metrics.RecordQueueEnqueueError("queue_full")
		return ErrFull
	}
}

// Dequeue returns a channel that will receive sessions as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Session {
	out := make(chan Session)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case s, ok := <-q.sessions:
				if !ok {
					return
				}
				select {
				case out <- s:
					metrics.UpdateQueueSize(len(q.sessions))
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Len returns the current number of queued sessions.
func (q *InMemoryQueue) Len() int {
	return len(q.sessions)
}

// Capacity returns the configured capacity.
func (q *InMemoryQueue) Capacity() int {
	return q.capacity
}

// Close stops accepting sessions.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.sessions)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
