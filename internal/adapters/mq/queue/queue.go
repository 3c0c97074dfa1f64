// Package queue provides the bounded in-memory queue of rescore requests.
//
// A full queue refuses new requests (backpressure) and a candidate already
// waiting is not queued twice; the pending request covers both.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/som23ya/workwale-core/pkg/metrics"
)

const defaultCapacity = 10000

// Request asks for a full rescore of one candidate against all postings.
type Request struct {
	CandidateID string
	EnqueuedAt  time.Time
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a rescore request. Returns false if the queue is full
	// or closed. A request for a candidate that is already pending is
	// collapsed into it and reported as accepted.
	Enqueue(ctx context.Context, req Request) bool

	// Dequeue returns a channel delivering requests as they become
	// available. The channel closes when the queue closes.
	Dequeue(ctx context.Context) <-chan Request

	// Len returns the current number of pending requests.
	Len(ctx context.Context) int

	// Close stops the queue. No new requests are accepted and the
	// dequeue channel drains then closes.
	Close() error

	// IsClosed reports whether the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue on a buffered channel with a pending set.
type InMemoryQueue struct {
	requests chan Request
	capacity int

	mu      sync.Mutex
	pending map[string]struct{}
	closed  bool
}

// NewInMemoryQueue creates a queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultCapacity,
		pending:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(q)
	}
	q.requests = make(chan Request, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)

	return q
}

func (q *InMemoryQueue) Enqueue(_ context.Context, req Request) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		metrics.RecordEnqueueRejected()
		return false
	}
	if _, dup := q.pending[req.CandidateID]; dup {
		metrics.RecordEnqueueCollapsed()
		return true
	}

	select {
	case q.requests <- req:
		q.pending[req.CandidateID] = struct{}{}
		metrics.UpdateQueueSize(len(q.requests))
		return true
	default:
		metrics.RecordEnqueueRejected()
		return false
	}
}

// Dequeue clears the pending mark as each request is handed over, so a
// rescore requested while one is being processed queues again.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Request {
	out := make(chan Request)
	go func() {
		defer close(out)
		for req := range q.requests {
			q.mu.Lock()
			delete(q.pending, req.CandidateID)
			q.mu.Unlock()
			metrics.UpdateQueueSize(len(q.requests))

			select {
			case out <- req:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (q *InMemoryQueue) Len(_ context.Context) int {
	return len(q.requests)
}

func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.requests)
	q.closed = true
	return nil
}

func (q *InMemoryQueue) IsClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
