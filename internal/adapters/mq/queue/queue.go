// Package queue defines the contract for enqueuing and consuming
// admission requests bound for the relay.
//
// Implementations may use channels or more advanced structures; the
// in-memory bounded queue models the bridge's outbound buffer.
package queue

import (
	"context"
	"sync"

	"github.com/codexfield/codex-marketplace/internal/domain/model"
	"github.com/codexfield/codex-marketplace/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 10000
	defaultBufferSize    = 10000
)

// Request represents the payload type flowing through the queue.
// Using the model.AdmissionRequest type for type safety.
type Request = model.AdmissionRequest

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a request to the queue.
	// Returns false if the queue is full and the request was not enqueued.
	Enqueue(ctx context.Context, r Request) bool

	// Dequeue returns a channel that will receive requests as they become
	// available. The channel will be closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Request

	// Len returns the current number of queued requests.
	Len(ctx context.Context) int

	// Close gracefully shuts down the queue.
	// After closing, no new requests can be enqueued and the dequeue
	// channel will be closed.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	requests   chan Request
	capacity   int
	bufferSize int
	mu         sync.RWMutex
	closed     bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity:   defaultQueueCapacity,
		bufferSize: defaultBufferSize,
	}

	// Apply all options
	for _, opt := range opts {
		opt(q)
	}

	// Initialize the requests channel with the configured buffer size
	q.requests = make(chan Request, q.bufferSize)

	// Initialize metrics
	metrics.UpdateRelayQueueCapacity(q.capacity)
	metrics.UpdateRelayQueueSize(0)
	metrics.UpdateRelayQueueUtilization(0.0)

	return q
}

// Enqueue adds a request to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, r Request) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordRelayEnqueueError()
		return false
	}

	if len(q.requests) >= q.capacity {
		metrics.RecordRelayEnqueueError()
		return false
	}

	select {
	case q.requests <- r:
		metrics.RecordRelayEnqueue()
		currentSize := len(q.requests)
		metrics.UpdateRelayQueueSize(currentSize)
		metrics.UpdateRelayQueueUtilization(float64(currentSize) / float64(q.capacity))
		return true
	case <-ctx.Done():
		metrics.RecordRelayEnqueueError()
		return false // context cancelled
	default:
		metrics.RecordRelayEnqueueError()
		return false // queue is full
	}
}

// Dequeue returns a channel that will receive requests as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Request {
	// Wrap the channel to track dequeue metrics
	dequeueChan := make(chan Request)
	go func() {
		defer close(dequeueChan)
		for request := range q.requests {
			select {
			case dequeueChan <- request:
				metrics.RecordRelayDequeue()
				currentSize := len(q.requests)
				metrics.UpdateRelayQueueSize(currentSize)
				metrics.UpdateRelayQueueUtilization(float64(currentSize) / float64(q.capacity))
			case <-ctx.Done():
				return
			}
		}
	}()
	return dequeueChan
}

// Len returns the current number of queued requests.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	return len(q.requests)
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil // already closed
	}

	// Close the requests channel to signal consumers to stop
	close(q.requests)
	q.closed = true

	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
