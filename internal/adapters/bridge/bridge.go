// Package bridge defines the cross-domain messaging collaborator.
//
// The marketplace escrows funds and hands the bridge a fire-and-forget
// admission request together with an opaque payload; the outcome arrives
// later through the settlement callback, authenticated by the relay's
// origin account. The relay fee fluctuates and must be quoted live per
// call, never cached.
package bridge

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/codexfield/codex-marketplace/internal/adapters/mq/queue"
	"github.com/codexfield/codex-marketplace/internal/adapters/mq/relay"
	"github.com/codexfield/codex-marketplace/internal/domain/model"
)

// Relayer is the contract the settlement protocol depends on.
type Relayer interface {
	// RelayFee quotes the current fee for one admission request.
	RelayFee(ctx context.Context) (uint64, error)

	// SubmitAdmissionRequest forwards an escrowed admission request.
	// Fire-and-forget: the outcome arrives through the settlement callback.
	SubmitAdmissionRequest(ctx context.Context, req model.AdmissionRequest) error
}

// InMemoryBridge implements Relayer with the in-process admission queue
// and relay worker pool. It stands in for the remote messaging layer.
type InMemoryBridge struct {
	mu       sync.Mutex
	queue    *queue.InMemoryQueue
	pool     *relay.Pool
	admitter relay.Admitter
	fee      atomic.Uint64
	origin   model.Account

	workerCount int
	queueSize   int
	workerOpts  []relay.Option

	started bool
}

// New creates a bridge draining into the given admitter. The settlement
// callback is attached at Start, after the receiving service exists.
func New(admitter relay.Admitter, opts ...Option) *InMemoryBridge {
	b := &InMemoryBridge{
		admitter:    admitter,
		origin:      "relayer",
		workerCount: 0, // pool default
		queueSize:   0, // queue default
	}

	// Apply all options
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Origin returns the account the bridge authenticates callbacks with.
func (b *InMemoryBridge) Origin() model.Account {
	return b.origin
}

// SetRelayFee updates the live fee quote.
func (b *InMemoryBridge) SetRelayFee(fee uint64) {
	b.fee.Store(fee)
}

// RelayFee quotes the current fee.
func (b *InMemoryBridge) RelayFee(ctx context.Context) (uint64, error) {
	return b.fee.Load(), nil
}

// Start builds the queue and worker pool and begins draining requests
// into the admitter, reporting outcomes to callback.
func (b *InMemoryBridge) Start(ctx context.Context, callback relay.Callback) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.started {
		return nil
	}

	var queueOpts []queue.Option
	if b.queueSize > 0 {
		queueOpts = append(queueOpts, queue.WithCapacity(b.queueSize), queue.WithBufferSize(b.queueSize))
	}
	b.queue = queue.NewInMemoryQueue(queueOpts...)

	workerOpts := append([]relay.Option{relay.WithOrigin(b.origin)}, b.workerOpts...)
	b.pool = relay.NewPool(b.workerCount, b.queue, b.admitter, callback, workerOpts...)
	b.pool.Start(ctx)

	b.started = true
	return nil
}

// Stop drains and shuts down the pipeline.
func (b *InMemoryBridge) Stop(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.started {
		return
	}
	_ = b.pool.Shutdown(ctx)
	b.started = false
}

// SubmitAdmissionRequest enqueues a request for the relay workers.
func (b *InMemoryBridge) SubmitAdmissionRequest(ctx context.Context, req model.AdmissionRequest) error {
	b.mu.Lock()
	q := b.queue
	started := b.started
	b.mu.Unlock()

	if !started || !q.Enqueue(ctx, req) {
		return ErrRelayUnavailable
	}
	return nil
}

// Len returns the current relay backlog.
func (b *InMemoryBridge) Len(ctx context.Context) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.started {
		return 0
	}
	return b.queue.Len(ctx)
}
