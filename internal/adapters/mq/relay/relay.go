// Package relay defines worker contracts for asynchronous admission and
// settlement callbacks.
//
// Workers model the trusted cross-domain messaging layer: they drain the
// admission queue, perform the membership write against the registry,
// and report the outcome through the settlement callback, echoing the
// opaque payload untouched. Delivery is at-most-once per request.
package relay

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"strconv"
	"time"

	"github.com/codexfield/codex-marketplace/internal/adapters/mq/queue"
	"github.com/codexfield/codex-marketplace/internal/domain/model"
	"github.com/codexfield/codex-marketplace/pkg/logger"
	"github.com/codexfield/codex-marketplace/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerCount    = 4
	workerShutdownTimeout = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Request abstracts what workers read off the queue.
// Using the model.AdmissionRequest type for consistency.
type Request = model.AdmissionRequest

// Admitter performs the membership write for an admission request.
type Admitter interface {
	Admit(ctx context.Context, account model.Account, groupID uint64) error
}

// Callback receives the settlement outcome. The origin account
// identifies the relay so the receiver can authenticate the caller.
type Callback interface {
	OnSettlementResult(ctx context.Context, origin model.Account, status model.SettlementStatus, groupID uint64, payload []byte) error
}

// Queue defines how workers receive requests.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Request
}

// Worker processes admission requests and dispatches settlement callbacks.
type Worker struct {
	queue    Queue
	admitter Admitter
	callback Callback
	origin   model.Account
	name     string

	// Simulated cross-domain round-trip latency
	minLatency time.Duration
	maxLatency time.Duration

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewWorker creates a new relay worker with configuration options.
func NewWorker(queue Queue, admitter Admitter, callback Callback, opts ...Option) *Worker {
	w := &Worker{
		queue:    queue,
		admitter: admitter,
		callback: callback,
		name:     "relay",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("relay"),
	}

	// Apply all options
	for _, opt := range opts {
		opt(w)
	}

	if w.name != "relay" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *Worker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	requestChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case request, ok := <-requestChan:
			if !ok {
				// Channel closed, worker should stop
				return
			}

			if err := w.processRequest(ctx, request); err != nil {
				w.logger.Error(ctx, "error processing admission request", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processRequest performs one admission and reports the outcome.
func (w *Worker) processRequest(ctx context.Context, request queue.Request) error {
	start := time.Now()
	defer func() {
		metrics.RecordRelayLatency(float64(time.Since(start).Milliseconds()))
	}()

	w.simulateLatency(ctx)

	status := model.SettlementSuccess
	if err := w.admitter.Admit(ctx, request.Member, request.GroupID); err != nil {
		status = model.SettlementFailed
		w.logger.Warn(ctx, "admission failed",
			logger.String("requestID", request.RequestID),
			logger.Uint64("groupID", request.GroupID),
			logger.Error(err),
		)
	}

	// The payload is echoed back exactly as submitted; the callback
	// receiver owns its interpretation.
	if err := w.callback.OnSettlementResult(ctx, w.origin, status, request.GroupID, request.Payload); err != nil {
		metrics.RecordRelayError()
		w.logger.Error(ctx, "settlement callback failed",
			logger.String("requestID", request.RequestID),
			logger.Uint64("groupID", request.GroupID),
			logger.Error(err),
		)
		return fmt.Errorf("settlement callback for request %s: %w", request.RequestID, err)
	}

	return nil
}

// simulateLatency models the cross-domain round trip when configured.
func (w *Worker) simulateLatency(ctx context.Context) {
	if w.maxLatency <= 0 {
		return
	}
	delay := w.minLatency
	if span := w.maxLatency - w.minLatency; span > 0 {
		delay += time.Duration(rand.Int63n(int64(span))) //nolint:gosec // simulated latency needs no crypto randomness
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// Pool manages multiple relay workers.
type Pool struct {
	workers  []*Worker
	queue    Queue
	admitter Admitter
	callback Callback

	// Shutdown control
	shutdown chan struct{}

	// Logging
	logger logger.Logger
}

// NewPool creates a new relay worker pool.
func NewPool(workerCount int, queue Queue, admitter Admitter, callback Callback, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
		if n := runtime.NumCPU(); n > workerCount {
			workerCount = n
		}
	}

	pool := &Pool{
		workers:  make([]*Worker, workerCount),
		queue:    queue,
		admitter: admitter,
		callback: callback,
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("relay-pool"),
	}

	for i := 0; i < workerCount; i++ {
		workerOpts := append([]Option{WithName("relay-" + strconv.Itoa(i))}, opts...)
		pool.workers[i] = NewWorker(queue, admitter, callback, workerOpts...)
	}

	metrics.UpdateRelayWorkerCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	p.signalShutdown()

	for _, worker := range p.workers {
		select {
		case <-worker.shutdown:
		default:
			close(worker.shutdown)
		}
		select {
		case <-worker.done:
			// Worker finished
		case <-time.After(workerShutdownTimeout):
			// Worker timeout
		}
	}
}

// signalShutdown closes the pool shutdown channel exactly once.
func (p *Pool) signalShutdown() {
	select {
	case <-p.shutdown:
		// Channel already closed
	default:
		close(p.shutdown)
	}
}

// Shutdown gracefully shuts down the entire worker pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	// First close the queue to stop new requests
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	p.signalShutdown()

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.shutdown:
		default:
			close(worker.shutdown)
		}
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "relay worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}
