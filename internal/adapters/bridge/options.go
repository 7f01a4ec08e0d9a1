// Package bridge defines the cross-domain messaging collaborator.
package bridge

import (
	"github.com/codexfield/codex-marketplace/internal/adapters/mq/relay"
	"github.com/codexfield/codex-marketplace/internal/domain/model"
)

// Option applies a configuration option to the InMemoryBridge.
type Option func(*InMemoryBridge)

// WithOrigin sets the account the bridge identifies itself with on callbacks.
func WithOrigin(origin model.Account) Option {
	return func(b *InMemoryBridge) {
		if origin != "" {
			b.origin = origin
		}
	}
}

// WithRelayFee sets the initial relay fee quote.
func WithRelayFee(fee uint64) Option {
	return func(b *InMemoryBridge) {
		b.fee.Store(fee)
	}
}

// WithWorkerCount sets the number of relay workers.
func WithWorkerCount(count int) Option {
	return func(b *InMemoryBridge) {
		if count > 0 {
			b.workerCount = count
		}
	}
}

// WithQueueSize bounds the admission request queue.
func WithQueueSize(size int) Option {
	return func(b *InMemoryBridge) {
		if size > 0 {
			b.queueSize = size
		}
	}
}

// WithWorkerOptions forwards extra options to every relay worker.
func WithWorkerOptions(opts ...relay.Option) Option {
	return func(b *InMemoryBridge) {
		b.workerOpts = append(b.workerOpts, opts...)
	}
}
