// Package service provides the core marketplace service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"

	bankadapter "github.com/codexfield/codex-marketplace/internal/adapters/bank"
	"github.com/codexfield/codex-marketplace/internal/adapters/bridge"
	"github.com/codexfield/codex-marketplace/internal/adapters/mq/relay"
	"github.com/codexfield/codex-marketplace/internal/adapters/registry"
	"github.com/codexfield/codex-marketplace/internal/adapters/repository"
	"github.com/codexfield/codex-marketplace/internal/domain/ledger"
	"github.com/codexfield/codex-marketplace/internal/domain/model"
	"github.com/codexfield/codex-marketplace/internal/domain/ranking"
	"github.com/codexfield/codex-marketplace/internal/domain/rating"
	"github.com/codexfield/codex-marketplace/pkg/logger"
	"github.com/codexfield/codex-marketplace/pkg/metrics"
)

// feeDenominator converts basis points to a fraction.
const feeDenominator = 10000

// Service implements the marketplace: listing registry operations, the
// settlement protocol, engagement operations, and the read surfaces.
//
// Every mutating operation runs to completion under one lock, so each
// is an atomic transaction relative to all others. The only gap in the
// protocol is the externally observed one between a forwarded admission
// request and its settlement callback, and during that gap the only
// state is the opaque payload carried by the relay.
type Service struct {
	mu sync.Mutex

	// Core components
	store   repository.Store
	boards  *ranking.Set
	funds   *ledger.Ledger
	ratings *rating.Tracker
	feed    *feed

	// External collaborators
	registry registry.Registry
	admitter registry.Admitter
	relayer  bridge.Relayer
	bank     bankadapter.Bank
	bridge   *bridge.InMemoryBridge // set only when the service owns the pipeline

	// Configuration
	identity       model.Account // delegate account owners pre-authorize
	treasury       model.Account // protocol fee collection account
	trustedRelayer model.Account // only accepted settlement callback origin
	feeRateBps     uint64
	relayWorkers   int
	relayQueueSize int
	relayFee       uint64
	relayOpts      []relay.Option

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithIdentity sets the delegate account the marketplace acts as.
func WithIdentity(account model.Account) Option {
	return func(s *Service) {
		if account != "" {
			s.identity = account
		}
	}
}

// WithTreasury sets the protocol fee collection account.
func WithTreasury(account model.Account) Option {
	return func(s *Service) {
		if account != "" {
			s.treasury = account
		}
	}
}

// WithFeeRateBps sets the protocol fee rate in basis points.
func WithFeeRateBps(bps uint64) Option {
	return func(s *Service) {
		s.feeRateBps = bps
	}
}

// WithTrustedRelayer sets the only accepted settlement callback origin.
func WithTrustedRelayer(account model.Account) Option {
	return func(s *Service) {
		if account != "" {
			s.trustedRelayer = account
		}
	}
}

// WithRegistry sets the external membership/ownership registry.
func WithRegistry(r registry.Registry) Option {
	return func(s *Service) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithAdmitter sets the admitter the owned bridge drains into.
func WithAdmitter(a registry.Admitter) Option {
	return func(s *Service) {
		if a != nil {
			s.admitter = a
		}
	}
}

// WithRelayer sets an external relayer, replacing the owned bridge.
func WithRelayer(r bridge.Relayer) Option {
	return func(s *Service) {
		if r != nil {
			s.relayer = r
		}
	}
}

// WithBank sets the push-payment collaborator.
func WithBank(b bankadapter.Bank) Option {
	return func(s *Service) {
		if b != nil {
			s.bank = b
		}
	}
}

// WithStore sets a custom listing store.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithRelayWorkers sets the owned bridge's worker count.
func WithRelayWorkers(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.relayWorkers = count
		}
	}
}

// WithRelayQueueSize bounds the owned bridge's admission queue.
func WithRelayQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.relayQueueSize = size
		}
	}
}

// WithRelayFee sets the owned bridge's initial fee quote.
func WithRelayFee(fee uint64) Option {
	return func(s *Service) {
		s.relayFee = fee
	}
}

// WithRelayOptions forwards extra options to the owned bridge's workers.
func WithRelayOptions(opts ...relay.Option) Option {
	return func(s *Service) {
		s.relayOpts = append(s.relayOpts, opts...)
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		identity:   "marketplace",
		treasury:   "treasury",
		feeRateBps: 100, // 1%
		logger:     nil, // replaced when the service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.feeRateBps > feeDenominator {
		return fmt.Errorf("%w: fee rate %d exceeds %d basis points", ErrInvalidArgument, s.feeRateBps, feeDenominator)
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting marketplace service...")

	// Initialize components
	if s.store == nil {
		s.store = repository.NewInMemoryStore(ctx)
	}
	s.boards = ranking.NewSet()
	s.funds = ledger.New()
	s.ratings = rating.NewTracker()
	s.feed = newFeed()

	if s.registry == nil {
		mem := registry.NewInMemoryRegistry()
		s.registry = mem
		if s.admitter == nil {
			s.admitter = mem
		}
	}
	if s.bank == nil {
		s.bank = bankadapter.NewInMemoryBank()
	}

	// Own the relay pipeline unless an external relayer was injected.
	if s.relayer == nil {
		if s.admitter == nil {
			return fmt.Errorf("%w: no relayer and no admitter to build one from", ErrInvalidArgument)
		}
		b := bridge.New(s.admitter,
			bridge.WithRelayFee(s.relayFee),
			bridge.WithWorkerCount(s.relayWorkers),
			bridge.WithQueueSize(s.relayQueueSize),
			bridge.WithWorkerOptions(s.relayOpts...),
		)
		if err := b.Start(ctx, s); err != nil {
			return fmt.Errorf("start bridge: %w", err)
		}
		s.relayer = b
		s.bridge = b
		if s.trustedRelayer == "" {
			s.trustedRelayer = b.Origin()
		}
	}
	if s.trustedRelayer == "" {
		return fmt.Errorf("%w: trusted relayer origin not configured", ErrInvalidArgument)
	}

	s.started = true
	s.logger.Info(ctx, "marketplace service started",
		logger.String("identity", string(s.identity)),
		logger.String("treasury", string(s.treasury)),
		logger.Uint64("feeRateBps", s.feeRateBps),
		logger.String("trustedRelayer", string(s.trustedRelayer)),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	b := s.bridge
	log := s.logger
	s.mu.Unlock()

	log.Info(context.Background(), "stopping marketplace service...")

	// Workers draining the pipeline re-enter through the settlement
	// callback, which takes the service lock; it must not be held while
	// waiting for them to finish.
	if b != nil {
		b.Stop(context.Background())
	}

	log.Info(context.Background(), "marketplace service stopped")
}

// payOrCredit attempts a direct push payout and credits the unclaimed
// ledger if it fails. The attempt and the fallback form one atomic step
// under the service lock: either the transfer succeeds or the ledger is
// credited, never both and never neither. A failed push never aborts
// the enclosing operation.
func (s *Service) payOrCredit(ctx context.Context, to model.Account, amount uint64) {
	if amount == 0 {
		return
	}
	if err := s.bank.Pay(ctx, to, amount); err != nil {
		s.funds.Credit(ctx, to, amount)
		metrics.RecordFallbackCredit()
		metrics.UpdateLedgerOutstanding(s.funds.Outstanding(ctx))
		s.logger.Warn(ctx, "direct payout failed, credited to unclaimed ledger",
			logger.String("to", string(to)),
			logger.Uint64("amount", amount),
			logger.Error(err),
		)
		return
	}
	metrics.RecordDirectPayout()
}

// notify appends to the feed.
func (s *Service) notify(kind model.NotificationKind, actor model.Account, groupID, amount uint64) {
	s.feed.append(model.NewNotification(kind, actor, groupID, amount))
}

// updateSales applies a settled sale to the volume and revenue boards.
func (s *Service) updateSales(ctx context.Context, groupID uint64, totals repository.Totals) {
	if _, err := s.boards.Upsert(ctx, ranking.MetricSalesVolume, groupID, totals.SalesVolume); err == nil {
		metrics.RecordBoardUpdate()
	}
	if _, err := s.boards.Upsert(ctx, ranking.MetricSalesRevenue, groupID, totals.SalesRevenue); err == nil {
		metrics.RecordBoardUpdate()
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":    s.started,
		"feeRateBps": s.feeRateBps,
	}

	if s.started {
		listings := s.store.Count(ctx)
		stats["listings"] = listings
		stats["ledgerOutstanding"] = s.funds.Outstanding(ctx)
		if s.bridge != nil {
			stats["relayBacklog"] = s.bridge.Len(ctx)
		}
		metrics.UpdateActiveListings(listings)
	}

	return stats
}
