package bank

import (
	"context"
	"errors"
	"sync"

	"github.com/codexfield/codex-marketplace/internal/domain/model"
)

// ErrTransferRejected reports a recipient that refuses transfers.
var ErrTransferRejected = errors.New("transfer rejected by recipient")

// InMemoryBank implements Bank with in-process balances. Recipients can
// be marked as rejecting to exercise the ledger fallback path.
type InMemoryBank struct {
	mu        sync.Mutex
	balances  map[model.Account]uint64
	rejecting map[model.Account]bool
}

// NewInMemoryBank creates an empty bank.
func NewInMemoryBank() *InMemoryBank {
	return &InMemoryBank{
		balances:  make(map[model.Account]uint64),
		rejecting: make(map[model.Account]bool),
	}
}

// Reject toggles whether the account refuses incoming transfers.
func (b *InMemoryBank) Reject(account model.Account, reject bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rejecting[account] = reject
}

// Pay credits the recipient unless it is marked rejecting.
func (b *InMemoryBank) Pay(ctx context.Context, to model.Account, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.rejecting[to] {
		return ErrTransferRejected
	}
	b.balances[to] += amount
	return nil
}

// Balance returns the total amount received by an account.
func (b *InMemoryBank) Balance(account model.Account) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balances[account]
}

// TotalReceived returns the sum of every balance held by the bank.
func (b *InMemoryBank) TotalReceived() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	var total uint64
	for _, amount := range b.balances {
		total += amount
	}
	return total
}
