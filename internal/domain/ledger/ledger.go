// Package ledger tracks unclaimed balances owed to accounts.
//
// The ledger is the universal fallback for push payouts: whenever a
// direct transfer fails, the amount is credited here and the recipient
// pulls it later with Claim. Money is never dropped on a failed push.
package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/codexfield/codex-marketplace/internal/domain/model"
)

// Payer attempts a push payment. A returned error means the recipient
// did not receive the funds.
type Payer interface {
	Pay(ctx context.Context, to model.Account, amount uint64) error
}

// Ledger holds per-account owed amounts.
type Ledger struct {
	mu   sync.Mutex
	owed map[model.Account]uint64
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{owed: make(map[model.Account]uint64)}
}

// Credit adds amount to the account's owed balance.
func (l *Ledger) Credit(ctx context.Context, account model.Account, amount uint64) {
	if amount == 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.owed[account] += amount
}

// Balance returns the account's current owed amount.
func (l *Ledger) Balance(ctx context.Context, account model.Account) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.owed[account]
}

// Outstanding returns the sum of all owed balances.
func (l *Ledger) Outstanding(ctx context.Context) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	var total uint64
	for _, amount := range l.owed {
		total += amount
	}
	return total
}

// Claim pays out the account's full owed balance. The balance is zeroed
// strictly before the payout attempt so a re-entering caller cannot
// claim the same amount twice while a payout is in flight; if the payout
// then fails, the zeroing is rolled back and the claim fails loudly.
// Either the balance resets to zero and the payout succeeds, or neither
// happens.
func (l *Ledger) Claim(ctx context.Context, account model.Account, payer Payer) (uint64, error) {
	l.mu.Lock()
	owed := l.owed[account]
	if owed == 0 {
		l.mu.Unlock()
		return 0, ErrNothingOwed
	}
	delete(l.owed, account)
	l.mu.Unlock()

	if err := payer.Pay(ctx, account, owed); err != nil {
		l.mu.Lock()
		l.owed[account] += owed
		l.mu.Unlock()
		return 0, fmt.Errorf("%w: %v", ErrClaimPayout, err)
	}
	return owed, nil
}
