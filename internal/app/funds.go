package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/codexfield/codex-marketplace/internal/domain/ledger"
	"github.com/codexfield/codex-marketplace/internal/domain/model"
	"github.com/codexfield/codex-marketplace/pkg/logger"
	"github.com/codexfield/codex-marketplace/pkg/metrics"
)

// Claim pays the caller their full unclaimed balance and returns the
// amount paid. The balance is zeroed before the payout and restored if
// the payout fails, so a retried claim never pays twice.
func (s *Service) Claim(ctx context.Context, caller model.Account) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	amount, err := s.funds.Claim(ctx, caller, s.bank)
	if err != nil {
		if errors.Is(err, ledger.ErrNothingOwed) {
			return 0, fmt.Errorf("account %s: %w", caller, ErrInvalidArgument)
		}
		if errors.Is(err, ledger.ErrClaimPayout) {
			return 0, fmt.Errorf("claim for %s: %w", caller, ErrPayoutFailed)
		}
		return 0, err
	}

	metrics.RecordClaimSettled()
	metrics.UpdateLedgerOutstanding(s.funds.Outstanding(ctx))
	s.logger.Info(ctx, "unclaimed funds paid out",
		logger.String("account", string(caller)),
		logger.Uint64("amount", amount),
	)
	return amount, nil
}

// UnclaimedBalance reports the caller's current unclaimed balance.
func (s *Service) UnclaimedBalance(ctx context.Context, account model.Account) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.funds.Balance(ctx, account)
}
