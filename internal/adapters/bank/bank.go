// Package bank defines the push-payment collaborator.
//
// A push payment is a bounded, best-effort transfer: it can fail without
// aborting the caller, and every failed push must be compensated through
// the unclaimed-funds ledger by whoever attempted it.
package bank

import (
	"context"

	"github.com/codexfield/codex-marketplace/internal/domain/model"
)

// Bank attempts direct value transfers to accounts.
type Bank interface {
	// Pay transfers amount to the recipient. A returned error means the
	// recipient did not receive the funds; the caller decides how to
	// compensate.
	Pay(ctx context.Context, to model.Account, amount uint64) error
}
