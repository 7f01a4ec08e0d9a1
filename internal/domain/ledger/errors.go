package ledger

import "errors"

// Sentinel kinds for ledger errors.
var (
	ErrNothingOwed = errors.New("nothing owed")
	ErrClaimPayout = errors.New("claim payout failed")
)
