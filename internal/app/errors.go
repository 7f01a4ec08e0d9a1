package service

import "errors"

// Sentinel kinds for marketplace operation failures. Callers classify
// with errors.Is; messages carry the specifics.
var (
	// ErrNotFound reports an absent group or listing.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized reports a caller that is not the owner, lacks the
	// delegated admission role, or is not the trusted callback origin.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrAlreadyExists reports a duplicate listing, purchase, star,
	// sponsorship membership, or rating.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidArgument reports a zero amount, out-of-range score, or
	// an otherwise malformed request.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInsufficientFunds reports a paid amount below price plus relay fee.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrPayoutFailed reports a claim whose payout did not succeed.
	ErrPayoutFailed = errors.New("payout failed")
)
