package bridge

import "errors"

// Sentinel kinds for bridge errors.
var (
	ErrRelayUnavailable = errors.New("relay unavailable")
)
