package ranking

import "errors"

// Sentinel kinds for ranking errors.
var (
	ErrUnknownMetric = errors.New("unknown ranking metric")
)
