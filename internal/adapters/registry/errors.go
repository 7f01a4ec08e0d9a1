package registry

import "errors"

// Sentinel kinds for registry errors.
var (
	ErrUnknownGroup    = errors.New("unknown group")
	ErrAlreadyMember   = errors.New("already a member")
	ErrAdmissionDenied = errors.New("admission denied")
)
