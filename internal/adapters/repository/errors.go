package repository

import "errors"

// Sentinel kinds for listing store errors.
var (
	ErrAlreadyListed = errors.New("group already listed")
	ErrNotListed     = errors.New("group not listed")
	ErrAlreadyMember = errors.New("membership already recorded")
)
