// Package registry defines the external membership/ownership registry contract.
//
// The registry is the source of truth for who owns a group and who has
// been admitted to it. The marketplace queries it synchronously and
// treats any failure as an immediate operation failure; admission writes
// happen only through the relay, never directly from the marketplace.
package registry

import (
	"context"

	"github.com/codexfield/codex-marketplace/internal/domain/model"
)

// Registry exposes the ownership and membership reads the marketplace needs.
type Registry interface {
	// OwnerOf returns the current owner of a group.
	// Returns ErrUnknownGroup for a nonexistent group.
	OwnerOf(ctx context.Context, groupID uint64) (model.Account, error)

	// HasAdmissionRole reports whether owner has pre-authorized delegate
	// to modify group membership on their behalf.
	HasAdmissionRole(ctx context.Context, owner, delegate model.Account) (bool, error)

	// IsMember reports whether account has been admitted to the group.
	IsMember(ctx context.Context, account model.Account, groupID uint64) (bool, error)
}

// Admitter performs the actual membership write. Only the relay layer
// drives it; the marketplace never calls it directly.
type Admitter interface {
	Admit(ctx context.Context, account model.Account, groupID uint64) error
}
