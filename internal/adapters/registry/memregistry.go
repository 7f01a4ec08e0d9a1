package registry

import (
	"context"
	"sync"

	"github.com/codexfield/codex-marketplace/internal/domain/model"
)

// InMemoryRegistry implements Registry and Admitter with in-process maps.
// It stands in for the remote registry in local deployments and tests.
type InMemoryRegistry struct {
	mu         sync.RWMutex
	owners     map[uint64]model.Account
	delegates  map[model.Account]map[model.Account]bool
	members    map[uint64]map[model.Account]bool
	denyAdmits bool
}

// NewInMemoryRegistry creates an empty registry.
func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{
		owners:    make(map[uint64]model.Account),
		delegates: make(map[model.Account]map[model.Account]bool),
		members:   make(map[uint64]map[model.Account]bool),
	}
}

// SetOwner registers or transfers group ownership.
func (r *InMemoryRegistry) SetOwner(ctx context.Context, groupID uint64, owner model.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owners[groupID] = owner
}

// GrantAdmissionRole lets delegate manage membership on owner's behalf.
func (r *InMemoryRegistry) GrantAdmissionRole(ctx context.Context, owner, delegate model.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.delegates[owner] == nil {
		r.delegates[owner] = make(map[model.Account]bool)
	}
	r.delegates[owner][delegate] = true
}

// RevokeAdmissionRole withdraws a previously granted role.
func (r *InMemoryRegistry) RevokeAdmissionRole(ctx context.Context, owner, delegate model.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.delegates[owner], delegate)
}

// FailAdmissions makes every subsequent Admit call fail. Used to drive
// the settlement failure branch in local deployments and tests.
func (r *InMemoryRegistry) FailAdmissions(fail bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.denyAdmits = fail
}

// OwnerOf returns the current owner of a group.
func (r *InMemoryRegistry) OwnerOf(ctx context.Context, groupID uint64) (model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	owner, ok := r.owners[groupID]
	if !ok {
		return "", ErrUnknownGroup
	}
	return owner, nil
}

// HasAdmissionRole reports whether delegate may manage owner's groups.
func (r *InMemoryRegistry) HasAdmissionRole(ctx context.Context, owner, delegate model.Account) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.delegates[owner][delegate], nil
}

// IsMember reports whether account was admitted to the group.
func (r *InMemoryRegistry) IsMember(ctx context.Context, account model.Account, groupID uint64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.members[groupID][account], nil
}

// Admit records the membership write the relay performs.
func (r *InMemoryRegistry) Admit(ctx context.Context, account model.Account, groupID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.denyAdmits {
		return ErrAdmissionDenied
	}
	if _, ok := r.owners[groupID]; !ok {
		return ErrUnknownGroup
	}
	if r.members[groupID][account] {
		return ErrAlreadyMember
	}
	if r.members[groupID] == nil {
		r.members[groupID] = make(map[model.Account]bool)
	}
	r.members[groupID][account] = true
	return nil
}
