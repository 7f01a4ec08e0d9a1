package repository

import (
	"context"
	"sync"

	"github.com/codexfield/codex-marketplace/internal/domain/model"
)

// orderedSet keeps group ids in insertion order with O(1) lookups.
type orderedSet struct {
	ids   []uint64
	index map[uint64]int
}

func newOrderedSet() *orderedSet {
	return &orderedSet{index: make(map[uint64]int)}
}

func (s *orderedSet) add(id uint64) bool {
	if _, ok := s.index[id]; ok {
		return false
	}
	s.index[id] = len(s.ids)
	s.ids = append(s.ids, id)
	return true
}

func (s *orderedSet) remove(id uint64) bool {
	pos, ok := s.index[id]
	if !ok {
		return false
	}
	// Preserve insertion order for the survivors.
	s.ids = append(s.ids[:pos], s.ids[pos+1:]...)
	delete(s.index, id)
	for i := pos; i < len(s.ids); i++ {
		s.index[s.ids[i]] = i
	}
	return true
}

func (s *orderedSet) has(id uint64) bool {
	_, ok := s.index[id]
	return ok
}

// page applies the uniform pagination contract to the set.
func (s *orderedSet) page(offset, limit int) Page {
	total := len(s.ids)
	if offset < 0 || limit < 0 || offset >= total {
		return Page{IDs: []uint64{}, Total: total}
	}
	end := offset + limit
	if end > total {
		end = total
	}
	ids := make([]uint64, end-offset)
	copy(ids, s.ids[offset:end])
	return Page{IDs: ids, Total: total}
}

// InMemoryStore implements Store with in-process maps.
type InMemoryStore struct {
	mu          sync.RWMutex
	listings    map[uint64]model.Listing
	listedOrder *orderedSet
	memberships map[MembershipKind]map[model.Account]*orderedSet
	totals      map[uint64]Totals
}

// NewInMemoryStore creates an empty listing store.
func NewInMemoryStore(ctx context.Context) *InMemoryStore {
	s := &InMemoryStore{
		listings:    make(map[uint64]model.Listing),
		listedOrder: newOrderedSet(),
		memberships: make(map[MembershipKind]map[model.Account]*orderedSet),
		totals:      make(map[uint64]Totals),
	}
	for _, kind := range MembershipKinds() {
		s.memberships[kind] = make(map[model.Account]*orderedSet)
	}
	return s
}

// Create records a new listing.
func (s *InMemoryStore) Create(ctx context.Context, listing model.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.listings[listing.GroupID]; ok {
		return ErrAlreadyListed
	}
	s.listings[listing.GroupID] = listing
	s.listedOrder.add(listing.GroupID)
	return nil
}

// Get returns the active listing for a group.
func (s *InMemoryStore) Get(ctx context.Context, groupID uint64) (model.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	listing, ok := s.listings[groupID]
	if !ok {
		return model.Listing{}, ErrNotListed
	}
	return listing, nil
}

// SetPrice updates the price of an active listing.
func (s *InMemoryStore) SetPrice(ctx context.Context, groupID, price uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing, ok := s.listings[groupID]
	if !ok {
		return ErrNotListed
	}
	listing.Price = price
	s.listings[groupID] = listing
	return nil
}

// Delete removes an active listing.
func (s *InMemoryStore) Delete(ctx context.Context, groupID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.listings[groupID]; !ok {
		return ErrNotListed
	}
	delete(s.listings, groupID)
	s.listedOrder.remove(groupID)
	return nil
}

// Count returns the number of active listings.
func (s *InMemoryStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listings)
}

// Listed pages through all active listings in listing order.
func (s *InMemoryStore) Listed(ctx context.Context, offset, limit int) Page {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listedOrder.page(offset, limit)
}

// AddMembership records a group in an account's set.
func (s *InMemoryStore) AddMembership(ctx context.Context, kind MembershipKind, account model.Account, groupID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sets, ok := s.memberships[kind]
	if !ok {
		sets = make(map[model.Account]*orderedSet)
		s.memberships[kind] = sets
	}
	set := sets[account]
	if set == nil {
		set = newOrderedSet()
		sets[account] = set
	}
	if !set.add(groupID) {
		return ErrAlreadyMember
	}
	return nil
}

// RemoveMembership drops a group from an account's set.
func (s *InMemoryStore) RemoveMembership(ctx context.Context, kind MembershipKind, account model.Account, groupID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if set := s.memberships[kind][account]; set != nil {
		set.remove(groupID)
	}
}

// HasMembership reports whether the pair is recorded.
func (s *InMemoryStore) HasMembership(ctx context.Context, kind MembershipKind, account model.Account, groupID uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := s.memberships[kind][account]
	return set != nil && set.has(groupID)
}

// Memberships pages through an account's set in insertion order.
func (s *InMemoryStore) Memberships(ctx context.Context, kind MembershipKind, account model.Account, offset, limit int) Page {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := s.memberships[kind][account]
	if set == nil {
		return Page{IDs: []uint64{}, Total: 0}
	}
	return set.page(offset, limit)
}

// AddSale bumps the group's sales counters.
func (s *InMemoryStore) AddSale(ctx context.Context, groupID, price uint64) Totals {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.totals[groupID]
	t.SalesVolume++
	t.SalesRevenue += price
	s.totals[groupID] = t
	return t
}

// AddStar bumps the group's star counter.
func (s *InMemoryStore) AddStar(ctx context.Context, groupID uint64) Totals {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.totals[groupID]
	t.StarCount++
	s.totals[groupID] = t
	return t
}

// AddSponsorship bumps the group's sponsor revenue.
func (s *InMemoryStore) AddSponsorship(ctx context.Context, groupID, amount uint64) Totals {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.totals[groupID]
	t.SponsorRevenue += amount
	s.totals[groupID] = t
	return t
}

// GroupTotals returns the group's current counters.
func (s *InMemoryStore) GroupTotals(ctx context.Context, groupID uint64) Totals {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totals[groupID]
}
