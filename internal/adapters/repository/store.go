// Package repository defines the listing state store interface and errors.
package repository

import (
	"context"

	"github.com/codexfield/codex-marketplace/internal/domain/model"
)

// MembershipKind names one of the per-user membership sets.
type MembershipKind string

// The five tracked membership sets. Entries are insertion-ordered and
// each (account, group) pair is added at most once.
const (
	SetListed    MembershipKind = "listed"
	SetPurchased MembershipKind = "purchased"
	SetStarred   MembershipKind = "starred"
	SetSponsored MembershipKind = "sponsored"
	SetRated     MembershipKind = "rated"
)

// MembershipKinds lists every tracked membership set.
func MembershipKinds() []MembershipKind {
	return []MembershipKind{SetListed, SetPurchased, SetStarred, SetSponsored, SetRated}
}

// Totals carries the per-group running counters the ranking boards feed on.
type Totals struct {
	SalesVolume    uint64 `json:"sales_volume"`
	SalesRevenue   uint64 `json:"sales_revenue"`
	StarCount      uint64 `json:"star_count"`
	SponsorRevenue uint64 `json:"sponsor_revenue"`
}

// Page is the uniform pagination result: up to limit ids starting at
// offset, plus the true total size of the set. An offset at or past the
// end yields an empty page with the correct total, never an error.
type Page struct {
	IDs   []uint64 `json:"ids"`
	Total int      `json:"total"`
}

// Store provides read/write access to listing and membership state.
type Store interface {
	// Create records a new listing.
	// Returns ErrAlreadyListed if the group has an active listing.
	Create(ctx context.Context, listing model.Listing) error

	// Get returns the active listing for a group.
	// Returns ErrNotListed if absent.
	Get(ctx context.Context, groupID uint64) (model.Listing, error)

	// SetPrice updates the price of an active listing.
	SetPrice(ctx context.Context, groupID, price uint64) error

	// Delete removes an active listing.
	Delete(ctx context.Context, groupID uint64) error

	// Count returns the number of active listings.
	Count(ctx context.Context) int

	// Listed pages through all active listings in listing order.
	Listed(ctx context.Context, offset, limit int) Page

	// AddMembership records a group in an account's set.
	// Returns ErrAlreadyMember if the pair was already recorded.
	AddMembership(ctx context.Context, kind MembershipKind, account model.Account, groupID uint64) error

	// RemoveMembership drops a group from an account's set. No-op if absent.
	RemoveMembership(ctx context.Context, kind MembershipKind, account model.Account, groupID uint64)

	// HasMembership reports whether the pair is recorded.
	HasMembership(ctx context.Context, kind MembershipKind, account model.Account, groupID uint64) bool

	// Memberships pages through an account's set in insertion order.
	Memberships(ctx context.Context, kind MembershipKind, account model.Account, offset, limit int) Page

	// AddSale bumps the group's sales counters and returns the new totals.
	AddSale(ctx context.Context, groupID, price uint64) Totals

	// AddStar bumps the group's star counter and returns the new totals.
	AddStar(ctx context.Context, groupID uint64) Totals

	// AddSponsorship bumps the group's sponsor revenue and returns the new totals.
	AddSponsorship(ctx context.Context, groupID, amount uint64) Totals

	// GroupTotals returns the group's current counters.
	GroupTotals(ctx context.Context, groupID uint64) Totals
}
