package service

import (
	"context"
	"fmt"

	"github.com/codexfield/codex-marketplace/internal/adapters/repository"
	"github.com/codexfield/codex-marketplace/internal/domain/model"
	"github.com/codexfield/codex-marketplace/internal/domain/ranking"
	"github.com/codexfield/codex-marketplace/internal/domain/rating"
)

// ListingPage is one page of active listings with the true total.
type ListingPage struct {
	Listings []model.Listing `json:"listings"`
	Total    int             `json:"total"`
}

// BoardRow is one leaderboard row joined with its listing, when the
// group is still listed.
type BoardRow struct {
	GroupID uint64 `json:"group_id"`
	Value   uint64 `json:"value"`
	Price   uint64 `json:"price"`
	Listed  bool   `json:"listed"`
}

// RatingSummary is the aggregate rating view of one group.
type RatingSummary struct {
	Count   uint64 `json:"count"`
	Average uint64 `json:"average"` // scaled by rating.ScoreScale
}

// Listings pages through active listings in listing order.
func (s *Service) Listings(ctx context.Context, offset, limit int) ListingPage {
	s.mu.Lock()
	defer s.mu.Unlock()

	page := s.store.Listed(ctx, offset, limit)
	out := ListingPage{Listings: make([]model.Listing, 0, len(page.IDs)), Total: page.Total}
	for _, id := range page.IDs {
		listing, err := s.store.Get(ctx, id)
		if err != nil {
			continue
		}
		out.Listings = append(out.Listings, listing)
	}
	return out
}

// GetListing returns the active listing for one group.
func (s *Service) GetListing(ctx context.Context, groupID uint64) (model.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing, err := s.store.Get(ctx, groupID)
	if err != nil {
		return model.Listing{}, fmt.Errorf("group %d: %w", groupID, ErrNotFound)
	}
	return listing, nil
}

// UserHistory pages through one of an account's membership sets in
// insertion order.
func (s *Service) UserHistory(ctx context.Context, kind repository.MembershipKind, account model.Account, offset, limit int) (repository.Page, error) {
	for _, k := range repository.MembershipKinds() {
		if k == kind {
			s.mu.Lock()
			defer s.mu.Unlock()
			return s.store.Memberships(ctx, kind, account, offset, limit), nil
		}
	}
	return repository.Page{}, fmt.Errorf("unknown history kind %q: %w", kind, ErrInvalidArgument)
}

// Leaderboard returns the occupied rows of one board in rank order,
// each joined with its current listing price.
func (s *Service) Leaderboard(ctx context.Context, metric ranking.Metric) ([]BoardRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.boards.Top(ctx, metric)
	if err != nil {
		return nil, fmt.Errorf("metric %q: %w", metric, ErrInvalidArgument)
	}
	rows := make([]BoardRow, 0, len(entries))
	for _, e := range entries {
		row := BoardRow{GroupID: e.GroupID, Value: e.Value}
		if listing, err := s.store.Get(ctx, e.GroupID); err == nil {
			row.Price = listing.Price
			row.Listed = true
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Score returns the group's aggregate rating.
func (s *Service) Score(ctx context.Context, groupID uint64) RatingSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	agg := s.ratings.Aggregate(ctx, groupID)
	return RatingSummary{Count: agg.Count(), Average: agg.Average()}
}

// GroupTotals returns the group's running sale, star, and sponsorship
// counters.
func (s *Service) GroupTotals(ctx context.Context, groupID uint64) repository.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.GroupTotals(ctx, groupID)
}

// Notifications pages through the append-only event feed in order.
func (s *Service) Notifications(ctx context.Context, offset, limit int) ([]model.Notification, int) {
	return s.feed.page(offset, limit)
}

// ScoreScale exposes the fixed-point scale of rating averages to API
// consumers.
const ScoreScale = rating.ScoreScale
