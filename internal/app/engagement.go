package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/codexfield/codex-marketplace/internal/adapters/repository"
	"github.com/codexfield/codex-marketplace/internal/domain/model"
	"github.com/codexfield/codex-marketplace/internal/domain/ranking"
	"github.com/codexfield/codex-marketplace/internal/domain/rating"
	"github.com/codexfield/codex-marketplace/pkg/metrics"
)

// Star marks a listed group as a favorite of the caller. At most one
// star per account per group; stars feed the stars board.
func (s *Service) Star(ctx context.Context, caller model.Account, groupID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.Get(ctx, groupID); err != nil {
		return fmt.Errorf("group %d: %w", groupID, ErrNotFound)
	}
	if err := s.store.AddMembership(ctx, repository.SetStarred, caller, groupID); err != nil {
		if errors.Is(err, repository.ErrAlreadyMember) {
			return fmt.Errorf("caller %s already starred group %d: %w", caller, groupID, ErrAlreadyExists)
		}
		return err
	}

	totals := s.store.AddStar(ctx, groupID)
	if _, err := s.boards.Upsert(ctx, ranking.MetricStars, groupID, totals.StarCount); err == nil {
		metrics.RecordBoardUpdate()
	}
	s.notify(model.KindStar, caller, groupID, 0)
	return nil
}

// Sponsor donates amount to a listed group's owner. Sponsorships
// accumulate per group and feed the sponsor revenue board; the amount
// goes to the owner with the ledger fallback.
func (s *Service) Sponsor(ctx context.Context, caller model.Account, groupID, amount uint64) error {
	if amount == 0 {
		return fmt.Errorf("zero sponsorship amount: %w", ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.Get(ctx, groupID); err != nil {
		return fmt.Errorf("group %d: %w", groupID, ErrNotFound)
	}
	owner, err := s.registry.OwnerOf(ctx, groupID)
	if err != nil {
		return fmt.Errorf("group %d: %w", groupID, ErrNotFound)
	}

	// Repeat sponsorships are welcome; the membership set only tracks
	// that the account sponsored the group at least once.
	if err := s.store.AddMembership(ctx, repository.SetSponsored, caller, groupID); err != nil && !errors.Is(err, repository.ErrAlreadyMember) {
		return err
	}
	totals := s.store.AddSponsorship(ctx, groupID, amount)
	if _, err := s.boards.Upsert(ctx, ranking.MetricSponsorRevenue, groupID, totals.SponsorRevenue); err == nil {
		metrics.RecordBoardUpdate()
	}

	s.payOrCredit(ctx, owner, amount)
	s.notify(model.KindSponsor, caller, groupID, amount)
	return nil
}

// Rate records the caller's score for a group they purchased. One
// rating per buyer per group, permanent once recorded.
func (s *Service) Rate(ctx context.Context, caller model.Account, groupID, score uint64) error {
	if score == 0 || score > rating.MaxScore {
		return fmt.Errorf("score %d outside [1, %d]: %w", score, rating.MaxScore, ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.store.HasMembership(ctx, repository.SetPurchased, caller, groupID) {
		return fmt.Errorf("caller %s has not purchased group %d: %w", caller, groupID, ErrUnauthorized)
	}
	if err := s.store.AddMembership(ctx, repository.SetRated, caller, groupID); err != nil {
		if errors.Is(err, repository.ErrAlreadyMember) {
			return fmt.Errorf("caller %s already rated group %d: %w", caller, groupID, ErrAlreadyExists)
		}
		return err
	}
	if _, err := s.ratings.Rate(ctx, groupID, score); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	s.notify(model.KindRate, caller, groupID, score)
	return nil
}
