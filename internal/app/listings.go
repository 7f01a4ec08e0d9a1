package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/codexfield/codex-marketplace/internal/adapters/repository"
	"github.com/codexfield/codex-marketplace/internal/domain/model"
	"github.com/codexfield/codex-marketplace/pkg/logger"
	"github.com/codexfield/codex-marketplace/pkg/metrics"
)

// requireOwner resolves the group's owner and checks the caller against it.
func (s *Service) requireOwner(ctx context.Context, caller model.Account, groupID uint64) (model.Account, error) {
	owner, err := s.registry.OwnerOf(ctx, groupID)
	if err != nil {
		return "", fmt.Errorf("group %d: %w", groupID, ErrNotFound)
	}
	if owner != caller {
		return "", fmt.Errorf("caller %s is not the owner of group %d: %w", caller, groupID, ErrUnauthorized)
	}
	return owner, nil
}

// List puts a group up for sale. The caller must own the group and must
// have pre-authorized the marketplace to manage its membership.
func (s *Service) List(ctx context.Context, caller model.Account, groupID, price uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.requireOwner(ctx, caller, groupID); err != nil {
		return err
	}
	granted, err := s.registry.HasAdmissionRole(ctx, caller, s.identity)
	if err != nil {
		return fmt.Errorf("admission role lookup for group %d: %w", groupID, err)
	}
	if !granted {
		return fmt.Errorf("caller %s has not granted the admission role to %s: %w", caller, s.identity, ErrUnauthorized)
	}

	listing := model.Listing{GroupID: groupID, Price: price, ListedAt: time.Now().UTC()}
	if err := s.store.Create(ctx, listing); err != nil {
		if errors.Is(err, repository.ErrAlreadyListed) {
			return fmt.Errorf("group %d: %w", groupID, ErrAlreadyExists)
		}
		return err
	}
	if err := s.store.AddMembership(ctx, repository.SetListed, caller, groupID); err != nil && !errors.Is(err, repository.ErrAlreadyMember) {
		return err
	}

	metrics.UpdateActiveListings(s.store.Count(ctx))
	s.notify(model.KindList, caller, groupID, price)
	s.logger.Info(ctx, "group listed",
		logger.String("caller", string(caller)),
		logger.Uint64("groupID", groupID),
		logger.Uint64("price", price),
	)
	return nil
}

// SetPrice updates the price of an active listing. Owner only.
func (s *Service) SetPrice(ctx context.Context, caller model.Account, groupID, price uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.requireOwner(ctx, caller, groupID); err != nil {
		return err
	}
	if err := s.store.SetPrice(ctx, groupID, price); err != nil {
		if errors.Is(err, repository.ErrNotListed) {
			return fmt.Errorf("group %d: %w", groupID, ErrNotFound)
		}
		return err
	}

	s.notify(model.KindPriceUpdated, caller, groupID, price)
	return nil
}

// Delist withdraws a listing. Owner only. The group disappears from all
// ranking boards; escrowed or owed funds are untouched.
func (s *Service) Delist(ctx context.Context, caller model.Account, groupID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.requireOwner(ctx, caller, groupID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, groupID); err != nil {
		if errors.Is(err, repository.ErrNotListed) {
			return fmt.Errorf("group %d: %w", groupID, ErrNotFound)
		}
		return err
	}
	s.store.RemoveMembership(ctx, repository.SetListed, caller, groupID)
	s.boards.RemoveEverywhere(ctx, groupID)

	metrics.UpdateActiveListings(s.store.Count(ctx))
	s.notify(model.KindDelist, caller, groupID, 0)
	return nil
}
