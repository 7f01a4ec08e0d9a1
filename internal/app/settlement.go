package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/codexfield/codex-marketplace/internal/adapters/repository"
	"github.com/codexfield/codex-marketplace/internal/domain/model"
	"github.com/codexfield/codex-marketplace/pkg/logger"
	"github.com/codexfield/codex-marketplace/pkg/metrics"
)

// checkPurchasable runs the purchase preconditions for one group and
// returns its listing. No state is written.
func (s *Service) checkPurchasable(ctx context.Context, caller model.Account, groupID uint64) (model.Listing, error) {
	listing, err := s.store.Get(ctx, groupID)
	if err != nil || !listing.ForSale() {
		return model.Listing{}, fmt.Errorf("group %d is not for sale: %w", groupID, ErrNotFound)
	}
	if s.store.HasMembership(ctx, repository.SetPurchased, caller, groupID) {
		return model.Listing{}, fmt.Errorf("caller %s already purchased group %d: %w", caller, groupID, ErrAlreadyExists)
	}
	// Defensive: the external registry is the source of truth for
	// admissions, including ones this marketplace never saw.
	member, err := s.registry.IsMember(ctx, caller, groupID)
	if err != nil {
		return model.Listing{}, fmt.Errorf("membership lookup for group %d: %w", groupID, err)
	}
	if member {
		return model.Listing{}, fmt.Errorf("caller %s is already a member of group %d: %w", caller, groupID, ErrAlreadyExists)
	}
	return listing, nil
}

// buildAdmission escrows one purchase into an admission request carrying
// the opaque settlement payload.
func (s *Service) buildAdmission(ctx context.Context, buyer model.Account, listing model.Listing, escrow uint64) (model.AdmissionRequest, error) {
	owner, err := s.registry.OwnerOf(ctx, listing.GroupID)
	if err != nil {
		return model.AdmissionRequest{}, fmt.Errorf("group %d: %w", listing.GroupID, ErrNotFound)
	}
	payload, err := model.EncodeSettlementPayload(owner, buyer, listing.Price)
	if err != nil {
		return model.AdmissionRequest{}, err
	}
	return model.AdmissionRequest{
		RequestID: uuid.NewString(),
		GroupID:   listing.GroupID,
		Member:    buyer,
		Escrow:    escrow,
		Payload:   payload,
	}, nil
}

// Buy escrows paid funds and forwards an admission request for one group.
// The call returns once the request is forwarded; the outcome arrives
// later through the settlement callback. The relay fee is quoted live
// and consumed whatever the outcome. Overpayment on this path is kept,
// not refunded; only the batch path reconciles leftover balance.
func (s *Service) Buy(ctx context.Context, caller model.Account, groupID, paid uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing, err := s.checkPurchasable(ctx, caller, groupID)
	if err != nil {
		return err
	}
	relayFee, err := s.relayer.RelayFee(ctx)
	if err != nil {
		return fmt.Errorf("relay fee quote: %w", err)
	}
	required := listing.Price + relayFee
	if paid < required {
		return fmt.Errorf("paid %d, need %d for group %d: %w", paid, required, groupID, ErrInsufficientFunds)
	}

	req, err := s.buildAdmission(ctx, caller, listing, required)
	if err != nil {
		return err
	}
	if err := s.relayer.SubmitAdmissionRequest(ctx, req); err != nil {
		return fmt.Errorf("forward admission request for group %d: %w", groupID, err)
	}

	metrics.RecordPurchaseSubmitted()
	s.logger.Info(ctx, "purchase forwarded to relay",
		logger.String("buyer", string(caller)),
		logger.Uint64("groupID", groupID),
		logger.Uint64("escrow", required),
	)
	return nil
}

// BuyBatch escrows one payment across several groups, all-or-nothing:
// every item is validated against a running remaining balance before a
// single request is forwarded, and the first shortfall aborts the whole
// batch. Leftover balance is refunded to refundAddress, falling back to
// the unclaimed ledger if the direct transfer fails; a relay rejection
// partway through forwarding returns the unforwarded escrow the same way.
func (s *Service) BuyBatch(ctx context.Context, caller model.Account, groupIDs []uint64, refundAddress model.Account, paid uint64) error {
	if len(groupIDs) == 0 {
		return fmt.Errorf("empty batch: %w", ErrInvalidArgument)
	}
	if refundAddress == "" {
		refundAddress = caller
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	remaining := paid
	seen := make(map[uint64]bool, len(groupIDs))
	requests := make([]model.AdmissionRequest, 0, len(groupIDs))

	for _, groupID := range groupIDs {
		if seen[groupID] {
			return fmt.Errorf("group %d repeated in batch: %w", groupID, ErrAlreadyExists)
		}
		seen[groupID] = true

		listing, err := s.checkPurchasable(ctx, caller, groupID)
		if err != nil {
			return err
		}
		// The fee fluctuates; re-read it for every item.
		relayFee, err := s.relayer.RelayFee(ctx)
		if err != nil {
			return fmt.Errorf("relay fee quote: %w", err)
		}
		required := listing.Price + relayFee
		if remaining < required {
			return fmt.Errorf("remaining %d, need %d for group %d: %w", remaining, required, groupID, ErrInsufficientFunds)
		}
		remaining -= required

		req, err := s.buildAdmission(ctx, caller, listing, required)
		if err != nil {
			return err
		}
		requests = append(requests, req)
	}

	for i, req := range requests {
		if err := s.relayer.SubmitAdmissionRequest(ctx, req); err != nil {
			// Requests already forwarded settle or refund through the
			// callback on their own; the escrow held for this and every
			// later item goes back with the leftover.
			for _, rest := range requests[i:] {
				remaining += rest.Escrow
			}
			if remaining > 0 {
				s.payOrCredit(ctx, refundAddress, remaining)
			}
			return fmt.Errorf("forward admission request for group %d: %w", req.GroupID, err)
		}
		metrics.RecordPurchaseSubmitted()
	}

	if remaining > 0 {
		s.payOrCredit(ctx, refundAddress, remaining)
	}
	return nil
}

// OnSettlementResult resolves a purchase reported by the relay. Only the
// configured trusted relayer may call it; the payload is the record the
// marketplace itself encoded at buy time.
//
// On success the owner is paid price minus the protocol fee and the fee
// goes to the treasury, both with the ledger fallback; the purchase is
// recorded and the sales boards updated. On failure the buyer is
// refunded the price, again with the fallback. The relay fee is consumed
// either way.
func (s *Service) OnSettlementResult(ctx context.Context, origin model.Account, status model.SettlementStatus, groupID uint64, payload []byte) error {
	if origin != s.trustedRelayer {
		return fmt.Errorf("settlement callback from %s: %w", origin, ErrUnauthorized)
	}
	record, err := model.DecodeSettlementPayload(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if status != model.SettlementSuccess {
		s.payOrCredit(ctx, record.Buyer, record.Price)
		s.notify(model.KindPurchaseFailed, record.Buyer, groupID, record.Price)
		metrics.RecordPurchaseFailed()
		s.logger.Warn(ctx, "purchase failed at settlement, buyer refunded",
			logger.String("buyer", string(record.Buyer)),
			logger.Uint64("groupID", groupID),
			logger.Uint64("refund", record.Price),
		)
		return nil
	}

	protocolFee := record.Price * s.feeRateBps / feeDenominator
	s.payOrCredit(ctx, record.Owner, record.Price-protocolFee)
	s.payOrCredit(ctx, s.treasury, protocolFee)

	if err := s.store.AddMembership(ctx, repository.SetPurchased, record.Buyer, groupID); err != nil && !errors.Is(err, repository.ErrAlreadyMember) {
		return err
	}
	totals := s.store.AddSale(ctx, groupID, record.Price)
	s.updateSales(ctx, groupID, totals)

	s.notify(model.KindPurchase, record.Buyer, groupID, record.Price)
	metrics.RecordPurchaseSettled(record.Price, protocolFee)
	s.logger.Info(ctx, "purchase settled",
		logger.String("buyer", string(record.Buyer)),
		logger.String("owner", string(record.Owner)),
		logger.Uint64("groupID", groupID),
		logger.Uint64("price", record.Price),
		logger.Uint64("protocolFee", protocolFee),
	)
	return nil
}
