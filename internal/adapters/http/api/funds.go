// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/codexfield/codex-marketplace/internal/domain/model"
)

// FundsDependencies defines the interface for unclaimed funds operations.
type FundsDependencies interface {
	Claim(ctx context.Context, caller model.Account) (uint64, error)
	UnclaimedBalance(ctx context.Context, account model.Account) uint64
}

// FundsHandler handles unclaimed funds requests.
type FundsHandler struct {
	deps FundsDependencies
}

// NewFundsHandler creates a new funds handler.
func NewFundsHandler(deps FundsDependencies) *FundsHandler {
	return &FundsHandler{deps: deps}
}

type claimResponse struct {
	Amount uint64 `json:"amount"`
}

type balanceResponse struct {
	Account string `json:"account"`
	Balance uint64 `json:"balance"`
}

// HandleClaim handles POST /claim requests.
func (h *FundsHandler) HandleClaim(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	caller, err := callerAccount(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "missing_account", err)
		return
	}
	amount, err := h.deps.Claim(r.Context(), caller)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, claimResponse{Amount: amount})
}

// HandleBalance handles GET /balance requests for the calling account.
func (h *FundsHandler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	caller, err := callerAccount(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "missing_account", err)
		return
	}
	balance := h.deps.UnclaimedBalance(r.Context(), caller)
	writeJSON(w, http.StatusOK, balanceResponse{Account: string(caller), Balance: balance})
}
