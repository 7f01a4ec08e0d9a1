// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/codexfield/codex-marketplace/internal/domain/model"
)

// PurchaseDependencies defines the interface for purchase operations.
type PurchaseDependencies interface {
	Buy(ctx context.Context, caller model.Account, groupID, paid uint64) error
	BuyBatch(ctx context.Context, caller model.Account, groupIDs []uint64, refundAddress model.Account, paid uint64) error
}

// PurchaseHandler handles purchase requests.
type PurchaseHandler struct {
	deps PurchaseDependencies
}

// NewPurchaseHandler creates a new purchase handler.
func NewPurchaseHandler(deps PurchaseDependencies) *PurchaseHandler {
	return &PurchaseHandler{deps: deps}
}

// buyRequest mirrors the OpenAPI schema for POST /buy.
type buyRequest struct {
	GroupID uint64 `json:"group_id"`
	Paid    uint64 `json:"paid"`
}

// HandleBuy handles POST /buy requests. Acceptance means the purchase
// was forwarded for settlement, not that it succeeded.
func (h *PurchaseHandler) HandleBuy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	caller, err := callerAccount(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "missing_account", err)
		return
	}
	var req buyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if req.GroupID == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := h.deps.Buy(r.Context(), caller, req.GroupID, req.Paid); err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "forwarded"})
}

// buyBatchRequest mirrors the OpenAPI schema for POST /buy/batch.
type buyBatchRequest struct {
	GroupIDs      []uint64 `json:"group_ids"`
	RefundAddress string   `json:"refund_address"`
	Paid          uint64   `json:"paid"`
}

// HandleBuyBatch handles POST /buy/batch requests.
func (h *PurchaseHandler) HandleBuyBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	caller, err := callerAccount(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "missing_account", err)
		return
	}
	var req buyBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.deps.BuyBatch(r.Context(), caller, req.GroupIDs, model.Account(req.RefundAddress), req.Paid); err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "forwarded"})
}
