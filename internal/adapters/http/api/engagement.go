// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/codexfield/codex-marketplace/internal/domain/model"
)

// EngagementDependencies defines the interface for engagement operations.
type EngagementDependencies interface {
	Star(ctx context.Context, caller model.Account, groupID uint64) error
	Sponsor(ctx context.Context, caller model.Account, groupID, amount uint64) error
	Rate(ctx context.Context, caller model.Account, groupID, score uint64) error
}

// EngagementHandler handles star, sponsor, and rate requests.
type EngagementHandler struct {
	deps EngagementDependencies
}

// NewEngagementHandler creates a new engagement handler.
func NewEngagementHandler(deps EngagementDependencies) *EngagementHandler {
	return &EngagementHandler{deps: deps}
}

// engagementRequest covers the engagement POST bodies; amount doubles
// as the sponsorship value and the rating score.
type engagementRequest struct {
	GroupID uint64 `json:"group_id"`
	Amount  uint64 `json:"amount,omitempty"`
	Score   uint64 `json:"score,omitempty"`
}

func (h *EngagementHandler) decode(w http.ResponseWriter, r *http.Request) (model.Account, engagementRequest, bool) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return "", engagementRequest{}, false
	}
	caller, err := callerAccount(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "missing_account", err)
		return "", engagementRequest{}, false
	}
	var req engagementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return "", engagementRequest{}, false
	}
	if req.GroupID == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return "", engagementRequest{}, false
	}
	return caller, req, true
}

// HandleStar handles POST /star requests.
func (h *EngagementHandler) HandleStar(w http.ResponseWriter, r *http.Request) {
	caller, req, ok := h.decode(w, r)
	if !ok {
		return
	}
	if err := h.deps.Star(r.Context(), caller, req.GroupID); err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "starred"})
}

// HandleSponsor handles POST /sponsor requests.
func (h *EngagementHandler) HandleSponsor(w http.ResponseWriter, r *http.Request) {
	caller, req, ok := h.decode(w, r)
	if !ok {
		return
	}
	if err := h.deps.Sponsor(r.Context(), caller, req.GroupID, req.Amount); err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "sponsored"})
}

// HandleRate handles POST /rate requests.
func (h *EngagementHandler) HandleRate(w http.ResponseWriter, r *http.Request) {
	caller, req, ok := h.decode(w, r)
	if !ok {
		return
	}
	if err := h.deps.Rate(r.Context(), caller, req.GroupID, req.Score); err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "rated"})
}
