// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	service "github.com/codexfield/codex-marketplace/internal/app"
	"github.com/codexfield/codex-marketplace/internal/domain/model"
)

// defaultPageLimit applies when the request omits the limit parameter.
const defaultPageLimit = 20

// ListingDependencies defines the interface for listing operations.
type ListingDependencies interface {
	List(ctx context.Context, caller model.Account, groupID, price uint64) error
	SetPrice(ctx context.Context, caller model.Account, groupID, price uint64) error
	Delist(ctx context.Context, caller model.Account, groupID uint64) error
	Listings(ctx context.Context, offset, limit int) service.ListingPage
	GetListing(ctx context.Context, groupID uint64) (model.Listing, error)
}

// ListingsHandler handles listing registry requests.
type ListingsHandler struct {
	deps     ListingDependencies
	maxLimit int
}

// NewListingsHandler creates a new listings handler.
func NewListingsHandler(deps ListingDependencies, maxLimit int) *ListingsHandler {
	return &ListingsHandler{deps: deps, maxLimit: maxLimit}
}

// listRequest mirrors the OpenAPI schema for POST /listings.
type listRequest struct {
	GroupID uint64 `json:"group_id"`
	Price   uint64 `json:"price"`
}

// HandleListings handles GET /listings?offset=&limit= and POST /listings.
func (h *ListingsHandler) HandleListings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		offset, limit, err := pageParams(r, defaultPageLimit, h.maxLimit)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		writeJSON(w, http.StatusOK, h.deps.Listings(r.Context(), offset, limit))
	case http.MethodPost:
		caller, err := callerAccount(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "missing_account", err)
			return
		}
		var req listRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		if req.GroupID == 0 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		if err := h.deps.List(r.Context(), caller, req.GroupID, req.Price); err != nil {
			writeOpError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, ackResponse{Status: "listed"})
	default:
		http.NotFound(w, r)
	}
}

// HandleGetListing handles GET /listings/{group_id} requests.
func (h *ListingsHandler) HandleGetListing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /listings/
	path := strings.TrimPrefix(r.URL.Path, "/listings/")
	groupID, err := strconv.ParseUint(path, 10, 64)
	if err != nil || groupID == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	listing, err := h.deps.GetListing(r.Context(), groupID)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

// HandleSetPrice handles POST /price requests.
func (h *ListingsHandler) HandleSetPrice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	caller, err := callerAccount(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "missing_account", err)
		return
	}
	var req listRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.deps.SetPrice(r.Context(), caller, req.GroupID, req.Price); err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "price updated"})
}

// delistRequest mirrors the OpenAPI schema for POST /delist.
type delistRequest struct {
	GroupID uint64 `json:"group_id"`
}

// HandleDelist handles POST /delist requests.
func (h *ListingsHandler) HandleDelist(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	caller, err := callerAccount(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "missing_account", err)
		return
	}
	var req delistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.deps.Delist(r.Context(), caller, req.GroupID); err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "delisted"})
}
