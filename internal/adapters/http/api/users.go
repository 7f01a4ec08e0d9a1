// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/codexfield/codex-marketplace/internal/adapters/repository"
	"github.com/codexfield/codex-marketplace/internal/domain/model"
)

// UserDependencies defines the interface for user history operations.
type UserDependencies interface {
	UserHistory(ctx context.Context, kind repository.MembershipKind, account model.Account, offset, limit int) (repository.Page, error)
}

// UsersHandler handles per-account history requests.
type UsersHandler struct {
	deps     UserDependencies
	maxLimit int
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(deps UserDependencies, maxLimit int) *UsersHandler {
	return &UsersHandler{deps: deps, maxLimit: maxLimit}
}

type historyResponse struct {
	Kind    string   `json:"kind"`
	Account string   `json:"account"`
	IDs     []uint64 `json:"ids"`
	Total   int      `json:"total"`
}

// HandleHistory handles GET /history?kind=K&offset=&limit= for the
// calling account.
func (h *UsersHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	caller, err := callerAccount(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "missing_account", err)
		return
	}
	kind := repository.MembershipKind(r.URL.Query().Get("kind"))
	if kind == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	offset, limit, err := pageParams(r, defaultPageLimit, h.maxLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	page, err := h.deps.UserHistory(r.Context(), kind, caller, offset, limit)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{
		Kind:    string(kind),
		Account: string(caller),
		IDs:     page.IDs,
		Total:   page.Total,
	})
}
