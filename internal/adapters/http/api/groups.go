// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/codexfield/codex-marketplace/internal/adapters/repository"
	service "github.com/codexfield/codex-marketplace/internal/app"
)

// GroupDependencies defines the interface for per-group read operations.
type GroupDependencies interface {
	Score(ctx context.Context, groupID uint64) service.RatingSummary
	GroupTotals(ctx context.Context, groupID uint64) repository.Totals
}

// GroupsHandler handles per-group aggregate reads.
type GroupsHandler struct {
	deps GroupDependencies
}

// NewGroupsHandler creates a new groups handler.
func NewGroupsHandler(deps GroupDependencies) *GroupsHandler {
	return &GroupsHandler{deps: deps}
}

// HandleGroup handles GET /groups/{group_id}/score and
// GET /groups/{group_id}/totals requests.
func (h *GroupsHandler) HandleGroup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameters after /groups/
	path := strings.TrimPrefix(r.URL.Path, "/groups/")
	parts := strings.Split(path, "/")
	if len(parts) != 2 {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	groupID, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil || groupID == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	switch parts[1] {
	case "score":
		writeJSON(w, http.StatusOK, h.deps.Score(r.Context(), groupID))
	case "totals":
		writeJSON(w, http.StatusOK, h.deps.GroupTotals(r.Context(), groupID))
	default:
		http.NotFound(w, r)
	}
}
