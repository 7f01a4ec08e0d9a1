// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/codexfield/codex-marketplace/internal/domain/model"
)

// EventDependencies defines the interface for the notification feed.
type EventDependencies interface {
	Notifications(ctx context.Context, offset, limit int) ([]model.Notification, int)
}

// EventsHandler handles notification feed requests.
type EventsHandler struct {
	deps     EventDependencies
	maxLimit int
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventDependencies, maxLimit int) *EventsHandler {
	return &EventsHandler{deps: deps, maxLimit: maxLimit}
}

type notificationsResponse struct {
	Notifications []model.Notification `json:"notifications"`
	Total         int                  `json:"total"`
}

// HandleNotifications handles GET /notifications?offset=&limit= requests.
func (h *EventsHandler) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	offset, limit, err := pageParams(r, defaultPageLimit, h.maxLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	events, total := h.deps.Notifications(r.Context(), offset, limit)
	writeJSON(w, http.StatusOK, notificationsResponse{Notifications: events, Total: total})
}
