// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/codexfield/codex-marketplace/internal/adapters/repository"
	service "github.com/codexfield/codex-marketplace/internal/app"
	"github.com/codexfield/codex-marketplace/internal/domain/model"
	"github.com/codexfield/codex-marketplace/internal/domain/ranking"
)

// accountHeader carries the calling account. A gateway in front of the
// service is expected to authenticate it.
const accountHeader = "X-Market-Account"

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Listing registry operations.
	List(ctx context.Context, caller model.Account, groupID, price uint64) error
	SetPrice(ctx context.Context, caller model.Account, groupID, price uint64) error
	Delist(ctx context.Context, caller model.Account, groupID uint64) error

	// Settlement protocol entry points.
	Buy(ctx context.Context, caller model.Account, groupID, paid uint64) error
	BuyBatch(ctx context.Context, caller model.Account, groupIDs []uint64, refundAddress model.Account, paid uint64) error

	// Engagement operations.
	Star(ctx context.Context, caller model.Account, groupID uint64) error
	Sponsor(ctx context.Context, caller model.Account, groupID, amount uint64) error
	Rate(ctx context.Context, caller model.Account, groupID, score uint64) error

	// Unclaimed funds.
	Claim(ctx context.Context, caller model.Account) (uint64, error)
	UnclaimedBalance(ctx context.Context, account model.Account) uint64

	// Read surfaces.
	Listings(ctx context.Context, offset, limit int) service.ListingPage
	GetListing(ctx context.Context, groupID uint64) (model.Listing, error)
	UserHistory(ctx context.Context, kind repository.MembershipKind, account model.Account, offset, limit int) (repository.Page, error)
	Leaderboard(ctx context.Context, metric ranking.Metric) ([]service.BoardRow, error)
	Score(ctx context.Context, groupID uint64) service.RatingSummary
	GroupTotals(ctx context.Context, groupID uint64) repository.Totals
	Notifications(ctx context.Context, offset, limit int) ([]model.Notification, int)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	listingsHandler    *ListingsHandler
	purchaseHandler    *PurchaseHandler
	engagementHandler  *EngagementHandler
	fundsHandler       *FundsHandler
	leaderboardHandler *LeaderboardHandler
	usersHandler       *UsersHandler
	groupsHandler      *GroupsHandler
	eventsHandler      *EventsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxPageLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		listingsHandler:    NewListingsHandler(deps, maxPageLimit),
		purchaseHandler:    NewPurchaseHandler(deps),
		engagementHandler:  NewEngagementHandler(deps),
		fundsHandler:       NewFundsHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps),
		usersHandler:       NewUsersHandler(deps, maxPageLimit),
		groupsHandler:      NewGroupsHandler(deps),
		eventsHandler:      NewEventsHandler(deps, maxPageLimit),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/listings", MetricsMiddleware(s.listingsHandler.HandleListings, "listings"))
	mux.HandleFunc("/listings/", MetricsMiddleware(s.listingsHandler.HandleGetListing, "listing"))
	mux.HandleFunc("/price", MetricsMiddleware(s.listingsHandler.HandleSetPrice, "price"))
	mux.HandleFunc("/delist", MetricsMiddleware(s.listingsHandler.HandleDelist, "delist"))
	mux.HandleFunc("/buy", MetricsMiddleware(s.purchaseHandler.HandleBuy, "buy"))
	mux.HandleFunc("/buy/batch", MetricsMiddleware(s.purchaseHandler.HandleBuyBatch, "buy_batch"))
	mux.HandleFunc("/star", MetricsMiddleware(s.engagementHandler.HandleStar, "star"))
	mux.HandleFunc("/sponsor", MetricsMiddleware(s.engagementHandler.HandleSponsor, "sponsor"))
	mux.HandleFunc("/rate", MetricsMiddleware(s.engagementHandler.HandleRate, "rate"))
	mux.HandleFunc("/claim", MetricsMiddleware(s.fundsHandler.HandleClaim, "claim"))
	mux.HandleFunc("/balance", MetricsMiddleware(s.fundsHandler.HandleBalance, "balance"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/history", MetricsMiddleware(s.usersHandler.HandleHistory, "history"))
	mux.HandleFunc("/groups/", MetricsMiddleware(s.groupsHandler.HandleGroup, "group"))
	mux.HandleFunc("/notifications", MetricsMiddleware(s.eventsHandler.HandleNotifications, "notifications"))
}

type ackResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeOpError maps service error kinds to HTTP statuses.
func writeOpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrUnauthorized):
		writeError(w, http.StatusForbidden, "unauthorized", err)
	case errors.Is(err, service.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "already_exists", err)
	case errors.Is(err, service.ErrInsufficientFunds):
		writeError(w, http.StatusPaymentRequired, "insufficient_funds", err)
	case errors.Is(err, service.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, service.ErrPayoutFailed):
		writeError(w, http.StatusBadGateway, "payout_failed", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// callerAccount extracts the authenticated account from the request.
func callerAccount(r *http.Request) (model.Account, error) {
	account := r.Header.Get(accountHeader)
	if account == "" {
		return "", ErrMissingAccount
	}
	return model.Account(account), nil
}

// pageParams parses offset/limit query parameters with defaults.
func pageParams(r *http.Request, defaultLimit, maxLimit int) (offset, limit int, err error) {
	limit = defaultLimit
	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, ErrBadRequest
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return 0, 0, ErrBadRequest
		}
	}
	if limit > maxLimit {
		return 0, 0, ErrBadRequest
	}
	return offset, limit, nil
}
