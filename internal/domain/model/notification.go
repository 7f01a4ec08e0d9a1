package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind names the observable marketplace events.
type NotificationKind string

// Notification kinds, emitted exactly once per successful operation.
const (
	KindList           NotificationKind = "list"
	KindDelist         NotificationKind = "delist"
	KindPriceUpdated   NotificationKind = "price_updated"
	KindPurchase       NotificationKind = "purchase"
	KindPurchaseFailed NotificationKind = "purchase_failed"
	KindStar           NotificationKind = "star"
	KindSponsor        NotificationKind = "sponsor"
	KindRate           NotificationKind = "rate"
)

// Notification is an entry in the append-only event feed.
type Notification struct {
	ID      string           `json:"id"`
	Kind    NotificationKind `json:"kind"`
	Actor   Account          `json:"actor"`
	GroupID uint64           `json:"group_id"`
	Amount  uint64           `json:"amount,omitempty"`
	At      time.Time        `json:"at"`
}

// NewNotification builds a feed entry with a fresh id.
func NewNotification(kind NotificationKind, actor Account, groupID, amount uint64) Notification {
	return Notification{
		ID:      uuid.NewString(),
		Kind:    kind,
		Actor:   actor,
		GroupID: groupID,
		Amount:  amount,
		At:      time.Now().UTC(),
	}
}
