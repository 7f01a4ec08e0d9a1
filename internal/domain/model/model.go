// Package model contains domain models passed between layers.
package model

import "time"

// Account identifies a participant: a lister, buyer, sponsor, the
// treasury, or the trusted relayer itself.
type Account string

// Listing is an active offer to sell admission to a group.
// A group has at most one Listing at a time. A price of zero keeps the
// listing delistable but makes it unavailable for purchase.
type Listing struct {
	GroupID  uint64    `json:"group_id"`
	Price    uint64    `json:"price"`
	ListedAt time.Time `json:"listed_at"`
}

// ForSale reports whether the listing can be bought.
func (l Listing) ForSale() bool {
	return l.Price > 0
}

// SettlementStatus is the outcome code a settlement callback carries.
type SettlementStatus uint8

// Settlement outcomes reported by the relay.
const (
	SettlementSuccess SettlementStatus = iota
	SettlementFailed
)

// String implements fmt.Stringer for logging.
func (s SettlementStatus) String() string {
	switch s {
	case SettlementSuccess:
		return "success"
	case SettlementFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// AdmissionRequest asks the relay to admit a member into a group.
// Escrow carries the sale price plus the relay fee; Payload is the opaque
// settlement record echoed back unchanged by the relay.
type AdmissionRequest struct {
	RequestID string
	GroupID   uint64
	Member    Account
	Escrow    uint64
	Payload   []byte
}
