package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// payloadKind tags settlement payloads so a callback carrying a foreign
// blob is rejected instead of mis-decoded.
const payloadKind = "group_purchase"

// ErrBadPayload reports a callback payload that could not be decoded.
var ErrBadPayload = errors.New("bad settlement payload")

// SettlementPayload is the opaque record handed to the relay with a
// purchase and decoded again in the settlement callback. It is the only
// representation of an in-flight purchase; no pending record is kept
// locally.
type SettlementPayload struct {
	Kind  string  `json:"kind"`
	Owner Account `json:"owner"`
	Buyer Account `json:"buyer"`
	Price uint64  `json:"price"`
}

// EncodeSettlementPayload serializes the (owner, buyer, price) record.
func EncodeSettlementPayload(owner, buyer Account, price uint64) ([]byte, error) {
	p := SettlementPayload{
		Kind:  payloadKind,
		Owner: owner,
		Buyer: buyer,
		Price: price,
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode settlement payload: %w", err)
	}
	return raw, nil
}

// DecodeSettlementPayload parses a callback payload, verifying the kind tag.
func DecodeSettlementPayload(raw []byte) (SettlementPayload, error) {
	var p SettlementPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return SettlementPayload{}, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if p.Kind != payloadKind {
		return SettlementPayload{}, fmt.Errorf("%w: unexpected kind %q", ErrBadPayload, p.Kind)
	}
	return p, nil
}
