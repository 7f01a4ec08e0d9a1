// Package ranking maintains bounded top-N boards keyed by a numeric metric.
//
// A board is not a full sort of all groups: it tracks only the top
// Capacity entries ever observed whose current metric still qualifies,
// maintained incrementally on every update.
package ranking

import (
	"context"
	"sync"
)

// Capacity is the fixed number of slots per board.
const Capacity = 10

// Entry is one board row. Unused slots hold the (0, 0) sentinel.
type Entry struct {
	GroupID uint64 `json:"group_id"`
	Value   uint64 `json:"value"`
}

// Board is a fixed-capacity ordered top-list. Index 0 holds the highest
// value; the value sequence is non-increasing and each group id appears
// at most once. The zero value is an empty board ready for use.
type Board struct {
	values [Capacity]uint64
	ids    [Capacity]uint64
}

// Upsert places groupID at the first position whose value is strictly
// below value, shifting intermediate entries down by one slot. Equal
// values never reorder, so insertion order among ties is stable. A
// tracked group is first withdrawn so the placement scan sees the board
// without it; it can move in either direction but never duplicates. If
// no position qualifies the board is unchanged.
func (b *Board) Upsert(groupID, value uint64) bool {
	if groupID == 0 || value == 0 {
		return false
	}
	for j := 0; j < Capacity; j++ {
		if b.ids[j] != groupID {
			continue
		}
		for k := j; k < Capacity-1; k++ {
			b.values[k] = b.values[k+1]
			b.ids[k] = b.ids[k+1]
		}
		b.values[Capacity-1] = 0
		b.ids[Capacity-1] = 0
		break
	}
	for i := 0; i < Capacity; i++ {
		if value <= b.values[i] {
			continue
		}
		for k := Capacity - 1; k > i; k-- {
			b.values[k] = b.values[k-1]
			b.ids[k] = b.ids[k-1]
		}
		b.values[i] = value
		b.ids[i] = groupID
		return true
	}
	return false
}

// Remove drops groupID from the board, shifting subsequent entries left
// and zero-filling the vacated last slot. No-op if absent.
func (b *Board) Remove(groupID uint64) bool {
	if groupID == 0 {
		return false
	}
	for i := 0; i < Capacity; i++ {
		if b.ids[i] != groupID {
			continue
		}
		for j := i; j < Capacity-1; j++ {
			b.values[j] = b.values[j+1]
			b.ids[j] = b.ids[j+1]
		}
		b.values[Capacity-1] = 0
		b.ids[Capacity-1] = 0
		return true
	}
	return false
}

// Entries returns the occupied rows in rank order.
func (b *Board) Entries() []Entry {
	out := make([]Entry, 0, Capacity)
	for i := 0; i < Capacity; i++ {
		if b.ids[i] == 0 {
			continue
		}
		out = append(out, Entry{GroupID: b.ids[i], Value: b.values[i]})
	}
	return out
}

// Metric names one of the independently ranked dimensions.
type Metric string

// The four maintained boards.
const (
	MetricSalesVolume    Metric = "sales_volume"
	MetricSalesRevenue   Metric = "sales_revenue"
	MetricStars          Metric = "stars"
	MetricSponsorRevenue Metric = "sponsor_revenue"
)

// Metrics lists every maintained board metric.
func Metrics() []Metric {
	return []Metric{MetricSalesVolume, MetricSalesRevenue, MetricStars, MetricSponsorRevenue}
}

// Set owns the four boards behind one lock.
type Set struct {
	mu     sync.RWMutex
	boards map[Metric]*Board
}

// NewSet creates an empty board set covering all metrics.
func NewSet() *Set {
	s := &Set{boards: make(map[Metric]*Board, len(Metrics()))}
	for _, m := range Metrics() {
		s.boards[m] = &Board{}
	}
	return s
}

// Upsert applies a metric update to the matching board.
func (s *Set) Upsert(ctx context.Context, metric Metric, groupID, value uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.boards[metric]
	if !ok {
		return false, ErrUnknownMetric
	}
	return b.Upsert(groupID, value), nil
}

// RemoveEverywhere drops the group from all boards, as when it is delisted.
func (s *Set) RemoveEverywhere(ctx context.Context, groupID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.boards {
		b.Remove(groupID)
	}
}

// Top returns the occupied rows of one board in rank order.
func (s *Set) Top(ctx context.Context, metric Metric) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.boards[metric]
	if !ok {
		return nil, ErrUnknownMetric
	}
	return b.Entries(), nil
}
