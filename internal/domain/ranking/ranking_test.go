package ranking

import (
	"context"
	"math/rand"
	"testing"
)

// checkInvariants verifies the ordering and uniqueness guarantees after
// any sequence of operations.
func checkInvariants(t *testing.T, b *Board) {
	t.Helper()

	for i := 1; i < Capacity; i++ {
		if b.values[i] > b.values[i-1] {
			t.Fatalf("values not non-increasing at %d: %d > %d", i, b.values[i], b.values[i-1])
		}
	}
	seen := make(map[uint64]int)
	for i := 0; i < Capacity; i++ {
		if b.ids[i] == 0 {
			if b.values[i] != 0 {
				t.Fatalf("sentinel slot %d has value %d", i, b.values[i])
			}
			continue
		}
		if prev, ok := seen[b.ids[i]]; ok {
			t.Fatalf("group %d at both %d and %d", b.ids[i], prev, i)
		}
		seen[b.ids[i]] = i
	}
}

func TestBoard_UpsertOrdering(t *testing.T) {
	var b Board

	b.Upsert(1, 10)
	b.Upsert(2, 30)
	b.Upsert(3, 20)
	checkInvariants(t, &b)

	entries := b.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	want := []Entry{{GroupID: 2, Value: 30}, {GroupID: 3, Value: 20}, {GroupID: 1, Value: 10}}
	for i, w := range want {
		if entries[i] != w {
			t.Errorf("entry %d: expected %+v, got %+v", i, w, entries[i])
		}
	}
}

func TestBoard_UpsertRelocatesExistingGroup(t *testing.T) {
	var b Board

	b.Upsert(1, 10)
	b.Upsert(2, 20)
	b.Upsert(3, 30)

	// Group 1 climbs from last to first; it must not appear twice.
	b.Upsert(1, 40)
	checkInvariants(t, &b)

	entries := b.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].GroupID != 1 || entries[0].Value != 40 {
		t.Errorf("expected group 1 at top with 40, got %+v", entries[0])
	}
}

func TestBoard_UpsertDemotesExistingGroup(t *testing.T) {
	var b Board

	b.Upsert(5, 900)
	b.Upsert(7, 50)

	// Group 5 drops below group 7; its old slot must be vacated, not
	// left behind as a second occurrence.
	b.Upsert(5, 100)
	checkInvariants(t, &b)

	entries := b.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	want := []Entry{{GroupID: 5, Value: 100}, {GroupID: 7, Value: 50}}
	for i, w := range want {
		if entries[i] != w {
			t.Errorf("entry %d: expected %+v, got %+v", i, w, entries[i])
		}
	}

	// A full board keeps a demoted group as long as it is tracked.
	var full Board
	for i := uint64(1); i <= Capacity; i++ {
		full.Upsert(i, 100+i)
	}
	full.Upsert(Capacity, 1)
	checkInvariants(t, &full)
	entries = full.Entries()
	last := entries[len(entries)-1]
	if last.GroupID != Capacity || last.Value != 1 {
		t.Errorf("expected demoted group %d at the bottom with 1, got %+v", Capacity, last)
	}
}

func TestBoard_TiesKeepInsertionOrder(t *testing.T) {
	var b Board

	b.Upsert(1, 50)
	b.Upsert(2, 50)
	b.Upsert(3, 50)
	checkInvariants(t, &b)

	// Equal values never reorder: the comparison is strict.
	entries := b.Entries()
	wantIDs := []uint64{1, 2, 3}
	for i, id := range wantIDs {
		if entries[i].GroupID != id {
			t.Errorf("position %d: expected group %d, got %d", i, id, entries[i].GroupID)
		}
	}
}

func TestBoard_FullBoardDropsLowest(t *testing.T) {
	var b Board

	for i := uint64(1); i <= Capacity; i++ {
		b.Upsert(i, i*10)
	}
	checkInvariants(t, &b)

	// A qualifying newcomer pushes out the current lowest.
	if !b.Upsert(99, 55) {
		t.Fatal("expected qualifying upsert to succeed")
	}
	checkInvariants(t, &b)

	entries := b.Entries()
	if len(entries) != Capacity {
		t.Fatalf("expected full board, got %d entries", len(entries))
	}
	for _, e := range entries {
		if e.GroupID == 1 {
			t.Error("lowest entry should have been dropped")
		}
	}

	// A non-qualifying value leaves the board unchanged.
	if b.Upsert(100, 5) {
		t.Error("expected non-qualifying upsert to be a no-op")
	}
	checkInvariants(t, &b)
}

func TestBoard_Remove(t *testing.T) {
	var b Board

	b.Upsert(1, 30)
	b.Upsert(2, 20)
	b.Upsert(3, 10)

	if !b.Remove(2) {
		t.Fatal("expected remove to find group 2")
	}
	checkInvariants(t, &b)

	entries := b.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries after remove, got %d", len(entries))
	}
	if entries[0].GroupID != 1 || entries[1].GroupID != 3 {
		t.Errorf("unexpected order after remove: %+v", entries)
	}

	if b.Remove(42) {
		t.Error("expected remove of absent group to be a no-op")
	}
}

func TestBoard_RandomizedInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var b Board

	for i := 0; i < 5000; i++ {
		id := uint64(rng.Intn(25) + 1)
		if rng.Intn(10) == 0 {
			b.Remove(id)
		} else {
			b.Upsert(id, uint64(rng.Intn(1000)))
		}
		checkInvariants(t, &b)
	}
}

func TestSet_RemoveEverywhere(t *testing.T) {
	ctx := context.Background()
	s := NewSet()

	for _, m := range Metrics() {
		if _, err := s.Upsert(ctx, m, 7, 100); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	s.RemoveEverywhere(ctx, 7)

	for _, m := range Metrics() {
		entries, err := s.Top(ctx, m)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("metric %s: expected empty board, got %+v", m, entries)
		}
	}
}

func TestSet_UnknownMetric(t *testing.T) {
	ctx := context.Background()
	s := NewSet()

	if _, err := s.Upsert(ctx, Metric("bogus"), 1, 1); err != ErrUnknownMetric {
		t.Errorf("expected ErrUnknownMetric, got %v", err)
	}
	if _, err := s.Top(ctx, Metric("bogus")); err != ErrUnknownMetric {
		t.Errorf("expected ErrUnknownMetric, got %v", err)
	}
}
