package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/codexfield/codex-marketplace/internal/domain/model"
)

func TestInMemoryStore_ListingLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore(ctx)

	listing := model.Listing{GroupID: 1, Price: 100, ListedAt: time.Now()}
	if err := store.Create(ctx, listing); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A second listing for the same group must fail without mutating state.
	dup := model.Listing{GroupID: 1, Price: 999, ListedAt: time.Now().Add(time.Hour)}
	if err := store.Create(ctx, dup); !errors.Is(err, ErrAlreadyListed) {
		t.Fatalf("expected ErrAlreadyListed, got %v", err)
	}
	got, err := store.Get(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Price != 100 {
		t.Errorf("duplicate create mutated price: %d", got.Price)
	}

	if err := store.SetPrice(ctx, 1, 250); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ = store.Get(ctx, 1)
	if got.Price != 250 {
		t.Errorf("expected price 250, got %d", got.Price)
	}

	if err := store.Delete(ctx, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.Get(ctx, 1); !errors.Is(err, ErrNotListed) {
		t.Errorf("expected ErrNotListed after delete, got %v", err)
	}

	// Relisting after delete succeeds with fresh attributes.
	relist := model.Listing{GroupID: 1, Price: 300, ListedAt: time.Now()}
	if err := store.Create(ctx, relist); err != nil {
		t.Fatalf("unexpected error on relist: %v", err)
	}
	if store.Count(ctx) != 1 {
		t.Errorf("expected 1 listing, got %d", store.Count(ctx))
	}
}

func TestInMemoryStore_Pagination(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore(ctx)

	for i := uint64(1); i <= 5; i++ {
		if err := store.Create(ctx, model.Listing{GroupID: i, Price: i}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	page := store.Listed(ctx, 0, 3)
	if page.Total != 5 || len(page.IDs) != 3 {
		t.Fatalf("expected 3 of 5, got %d of %d", len(page.IDs), page.Total)
	}
	if page.IDs[0] != 1 || page.IDs[2] != 3 {
		t.Errorf("unexpected page order: %v", page.IDs)
	}

	page = store.Listed(ctx, 3, 10)
	if page.Total != 5 || len(page.IDs) != 2 {
		t.Fatalf("expected trailing page of 2, got %v", page)
	}

	// Offset at or past the end returns an empty page with the true total.
	page = store.Listed(ctx, 5, 10)
	if page.Total != 5 || len(page.IDs) != 0 {
		t.Errorf("expected empty page with total 5, got %v", page)
	}
	page = store.Listed(ctx, 100, 1)
	if page.Total != 5 || len(page.IDs) != 0 {
		t.Errorf("expected empty page with total 5, got %v", page)
	}
}

func TestInMemoryStore_Memberships(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore(ctx)

	if err := store.AddMembership(ctx, SetPurchased, "alice", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.AddMembership(ctx, SetPurchased, "alice", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Idempotent membership: a second attempt fails, never duplicates.
	if err := store.AddMembership(ctx, SetPurchased, "alice", 1); !errors.Is(err, ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}
	page := store.Memberships(ctx, SetPurchased, "alice", 0, 10)
	if page.Total != 2 {
		t.Errorf("expected total 2, got %d", page.Total)
	}
	if page.IDs[0] != 1 || page.IDs[1] != 2 {
		t.Errorf("insertion order lost: %v", page.IDs)
	}

	if !store.HasMembership(ctx, SetPurchased, "alice", 1) {
		t.Error("expected membership for (alice, 1)")
	}
	if store.HasMembership(ctx, SetStarred, "alice", 1) {
		t.Error("membership leaked across kinds")
	}
	if store.HasMembership(ctx, SetPurchased, "bob", 1) {
		t.Error("membership leaked across accounts")
	}

	store.RemoveMembership(ctx, SetPurchased, "alice", 1)
	if store.HasMembership(ctx, SetPurchased, "alice", 1) {
		t.Error("expected membership removed")
	}
	page = store.Memberships(ctx, SetPurchased, "alice", 0, 10)
	if page.Total != 1 || page.IDs[0] != 2 {
		t.Errorf("unexpected set after remove: %v", page)
	}

	// Unknown account pages are empty, not errors.
	page = store.Memberships(ctx, SetRated, "nobody", 0, 10)
	if page.Total != 0 || len(page.IDs) != 0 {
		t.Errorf("expected empty page, got %v", page)
	}
}

func TestInMemoryStore_Totals(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore(ctx)

	tot := store.AddSale(ctx, 7, 100)
	if tot.SalesVolume != 1 || tot.SalesRevenue != 100 {
		t.Errorf("unexpected totals after sale: %+v", tot)
	}
	tot = store.AddSale(ctx, 7, 50)
	if tot.SalesVolume != 2 || tot.SalesRevenue != 150 {
		t.Errorf("unexpected totals after second sale: %+v", tot)
	}

	tot = store.AddStar(ctx, 7)
	if tot.StarCount != 1 {
		t.Errorf("unexpected star count: %+v", tot)
	}
	tot = store.AddSponsorship(ctx, 7, 40)
	if tot.SponsorRevenue != 40 {
		t.Errorf("unexpected sponsor revenue: %+v", tot)
	}

	if got := store.GroupTotals(ctx, 7); got != tot {
		t.Errorf("GroupTotals mismatch: %+v vs %+v", got, tot)
	}
	if got := store.GroupTotals(ctx, 8); got != (Totals{}) {
		t.Errorf("expected zero totals for unknown group, got %+v", got)
	}
}
