package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/seedhaven/internal/apperror"
	"github.com/sakif/seedhaven/internal/model"
)

func newTestCart(t *testing.T) (*CartService, *fakeCartStore) {
	t.Helper()
	store := newFakeCartStore()
	return NewCartService(store, testLogger()), store
}

// =========================================================================
// MERGE RULES
// =========================================================================

func TestAdd_NonCustomLinesMerge(t *testing.T) {
	svc, _ := newTestCart(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, "user-1", whiteSeed(), 2, nil); err != nil {
		t.Fatalf("Add() first: %v", err)
	}
	items, err := svc.Add(ctx, "user-1", whiteSeed(), 3, nil)
	if err != nil {
		t.Fatalf("Add() second: %v", err)
	}

	if len(items) != 1 {
		t.Fatalf("lines = %d, want 1 (same product merges)", len(items))
	}
	if items[0].Quantity != 5 {
		t.Errorf("Quantity = %d, want 5", items[0].Quantity)
	}
	if ItemCount(items) != 5 {
		t.Errorf("ItemCount = %d, want 5", ItemCount(items))
	}
}

func TestAdd_DifferentProductsStaySeparate(t *testing.T) {
	svc, _ := newTestCart(t)
	ctx := context.Background()

	svc.Add(ctx, "user-1", whiteSeed(), 1, nil)
	items, _ := svc.Add(ctx, "user-1", blackSeed(), 1, nil)

	if len(items) != 2 {
		t.Errorf("lines = %d, want 2", len(items))
	}
}

func TestAdd_CustomPacksNeverMerge(t *testing.T) {
	svc, _ := newTestCart(t)
	ctx := context.Background()
	comp := &model.Composition{White: 5, Black: 3}

	// Identical product, identical composition — still two lines.
	svc.Add(ctx, "user-1", customPack(1275), 1, comp)
	items, err := svc.Add(ctx, "user-1", customPack(1275), 1, comp)
	if err != nil {
		t.Fatalf("Add() second custom: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("lines = %d, want 2 (custom packs never merge)", len(items))
	}
	if items[0].ID == items[1].ID {
		t.Error("two custom lines share an ID — each must be freshly minted")
	}
	for _, item := range items {
		if item.ID == "custom" {
			t.Error("custom line kept the placeholder ID instead of a generated one")
		}
		if item.Composition == nil || item.Composition.White != 5 || item.Composition.Black != 3 {
			t.Errorf("composition = %+v", item.Composition)
		}
	}
}

func TestAdd_RejectsNonPositiveQuantity(t *testing.T) {
	svc, _ := newTestCart(t)

	for _, qty := range []int{0, -1} {
		_, err := svc.Add(context.Background(), "user-1", whiteSeed(), qty, nil)
		if !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("Add(qty=%d) error = %v, want ErrValidation", qty, err)
		}
	}
}

// =========================================================================
// QUANTITY / REMOVE
// =========================================================================

func TestUpdateQuantity_ZeroRemovesTheLine(t *testing.T) {
	svc, _ := newTestCart(t)
	ctx := context.Background()

	svc.Add(ctx, "user-1", whiteSeed(), 3, nil)
	items, err := svc.UpdateQuantity(ctx, "user-1", "p1", 0)
	if err != nil {
		t.Fatalf("UpdateQuantity() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("lines after qty 0 = %d, want 0", len(items))
	}
}

func TestUpdateQuantity_AndRemoveAreEquivalent(t *testing.T) {
	ctx := context.Background()

	viaUpdate, _ := newTestCart(t)
	viaUpdate.Add(ctx, "u", whiteSeed(), 3, nil)
	viaUpdate.Add(ctx, "u", blackSeed(), 1, nil)
	afterUpdate, _ := viaUpdate.UpdateQuantity(ctx, "u", "p1", 0)

	viaRemove, _ := newTestCart(t)
	viaRemove.Add(ctx, "u", whiteSeed(), 3, nil)
	viaRemove.Add(ctx, "u", blackSeed(), 1, nil)
	afterRemove, _ := viaRemove.Remove(ctx, "u", "p1")

	if len(afterUpdate) != 1 || len(afterRemove) != 1 {
		t.Fatalf("lines = %d / %d, want 1 / 1", len(afterUpdate), len(afterRemove))
	}
	if afterUpdate[0].ID != afterRemove[0].ID {
		t.Errorf("remaining line differs: %q vs %q", afterUpdate[0].ID, afterRemove[0].ID)
	}
}

func TestUpdateQuantity_ClampsNegativeToZero(t *testing.T) {
	svc, _ := newTestCart(t)
	ctx := context.Background()

	svc.Add(ctx, "user-1", whiteSeed(), 3, nil)
	items, _ := svc.UpdateQuantity(ctx, "user-1", "p1", -5)
	if len(items) != 0 {
		t.Errorf("negative quantity should clamp to 0 and remove the line, got %d lines", len(items))
	}
}

func TestRemove_UnknownIDIsNoop(t *testing.T) {
	svc, _ := newTestCart(t)
	ctx := context.Background()

	svc.Add(ctx, "user-1", whiteSeed(), 1, nil)
	items, err := svc.Remove(ctx, "user-1", "no-such-line")
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if len(items) != 1 {
		t.Errorf("lines = %d, want 1", len(items))
	}
}

// =========================================================================
// DERIVED VALUES
// =========================================================================

func TestSubtotal_RederivesAfterEveryMutation(t *testing.T) {
	svc, _ := newTestCart(t)
	ctx := context.Background()

	items, _ := svc.Add(ctx, "u", whiteSeed(), 3, nil) // 3 × 150 = 450
	if got := Subtotal(items); got != 450 {
		t.Errorf("subtotal = %d, want 450", got)
	}

	items, _ = svc.Add(ctx, "u", blackSeed(), 2, nil) // + 2 × 175 = 800
	if got := Subtotal(items); got != 800 {
		t.Errorf("subtotal = %d, want 800", got)
	}

	items, _ = svc.UpdateQuantity(ctx, "u", "p2", 1) // 450 + 175 = 625
	if got := Subtotal(items); got != 625 {
		t.Errorf("subtotal = %d, want 625", got)
	}

	items, _ = svc.Remove(ctx, "u", "p1") // 175
	if got := Subtotal(items); got != 175 {
		t.Errorf("subtotal = %d, want 175", got)
	}
}

// =========================================================================
// PERSISTENCE SCOPING
// =========================================================================

func TestCart_PersistsPerUserAcrossSessions(t *testing.T) {
	svc, store := newTestCart(t)
	ctx := context.Background()

	svc.Add(ctx, "user-1", whiteSeed(), 3, nil)

	// "Logging out and back in" — the service is stateless per user, so a
	// fresh service over the same store must see the same cart.
	again := NewCartService(store, testLogger())
	items, err := again.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 3 {
		t.Errorf("restored cart = %+v, want the persisted line", items)
	}
}

func TestCart_AnonymousNeverPersists(t *testing.T) {
	svc, store := newTestCart(t)
	ctx := context.Background()

	items, err := svc.Add(ctx, "", whiteSeed(), 2, nil)
	if err != nil {
		t.Fatalf("Add() anonymous: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("anonymous lines = %d, want 1", len(items))
	}
	if len(store.carts) != 0 {
		t.Error("anonymous cart was persisted — it must stay in memory only")
	}

	// And it is visible on subsequent reads from the same service.
	items, _ = svc.Get(ctx, "")
	if ItemCount(items) != 2 {
		t.Errorf("anonymous ItemCount = %d, want 2", ItemCount(items))
	}
}

func TestClear_DeletesPersistedCopy(t *testing.T) {
	svc, store := newTestCart(t)
	ctx := context.Background()

	svc.Add(ctx, "user-1", whiteSeed(), 1, nil)
	if err := svc.Clear(ctx, "user-1"); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	if _, ok := store.carts["user-1"]; ok {
		t.Error("Clear() must delete the persisted cart key")
	}
	items, _ := svc.Get(ctx, "user-1")
	if len(items) != 0 {
		t.Errorf("lines after clear = %d, want 0", len(items))
	}
}
