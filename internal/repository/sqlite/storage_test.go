package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/seedhaven/internal/apperror"
	"github.com/sakif/seedhaven/internal/model"
)

// newTestStorage returns a Storage backed by an in-memory database.
// Each test gets a fresh database; Close is handled by t.Cleanup.
func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("New(:memory:): %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testUser(email string) *model.User {
	return &model.User{
		ID:             "user-" + email,
		Name:           "Test User",
		Email:          email,
		PasswordHash:   "$2a$04$fakehash",
		Orders:         []model.Order{},
		Addresses:      []model.Address{},
		PaymentMethods: []model.PaymentMethod{},
	}
}

// =========================================================================
// RAW STORAGE TESTS
// =========================================================================

func TestGetJSON_AbsentKeyIsEmpty(t *testing.T) {
	s := newTestStorage(t)

	var out map[string]string
	ok, err := s.getJSON(context.Background(), "no-such-key", &out)
	if err != nil {
		t.Fatalf("getJSON() error = %v", err)
	}
	if ok {
		t.Error("getJSON() ok = true for absent key, want false")
	}
}

func TestGetJSON_MalformedValueIsEmpty(t *testing.T) {
	s := newTestStorage(t)

	// Write garbage directly, bypassing putJSON.
	_, err := s.conn.Exec(`INSERT INTO storage (key, value) VALUES (?, ?)`,
		"seedhaven_users", "{not json at all")
	if err != nil {
		t.Fatalf("inserting garbage: %v", err)
	}

	// The typed read must treat the corruption as an empty collection, not
	// an error — one bad record must not brick the store.
	users, err := s.Users().loadAll(context.Background())
	if err != nil {
		t.Fatalf("loadAll() over malformed data error = %v", err)
	}
	if len(users) != 0 {
		t.Errorf("loadAll() over malformed data = %d users, want 0", len(users))
	}

	// And a subsequent write replaces the garbage wholesale.
	if err := s.Users().Save(context.Background(), testUser("a@example.com")); err != nil {
		t.Fatalf("Save() after corruption: %v", err)
	}
	got, err := s.Users().GetByEmail(context.Background(), "a@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() after recovery: %v", err)
	}
	if got.Email != "a@example.com" {
		t.Errorf("Email = %q, want a@example.com", got.Email)
	}
}

func TestPutJSON_OverwritesWholeRecord(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	if err := s.putJSON(ctx, "k", map[string]int{"a": 1, "b": 2}); err != nil {
		t.Fatalf("putJSON() first: %v", err)
	}
	if err := s.putJSON(ctx, "k", map[string]int{"c": 3}); err != nil {
		t.Fatalf("putJSON() second: %v", err)
	}

	var out map[string]int
	if _, err := s.getJSON(ctx, "k", &out); err != nil {
		t.Fatalf("getJSON(): %v", err)
	}
	if len(out) != 1 || out["c"] != 3 {
		t.Errorf("value after overwrite = %v, want map[c:3]", out)
	}
}

// =========================================================================
// USER STORE TESTS
// =========================================================================

func TestUserStore_SaveAndGetByEmail(t *testing.T) {
	s := newTestStorage(t)
	users := s.Users()
	ctx := context.Background()

	want := testUser("jane@example.com")
	if err := users.Save(ctx, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := users.GetByEmail(ctx, "jane@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if got.ID != want.ID || got.Name != want.Name {
		t.Errorf("GetByEmail() = %+v, want %+v", got, want)
	}
}

func TestUserStore_GetByEmail_NotFound(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.Users().GetByEmail(context.Background(), "ghost@example.com")
	if err == nil {
		t.Fatal("GetByEmail() should error for unknown email")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByEmail() error = %v, want ErrNotFound", err)
	}
}

func TestUserStore_SaveReplacesRecord(t *testing.T) {
	s := newTestStorage(t)
	users := s.Users()
	ctx := context.Background()

	u := testUser("jane@example.com")
	if err := users.Save(ctx, u); err != nil {
		t.Fatalf("Save() first: %v", err)
	}

	// Full-record replace: append an order and save again.
	u.Orders = []model.Order{{ID: "order-1", Status: model.StatusProcessing, Total: 2363}}
	if err := users.Save(ctx, u); err != nil {
		t.Fatalf("Save() second: %v", err)
	}

	got, err := users.GetByEmail(ctx, "jane@example.com")
	if err != nil {
		t.Fatalf("GetByEmail(): %v", err)
	}
	if len(got.Orders) != 1 || got.Orders[0].ID != "order-1" {
		t.Errorf("Orders after replace = %+v, want the saved order", got.Orders)
	}
}

func TestUserStore_ActivePointer(t *testing.T) {
	s := newTestStorage(t)
	users := s.Users()
	ctx := context.Background()

	// Empty before anyone logs in.
	email, err := users.ActiveEmail(ctx)
	if err != nil {
		t.Fatalf("ActiveEmail() error = %v", err)
	}
	if email != "" {
		t.Errorf("ActiveEmail() = %q before login, want empty", email)
	}

	if err := users.SetActiveEmail(ctx, "jane@example.com"); err != nil {
		t.Fatalf("SetActiveEmail() error = %v", err)
	}
	email, _ = users.ActiveEmail(ctx)
	if email != "jane@example.com" {
		t.Errorf("ActiveEmail() = %q, want jane@example.com", email)
	}

	if err := users.ClearActiveEmail(ctx); err != nil {
		t.Fatalf("ClearActiveEmail() error = %v", err)
	}
	email, _ = users.ActiveEmail(ctx)
	if email != "" {
		t.Errorf("ActiveEmail() after clear = %q, want empty", email)
	}
}

// =========================================================================
// CART STORE TESTS
// =========================================================================

func TestCartStore_RoundTrip(t *testing.T) {
	s := newTestStorage(t)
	carts := s.Carts()
	ctx := context.Background()

	items := []model.CartItem{
		{
			Product:  model.Product{ID: "p1", Name: "Individual White Seed", Category: model.CategoryWhite, Price: 150},
			Quantity: 3,
		},
		{
			Product:     model.Product{ID: "custom-abc", Name: "Custom Seed Pack", Category: model.CategoryCustom, Price: 1275},
			Quantity:    1,
			Composition: &model.Composition{White: 5, Black: 3},
		},
	}

	if err := carts.Save(ctx, "user-1", items); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := carts.Load(ctx, "user-1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Load() = %d items, want 2", len(got))
	}
	if got[0].Quantity != 3 || got[0].Price != 150 {
		t.Errorf("line 0 = %+v", got[0])
	}
	if got[1].Composition == nil || got[1].Composition.White != 5 || got[1].Composition.Black != 3 {
		t.Errorf("custom composition did not survive the round trip: %+v", got[1].Composition)
	}
}

func TestCartStore_LoadEmptyForUnknownUser(t *testing.T) {
	s := newTestStorage(t)

	items, err := s.Carts().Load(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("Load() = %d items for unknown user, want 0", len(items))
	}
}

func TestCartStore_DeleteRemovesOnlyThatUsersCart(t *testing.T) {
	s := newTestStorage(t)
	carts := s.Carts()
	ctx := context.Background()

	one := []model.CartItem{{Product: model.Product{ID: "p1", Price: 150}, Quantity: 1}}
	if err := carts.Save(ctx, "user-1", one); err != nil {
		t.Fatalf("Save(user-1): %v", err)
	}
	if err := carts.Save(ctx, "user-2", one); err != nil {
		t.Fatalf("Save(user-2): %v", err)
	}

	if err := carts.Delete(ctx, "user-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	gone, _ := carts.Load(ctx, "user-1")
	if len(gone) != 0 {
		t.Errorf("user-1 cart after delete = %d items, want 0", len(gone))
	}
	kept, _ := carts.Load(ctx, "user-2")
	if len(kept) != 1 {
		t.Errorf("user-2 cart after deleting user-1 = %d items, want 1", len(kept))
	}
}
