package sqlite

import (
	"context"
	"fmt"

	"github.com/sakif/seedhaven/internal/model"
	"github.com/sakif/seedhaven/internal/repository"
)

// cartKeyPrefix scopes each persisted cart to one user ID. Logging out never
// touches these keys — only an explicit cart clear deletes one — so a user
// who logs back in finds their cart exactly as they left it.
const cartKeyPrefix = "seedhaven_cart_"

// compile-time check that *CartStore implements repository.CartStore
var _ repository.CartStore = (*CartStore)(nil)

// CartStore persists one cart per user as a single JSON array.
type CartStore struct {
	storage *Storage
}

// Carts returns the cart store view over this storage.
func (s *Storage) Carts() *CartStore {
	return &CartStore{storage: s}
}

func cartKey(userID string) string {
	return cartKeyPrefix + userID
}

// Load returns the persisted cart for the user, empty if none was saved.
func (c *CartStore) Load(ctx context.Context, userID string) ([]model.CartItem, error) {
	if userID == "" {
		return nil, fmt.Errorf("sqlite: user ID must not be empty")
	}
	var items []model.CartItem
	if _, err := c.storage.getJSON(ctx, cartKey(userID), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Save overwrites the user's persisted cart with the given lines.
func (c *CartStore) Save(ctx context.Context, userID string, items []model.CartItem) error {
	if userID == "" {
		return fmt.Errorf("sqlite: user ID must not be empty")
	}
	if items == nil {
		items = []model.CartItem{}
	}
	return c.storage.putJSON(ctx, cartKey(userID), items)
}

// Delete removes the user's persisted cart entirely.
func (c *CartStore) Delete(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("sqlite: user ID must not be empty")
	}
	return c.storage.deleteKey(ctx, cartKey(userID))
}
