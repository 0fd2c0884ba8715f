package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rs/xid"

	"github.com/sakif/seedhaven/internal/apperror"
	"github.com/sakif/seedhaven/internal/model"
	"github.com/sakif/seedhaven/internal/repository"
)

// CartService manages per-user shopping carts.
//
// SCOPING:
// Every method takes the owning user's ID explicitly — the cart store has no
// notion of "the" active user. An empty userID means an anonymous visitor:
// their cart lives in memory only and is never persisted, which is the
// documented behaviour (a cart logically belongs to an account; an anonymous
// cart is lost on restart).
//
// PERSISTENCE:
// For a real user, every mutation writes the whole cart back under that
// user's key. Item count and subtotal are re-derived from the line list on
// every call — there is no cached total to drift out of sync.
type CartService struct {
	carts  repository.CartStore
	logger *slog.Logger

	// Anonymous cart. mu also serializes read-modify-write cycles on
	// persisted carts; the store itself is last-write-wins.
	mu        sync.Mutex
	anonymous []model.CartItem
}

// NewCartService creates a CartService over the given store.
func NewCartService(carts repository.CartStore, logger *slog.Logger) *CartService {
	return &CartService{carts: carts, logger: logger}
}

func (s *CartService) load(ctx context.Context, userID string) ([]model.CartItem, error) {
	if userID == "" {
		out := make([]model.CartItem, len(s.anonymous))
		copy(out, s.anonymous)
		return out, nil
	}
	items, err := s.carts.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/cart: loading cart: %w", err)
	}
	return items, nil
}

func (s *CartService) save(ctx context.Context, userID string, items []model.CartItem) error {
	if userID == "" {
		s.anonymous = items
		return nil
	}
	if err := s.carts.Save(ctx, userID, items); err != nil {
		return fmt.Errorf("service/cart: saving cart: %w", err)
	}
	return nil
}

// Get returns the user's current cart lines.
func (s *CartService) Get(ctx context.Context, userID string) ([]model.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, userID)
}

// Add puts a product in the cart.
//
// MERGE RULES:
//   - A custom pack ALWAYS becomes a new line, even if an identical
//     composition is already in the cart. Each custom line gets a freshly
//     minted ID, so two packs can never collapse into one.
//   - Any other product merges into an existing line with the same product
//     ID by adding the quantities.
func (s *CartService) Add(ctx context.Context, userID string, product model.Product, quantity int, composition *model.Composition) ([]model.CartItem, error) {
	if quantity < 1 {
		return nil, apperror.ValidationFailed("quantity", "quantity must be at least 1")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if product.Category == model.CategoryCustom {
		line := model.CartItem{Product: product, Quantity: quantity, Composition: composition}
		line.ID = "custom-" + xid.New().String()
		items = append(items, line)
	} else {
		merged := false
		for i := range items {
			if items[i].ID == product.ID && items[i].Category != model.CategoryCustom {
				items[i].Quantity += quantity
				merged = true
				break
			}
		}
		if !merged {
			items = append(items, model.CartItem{Product: product, Quantity: quantity})
		}
	}

	if err := s.save(ctx, userID, items); err != nil {
		return nil, err
	}

	s.logger.Debug("cart updated",
		slog.String("userID", userID),
		slog.String("productID", product.ID),
		slog.Int("lines", len(items)),
	)
	return items, nil
}

// UpdateQuantity sets a line's quantity, clamped to a minimum of 0.
// A line that reaches 0 is removed — "set to 0" and "remove" are the same
// end state. Unknown IDs are a no-op.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, id string, quantity int) ([]model.CartItem, error) {
	if quantity < 0 {
		quantity = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := items[:0]
	for _, item := range items {
		if item.ID == id {
			item.Quantity = quantity
		}
		if item.Quantity > 0 {
			out = append(out, item)
		}
	}

	if err := s.save(ctx, userID, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Remove deletes the line with the given ID. No-op if absent.
func (s *CartService) Remove(ctx context.Context, userID, id string) ([]model.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := items[:0]
	for _, item := range items {
		if item.ID != id {
			out = append(out, item)
		}
	}

	if err := s.save(ctx, userID, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Clear empties the cart and deletes the persisted copy for the user.
// This is the only operation that removes a persisted cart — logging out
// does not.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if userID == "" {
		s.anonymous = nil
		return nil
	}
	if err := s.carts.Delete(ctx, userID); err != nil {
		return fmt.Errorf("service/cart: clearing cart: %w", err)
	}
	return nil
}

// ItemCount is the sum of quantities across all lines.
func ItemCount(items []model.CartItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

// Subtotal is the sum of unit price × quantity across all lines.
func Subtotal(items []model.CartItem) model.Cents {
	var total model.Cents
	for _, item := range items {
		total += item.Price * model.Cents(item.Quantity)
	}
	return total
}
