// Package repository declares the storage interfaces the services depend on.
//
// Services receive these interfaces, never the concrete sqlite types —
// tests swap in hand-written fakes, and the storage backend can change
// without touching business logic.
package repository

import (
	"context"

	"github.com/sakif/seedhaven/internal/model"
)

// UserStore persists user accounts and the active-user pointer.
//
// Accounts are keyed by email (the unique key across all accounts). Save is
// a whole-record overwrite — there is no partial update; every profile
// mutation routes through replacing the full record.
//
// The active-user pointer is a single persisted email value. It survives a
// process restart, which is what lets a returning user pick up their session
// and cart where they left off.
type UserStore interface {
	// GetByEmail returns the account for the given email, or
	// apperror.ErrNotFound if none exists.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// Save writes the full record under user.Email, creating or replacing.
	Save(ctx context.Context, user *model.User) error
	// ActiveEmail returns the persisted active-user pointer, "" if none.
	ActiveEmail(ctx context.Context) (string, error)
	SetActiveEmail(ctx context.Context, email string) error
	ClearActiveEmail(ctx context.Context) error
}

// CartStore persists one cart per user, keyed by the user's internal ID.
//
// A cart is written as a single value — whole-record overwrite on every
// mutation. Load returns an empty slice (not an error) when no cart has
// been saved for the user; carts are only ever read or written for the
// currently active user, and logging out leaves the persisted copy intact.
type CartStore interface {
	Load(ctx context.Context, userID string) ([]model.CartItem, error)
	Save(ctx context.Context, userID string, items []model.CartItem) error
	Delete(ctx context.Context, userID string) error
}
