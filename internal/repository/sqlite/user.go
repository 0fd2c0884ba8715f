package sqlite

import (
	"context"
	"fmt"

	"github.com/sakif/seedhaven/internal/apperror"
	"github.com/sakif/seedhaven/internal/model"
	"github.com/sakif/seedhaven/internal/repository"
)

// Storage keys. These names are part of the persisted contract — renaming
// them orphans existing data.
const (
	usersKey      = "seedhaven_users"
	activeUserKey = "seedhaven_active_user"
)

// compile-time check that *UserStore implements repository.UserStore
var _ repository.UserStore = (*UserStore)(nil)

// UserStore persists the full account collection as one JSON map keyed by
// email, plus the single active-user pointer. Every Save rewrites the whole
// collection — at this scale (a browser-profile's worth of accounts) that is
// simpler and safer than per-account rows.
type UserStore struct {
	storage *Storage
}

// Users returns the user store view over this storage.
func (s *Storage) Users() *UserStore {
	return &UserStore{storage: s}
}

func (u *UserStore) loadAll(ctx context.Context) (map[string]model.User, error) {
	users := make(map[string]model.User)
	if _, err := u.storage.getJSON(ctx, usersKey, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetByEmail returns the account for the given email.
// Returns apperror.ErrNotFound if no account exists.
func (u *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	users, err := u.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	user, ok := users[email]
	if !ok {
		return nil, apperror.NotFound("user", email)
	}
	return &user, nil
}

// Save writes the full record under user.Email, creating or replacing it.
func (u *UserStore) Save(ctx context.Context, user *model.User) error {
	if user == nil || user.Email == "" {
		return fmt.Errorf("sqlite: user and user.Email must be set")
	}
	users, err := u.loadAll(ctx)
	if err != nil {
		return err
	}
	users[user.Email] = *user
	return u.storage.putJSON(ctx, usersKey, users)
}

// ActiveEmail returns the persisted active-user pointer, "" if none.
func (u *UserStore) ActiveEmail(ctx context.Context) (string, error) {
	var email string
	if _, err := u.storage.getJSON(ctx, activeUserKey, &email); err != nil {
		return "", err
	}
	return email, nil
}

func (u *UserStore) SetActiveEmail(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("sqlite: active email must not be empty")
	}
	return u.storage.putJSON(ctx, activeUserKey, email)
}

func (u *UserStore) ClearActiveEmail(ctx context.Context) error {
	return u.storage.deleteKey(ctx, activeUserKey)
}
