package service

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/seedhaven/internal/apperror"
	"github.com/sakif/seedhaven/internal/auth"
	"github.com/sakif/seedhaven/internal/model"
)

// =========================================================================
// FAKES SHARED BY THE SERVICE TESTS
// =========================================================================
//
// Hand-written fakes (not a mock framework) — you can read exactly what
// each one does, and error injection is a plain struct field.

// fakeUserStore is an in-memory repository.UserStore.
type fakeUserStore struct {
	users   map[string]model.User // keyed by email
	active  string
	saveErr error
	getErr  error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]model.User)}
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[email]
	if !ok {
		return nil, apperror.NotFound("user", email)
	}
	copied := u
	return &copied, nil
}

func (f *fakeUserStore) Save(_ context.Context, user *model.User) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.users[user.Email] = *user
	return nil
}

func (f *fakeUserStore) ActiveEmail(_ context.Context) (string, error) {
	return f.active, nil
}

func (f *fakeUserStore) SetActiveEmail(_ context.Context, email string) error {
	f.active = email
	return nil
}

func (f *fakeUserStore) ClearActiveEmail(_ context.Context) error {
	f.active = ""
	return nil
}

// fakeCartStore is an in-memory repository.CartStore.
type fakeCartStore struct {
	carts   map[string][]model.CartItem
	saveErr error
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: make(map[string][]model.CartItem)}
}

func (f *fakeCartStore) Load(_ context.Context, userID string) ([]model.CartItem, error) {
	items := f.carts[userID]
	out := make([]model.CartItem, len(items))
	copy(out, items)
	return out, nil
}

func (f *fakeCartStore) Save(_ context.Context, userID string, items []model.CartItem) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	stored := make([]model.CartItem, len(items))
	copy(stored, items)
	f.carts[userID] = stored
	return nil
}

func (f *fakeCartStore) Delete(_ context.Context, userID string) error {
	delete(f.carts, userID)
	return nil
}

// fakeDecoder returns a canned identity (or error) for any credential.
type fakeDecoder struct {
	identity *auth.Identity
	err      error
}

func (f fakeDecoder) Decode(string) (*auth.Identity, error) {
	return f.identity, f.err
}

// fakeSummarizer simulates the external confirmation-text service.
type fakeSummarizer struct {
	text  string
	err   error
	calls int
}

func (f *fakeSummarizer) Summarize(_ context.Context, _ model.Order, _ model.User) (string, error) {
	f.calls++
	return f.text, f.err
}

// =========================================================================
// WIRING HELPERS
// =========================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestIdentity(t *testing.T, users *fakeUserStore, decoder auth.AssertionDecoder) *IdentityService {
	t.Helper()
	if decoder == nil {
		decoder = auth.UnverifiedDecoder{}
	}
	return NewIdentityService(users, auth.NewPasswordServiceForTest(bcrypt.MinCost), decoder, testLogger())
}

// whiteSeed and blackSeed mirror the single-seed catalog entries.
func whiteSeed() model.Product {
	return model.Product{ID: "p1", Name: "Individual White Seed", Category: model.CategoryWhite, Price: 150}
}

func blackSeed() model.Product {
	return model.Product{ID: "p2", Name: "Individual Black Seed", Category: model.CategoryBlack, Price: 175}
}

func customPack(price model.Cents) model.Product {
	return model.Product{ID: "custom", Name: "Custom Seed Pack", Category: model.CategoryCustom, Price: price}
}
