// Package service contains the business logic layer: the identity store,
// the cart store, and the checkout pipeline.
//
// Services accept primitives and model types, never HTTP types, and return
// domain errors from internal/apperror — the handler layer owns the HTTP
// translation. Dependencies come in through interfaces so tests run against
// hand-written fakes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rs/xid"

	"github.com/sakif/seedhaven/internal/apperror"
	"github.com/sakif/seedhaven/internal/auth"
	"github.com/sakif/seedhaven/internal/model"
	"github.com/sakif/seedhaven/internal/repository"
)

// IdentityService owns user accounts and the active-user pointer.
//
// The active user is not ambient global state: every operation that needs it
// resolves it explicitly through the store, and the cart/checkout services
// receive the active user's identifier as an argument rather than reaching
// into a shared variable.
type IdentityService struct {
	users      repository.UserStore
	passwords  *auth.PasswordService
	assertions auth.AssertionDecoder
	logger     *slog.Logger
}

// NewIdentityService wires an IdentityService. The assertion decoder is an
// interface so tests (and a future verifying deployment) can substitute it.
func NewIdentityService(
	users repository.UserStore,
	passwords *auth.PasswordService,
	assertions auth.AssertionDecoder,
	logger *slog.Logger,
) *IdentityService {
	return &IdentityService{
		users:      users,
		passwords:  passwords,
		assertions: assertions,
		logger:     logger,
	}
}

func newUserID() string {
	return "user-" + xid.New().String()
}

func emptyLists(u *model.User) {
	u.Orders = []model.Order{}
	u.Addresses = []model.Address{}
	u.PaymentMethods = []model.PaymentMethod{}
}

// Signup creates a new account and marks it active.
//
// Fails with a conflict if the email is already registered — and leaves the
// existing account completely untouched in that case. The password is
// bcrypt-hashed before it reaches storage.
func (s *IdentityService) Signup(ctx context.Context, name, email, password string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperror.ValidationFailed("email", "a valid email is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil, apperror.Conflict("an account with this email already exists")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/identity: checking for existing account: %w", err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/identity: %w", err)
	}

	user := &model.User{
		ID:           newUserID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	emptyLists(user)

	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("service/identity: saving new account: %w", err)
	}
	if err := s.users.SetActiveEmail(ctx, email); err != nil {
		return nil, fmt.Errorf("service/identity: activating new account: %w", err)
	}

	s.logger.Info("account created",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)
	return user, nil
}

// Login verifies credentials and marks the account active.
//
// Unknown email, wrong password, and password-less (external-identity)
// accounts all fail with the same "invalid credentials" error — the response
// never reveals which part was wrong. On failure the active-user pointer is
// left exactly as it was.
func (s *IdentityService) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("invalid credentials")
		}
		return nil, fmt.Errorf("service/identity: looking up account: %w", err)
	}

	if user.PasswordHash == "" || s.passwords.Verify(user.PasswordHash, password) != nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	if err := s.users.SetActiveEmail(ctx, email); err != nil {
		return nil, fmt.Errorf("service/identity: activating account: %w", err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))
	return user, nil
}

// LoginWithAssertion signs a user in from an external identity assertion.
//
// The assertion's claims are trusted as decoded — no issuer signature check
// happens here (see auth.UnverifiedDecoder). First login for an email
// creates a password-less account; either way the account is marked active.
func (s *IdentityService) LoginWithAssertion(ctx context.Context, rawAssertion string) (*model.User, error) {
	identity, err := s.assertions.Decode(rawAssertion)
	if err != nil {
		return nil, apperror.ValidationFailed("credential", "invalid identity assertion")
	}
	email := strings.ToLower(identity.Email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("service/identity: looking up account: %w", err)
		}

		// First external-identity login — create the account. The provider's
		// subject becomes the internal ID when present, so repeat logins from
		// the same provider account map to the same cart key.
		user = &model.User{
			ID:    identity.Subject,
			Name:  identity.Name,
			Email: email,
		}
		if user.ID == "" {
			user.ID = newUserID()
		}
		emptyLists(user)

		if err := s.users.Save(ctx, user); err != nil {
			return nil, fmt.Errorf("service/identity: saving asserted account: %w", err)
		}
		s.logger.Info("account created from identity assertion",
			slog.String("userID", user.ID),
			slog.String("email", user.Email),
		)
	}

	if err := s.users.SetActiveEmail(ctx, email); err != nil {
		return nil, fmt.Errorf("service/identity: activating account: %w", err)
	}
	return user, nil
}

// Logout clears the active-user pointer. Nothing persisted is deleted — the
// user's cart and account data stay put for their next visit.
func (s *IdentityService) Logout(ctx context.Context) error {
	if err := s.users.ClearActiveEmail(ctx); err != nil {
		return fmt.Errorf("service/identity: clearing active user: %w", err)
	}
	return nil
}

// ActiveUser resolves the persisted active-user pointer to a full account.
// Returns (nil, nil) when nobody is logged in, or when the pointer is stale
// (points at an email with no account).
func (s *IdentityService) ActiveUser(ctx context.Context) (*model.User, error) {
	email, err := s.users.ActiveEmail(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/identity: reading active pointer: %w", err)
	}
	if email == "" {
		return nil, nil
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("service/identity: resolving active user: %w", err)
	}
	return user, nil
}

// UserByEmail returns the account for an email.
// Returns apperror.ErrNotFound for unknown emails.
func (s *IdentityService) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// UpdateUser replaces the active user's stored record.
//
// This is the sole mutation path for orders, addresses, and payment methods.
// The operation is refused — with no partial effect — unless a user is
// active and the given record's email matches theirs.
func (s *IdentityService) UpdateUser(ctx context.Context, updated *model.User) error {
	if updated == nil {
		return apperror.ValidationFailed("user", "user record is required")
	}

	active, err := s.ActiveUser(ctx)
	if err != nil {
		return err
	}
	if active == nil {
		return apperror.Unauthorized("no active user")
	}
	if active.Email != updated.Email {
		return apperror.Forbidden("profile updates must match the active user")
	}

	if err := s.users.Save(ctx, updated); err != nil {
		return fmt.Errorf("service/identity: saving profile update: %w", err)
	}
	return nil
}

// AddAddress appends a shipping address to the active user's profile.
// Routed through UpdateUser like every profile mutation.
func (s *IdentityService) AddAddress(ctx context.Context, addr model.Address) (*model.User, error) {
	user, err := s.ActiveUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.Unauthorized("no active user")
	}

	if strings.TrimSpace(addr.Street) == "" || strings.TrimSpace(addr.City) == "" {
		return nil, apperror.ValidationFailed("address", "street and city are required")
	}

	addr.ID = "addr-" + xid.New().String()
	if addr.Country == "" {
		addr.Country = "USA"
	}
	user.Addresses = append(user.Addresses, addr)

	if err := s.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// PaymentInput carries the raw form values for a new payment method.
// Full card/account numbers arrive here and leave as last-4 only — nothing
// beyond the truncated digits is ever stored.
type PaymentInput struct {
	Kind          model.PaymentKind
	CardNumber    string
	Expiry        string
	AccountNumber string
	RoutingNumber string
}

func last4(number string) string {
	if len(number) <= 4 {
		return number
	}
	return number[len(number)-4:]
}

// AddPaymentMethod appends a payment method to the active user's profile.
// The switch over Kind is exhaustive; unknown kinds are refused.
func (s *IdentityService) AddPaymentMethod(ctx context.Context, input PaymentInput) (*model.User, error) {
	user, err := s.ActiveUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.Unauthorized("no active user")
	}

	pm := model.PaymentMethod{
		ID:   "pm-" + xid.New().String(),
		Kind: input.Kind,
	}
	switch input.Kind {
	case model.PaymentCreditCard:
		if input.CardNumber == "" {
			return nil, apperror.ValidationFailed("cardNumber", "card number is required")
		}
		pm.Card = &model.CreditCard{Last4: last4(input.CardNumber), Expiry: input.Expiry}
	case model.PaymentCheckingAccount:
		if input.AccountNumber == "" {
			return nil, apperror.ValidationFailed("accountNumber", "account number is required")
		}
		pm.Account = &model.CheckingAccount{
			AccountLast4:  last4(input.AccountNumber),
			RoutingNumber: input.RoutingNumber,
		}
	default:
		return nil, apperror.ValidationFailed("type", fmt.Sprintf("unknown payment method type %q", input.Kind))
	}

	user.PaymentMethods = append(user.PaymentMethods, pm)
	if err := s.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	// Describe renders only the retained last-4, so the label is log-safe.
	s.logger.Info("payment method added",
		slog.String("userID", user.ID),
		slog.String("method", pm.Describe()),
	)
	return user, nil
}
