// Package auth provides the authentication building blocks: bcrypt password
// hashing, JWT session tokens, and external identity-assertion handling.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor.
//
// The original design stored plaintext passwords and compared them directly.
// That is fine in a prototype and a breach waiting to happen anywhere else —
// here every password is hashed before it ever reaches storage. Cost 12
// takes roughly a quarter second per hash: negligible for a login, ruinous
// for a brute-force attempt.
const defaultCost = 12

// PasswordService provides bcrypt hashing and verification.
// The cost is a field (not a constant in the methods) so tests can inject
// the bcrypt minimum and skip the deliberate slowness.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the production cost.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceForTest creates a PasswordService with a custom (low)
// cost. Tests use bcrypt.MinCost (4); never use that in production.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash hashes a plaintext password. The returned string embeds the salt and
// cost, so it can be stored as-is and verified later without extra columns.
//
// bcrypt silently truncates input beyond 72 bytes; we reject long passwords
// explicitly so callers aren't surprised.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored hash. Returns nil on
// match. The comparison is constant-time inside bcrypt, so response timing
// leaks nothing about how close a guess was.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return fmt.Errorf("auth: invalid password")
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
