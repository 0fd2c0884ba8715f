package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionDuration is how long a session cookie stays valid. A storefront
// session should comfortably outlast one shopping trip; the persisted
// active-user pointer (not the token) is what survives restarts.
const SessionDuration = 24 * time.Hour

const issuer = "seedhaven"

// TokenService issues and validates the HMAC-signed session tokens carried
// in the HttpOnly cookie. The subject claim is the user's email — the same
// value the identity store keys accounts by.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// Use at least 32 bytes of random data in production.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

type sessionClaims struct {
	jwt.RegisteredClaims
}

// Generate signs a session token for the given user email.
func (s *TokenService) Generate(email string) (string, error) {
	return s.GenerateWithDuration(email, SessionDuration)
}

// GenerateWithDuration signs a token with a custom expiry. Exposed for tests.
func (s *TokenService) GenerateWithDuration(email string, d time.Duration) (string, error) {
	now := time.Now()
	c := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Validate verifies a session token and returns the email it was issued for.
//
// WithValidMethods pins HS256 — without it an attacker could try an
// algorithm-confusion token ("alg":"none"). Issuer and expiry are enforced
// by the parser options.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&sessionClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid || c.Subject == "" {
		return "", fmt.Errorf("auth: invalid token claims")
	}
	return c.Subject, nil
}
