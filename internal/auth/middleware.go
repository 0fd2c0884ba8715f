package auth

import (
	"context"
	"net/http"
)

// contextKey is unexported so only this package can read or write session
// values in a request context — a plain string key would be forgeable by
// any package that guesses it.
type contextKey string

const emailKey contextKey = "sessionEmail"

// SessionCookie is the name of the HttpOnly cookie carrying the session JWT.
const SessionCookie = "seedhaven_session"

// RequireAuth blocks requests that don't carry a valid session token.
// On success the session email is stored in the request context for
// handlers to read via EmailFromContext.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, err := sessionEmail(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), emailKey, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the session email when a valid token is present but
// never blocks. Cart routes use this: anonymous visitors get an in-memory
// cart, signed-in users get their persisted one.
func OptionalAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if email, err := sessionEmail(r, tokens); err == nil && email != "" {
				r = r.WithContext(context.WithValue(r.Context(), emailKey, email))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// EmailFromContext returns the authenticated session email.
// ("", false) means the request is anonymous.
func EmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(emailKey).(string)
	return email, ok && email != ""
}

func sessionEmail(r *http.Request, tokens *TokenService) (string, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return "", err
	}
	return tokens.Validate(cookie.Value)
}
