package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/seedhaven/internal/apperror"
	"github.com/sakif/seedhaven/internal/auth"
	"github.com/sakif/seedhaven/internal/model"
	"github.com/sakif/seedhaven/internal/service"
)

// stateCookie holds the CSRF state between the Google redirect and the
// callback. Short-lived on purpose.
const stateCookie = "seedhaven_oauth_state"

// AuthHandler owns signup, login, logout, and the two Google sign-in paths
// (posted credential and full redirect flow).
type AuthHandler struct {
	identity *service.IdentityService
	tokens   *auth.TokenService
	google   *auth.GoogleProvider // nil when OAuth is not configured
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler. google may be nil; the redirect
// endpoints then answer 503.
func NewAuthHandler(
	identity *service.IdentityService,
	tokens *auth.TokenService,
	google *auth.GoogleProvider,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{identity: identity, tokens: tokens, google: google, logger: logger}
}

// publicUser strips the password hash before a user record goes on the wire.
// The hash field is omitempty, so blanking it removes it from the JSON.
func publicUser(u *model.User) *model.User {
	if u == nil {
		return nil
	}
	out := *u
	out.PasswordHash = ""
	return &out
}

// issueSession sets the HttpOnly session cookie for the given email.
func (h *AuthHandler) issueSession(w http.ResponseWriter, email string) error {
	token, err := h.tokens.Generate(email)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(auth.SessionDuration),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// HandleSignup registers a new account and starts a session.
//
// HTTP: POST /api/auth/signup
// BODY: {"name":"Ada","email":"ada@example.com","password":"..."}
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.identity.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.issueSession(w, user.Email); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, publicUser(user))
}

// HandleLogin verifies credentials and starts a session.
//
// HTTP: POST /api/auth/login
// BODY: {"email":"ada@example.com","password":"..."}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.issueSession(w, user.Email); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, publicUser(user))
}

// HandleLogout ends the session. The persisted account and cart stay put.
//
// HTTP: POST /api/auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.identity.Logout(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// HandleCredential signs in with a posted identity assertion — the shape
// the Google One Tap widget produces on the client.
//
// HTTP: POST /api/auth/google
// BODY: {"credential":"<jwt>"}
func (h *AuthHandler) HandleCredential(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Credential string `json:"credential"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Credential == "" {
		writeError(w, apperror.ValidationFailed("credential", "credential is required"))
		return
	}

	user, err := h.identity.LoginWithAssertion(r.Context(), req.Credential)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.issueSession(w, user.Email); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, publicUser(user))
}

// HandleGoogleLogin starts the redirect OAuth flow.
//
// HTTP: GET /api/auth/google/login
func (h *AuthHandler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		writeError(w, apperror.Unavailable("Google sign-in is not configured"))
		return
	}

	state := xid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.google.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGoogleCallback finishes the redirect flow: checks the CSRF state,
// trades the code for an ID token, and signs the user in with it.
//
// HTTP: GET /api/auth/google/callback?state=...&code=...
func (h *AuthHandler) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		writeError(w, apperror.Unavailable("Google sign-in is not configured"))
		return
	}

	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		writeError(w, apperror.ValidationFailed("state", "OAuth state mismatch"))
		return
	}
	// State is single-use.
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/", MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, apperror.ValidationFailed("code", "authorization code is required"))
		return
	}

	credential, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Warn("OAuth code exchange failed", slog.String("error", err.Error()))
		writeError(w, apperror.Unauthorized("Google sign-in failed"))
		return
	}

	user, err := h.identity.LoginWithAssertion(r.Context(), credential)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.issueSession(w, user.Email); err != nil {
		writeError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// HandleMe returns the account behind the current session.
//
// HTTP: GET /api/auth/me (requires a session)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	email, ok := auth.EmailFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("no active session"))
		return
	}
	user, err := h.identity.UserByEmail(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, publicUser(user))
}
