package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleProvider wraps golang.org/x/oauth2 for the Google Authorization
// Code flow. It exists so users without the One Tap widget can still sign
// in: the server redirects to Google, Google calls back with a code, and
// the code exchange yields an ID token — the same JWT credential shape the
// One Tap flow posts directly.
//
// The exchange itself happens server-to-server with the client secret, so
// the code-for-token step is authenticated. The ID token's claims are then
// consumed through the same AssertionDecoder as every other assertion.
type GoogleProvider struct {
	config *oauth2.Config
}

// NewGoogleProvider creates a provider from OAuth client credentials.
// callbackURL must exactly match an authorized redirect URI registered in
// the Google Cloud console.
func NewGoogleProvider(clientID, clientSecret, callbackURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthURL returns the Google authorization URL for the given CSRF state.
// The caller stores the state in a short-lived cookie and checks it on
// callback.
func (p *GoogleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the authorization code for the ID token credential.
//
// Google returns the ID token alongside the access token as the "id_token"
// extra field. We hand the raw JWT back rather than decoding here — the
// identity service owns the decode, through its injected AssertionDecoder.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (string, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("auth: exchanging OAuth code: %w", err)
	}

	rawID, ok := token.Extra("id_token").(string)
	if !ok || rawID == "" {
		return "", fmt.Errorf("auth: token response contained no id_token")
	}
	return rawID, nil
}
