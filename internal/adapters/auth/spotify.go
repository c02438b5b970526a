// Package auth runs the Spotify authorization code flow and turns its result
// into an authenticated http.Client for the spotify adapter.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

// ErrLoginFailed wraps every failure to obtain or verify a token.
var ErrLoginFailed = errors.New("auth: login failed")

// Scopes requested from the user. Top tracks need user-top-read.
var Scopes = []string{spotifyauth.ScopeUserTopRead, spotifyauth.ScopeUserReadPrivate}

// Config holds the registered application credentials.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	APIBaseURL   string // empty for production
}

// Login is the outcome of a completed authorization.
type Login struct {
	User       string
	HTTPClient *http.Client
	Token      *oauth2.Token
}

// Authenticator drives the OAuth flow.
type Authenticator struct {
	auth       *spotifyauth.Authenticator
	apiBaseURL string
}

// New builds an Authenticator for cfg.
func New(cfg Config) *Authenticator {
	a := spotifyauth.New(
		spotifyauth.WithClientID(cfg.ClientID),
		spotifyauth.WithClientSecret(cfg.ClientSecret),
		spotifyauth.WithRedirectURL(cfg.RedirectURL),
		spotifyauth.WithScopes(Scopes...),
	)
	return &Authenticator{auth: a, apiBaseURL: cfg.APIBaseURL}
}

// AuthURL is the page the user must visit to grant access.
func (a *Authenticator) AuthURL(state string) string {
	return a.auth.AuthURL(state)
}

// Complete exchanges the code carried by the callback request r. The state
// in r must equal state.
func (a *Authenticator) Complete(ctx context.Context, state string, r *http.Request) (Login, error) {
	tok, err := a.auth.Token(ctx, state, r)
	if err != nil {
		return Login{}, fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}

	// The client outlives the callback request, so it must not carry its context.
	hc := a.auth.Client(context.Background(), tok)
	return a.login(ctx, hc, tok)
}

// StaticLogin wraps an already issued access token, e.g. from SPOTIFY_ACCESS_TOKEN.
func (a *Authenticator) StaticLogin(ctx context.Context, accessToken string) (Login, error) {
	if strings.TrimSpace(accessToken) == "" {
		return Login{}, fmt.Errorf("%w: access token is empty", ErrLoginFailed)
	}

	tok := &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}
	hc := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(tok))
	return a.login(ctx, hc, tok)
}

// login verifies the token by reading the current user's profile.
func (a *Authenticator) login(ctx context.Context, hc *http.Client, tok *oauth2.Token) (Login, error) {
	var opts []spotify.ClientOption
	if a.apiBaseURL != "" {
		opts = append(opts, spotify.WithBaseURL(strings.TrimRight(a.apiBaseURL, "/")+"/"))
	}

	user, err := spotify.New(hc, opts...).CurrentUser(ctx)
	if err != nil {
		return Login{}, fmt.Errorf("%w: current user: %v", ErrLoginFailed, err)
	}

	name := user.DisplayName
	if name == "" {
		name = user.ID
	}
	return Login{User: name, HTTPClient: hc, Token: tok}, nil
}
