package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/ewilliams-labs/wrapped/internal/adapters/auth"
)

func TestAuthURL(t *testing.T) {
	a := auth.New(auth.Config{ClientID: "client-1", RedirectURL: "http://localhost:8888/callback"})

	raw := a.AuthURL("state-xyz")
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse auth url: %v", err)
	}
	q := u.Query()
	if q.Get("client_id") != "client-1" {
		t.Fatalf("client_id: got %q", q.Get("client_id"))
	}
	if q.Get("state") != "state-xyz" {
		t.Fatalf("state: got %q", q.Get("state"))
	}
	if q.Get("redirect_uri") != "http://localhost:8888/callback" {
		t.Fatalf("redirect_uri: got %q", q.Get("redirect_uri"))
	}
	if !strings.Contains(q.Get("scope"), "user-top-read") {
		t.Fatalf("scope missing user-top-read: %q", q.Get("scope"))
	}
}

func TestComplete_StateMismatch(t *testing.T) {
	a := auth.New(auth.Config{ClientID: "client-1", RedirectURL: "http://localhost:8888/callback"})

	r := httptest.NewRequest(http.MethodGet, "/callback?code=abc&state=other", nil)
	_, err := a.Complete(context.Background(), "expected", r)
	if !errors.Is(err, auth.ErrLoginFailed) {
		t.Fatalf("expected ErrLoginFailed, got %v", err)
	}
}

func TestStaticLogin(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		status   int
		body     string
		wantUser string
		wantErr  bool
	}{
		{name: "display name", token: "tok", status: http.StatusOK, body: `{"id":"u1","display_name":"Ada"}`, wantUser: "Ada"},
		{name: "falls back to id", token: "tok", status: http.StatusOK, body: `{"id":"u1","display_name":""}`, wantUser: "u1"},
		{name: "rejected token", token: "tok", status: http.StatusUnauthorized, body: `{"error":{"status":401,"message":"Invalid access token"}}`, wantErr: true},
		{name: "empty token", token: " ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotAuth string
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/me" {
					t.Errorf("expected URL path /me, got %s", r.URL.Path)
				}
				gotAuth = r.Header.Get("Authorization")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			a := auth.New(auth.Config{APIBaseURL: ts.URL})
			login, err := a.StaticLogin(context.Background(), tt.token)
			if tt.wantErr {
				if !errors.Is(err, auth.ErrLoginFailed) {
					t.Fatalf("expected ErrLoginFailed, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if login.User != tt.wantUser {
				t.Fatalf("user: got %q, want %q", login.User, tt.wantUser)
			}
			if gotAuth != "Bearer "+tt.token {
				t.Fatalf("authorization header: got %q", gotAuth)
			}
			if login.HTTPClient == nil || login.Token == nil {
				t.Fatalf("login missing client or token: %+v", login)
			}
		})
	}
}
