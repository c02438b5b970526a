package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/ewilliams-labs/wrapped/internal/adapters/auth"
)

// awaitLogin serves the redirect URI locally and waits for the callback.
func awaitLogin(ctx context.Context, authenticator *auth.Authenticator, redirectURI string) (auth.Login, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return auth.Login{}, fmt.Errorf("invalid redirect URI %q: %w", redirectURI, err)
	}

	ln, err := net.Listen("tcp", u.Host)
	if err != nil {
		return auth.Login{}, fmt.Errorf("failed to listen on %s: %w", u.Host, err)
	}

	type result struct {
		login auth.Login
		err   error
	}
	done := make(chan result, 1)
	state := uuid.NewString()

	path := u.Path
	if path == "" {
		path = "/"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+path, func(w http.ResponseWriter, r *http.Request) {
		login, err := authenticator.Complete(r.Context(), state, r)
		if err != nil {
			http.Error(w, "Couldn't log in", http.StatusForbidden)
		} else {
			fmt.Fprintln(w, "Login completed, you can close this tab.")
		}
		select {
		case done <- result{login: login, err: err}:
		default:
		}
	})

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 15 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("WARN: callback server: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	fmt.Println("Please log in to Spotify by visiting the following page in your browser:")
	yellow.Println(authenticator.AuthURL(state))

	select {
	case res := <-done:
		return res.login, res.err
	case <-ctx.Done():
		return auth.Login{}, fmt.Errorf("waiting for login: %w", ctx.Err())
	}
}
