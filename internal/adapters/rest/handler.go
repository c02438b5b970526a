package rest

import (
	"context"
	"net/http"
	"sync"

	"github.com/ewilliams-labs/wrapped/internal/adapters/auth"
	"github.com/ewilliams-labs/wrapped/internal/core/ports"
	"github.com/ewilliams-labs/wrapped/internal/core/services"
)

// LoginFlow is the OAuth side of the login routes.
type LoginFlow interface {
	AuthURL(state string) string
	Complete(ctx context.Context, state string, r *http.Request) (auth.Login, error)
}

// ProviderFactory binds a music API client to an authenticated http.Client.
type ProviderFactory func(hc *http.Client) ports.SpotifyProvider

// Handler manages the HTTP interface for our application.
type Handler struct {
	svc      *services.Orchestrator // Dependency on the Core Service
	login    LoginFlow
	provider ProviderFactory
	router   *http.ServeMux // Standard library router

	mu           sync.Mutex
	pendingState string // state of the login in progress, if any
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(svc *services.Orchestrator, login LoginFlow, provider ProviderFactory) *Handler {
	h := &Handler{
		svc:      svc,
		login:    login,
		provider: provider,
		router:   http.NewServeMux(),
	}

	// Register Routes
	h.routes()

	return h
}

// ServeHTTP satisfies the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// routes defines the mapping between URLs and methods.
func (h *Handler) routes() {
	// Health Check
	h.router.HandleFunc("GET /health", h.HealthCheck)
	// Login & session lifecycle
	h.router.HandleFunc("GET /login", h.Login)
	h.router.HandleFunc("GET /callback", h.Callback)
	h.router.HandleFunc("GET /session", h.GetSession)
	h.router.HandleFunc("POST /session/refresh", h.RefreshSession)
	h.router.HandleFunc("DELETE /session", h.EndSession)
	// Dashboard views
	h.router.HandleFunc("GET /tracks", h.BrowseTracks)
	h.router.HandleFunc("GET /comparison", h.GetComparison)
	h.router.HandleFunc("GET /features", h.ListFeatures)
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "Wrapped is live 🎧"})
}
