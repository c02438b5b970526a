package rest

import (
	"log"
	"net/http"

	"github.com/google/uuid"
)

// Login handles GET /login by redirecting to the authorization page.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()

	h.mu.Lock()
	h.pendingState = state
	h.mu.Unlock()

	http.Redirect(w, r, h.login.AuthURL(state), http.StatusFound)
}

// Callback handles GET /callback: it completes the login and builds the
// session's dataset.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	// 1. Consume the pending state; a state is only good for one callback
	h.mu.Lock()
	state := h.pendingState
	h.pendingState = ""
	h.mu.Unlock()

	if state == "" {
		writeErrorWithCode(w, http.StatusBadRequest, "no login in progress", errCodeInvalidQuery)
		return
	}

	// 2. Exchange the code
	login, err := h.login.Complete(r.Context(), state, r)
	if err != nil {
		log.Printf("WARN rest: login failed: %v", err)
		writeErrorWithCode(w, http.StatusUnauthorized, err.Error(), errCodeLoginFailed)
		return
	}

	// 3. Build the dataset and make it the active session
	session, err := h.svc.StartSession(r.Context(), login.User, h.provider(login.HTTPClient))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Location", "/session")
	writeJSON(w, http.StatusCreated, session)
}

// GetSession handles GET /session
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.svc.CurrentSession()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// RefreshSession handles POST /session/refresh
func (h *Handler) RefreshSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.svc.Refresh(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// EndSession handles DELETE /session
func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.EndSession(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
