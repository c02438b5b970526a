package rest

import (
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/ewilliams-labs/wrapped/internal/core/domain"
	"github.com/ewilliams-labs/wrapped/internal/core/ports"
	"github.com/ewilliams-labs/wrapped/internal/core/services"
)

const (
	errCodeNoSession         = "NO_SESSION"
	errCodeLoginFailed       = "LOGIN_FAILED"
	errCodeInvalidQuery      = "INVALID_QUERY"
	errCodeUnknownFeature    = "UNKNOWN_FEATURE"
	errCodeEmptyGroup        = "EMPTY_GROUP"
	errCodeNotFound          = "NOT_FOUND"
	errCodeMalformedUpstream = "MALFORMED_UPSTREAM"
	errCodeFetchFailed       = "FETCH_FAILED"
	errCodeInternal          = "INTERNAL"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("WARN rest: failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeErrorWithCode(w http.ResponseWriter, status int, msg, code string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

// writeServiceError maps core errors onto status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	var fetchErr *ports.FetchError

	switch {
	case errors.Is(err, services.ErrNoSession):
		writeErrorWithCode(w, http.StatusUnauthorized, err.Error(), errCodeNoSession)
	case errors.Is(err, domain.ErrInvalidQuery):
		writeErrorWithCode(w, http.StatusBadRequest, err.Error(), errCodeInvalidQuery)
	case errors.Is(err, domain.ErrUnknownFeature):
		writeErrorWithCode(w, http.StatusBadRequest, err.Error(), errCodeUnknownFeature)
	case errors.Is(err, domain.ErrEmptyGroup):
		writeErrorWithCode(w, http.StatusNotFound, err.Error(), errCodeEmptyGroup)
	case errors.Is(err, domain.ErrNotFound):
		writeErrorWithCode(w, http.StatusNotFound, err.Error(), errCodeNotFound)
	case errors.Is(err, domain.ErrMalformedInput), errors.Is(err, domain.ErrLengthMismatch):
		writeErrorWithCode(w, http.StatusBadGateway, err.Error(), errCodeMalformedUpstream)
	case errors.As(err, &fetchErr):
		if fetchErr.StatusCode == http.StatusTooManyRequests {
			if fetchErr.RetryAfter > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(fetchErr.RetryAfter.Seconds()))))
			}
			writeErrorWithCode(w, http.StatusTooManyRequests, err.Error(), errCodeFetchFailed)
			return
		}
		writeErrorWithCode(w, http.StatusBadGateway, err.Error(), errCodeFetchFailed)
	case errors.Is(err, domain.ErrFetchFailed):
		writeErrorWithCode(w, http.StatusBadGateway, err.Error(), errCodeFetchFailed)
	default:
		log.Printf("WARN rest: unexpected error: %v", err)
		writeErrorWithCode(w, http.StatusInternalServerError, err.Error(), errCodeInternal)
	}
}
