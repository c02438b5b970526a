package rest

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ewilliams-labs/wrapped/internal/core/domain"
	"github.com/ewilliams-labs/wrapped/internal/core/services"
)

type browseResponse struct {
	Tracks []domain.TrackRow `json:"tracks"`
}

type comparisonResponse struct {
	Rows []domain.ComparisonRow `json:"rows"`
}

type featureInfo struct {
	Name        domain.Feature `json:"name"`
	Description string         `json:"description"`
}

// BrowseTracks handles GET /tracks?label=&limit=&q=
func (h *Handler) BrowseTracks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	// 1. Parse query
	query := domain.BrowseQuery{
		Label:  q.Get("label"),
		Search: q.Get("q"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			writeErrorWithCode(w, http.StatusBadRequest, fmt.Sprintf("limit must be a positive integer, got %q", raw), errCodeInvalidQuery)
			return
		}
		query.Limit = limit
	}

	// 2. Call the Service
	rows, err := h.svc.Browse(r.Context(), query)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, browseResponse{Tracks: rows})
}

// GetComparison handles GET /comparison?features=a,b&groups=
func (h *Handler) GetComparison(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := services.CompareQuery{Groups: q.Get("groups")}
	if raw := q.Get("features"); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			if strings.TrimSpace(name) == "" {
				continue
			}
			f, err := domain.ParseFeature(name)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			query.Features = append(query.Features, f)
		}
	}

	rows, err := h.svc.Compare(r.Context(), query)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, comparisonResponse{Rows: rows})
}

// ListFeatures handles GET /features
func (h *Handler) ListFeatures(w http.ResponseWriter, r *http.Request) {
	out := make([]featureInfo, 0, len(domain.ComparedFeatures))
	for _, f := range domain.ComparedFeatures {
		out = append(out, featureInfo{Name: f, Description: domain.FeatureDescriptions[f]})
	}
	writeJSON(w, http.StatusOK, out)
}
