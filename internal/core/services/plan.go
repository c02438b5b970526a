package services

import (
	"context"
	"fmt"

	"github.com/ewilliams-labs/wrapped/internal/core/domain"
	"github.com/ewilliams-labs/wrapped/internal/core/ports"
)

// DefaultGlobalTopPlaylistID is the public "Top 50 - Global" playlist.
const DefaultGlobalTopPlaylistID = "37i9dQZEVXbMDoHDwVN2tF"

// Source is one batch of tracks fetched for the dashboard.
type Source struct {
	Label  string
	Group  string
	Nested bool // items wrap their track under "track"
	Fetch  func(ctx context.Context, sp ports.SpotifyProvider) (domain.RawBatch, error)
}

// TopTracksSource lists the user's top tracks for one listening window.
func TopTracksSource(tr domain.TimeRange, limit int) Source {
	return Source{
		Label: tr.Label(),
		Group: domain.GroupUser,
		Fetch: func(ctx context.Context, sp ports.SpotifyProvider) (domain.RawBatch, error) {
			return sp.FetchTopTracks(ctx, limit, 0, tr)
		},
	}
}

// PlaylistSource lists the first limit items of a playlist as its own group.
func PlaylistSource(playlistID, label string, limit int) Source {
	return Source{
		Label:  label,
		Group:  label,
		Nested: true,
		Fetch: func(ctx context.Context, sp ports.SpotifyProvider) (domain.RawBatch, error) {
			return sp.FetchPlaylistItems(ctx, playlistID, limit, 0)
		},
	}
}

// Plan describes which sources make up a session's dataset.
type Plan struct {
	TimeRanges     []domain.TimeRange
	TopTracksLimit int
	PlaylistID     string
	PlaylistLimit  int
	Features       []domain.Feature
}

// DefaultPlan mirrors the dashboard: 30 top tracks per window against the Global Top 50.
func DefaultPlan() Plan {
	return Plan{
		TimeRanges:     domain.TimeRanges,
		TopTracksLimit: 30,
		PlaylistID:     DefaultGlobalTopPlaylistID,
		PlaylistLimit:  50,
		Features:       domain.ComparedFeatures,
	}
}

// Sources expands the plan, user windows first.
func (p Plan) Sources() []Source {
	sources := make([]Source, 0, len(p.TimeRanges)+1)
	for _, tr := range p.TimeRanges {
		sources = append(sources, TopTracksSource(tr, p.TopTracksLimit))
	}
	if p.PlaylistID != "" {
		sources = append(sources, PlaylistSource(p.PlaylistID, domain.GroupGlobalTop50, p.PlaylistLimit))
	}
	return sources
}

func (p Plan) validate() error {
	for _, tr := range p.TimeRanges {
		if !tr.Valid() {
			return fmt.Errorf("service: unknown time range %q", tr)
		}
	}
	if len(p.Features) == 0 {
		return fmt.Errorf("service: plan has no features")
	}
	return nil
}
