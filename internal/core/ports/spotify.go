package ports

import (
	"context"
	"fmt"
	"time"

	"github.com/ewilliams-labs/wrapped/internal/core/domain"
)

// FetchError describes a failed call to the music API. It matches
// domain.ErrFetchFailed and is never retried.
type FetchError struct {
	Op         string
	StatusCode int           // 0 when no response was received
	RetryAfter time.Duration // parsed from Retry-After, informational only
	Err        error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("%s: %s", domain.ErrFetchFailed, e.Op)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.RetryAfter > 0 {
		msg += fmt.Sprintf(" (retry after %s)", e.RetryAfter)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Is(target error) bool {
	return target == domain.ErrFetchFailed
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// SpotifyProvider is the authenticated capability handle of one session.
type SpotifyProvider interface {
	FetchTopTracks(ctx context.Context, limit, offset int, timeRange domain.TimeRange) (domain.RawBatch, error)
	FetchPlaylistItems(ctx context.Context, playlistID string, limit, offset int) (domain.RawBatch, error)
	// FetchTrackMetadata returns one record per id, in id order.
	FetchTrackMetadata(ctx context.Context, ids []string) ([]domain.TrackMetadata, error)
	// FetchAudioFeatures returns one entry per id, in id order; nil marks
	// a track the API has no features for.
	FetchAudioFeatures(ctx context.Context, ids []string) ([]*domain.AudioFeatures, error)
}

// EstimateRequest identifies a track whose features must be derived locally.
type EstimateRequest struct {
	TrackID    string
	PreviewURL string
}

// FeatureEstimator fills in audio features the API could not provide.
type FeatureEstimator interface {
	Estimate(ctx context.Context, reqs []EstimateRequest) ([]domain.AudioFeatures, error)
}
