package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ewilliams-labs/wrapped/internal/core/domain"
)

// FetchTrackMetadata fetches every id with a single GET /tracks call.
func (c *Client) FetchTrackMetadata(ctx context.Context, ids []string) ([]domain.TrackMetadata, error) {
	if len(ids) == 0 {
		return []domain.TrackMetadata{}, nil
	}

	body, err := c.get(ctx, "tracks", "/tracks", map[string]string{"ids": strings.Join(ids, ",")})
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: %w", err)
	}

	var tr tracksResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("spotify adapter: %w", &domain.MalformedInputError{Index: -1, Field: "tracks", Reason: err.Error()})
	}
	if len(tr.Tracks) != len(ids) {
		return nil, fmt.Errorf("spotify adapter: %w", &domain.MalformedInputError{
			Index:  -1,
			Field:  "tracks",
			Reason: fmt.Sprintf("%d entries for %d ids", len(tr.Tracks), len(ids)),
		})
	}

	out := make([]domain.TrackMetadata, len(ids))
	for i, st := range tr.Tracks {
		meta, err := mapTrackToDomain(i, ids[i], st)
		if err != nil {
			return nil, fmt.Errorf("spotify adapter: %w", err)
		}
		out[i] = meta
	}
	return out, nil
}

// FetchAudioFeatures fetches every id with a single GET /audio-features call.
func (c *Client) FetchAudioFeatures(ctx context.Context, ids []string) ([]*domain.AudioFeatures, error) {
	if len(ids) == 0 {
		return []*domain.AudioFeatures{}, nil
	}

	body, err := c.get(ctx, "audio features", "/audio-features", map[string]string{"ids": strings.Join(ids, ",")})
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: %w", err)
	}

	var fr audioFeaturesResponse
	if err := json.Unmarshal(body, &fr); err != nil {
		return nil, fmt.Errorf("spotify adapter: %w", &domain.MalformedInputError{Index: -1, Field: "audio_features", Reason: err.Error()})
	}
	if len(fr.AudioFeatures) != len(ids) {
		return nil, fmt.Errorf("spotify adapter: %w", &domain.MalformedInputError{
			Index:  -1,
			Field:  "audio_features",
			Reason: fmt.Sprintf("%d entries for %d ids", len(fr.AudioFeatures), len(ids)),
		})
	}

	out := make([]*domain.AudioFeatures, len(ids))
	for i, f := range fr.AudioFeatures {
		mapped, err := mapFeaturesToDomain(i, ids[i], f)
		if err != nil {
			return nil, fmt.Errorf("spotify adapter: %w", err)
		}
		out[i] = mapped
	}
	return out, nil
}
