package spotify

import (
	"github.com/ewilliams-labs/wrapped/internal/core/domain"
)

// mapTrackToDomain validates a raw track fetched for requestedID at index i
// and flattens it into domain.TrackMetadata.
func mapTrackToDomain(i int, requestedID string, st *spotifyTrack) (domain.TrackMetadata, error) {
	if st == nil {
		return domain.TrackMetadata{}, &domain.MalformedInputError{Index: i, Field: "tracks", Reason: "null track"}
	}
	if st.ID == "" {
		return domain.TrackMetadata{}, &domain.MalformedInputError{Index: i, Field: "id"}
	}

	// Relinked tracks come back under a different id; linked_from keeps ours.
	if st.ID != requestedID && (st.LinkedFrom == nil || st.LinkedFrom.ID != requestedID) {
		return domain.TrackMetadata{}, &domain.MalformedInputError{Index: i, Field: "id", Reason: "got " + st.ID + ", requested " + requestedID}
	}
	if st.Name == "" {
		return domain.TrackMetadata{}, &domain.MalformedInputError{Index: i, Field: "name"}
	}

	// 1. Primary artist: first track artist, else first album artist
	artist := ""
	if len(st.Artists) > 0 {
		artist = st.Artists[0].Name
	} else if len(st.Album.Artists) > 0 {
		artist = st.Album.Artists[0].Name
	}
	if artist == "" {
		return domain.TrackMetadata{}, &domain.MalformedInputError{Index: i, Field: "artists"}
	}

	// 2. Album cover is optional
	coverURL := ""
	if len(st.Album.Images) > 0 {
		coverURL = st.Album.Images[0].URL
	}

	previewURL := ""
	if st.PreviewURL != nil {
		previewURL = *st.PreviewURL
	}

	return domain.TrackMetadata{
		ID:         requestedID,
		Title:      st.Name,
		Album:      st.Album.Name,
		Artist:     artist,
		URL:        st.ExternalURLs.Spotify,
		CoverURL:   coverURL,
		PreviewURL: previewURL,
	}, nil
}

// mapFeaturesToDomain converts one audio features entry; nil stays nil.
func mapFeaturesToDomain(i int, requestedID string, f *spotifyAudioFeatures) (*domain.AudioFeatures, error) {
	if f == nil {
		return nil, nil
	}
	if f.ID != "" && f.ID != requestedID {
		return nil, &domain.MalformedInputError{Index: i, Field: "id", Reason: "got " + f.ID + ", requested " + requestedID}
	}

	return &domain.AudioFeatures{
		Danceability:     f.Danceability,
		Energy:           f.Energy,
		Key:              float64(f.Key),
		Loudness:         f.Loudness,
		Mode:             float64(f.Mode),
		Speechiness:      f.Speechiness,
		Acousticness:     f.Acousticness,
		Instrumentalness: f.Instrumentalness,
		Liveness:         f.Liveness,
		Valence:          f.Valence,
		Tempo:            f.Tempo,
		DurationMs:       float64(f.DurationMs),
		TimeSignature:    float64(f.TimeSignature),
	}, nil
}
