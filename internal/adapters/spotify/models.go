package spotify

// spotifyArtist is a simplified artist object.
type spotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type spotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type spotifyAlbum struct {
	Name    string          `json:"name"`
	Artists []spotifyArtist `json:"artists"`
	Images  []spotifyImage  `json:"images"`
}

// spotifyTrack represents a full track object from GET /tracks.
type spotifyTrack struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Artists      []spotifyArtist `json:"artists"`
	Album        spotifyAlbum    `json:"album"`
	PreviewURL   *string         `json:"preview_url"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
	LinkedFrom *struct {
		ID string `json:"id"`
	} `json:"linked_from,omitempty"`
}

// tracksResponse is the body of GET /tracks?ids=...; entries may be null.
type tracksResponse struct {
	Tracks []*spotifyTrack `json:"tracks"`
}

// spotifyAudioFeatures is one entry of GET /audio-features?ids=....
type spotifyAudioFeatures struct {
	ID               string  `json:"id"`
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Key              int     `json:"key"`
	Loudness         float64 `json:"loudness"`
	Mode             int     `json:"mode"`
	Speechiness      float64 `json:"speechiness"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
	Liveness         float64 `json:"liveness"`
	Valence          float64 `json:"valence"`
	Tempo            float64 `json:"tempo"`
	DurationMs       int     `json:"duration_ms"`
	TimeSignature    int     `json:"time_signature"`
}

type audioFeaturesResponse struct {
	AudioFeatures []*spotifyAudioFeatures `json:"audio_features"`
}
