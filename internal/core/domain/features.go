package domain

import (
	"fmt"
	"strings"
)

// Feature names one audio attribute column.
type Feature string

const (
	Danceability     Feature = "danceability"
	Energy           Feature = "energy"
	Key              Feature = "key"
	Loudness         Feature = "loudness"
	Mode             Feature = "mode"
	Speechiness      Feature = "speechiness"
	Acousticness     Feature = "acousticness"
	Instrumentalness Feature = "instrumentalness"
	Liveness         Feature = "liveness"
	Valence          Feature = "valence"
	Tempo            Feature = "tempo"
	DurationMs       Feature = "duration_ms"
	TimeSignature    Feature = "time_signature"
)

// AllFeatures is every column carried by AudioFeatures, in storage order.
var AllFeatures = []Feature{
	Danceability, Energy, Key, Loudness, Mode, Speechiness, Acousticness,
	Instrumentalness, Liveness, Valence, Tempo, DurationMs, TimeSignature,
}

// ComparedFeatures is the default set normalized and charted by the dashboard.
var ComparedFeatures = []Feature{
	Danceability, Energy, Loudness, Speechiness, Acousticness,
	Instrumentalness, Liveness, Valence, Tempo,
}

// FeatureDescriptions explains the compared features under the radar chart.
var FeatureDescriptions = map[Feature]string{
	Danceability:     "Describes the suitability of a track for dancing based on a combination of musical elements",
	Energy:           "Represents a perceptual measure of intensity and activity",
	Loudness:         "The overall loudness of a track in decibels (dB)",
	Speechiness:      "Indicates the presence of spoken words in a track",
	Acousticness:     "Measures the likelihood of a track being acoustic",
	Instrumentalness: "Predicts whether a track contains no vocals",
	Liveness:         "Detects the presence of an audience in the recording",
	Valence:          "Describes the musical positiveness of a track",
	Tempo:            "The overall estimated tempo of a track in beats per minute (BPM)",
}

// AudioFeatures is the numeric feature vector of one track.
type AudioFeatures struct {
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Key              float64 `json:"key"`
	Loudness         float64 `json:"loudness"`
	Mode             float64 `json:"mode"`
	Speechiness      float64 `json:"speechiness"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
	Liveness         float64 `json:"liveness"`
	Valence          float64 `json:"valence"`
	Tempo            float64 `json:"tempo"`
	DurationMs       float64 `json:"duration_ms"`
	TimeSignature    float64 `json:"time_signature"`
	// Estimated is set when the vector was derived locally because the API had none.
	Estimated bool `json:"estimated,omitempty"`
}

// ParseFeature resolves a column name, ignoring case and surrounding space.
func ParseFeature(name string) (Feature, error) {
	f := Feature(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := f.field(&AudioFeatures{}); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFeature, name)
	}
	return f, nil
}

// Get returns the value of column name.
func (af AudioFeatures) Get(name Feature) (float64, bool) {
	p, ok := name.field(&af)
	if !ok {
		return 0, false
	}
	return *p, true
}

// Set assigns the value of column name.
func (af *AudioFeatures) Set(name Feature, value float64) error {
	p, ok := name.field(af)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFeature, name)
	}
	*p = value
	return nil
}

func (f Feature) field(af *AudioFeatures) (*float64, bool) {
	switch f {
	case Danceability:
		return &af.Danceability, true
	case Energy:
		return &af.Energy, true
	case Key:
		return &af.Key, true
	case Loudness:
		return &af.Loudness, true
	case Mode:
		return &af.Mode, true
	case Speechiness:
		return &af.Speechiness, true
	case Acousticness:
		return &af.Acousticness, true
	case Instrumentalness:
		return &af.Instrumentalness, true
	case Liveness:
		return &af.Liveness, true
	case Valence:
		return &af.Valence, true
	case Tempo:
		return &af.Tempo, true
	case DurationMs:
		return &af.DurationMs, true
	case TimeSignature:
		return &af.TimeSignature, true
	}
	return nil, false
}

func validateFeatures(features []Feature) error {
	for _, f := range features {
		if _, ok := f.field(&AudioFeatures{}); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownFeature, f)
		}
	}
	return nil
}
