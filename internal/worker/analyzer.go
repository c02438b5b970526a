package worker

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"math"
	"math/rand"
	"net/http"
	"time"

	"github.com/hajimehoshi/go-mp3"

	"github.com/ewilliams-labs/wrapped/internal/core/domain"
)

// silenceFloor is the loudness reported for an all-zero preview.
const silenceFloor = -60.0

var previewClient = &http.Client{Timeout: 15 * time.Second}

// PreviewAnalysis holds what can be measured from a decoded preview clip.
type PreviewAnalysis struct {
	Energy   float64 // RMS over full scale, 0..1
	Loudness float64 // RMS in dBFS, silenceFloor..0
}

func analyzePreview(ctx context.Context, url string) (PreviewAnalysis, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return PreviewAnalysis{}, fmt.Errorf("preview request: %w", err)
	}

	// #nosec G107 -- URL is a preview URL from the API response
	resp, err := previewClient.Do(req)
	if err != nil {
		return PreviewAnalysis{}, fmt.Errorf("preview fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return PreviewAnalysis{}, fmt.Errorf("preview fetch status %d", resp.StatusCode)
	}

	decoder, err := mp3.NewDecoder(resp.Body)
	if err != nil {
		return PreviewAnalysis{}, fmt.Errorf("preview decode failed: %w", err)
	}

	return measurePCM(decoder)
}

// measurePCM reads 16-bit little-endian samples until EOF.
func measurePCM(r io.Reader) (PreviewAnalysis, error) {
	buf := make([]byte, 4096)
	var sumSquares float64
	var count float64

	for {
		n, err := r.Read(buf)
		if n > 0 {
			for i := 0; i+1 < n; i += 2 {
				sample := int16(buf[i]) | int16(buf[i+1])<<8
				val := float64(sample)
				sumSquares += val * val
				count++
			}
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return PreviewAnalysis{}, fmt.Errorf("preview read failed: %w", err)
		}
	}

	if count == 0 {
		return PreviewAnalysis{}, fmt.Errorf("preview contains no samples")
	}

	rms := math.Sqrt(sumSquares / count)
	energy := math.Min(math.Max(rms/32768.0, 0), 1)

	loudness := silenceFloor
	if energy > 0 {
		loudness = math.Max(20*math.Log10(energy), silenceFloor)
	}

	return PreviewAnalysis{Energy: energy, Loudness: loudness}, nil
}

// AnalyzePreviewFunc allows tests to override the analyzer implementation.
var AnalyzePreviewFunc = analyzePreview

// deterministicFeatures seeds every feature from the track id so repeated
// sessions estimate the same values.
func deterministicFeatures(trackID string) domain.AudioFeatures {
	hasher := fnv.New32a()
	_, _ = hasher.Write([]byte(trackID))
	seed := int64(hasher.Sum32())
	// #nosec G404 -- Deterministic RNG for reproducible audio features, not security-sensitive
	rng := rand.New(rand.NewSource(seed))

	between := func(min, max float64) float64 {
		return min + rng.Float64()*(max-min)
	}

	return domain.AudioFeatures{
		Danceability:     between(0.1, 0.9),
		Energy:           between(0.1, 0.9),
		Key:              float64(rng.Intn(12)),
		Loudness:         between(-20.0, -3.0),
		Mode:             float64(rng.Intn(2)),
		Speechiness:      between(0.02, 0.3),
		Acousticness:     between(0.1, 0.9),
		Instrumentalness: between(0.0, 0.5),
		Liveness:         between(0.05, 0.4),
		Valence:          between(0.1, 0.9),
		Tempo:            between(60.0, 180.0),
		DurationMs:       between(150000, 300000),
		TimeSignature:    4,
		Estimated:        true,
	}
}
