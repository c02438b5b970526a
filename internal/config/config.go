// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Feature estimation modes.
const (
	FallbackNone    = "none"
	FallbackPreview = "preview"
)

// MaxPageSize is the largest page the top tracks and playlist endpoints return.
const MaxPageSize = 50

// Config holds every setting of the API server and the CLI.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	APIBaseURL   string
	AccessToken  string

	GlobalTopPlaylistID string
	TopTracksLimit      int
	PlaylistLimit       int

	HTTPAddr      string
	StorageDriver string
	StoragePath   string

	FeaturesFallback string
	WorkerCount      int
	WorkerQueueSize  int
}

// Load reads files (".env" when none are given) into the environment, then
// builds a Config from it. Missing files are ignored.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("config: failed to load %s: %w", f, err)
		}
		log.Printf("config: loaded %s", f)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables, applying defaults.
func FromEnv() (Config, error) {
	var errs []error
	intVar := func(key string, def int) int {
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			return def
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %s must be an integer, got %q", key, raw))
			return def
		}
		return n
	}

	cfg := Config{
		ClientID:            os.Getenv("SPOTIFY_CLIENT_ID"),
		ClientSecret:        os.Getenv("SPOTIFY_CLIENT_SECRET"),
		RedirectURI:         envOr("SPOTIFY_REDIRECT_URI", "http://localhost:8888/callback"),
		APIBaseURL:          os.Getenv("SPOTIFY_API_BASE_URL"),
		AccessToken:         os.Getenv("SPOTIFY_ACCESS_TOKEN"),
		GlobalTopPlaylistID: envOr("GLOBAL_TOP_PLAYLIST_ID", "37i9dQZEVXbMDoHDwVN2tF"),
		TopTracksLimit:      intVar("TOP_TRACKS_LIMIT", 30),
		PlaylistLimit:       intVar("PLAYLIST_LIMIT", 50),
		HTTPAddr:            envOr("HTTP_ADDR", ":8888"),
		StorageDriver:       envOr("STORAGE_DRIVER", "sqlite"),
		StoragePath:         envOr("STORAGE_PATH", ":memory:"),
		FeaturesFallback:    strings.ToLower(envOr("FEATURES_FALLBACK", FallbackNone)),
		WorkerCount:         intVar("WORKER_COUNT", 2),
		WorkerQueueSize:     intVar("WORKER_QUEUE_SIZE", 100),
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once. Credentials are only
// required when no pre-issued access token is configured.
func (c Config) Validate() error {
	var errs []error

	if c.AccessToken == "" && (c.ClientID == "" || c.ClientSecret == "") {
		errs = append(errs, errors.New("config: SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET are required without SPOTIFY_ACCESS_TOKEN"))
	}
	if c.TopTracksLimit < 1 || c.TopTracksLimit > MaxPageSize {
		errs = append(errs, fmt.Errorf("config: TOP_TRACKS_LIMIT must be within 1..%d, got %d", MaxPageSize, c.TopTracksLimit))
	}
	if c.PlaylistLimit < 1 || c.PlaylistLimit > MaxPageSize {
		errs = append(errs, fmt.Errorf("config: PLAYLIST_LIMIT must be within 1..%d, got %d", MaxPageSize, c.PlaylistLimit))
	}
	if c.StorageDriver != "sqlite" {
		errs = append(errs, fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.StorageDriver))
	}
	switch c.FeaturesFallback {
	case FallbackNone, FallbackPreview:
	default:
		errs = append(errs, fmt.Errorf("config: FEATURES_FALLBACK must be %q or %q, got %q", FallbackNone, FallbackPreview, c.FeaturesFallback))
	}
	if c.WorkerCount < 1 {
		errs = append(errs, fmt.Errorf("config: WORKER_COUNT must be positive, got %d", c.WorkerCount))
	}
	if c.WorkerQueueSize < 1 {
		errs = append(errs, fmt.Errorf("config: WORKER_QUEUE_SIZE must be positive, got %d", c.WorkerQueueSize))
	}

	return errors.Join(errs...)
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
