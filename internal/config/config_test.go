package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var allKeys = []string{
	"SPOTIFY_CLIENT_ID", "SPOTIFY_CLIENT_SECRET", "SPOTIFY_REDIRECT_URI", "SPOTIFY_API_BASE_URL",
	"SPOTIFY_ACCESS_TOKEN", "GLOBAL_TOP_PLAYLIST_ID", "TOP_TRACKS_LIMIT", "PLAYLIST_LIMIT",
	"HTTP_ADDR", "STORAGE_DRIVER", "STORAGE_PATH", "FEATURES_FALLBACK", "WORKER_COUNT", "WORKER_QUEUE_SIZE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RedirectURI != "http://localhost:8888/callback" {
		t.Fatalf("redirect: got %q", cfg.RedirectURI)
	}
	if cfg.TopTracksLimit != 30 || cfg.PlaylistLimit != 50 {
		t.Fatalf("limits: got %d/%d", cfg.TopTracksLimit, cfg.PlaylistLimit)
	}
	if cfg.StoragePath != ":memory:" || cfg.StorageDriver != "sqlite" {
		t.Fatalf("storage: got %q/%q", cfg.StorageDriver, cfg.StoragePath)
	}
	if cfg.FeaturesFallback != FallbackNone {
		t.Fatalf("fallback: got %q", cfg.FeaturesFallback)
	}
	if cfg.GlobalTopPlaylistID != "37i9dQZEVXbMDoHDwVN2tF" {
		t.Fatalf("playlist: got %q", cfg.GlobalTopPlaylistID)
	}
}

func TestFromEnv_BadInteger(t *testing.T) {
	clearEnv(t)
	t.Setenv("TOP_TRACKS_LIMIT", "thirty")
	t.Setenv("WORKER_COUNT", "two")

	_, err := FromEnv()
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, key := range []string{"TOP_TRACKS_LIMIT", "WORKER_COUNT"} {
		if !strings.Contains(err.Error(), key) {
			t.Fatalf("error %q does not mention %s", err, key)
		}
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		ClientID:         "id",
		ClientSecret:     "secret",
		TopTracksLimit:   30,
		PlaylistLimit:    50,
		StorageDriver:    "sqlite",
		FeaturesFallback: FallbackNone,
		WorkerCount:      2,
		WorkerQueueSize:  10,
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr []string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{
			name:   "access token replaces credentials",
			mutate: func(c *Config) { c.ClientID, c.ClientSecret, c.AccessToken = "", "", "tok" },
		},
		{
			name:    "missing credentials",
			mutate:  func(c *Config) { c.ClientSecret = "" },
			wantErr: []string{"SPOTIFY_CLIENT_ID"},
		},
		{
			name:    "limits above page size",
			mutate:  func(c *Config) { c.TopTracksLimit, c.PlaylistLimit = 51, 0 },
			wantErr: []string{"TOP_TRACKS_LIMIT", "PLAYLIST_LIMIT"},
		},
		{
			name:    "unknown fallback and driver",
			mutate:  func(c *Config) { c.FeaturesFallback, c.StorageDriver = "magic", "postgres" },
			wantErr: []string{"FEATURES_FALLBACK", "STORAGE_DRIVER"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error mentioning %v", tt.wantErr)
			}
			for _, want := range tt.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Fatalf("error %q does not mention %s", err, want)
				}
			}
		})
	}
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv.Load never overrides variables that are already set, even empty.
	os.Unsetenv("PLAYLIST_LIMIT")
	os.Unsetenv("FEATURES_FALLBACK")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("PLAYLIST_LIMIT=20\nFEATURES_FALLBACK=Preview\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Cleanup(func() {
		os.Unsetenv("PLAYLIST_LIMIT")
		os.Unsetenv("FEATURES_FALLBACK")
	})

	cfg, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PlaylistLimit != 20 {
		t.Fatalf("playlist limit: got %d", cfg.PlaylistLimit)
	}
	if cfg.FeaturesFallback != FallbackPreview {
		t.Fatalf("fallback: got %q", cfg.FeaturesFallback)
	}
}
