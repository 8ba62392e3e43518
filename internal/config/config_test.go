package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"stridebeat/internal/adapters"
)

// clearEnv blanks every variable the loader reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(ConfigPathEnvVar, "")
	for key := range envMappings {
		t.Setenv(strings.ToUpper(key), "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Match.Tolerance != 5.0 {
		t.Errorf("Match.Tolerance = %v, want 5", cfg.Match.Tolerance)
	}
	if cfg.Match.Limit != 20 {
		t.Errorf("Match.Limit = %d, want 20", cfg.Match.Limit)
	}
	if cfg.Match.Dedupe || cfg.Match.Closest {
		t.Error("Dedupe and Closest should be off by default")
	}
	if cfg.Paging.SavedTracks != 50 {
		t.Errorf("Paging.SavedTracks = %d, want 50", cfg.Paging.SavedTracks)
	}
	if cfg.Paging.PlaylistTracks != 100 {
		t.Errorf("Paging.PlaylistTracks = %d, want 100", cfg.Paging.PlaylistTracks)
	}
	if cfg.Paging.AudioFeatures != 100 {
		t.Errorf("Paging.AudioFeatures = %d, want 100", cfg.Paging.AudioFeatures)
	}
	if cfg.Spotify.RedirectURI != "http://localhost:8080/callback" {
		t.Errorf("Spotify.RedirectURI = %q", cfg.Spotify.RedirectURI)
	}
	if !reflect.DeepEqual(cfg.Spotify.Scopes, adapters.DefaultSpotifyScopes) {
		t.Errorf("Spotify.Scopes = %v", cfg.Spotify.Scopes)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(cfg, defaultConfig()) {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, defaultConfig())
	}
	if err := cfg.ValidateCredentials(); err == nil {
		t.Error("ValidateCredentials() passed without a client ID")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SPOTIFY_CLIENT_ID", "client-id")
	t.Setenv("SPOTIFY_SECRET", "client-secret")
	t.Setenv("SPOTIFY_SCOPES", "user-library-read, playlist-read-private")
	t.Setenv("STRIDEBEAT_TOLERANCE", "3.5")
	t.Setenv("STRIDEBEAT_LIMIT", "10")
	t.Setenv("STRIDEBEAT_DEDUPE", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Spotify.ClientID != "client-id" || cfg.Spotify.ClientSecret != "client-secret" {
		t.Errorf("credentials = %q / %q", cfg.Spotify.ClientID, cfg.Spotify.ClientSecret)
	}
	wantScopes := []string{"user-library-read", "playlist-read-private"}
	if !reflect.DeepEqual(cfg.Spotify.Scopes, wantScopes) {
		t.Errorf("Spotify.Scopes = %v, want %v", cfg.Spotify.Scopes, wantScopes)
	}
	if cfg.Match.Tolerance != 3.5 {
		t.Errorf("Match.Tolerance = %v, want 3.5", cfg.Match.Tolerance)
	}
	if cfg.Match.Limit != 10 {
		t.Errorf("Match.Limit = %d, want 10", cfg.Match.Limit)
	}
	if !cfg.Match.Dedupe {
		t.Error("Match.Dedupe = false, want true")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if err := cfg.ValidateCredentials(); err != nil {
		t.Errorf("ValidateCredentials() error = %v", err)
	}

	creds := cfg.Credentials()
	if creds.ClientID != "client-id" || creds.RedirectURI != cfg.Spotify.RedirectURI {
		t.Errorf("Credentials() = %+v", creds)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "stridebeat.yaml")
	content := `
spotify:
  client_id: from-file
  client_secret: file-secret
match:
  tolerance: 2
  closest: true
paging:
  playlists: 20
log:
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SPOTIFY_ID", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Spotify.ClientID != "from-env" {
		t.Errorf("ClientID = %q, environment should win over file", cfg.Spotify.ClientID)
	}
	if cfg.Spotify.ClientSecret != "file-secret" {
		t.Errorf("ClientSecret = %q", cfg.Spotify.ClientSecret)
	}
	if cfg.Match.Tolerance != 2 || !cfg.Match.Closest {
		t.Errorf("Match = %+v", cfg.Match)
	}
	if cfg.Paging.Playlists != 20 || cfg.Paging.SavedTracks != 50 {
		t.Errorf("Paging = %+v", cfg.Paging)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q", cfg.Log.Format)
	}
}

func TestLoadConfigPathEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("match:\n  limit: 7\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Match.Limit != 7 {
		t.Errorf("Match.Limit = %d, want 7", cfg.Match.Limit)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"saved tracks page above cap", "STRIDEBEAT_SAVED_TRACKS_PAGE", "51"},
		{"playlist items page above cap", "STRIDEBEAT_PLAYLIST_TRACKS_PAGE", "101"},
		{"audio features batch zero", "STRIDEBEAT_AUDIO_FEATURES_BATCH", "0"},
		{"negative tolerance", "STRIDEBEAT_TOLERANCE", "-1"},
		{"zero limit", "STRIDEBEAT_LIMIT", "0"},
		{"unknown log format", "LOG_FORMAT", "xml"},
		{"bad redirect", "SPOTIFY_REDIRECT_URI", "not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)
			if _, err := Load(""); err == nil {
				t.Errorf("Load() accepted %s=%s", tt.key, tt.val)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	if got := envTransformFunc("SPOTIFY_ID"); got != "spotify.client_id" {
		t.Errorf("SPOTIFY_ID -> %q", got)
	}
	if got := envTransformFunc("HOME"); got != "" {
		t.Errorf("HOME -> %q, want ignored", got)
	}
}
