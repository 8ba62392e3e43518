// Package config loads stridebeat settings from defaults, an optional YAML
// file, a .env file and the environment, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"stridebeat/internal/adapters"
	"stridebeat/internal/matcher"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
var DefaultConfigPaths = []string{
	"stridebeat.yaml",
	"stridebeat.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Config is the complete application configuration.
type Config struct {
	Spotify SpotifyConfig `koanf:"spotify"`
	Match   MatchConfig   `koanf:"match"`
	Paging  PagingConfig  `koanf:"paging"`
	Log     LogConfig     `koanf:"log"`
}

// SpotifyConfig holds the OAuth application registration.
type SpotifyConfig struct {
	ClientID     string   `koanf:"client_id" validate:"required"`
	ClientSecret string   `koanf:"client_secret" validate:"required"`
	RedirectURI  string   `koanf:"redirect_uri" validate:"required,url"`
	Scopes       []string `koanf:"scopes" validate:"min=1"`
}

// MatchConfig controls the tempo window and result shaping.
type MatchConfig struct {
	Tolerance float64 `koanf:"tolerance" validate:"gte=0"`
	Limit     int     `koanf:"limit" validate:"gt=0"`
	Dedupe    bool    `koanf:"dedupe"`
	Closest   bool    `koanf:"closest"`
}

// PagingConfig sets request sizes against the catalog API.
type PagingConfig struct {
	SavedTracks    int `koanf:"saved_tracks" validate:"min=1,max=50"`
	Playlists      int `koanf:"playlists" validate:"min=1,max=50"`
	PlaylistTracks int `koanf:"playlist_tracks" validate:"min=1,max=100"`
	AudioFeatures  int `koanf:"audio_features" validate:"min=1,max=100"`
}

// LogConfig configures the logging package.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error disabled off none"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// defaultConfig returns a Config struct with all default values.
func defaultConfig() *Config {
	return &Config{
		Spotify: SpotifyConfig{
			RedirectURI: "http://localhost:8080/callback",
			Scopes:      append([]string(nil), adapters.DefaultSpotifyScopes...),
		},
		Match: MatchConfig{
			Tolerance: matcher.DefaultTolerance,
			Limit:     matcher.DefaultLimit,
		},
		Paging: PagingConfig{
			SavedTracks:    adapters.MaxSavedTracksPage,
			Playlists:      adapters.MaxPlaylistsPage,
			PlaylistTracks: adapters.MaxPlaylistTracksPage,
			AudioFeatures:  adapters.MaxAudioFeaturesBatch,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// envMappings maps environment variables to koanf paths. Both the
// SPOTIFY_ID and SPOTIFY_CLIENT_ID spellings are accepted.
var envMappings = map[string]string{
	"spotify_id":            "spotify.client_id",
	"spotify_client_id":     "spotify.client_id",
	"spotify_secret":        "spotify.client_secret",
	"spotify_client_secret": "spotify.client_secret",
	"spotify_redirect_uri":  "spotify.redirect_uri",
	"spotify_scopes":        "spotify.scopes",

	"stridebeat_tolerance": "match.tolerance",
	"stridebeat_limit":     "match.limit",
	"stridebeat_dedupe":    "match.dedupe",
	"stridebeat_closest":   "match.closest",

	"stridebeat_saved_tracks_page":    "paging.saved_tracks",
	"stridebeat_playlists_page":       "paging.playlists",
	"stridebeat_playlist_tracks_page": "paging.playlist_tracks",
	"stridebeat_audio_features_batch": "paging.audio_features",

	"log_level":  "log.level",
	"log_format": "log.format",
}

// envTransformFunc converts an environment variable name to a koanf path,
// or "" to ignore it.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// Load reads the configuration. path may be empty, in which case
// CONFIG_PATH and DefaultConfigPaths are searched.
func Load(path string) (*Config, error) {
	// .env feeds the environment layer; a missing file is fine.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// Layer 3: environment variables, empty values do not override
	envProvider := env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		return envTransformFunc(key), value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := splitScopes(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// splitScopes turns a space or comma separated SPOTIFY_SCOPES value into a slice.
func splitScopes(k *koanf.Koanf) error {
	raw, ok := k.Get("spotify.scopes").(string)
	if !ok {
		return nil
	}
	scopes := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' '
	})
	if err := k.Set("spotify.scopes", scopes); err != nil {
		return fmt.Errorf("failed to set spotify.scopes: %w", err)
	}
	return nil
}

var validate = validator.New()

// Validate checks everything except the Spotify credentials, which only
// commands that log in need.
func (c *Config) Validate() error {
	if err := validate.StructExcept(c, "Spotify.ClientID", "Spotify.ClientSecret"); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ValidateCredentials checks that a Spotify client ID and secret are set.
func (c *Config) ValidateCredentials() error {
	if err := validate.Struct(c.Spotify); err != nil {
		return fmt.Errorf("spotify credentials missing, set SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET: %w", err)
	}
	return nil
}

// Credentials converts the Spotify section into adapter credentials.
func (c *Config) Credentials() adapters.Credentials {
	return adapters.Credentials{
		ClientID:     c.Spotify.ClientID,
		ClientSecret: c.Spotify.ClientSecret,
		RedirectURI:  c.Spotify.RedirectURI,
		Scopes:       c.Spotify.Scopes,
	}
}
