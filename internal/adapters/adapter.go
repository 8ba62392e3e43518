package adapters

import (
	"context"
	"fmt"

	"stridebeat/internal/playlist"
)

// ApiAdapter defines the catalog operations the application needs from a
// music platform. Paged methods return a single page; callers loop until a
// page comes back shorter than the requested limit.
type ApiAdapter interface {
	// Authentication methods
	Authenticate(ctx context.Context) error
	IsAuthenticated() bool

	// Library paging
	SavedTracks(ctx context.Context, offset, limit int) ([]playlist.Track, error)
	UserPlaylists(ctx context.Context, offset, limit int) ([]playlist.Playlist, error)
	PlaylistTracks(ctx context.Context, playlistID string, offset, limit int) ([]playlist.Track, error)

	// AudioFeatures returns one entry per ID, in input order. Entries are nil
	// when the platform has no analysis for a track.
	AudioFeatures(ctx context.Context, trackIDs []string) ([]*playlist.AudioFeatures, error)

	// Search and recommendations
	SearchTracks(ctx context.Context, query string, limit int) ([]playlist.Track, error)
	SearchArtists(ctx context.Context, query string, limit int) ([]playlist.Artist, error)
	Recommendations(ctx context.Context, seeds Seeds, tempo *TempoRange, limit int) ([]playlist.Track, error)
}

// Seeds selects what recommendations are based on.
type Seeds struct {
	TrackIDs  []string
	ArtistIDs []string
}

// Empty reports whether no seed is set.
func (s Seeds) Empty() bool {
	return len(s.TrackIDs) == 0 && len(s.ArtistIDs) == 0
}

// TempoRange restricts recommendations to a tempo window in BPM.
type TempoRange struct {
	Min    float64
	Max    float64
	Target float64
}

// PlatformType represents the supported music platforms
type PlatformType string

const (
	SpotifyPlatform PlatformType = "spotify"
)

// Credentials configures an adapter's OAuth client.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string
}

// NewApiAdapter is a factory function that creates a new adapter for the specified platform
func NewApiAdapter(platform string, creds Credentials) (ApiAdapter, error) {
	switch PlatformType(platform) {
	case SpotifyPlatform, "":
		return NewSpotifyAdapter(creds)
	default:
		return nil, fmt.Errorf("unsupported platform: %s", platform)
	}
}
