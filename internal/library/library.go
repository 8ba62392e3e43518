// Package library assembles the user's candidate pool from a catalog
// adapter, annotates it with tempos and runs the cadence match over it.
package library

import (
	"context"
	"fmt"

	"stridebeat/internal/adapters"
	"stridebeat/internal/logging"
	"stridebeat/internal/matcher"
	"stridebeat/internal/playlist"
)

// Paging sets the request sizes used against the adapter.
type Paging struct {
	SavedTracks    int
	Playlists      int
	PlaylistTracks int
	AudioFeatures  int
}

// DefaultPaging uses the largest page the Spotify API accepts per endpoint.
func DefaultPaging() Paging {
	return Paging{
		SavedTracks:    adapters.MaxSavedTracksPage,
		Playlists:      adapters.MaxPlaylistsPage,
		PlaylistTracks: adapters.MaxPlaylistTracksPage,
		AudioFeatures:  adapters.MaxAudioFeaturesBatch,
	}
}

// Library fronts a catalog adapter with the paging and batching rules.
type Library struct {
	adapter adapters.ApiAdapter
	paging  Paging
}

// NewLibrary creates a library over the given adapter.
func NewLibrary(adapter adapters.ApiAdapter, paging Paging) *Library {
	defaults := DefaultPaging()
	if paging.SavedTracks <= 0 {
		paging.SavedTracks = defaults.SavedTracks
	}
	if paging.Playlists <= 0 {
		paging.Playlists = defaults.Playlists
	}
	if paging.PlaylistTracks <= 0 {
		paging.PlaylistTracks = defaults.PlaylistTracks
	}
	if paging.AudioFeatures <= 0 {
		paging.AudioFeatures = defaults.AudioFeatures
	}
	return &Library{adapter: adapter, paging: paging}
}

// NewLibraryWithCredentials creates a Library with a fresh adapter for platform.
func NewLibraryWithCredentials(platform string, creds adapters.Credentials, paging Paging) (*Library, error) {
	adapter, err := adapters.NewApiAdapter(platform, creds)
	if err != nil {
		return nil, fmt.Errorf("failed to create adapter for platform %s: %w", platform, err)
	}
	return NewLibrary(adapter, paging), nil
}

// Authenticate delegates authentication to the adapter
func (l *Library) Authenticate(ctx context.Context) error {
	return l.adapter.Authenticate(ctx)
}

// IsAuthenticated checks if the service is authenticated
func (l *Library) IsAuthenticated() bool {
	return l.adapter.IsAuthenticated()
}

// collectPages calls fetch with increasing offsets until it returns fewer
// than pageSize items.
func collectPages[T any](pageSize int, fetch func(offset int) ([]T, error)) ([]T, error) {
	var all []T
	for offset := 0; ; offset += pageSize {
		page, err := fetch(offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < pageSize {
			return all, nil
		}
	}
}

// SavedTracks retrieves all of the user's liked tracks.
func (l *Library) SavedTracks(ctx context.Context) ([]playlist.Track, error) {
	tracks, err := collectPages(l.paging.SavedTracks, func(offset int) ([]playlist.Track, error) {
		logging.Ctx(ctx).Debug().Int("offset", offset).Msg("fetching saved tracks")
		return l.adapter.SavedTracks(ctx, offset, l.paging.SavedTracks)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get saved tracks: %w", err)
	}
	return withIDs(tracks), nil
}

// Playlists retrieves every playlist the user owns or follows.
func (l *Library) Playlists(ctx context.Context) ([]playlist.Playlist, error) {
	playlists, err := collectPages(l.paging.Playlists, func(offset int) ([]playlist.Playlist, error) {
		return l.adapter.UserPlaylists(ctx, offset, l.paging.Playlists)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get playlists: %w", err)
	}
	return playlists, nil
}

// PlaylistTracks retrieves the tracks of every playlist, in playlist order.
func (l *Library) PlaylistTracks(ctx context.Context) ([]playlist.Track, error) {
	playlists, err := l.Playlists(ctx)
	if err != nil {
		return nil, err
	}

	var all []playlist.Track
	for _, p := range playlists {
		tracks, err := collectPages(l.paging.PlaylistTracks, func(offset int) ([]playlist.Track, error) {
			logging.Ctx(ctx).Debug().Str("playlist", p.Name).Int("offset", offset).Msg("fetching playlist items")
			return l.adapter.PlaylistTracks(ctx, p.ID, offset, l.paging.PlaylistTracks)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get tracks for playlist %s: %w", p.ID, err)
		}
		all = append(all, withIDs(tracks)...)
	}
	return all, nil
}

// CandidatePool returns saved tracks followed by playlist tracks. A track
// that is both saved and in a playlist appears more than once.
func (l *Library) CandidatePool(ctx context.Context) ([]playlist.Track, error) {
	saved, err := l.SavedTracks(ctx)
	if err != nil {
		return nil, err
	}
	fromPlaylists, err := l.PlaylistTracks(ctx)
	if err != nil {
		return nil, err
	}

	pool := make([]playlist.Track, 0, len(saved)+len(fromPlaylists))
	pool = append(pool, saved...)
	pool = append(pool, fromPlaylists...)

	logging.Ctx(ctx).Info().
		Int("saved", len(saved)).
		Int("playlist", len(fromPlaylists)).
		Msg("candidate pool assembled")
	return pool, nil
}

// AnnotateTempo returns a copy of tracks with tempos looked up in batches.
// Tracks the catalog has no analysis for keep a nil tempo.
func (l *Library) AnnotateTempo(ctx context.Context, tracks []playlist.Track) ([]playlist.Track, error) {
	out := make([]playlist.Track, len(tracks))
	copy(out, tracks)

	size := l.paging.AudioFeatures
	for start := 0; start < len(out); start += size {
		end := min(start+size, len(out))
		batch := out[start:end]

		ids := make([]string, len(batch))
		for i, t := range batch {
			ids[i] = t.ID
		}

		features, err := l.adapter.AudioFeatures(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to get audio features: %w", err)
		}
		if len(features) != len(batch) {
			logging.Ctx(ctx).Warn().
				Int("sent", len(batch)).
				Int("received", len(features)).
				Msg("audio features batch size mismatch")
		}

		for i := range batch {
			if i < len(features) && features[i] != nil {
				batch[i] = batch[i].WithTempo(features[i].Tempo)
			}
		}
	}
	return out, nil
}

// MatchOptions shapes the match result.
type MatchOptions struct {
	Tolerance float64
	Limit     int
	// Dedupe drops repeated track IDs from the pool before matching.
	Dedupe bool
	// Closest sorts matches by distance from the cadence before truncating.
	Closest bool
}

// DefaultMatchOptions returns the literal behavior: 5 BPM, 20 tracks,
// duplicates kept, input order kept.
func DefaultMatchOptions() MatchOptions {
	return MatchOptions{Tolerance: matcher.DefaultTolerance, Limit: matcher.DefaultLimit}
}

// MatchReport is the outcome of FindMatches.
type MatchReport struct {
	Cadence   float64
	Lower     float64
	Upper     float64
	PoolSize  int
	WithTempo int
	// Matched counts every track in the window before truncation.
	Matched int
	Tracks  []playlist.Track
}

// FindMatches assembles the pool, looks up tempos and keeps the tracks
// inside the window around cadence.
func (l *Library) FindMatches(ctx context.Context, cadence float64, opts MatchOptions) (MatchReport, error) {
	pool, err := l.AnnotatedPool(ctx, opts.Dedupe)
	if err != nil {
		return MatchReport{}, err
	}
	return Evaluate(cadence, pool, opts), nil
}

// AnnotatedPool assembles the candidate pool and looks up its tempos.
// The result can be evaluated against several cadences in one session.
func (l *Library) AnnotatedPool(ctx context.Context, dedupe bool) ([]playlist.Track, error) {
	pool, err := l.CandidatePool(ctx)
	if err != nil {
		return nil, err
	}
	if dedupe {
		pool = matcher.Dedupe(pool)
	}
	return l.AnnotateTempo(ctx, pool)
}

// Evaluate matches an already annotated pool.
func Evaluate(cadence float64, pool []playlist.Track, opts MatchOptions) MatchReport {
	report := MatchReport{Cadence: cadence, PoolSize: len(pool)}
	report.Lower, report.Upper = matcher.Window(cadence, opts.Tolerance)
	for _, t := range pool {
		if _, ok := t.TempoBPM(); ok {
			report.WithTempo++
		}
	}

	matched := matcher.Filter(cadence, pool, opts.Tolerance)
	report.Matched = len(matched)
	if opts.Closest {
		matched = matcher.SortByCloseness(cadence, matched)
	}
	report.Tracks = matcher.Truncate(matched, opts.Limit)
	return report
}

// SearchTracks searches the catalog for tracks.
func (l *Library) SearchTracks(ctx context.Context, query string, limit int) ([]playlist.Track, error) {
	return l.adapter.SearchTracks(ctx, "track:"+query, limit)
}

// SearchArtists searches the catalog for artists.
func (l *Library) SearchArtists(ctx context.Context, query string, limit int) ([]playlist.Artist, error) {
	return l.adapter.SearchArtists(ctx, "artist:"+query, limit)
}

// Recommend asks the catalog for tracks similar to seeds. When cadence is
// non-nil the recommendations are restricted to the tempo window around it.
func (l *Library) Recommend(ctx context.Context, seeds adapters.Seeds, cadence *float64, tolerance float64, limit int) ([]playlist.Track, error) {
	var tempo *adapters.TempoRange
	if cadence != nil {
		lower, upper := matcher.Window(*cadence, tolerance)
		tempo = &adapters.TempoRange{Min: lower, Max: upper, Target: *cadence}
	}
	tracks, err := l.adapter.Recommendations(ctx, seeds, tempo, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendations: %w", err)
	}
	return tracks, nil
}

// withIDs drops entries that carry no catalog ID (local files, episodes).
func withIDs(tracks []playlist.Track) []playlist.Track {
	out := tracks[:0:0]
	for _, t := range tracks {
		if t.ID != "" {
			out = append(out, t)
		}
	}
	return out
}
