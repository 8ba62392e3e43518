package adapters

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"stridebeat/internal/logging"
	"stridebeat/internal/playlist"
	"stridebeat/internal/utils"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
)

const (
	spotifyPlatformName = "Spotify"
	spotifyRedirectURI  = "http://localhost:8080/callback"

	// Request caps enforced by the Spotify Web API.
	MaxSavedTracksPage    = 50
	MaxPlaylistsPage      = 50
	MaxPlaylistTracksPage = 100
	MaxAudioFeaturesBatch = 100
	MaxSearchResults      = 50
	MaxRecommendations    = 100
	MaxRecommendationSeed = 5
)

// DefaultSpotifyScopes are requested at login. Library and playlist read
// scopes are required to assemble the candidate pool.
var DefaultSpotifyScopes = []string{
	spotifyauth.ScopeUserReadRecentlyPlayed,
	spotifyauth.ScopeUserTopRead,
	spotifyauth.ScopePlaylistModifyPublic,
	spotifyauth.ScopePlaylistModifyPrivate,
	spotifyauth.ScopeUserLibraryRead,
	spotifyauth.ScopePlaylistReadPrivate,
}

type authResult struct {
	client *spotify.Client
	err    error
}

// SpotifyAdapter adapts the Spotify API to our common adapter interface
type SpotifyAdapter struct {
	BaseAdapter  // Embed the BaseAdapter
	client       *spotify.Client
	clientID     string
	clientSecret string
	redirectURI  string
	scopes       []string
	ch           chan authResult
	state        string
}

// NewSpotifyAdapter creates a new SpotifyAdapter
func NewSpotifyAdapter(creds Credentials) (*SpotifyAdapter, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, fmt.Errorf("spotify client ID and secret must be provided or set in environment variables")
	}
	if creds.RedirectURI == "" {
		creds.RedirectURI = spotifyRedirectURI
	}
	if len(creds.Scopes) == 0 {
		creds.Scopes = DefaultSpotifyScopes
	}

	return &SpotifyAdapter{
		BaseAdapter:  NewBaseAdapter(spotifyPlatformName),
		clientID:     creds.ClientID,
		clientSecret: creds.ClientSecret,
		redirectURI:  creds.RedirectURI,
		scopes:       creds.Scopes,
		ch:           make(chan authResult, 1),
		state:        utils.GenerateState(),
	}, nil
}

// NewSpotifyAdapterWithClient wraps a client that already carries a valid token.
func NewSpotifyAdapterWithClient(client *spotify.Client) *SpotifyAdapter {
	a := &SpotifyAdapter{
		BaseAdapter: NewBaseAdapter(spotifyPlatformName),
		client:      client,
	}
	a.SetAuthenticated(client != nil)
	return a
}

// Authenticate runs the OAuth authorization code flow. It serves the
// redirect URI locally until the callback delivers a token or ctx ends.
func (a *SpotifyAdapter) Authenticate(ctx context.Context) error {
	if a.IsAuthenticated() {
		return nil
	}

	redirect, err := url.Parse(a.redirectURI)
	if err != nil {
		return fmt.Errorf("invalid redirect URI %q: %w", a.redirectURI, err)
	}

	auth := spotifyauth.New(
		spotifyauth.WithRedirectURL(a.redirectURI),
		spotifyauth.WithScopes(a.scopes...),
		spotifyauth.WithClientID(a.clientID),
		spotifyauth.WithClientSecret(a.clientSecret),
	)

	mux := http.NewServeMux()
	mux.HandleFunc(redirect.Path, func(w http.ResponseWriter, r *http.Request) {
		a.completeAuth(w, r, auth)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		logging.Debug().Str("url", r.URL.String()).Msg("unexpected request on callback server")
		http.NotFound(w, r)
	})

	srv := &http.Server{
		Addr:              redirect.Host,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.deliver(authResult{err: fmt.Errorf("callback server: %w", err)})
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	authURL := auth.AuthURL(a.state)
	fmt.Println("Please log in to Spotify by visiting the following page in your browser:", authURL)
	utils.OpenBrowser(authURL)

	var res authResult
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res = <-a.ch:
	}
	if res.err != nil {
		return res.err
	}

	a.client = res.client
	a.SetAuthenticated(true)

	// Verify authentication by getting user info
	user, err := a.client.CurrentUser(ctx)
	if err != nil {
		a.SetAuthenticated(false)
		return unavailable(a.PlatformName(), "current user", err)
	}

	logging.Ctx(ctx).Info().Str("user", user.ID).Msg("logged in to Spotify")
	return nil
}

// SavedTracks returns one page of the user's liked tracks.
func (a *SpotifyAdapter) SavedTracks(ctx context.Context, offset, limit int) ([]playlist.Track, error) {
	if err := a.CheckAuth(); err != nil {
		return nil, err
	}
	if err := checkLimit("saved tracks", limit, MaxSavedTracksPage); err != nil {
		return nil, err
	}

	page, err := a.client.CurrentUsersTracks(ctx, spotify.Limit(limit), spotify.Offset(offset))
	if err != nil {
		return nil, unavailable(a.PlatformName(), "saved tracks", err)
	}

	tracks := make([]playlist.Track, 0, len(page.Tracks))
	for _, saved := range page.Tracks {
		tracks = append(tracks, trackFromSimple(saved.FullTrack.SimpleTrack))
	}
	return tracks, nil
}

// UserPlaylists returns one page of playlists the user owns or follows.
func (a *SpotifyAdapter) UserPlaylists(ctx context.Context, offset, limit int) ([]playlist.Playlist, error) {
	if err := a.CheckAuth(); err != nil {
		return nil, err
	}
	if err := checkLimit("playlists", limit, MaxPlaylistsPage); err != nil {
		return nil, err
	}

	page, err := a.client.CurrentUsersPlaylists(ctx, spotify.Limit(limit), spotify.Offset(offset))
	if err != nil {
		return nil, unavailable(a.PlatformName(), "playlists", err)
	}

	playlists := make([]playlist.Playlist, 0, len(page.Playlists))
	for _, p := range page.Playlists {
		playlists = append(playlists, playlist.Playlist{
			ID:         string(p.ID),
			Name:       p.Name,
			TrackCount: int(p.Tracks.Total),
		})
	}
	return playlists, nil
}

// PlaylistTracks returns one page of a playlist's items. Episodes and
// local files carry no catalog track and come back as entries with an
// empty ID, so the page length still reflects what the API returned.
func (a *SpotifyAdapter) PlaylistTracks(ctx context.Context, playlistID string, offset, limit int) ([]playlist.Track, error) {
	if err := a.CheckAuth(); err != nil {
		return nil, err
	}
	if err := checkLimit("playlist items", limit, MaxPlaylistTracksPage); err != nil {
		return nil, err
	}

	page, err := a.client.GetPlaylistItems(
		ctx,
		spotify.ID(playlistID),
		spotify.Limit(limit),
		spotify.Offset(offset),
	)
	if err != nil {
		return nil, unavailable(a.PlatformName(), "playlist items", err)
	}

	tracks := make([]playlist.Track, 0, len(page.Items))
	for _, item := range page.Items {
		if item.Track.Track == nil {
			tracks = append(tracks, playlist.Track{})
			continue
		}
		tracks = append(tracks, trackFromSimple(item.Track.Track.SimpleTrack))
	}
	return tracks, nil
}

// AudioFeatures looks up analysis for up to MaxAudioFeaturesBatch tracks.
func (a *SpotifyAdapter) AudioFeatures(ctx context.Context, trackIDs []string) ([]*playlist.AudioFeatures, error) {
	if err := a.CheckAuth(); err != nil {
		return nil, err
	}
	if len(trackIDs) == 0 {
		return nil, nil
	}
	if len(trackIDs) > MaxAudioFeaturesBatch {
		return nil, fmt.Errorf("audio features batch of %d exceeds %d", len(trackIDs), MaxAudioFeaturesBatch)
	}

	ids := make([]spotify.ID, len(trackIDs))
	for i, id := range trackIDs {
		ids[i] = spotify.ID(id)
	}

	features, err := a.client.GetAudioFeatures(ctx, ids...)
	if err != nil {
		return nil, unavailable(a.PlatformName(), "audio features", err)
	}

	out := make([]*playlist.AudioFeatures, len(features))
	for i, f := range features {
		if f == nil {
			continue
		}
		out[i] = &playlist.AudioFeatures{
			TrackID:      string(f.ID),
			Tempo:        float64(f.Tempo),
			Energy:       float64(f.Energy),
			Danceability: float64(f.Danceability),
			Valence:      float64(f.Valence),
		}
	}
	return out, nil
}

// SearchTracks searches for tracks on Spotify
func (a *SpotifyAdapter) SearchTracks(ctx context.Context, query string, limit int) ([]playlist.Track, error) {
	if err := a.CheckAuth(); err != nil {
		return nil, err
	}

	results, err := a.client.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(searchLimit(limit)))
	if err != nil {
		return nil, unavailable(a.PlatformName(), "track search", err)
	}

	var tracks []playlist.Track
	if results.Tracks != nil {
		for _, item := range results.Tracks.Tracks {
			tracks = append(tracks, trackFromSimple(item.SimpleTrack))
		}
	}
	return tracks, nil
}

// SearchArtists searches for artists on Spotify
func (a *SpotifyAdapter) SearchArtists(ctx context.Context, query string, limit int) ([]playlist.Artist, error) {
	if err := a.CheckAuth(); err != nil {
		return nil, err
	}

	results, err := a.client.Search(ctx, query, spotify.SearchTypeArtist, spotify.Limit(searchLimit(limit)))
	if err != nil {
		return nil, unavailable(a.PlatformName(), "artist search", err)
	}

	var artists []playlist.Artist
	if results.Artists != nil {
		for _, item := range results.Artists.Artists {
			artists = append(artists, playlist.Artist{
				ID:   string(item.ID),
				Name: item.Name,
				URL:  item.ExternalURLs["spotify"],
			})
		}
	}
	return artists, nil
}

// Recommendations asks Spotify for tracks similar to the seeds, optionally
// restricted to a tempo window.
func (a *SpotifyAdapter) Recommendations(ctx context.Context, seeds Seeds, tempo *TempoRange, limit int) ([]playlist.Track, error) {
	if err := a.CheckAuth(); err != nil {
		return nil, err
	}
	if seeds.Empty() {
		return nil, errors.New("recommendations need at least one seed track or artist")
	}
	if n := len(seeds.TrackIDs) + len(seeds.ArtistIDs); n > MaxRecommendationSeed {
		return nil, fmt.Errorf("%d recommendation seeds given, at most %d allowed", n, MaxRecommendationSeed)
	}
	if err := checkLimit("recommendations", limit, MaxRecommendations); err != nil {
		return nil, err
	}

	spotifySeeds := spotify.Seeds{
		Tracks:  toIDs(seeds.TrackIDs),
		Artists: toIDs(seeds.ArtistIDs),
	}

	var attrs *spotify.TrackAttributes
	if tempo != nil {
		attrs = spotify.NewTrackAttributes().
			MinTempo(tempo.Min).
			MaxTempo(tempo.Max).
			TargetTempo(tempo.Target)
	}

	recs, err := a.client.GetRecommendations(ctx, spotifySeeds, attrs, spotify.Limit(limit))
	if err != nil {
		return nil, unavailable(a.PlatformName(), "recommendations", err)
	}

	tracks := make([]playlist.Track, 0, len(recs.Tracks))
	for _, t := range recs.Tracks {
		tracks = append(tracks, trackFromSimple(t))
	}
	return tracks, nil
}

// completeAuth is the callback handler for the Spotify auth flow
func (a *SpotifyAdapter) completeAuth(w http.ResponseWriter, r *http.Request, auth *spotifyauth.Authenticator) {
	if st := r.FormValue("state"); st != a.state {
		http.NotFound(w, r)
		logging.Warn().Str("state", st).Msg("OAuth state mismatch, ignoring callback")
		return
	}
	tok, err := auth.Token(r.Context(), a.state, r)
	if err != nil {
		http.Error(w, "Couldn't get token", http.StatusForbidden)
		a.deliver(authResult{err: unavailable(a.PlatformName(), "token exchange", err)})
		return
	}

	// Use the token to get an authenticated client
	client := spotify.New(auth.Client(r.Context(), tok))
	fmt.Fprintf(w, "Login Completed! You can now close this window.")
	a.deliver(authResult{client: client})
}

// deliver hands the first auth outcome to Authenticate and drops the rest.
func (a *SpotifyAdapter) deliver(res authResult) {
	select {
	case a.ch <- res:
	default:
	}
}

func trackFromSimple(t spotify.SimpleTrack) playlist.Track {
	var artistNames []string
	var artistIDs []string
	for _, artist := range t.Artists {
		artistNames = append(artistNames, artist.Name)
		artistIDs = append(artistIDs, string(artist.ID))
	}

	trackURL := t.ExternalURLs["spotify"]
	if trackURL == "" && t.ID != "" {
		trackURL = fmt.Sprintf("https://open.spotify.com/track/%s", t.ID)
	}

	return playlist.Track{
		Name:      t.Name,
		Artists:   artistNames,
		ID:        string(t.ID),
		ArtistIDs: artistIDs,
		URL:       trackURL,
	}
}

func toIDs(ids []string) []spotify.ID {
	if len(ids) == 0 {
		return nil
	}
	out := make([]spotify.ID, len(ids))
	for i, id := range ids {
		out[i] = spotify.ID(id)
	}
	return out
}

func checkLimit(what string, limit, max int) error {
	if limit <= 0 || limit > max {
		return fmt.Errorf("%s page size %d out of range 1..%d", what, limit, max)
	}
	return nil
}

func searchLimit(limit int) int {
	if limit <= 0 || limit > MaxSearchResults {
		return MaxSearchResults // Spotify API maximum is 50 per request
	}
	return limit
}
