package adapters

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zmb3/spotify/v2"
)

// newTestAdapter points an authenticated adapter at a local server.
func newTestAdapter(t *testing.T, handler http.HandlerFunc) *SpotifyAdapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := spotify.New(srv.Client(), spotify.WithBaseURL(srv.URL+"/"))
	return NewSpotifyAdapterWithClient(client)
}

func TestAudioFeaturesKeepsAlignment(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio-features" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if ids := r.URL.Query().Get("ids"); ids != "t1,t2,t3" {
			t.Errorf("ids = %q", ids)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"audio_features":[
			{"id":"t1","tempo":120.5,"energy":0.75},
			null,
			{"id":"t3","tempo":171.25}
		]}`)
	})

	got, err := a.AudioFeatures(context.Background(), []string{"t1", "t2", "t3"})
	if err != nil {
		t.Fatalf("AudioFeatures() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}
	if got[0] == nil || got[0].Tempo != 120.5 || got[0].Energy != 0.75 {
		t.Errorf("entry 0 = %+v", got[0])
	}
	if got[1] != nil {
		t.Errorf("entry 1 = %+v, want nil", got[1])
	}
	if got[2] == nil || got[2].TrackID != "t3" || got[2].Tempo != 171.25 {
		t.Errorf("entry 2 = %+v", got[2])
	}
}

func TestAudioFeaturesRejectsOversizedBatch(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request sent for an oversized batch")
	})
	ids := make([]string, MaxAudioFeaturesBatch+1)
	for i := range ids {
		ids[i] = fmt.Sprintf("t%d", i)
	}
	if _, err := a.AudioFeatures(context.Background(), ids); err == nil {
		t.Error("AudioFeatures() accepted 101 IDs")
	}
}

func TestSavedTracksMapsTracks(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/tracks" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("limit") != "50" || q.Get("offset") != "100" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"limit":50,"offset":100,"total":102,"items":[
			{"added_at":"2024-01-01T00:00:00Z","track":{
				"id":"t1","name":"Stride",
				"artists":[{"id":"a1","name":"Pacer"},{"id":"a2","name":"Feat"}],
				"external_urls":{"spotify":"https://open.spotify.com/track/t1"}}},
			{"added_at":"2024-01-02T00:00:00Z","track":{"id":"t2","name":"Nobody","artists":[]}}
		]}`)
	})

	got, err := a.SavedTracks(context.Background(), 100, 50)
	if err != nil {
		t.Fatalf("SavedTracks() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d tracks, want 2", len(got))
	}
	if got[0].Name != "Stride" || got[0].PrimaryArtist() != "Pacer" || len(got[0].ArtistIDs) != 2 {
		t.Errorf("track 0 = %+v", got[0])
	}
	if got[0].URL != "https://open.spotify.com/track/t1" {
		t.Errorf("track 0 URL = %q", got[0].URL)
	}
	if got[1].PrimaryArtist() != "" {
		t.Errorf("track 1 primary artist = %q, want empty", got[1].PrimaryArtist())
	}
	if got[1].URL != "https://open.spotify.com/track/t2" {
		t.Errorf("track 1 URL = %q", got[1].URL)
	}
	if got[0].Tempo != nil {
		t.Error("saved track arrived with a tempo")
	}
}

func TestPageLimitsAreChecked(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("request sent: %s", r.URL)
	})
	ctx := context.Background()
	if _, err := a.SavedTracks(ctx, 0, 51); err == nil {
		t.Error("SavedTracks accepted limit 51")
	}
	if _, err := a.UserPlaylists(ctx, 0, 0); err == nil {
		t.Error("UserPlaylists accepted limit 0")
	}
	if _, err := a.PlaylistTracks(ctx, "p", 0, 101); err == nil {
		t.Error("PlaylistTracks accepted limit 101")
	}
}

func TestFailedCallIsCollaboratorUnavailable(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"status":401,"message":"The access token expired"}}`)
	})

	_, err := a.UserPlaylists(context.Background(), 0, 50)
	if !errors.Is(err, ErrCollaboratorUnavailable) {
		t.Fatalf("error = %v, want ErrCollaboratorUnavailable", err)
	}
	var unavailableErr *CollaboratorUnavailableError
	if !errors.As(err, &unavailableErr) {
		t.Fatalf("error %T is not *CollaboratorUnavailableError", err)
	}
	if !unavailableErr.Unauthorized() || unavailableErr.Op != "playlists" {
		t.Errorf("error = %+v", unavailableErr)
	}
	if !strings.Contains(err.Error(), "HTTP 401") {
		t.Errorf("message %q lacks status", err.Error())
	}
}

func TestUnauthenticatedAdapterRefusesCalls(t *testing.T) {
	a, err := NewSpotifyAdapter(Credentials{ClientID: "id", ClientSecret: "secret"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.SavedTracks(context.Background(), 0, 50); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("SavedTracks() error = %v, want ErrNotAuthenticated", err)
	}
	if a.redirectURI != spotifyRedirectURI || len(a.scopes) != len(DefaultSpotifyScopes) {
		t.Errorf("defaults not applied: %q %v", a.redirectURI, a.scopes)
	}
}

func TestNewSpotifyAdapterRequiresCredentials(t *testing.T) {
	if _, err := NewSpotifyAdapter(Credentials{ClientID: "id"}); err == nil {
		t.Error("NewSpotifyAdapter() accepted a missing secret")
	}
	if _, err := NewApiAdapter("youtube", Credentials{ClientID: "id", ClientSecret: "s"}); err == nil {
		t.Error("NewApiAdapter() accepted an unsupported platform")
	}
}

func TestRecommendationsValidatesSeeds(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("request sent: %s", r.URL)
	})
	ctx := context.Background()
	if _, err := a.Recommendations(ctx, Seeds{}, nil, 10); err == nil {
		t.Error("accepted empty seeds")
	}
	tooMany := Seeds{TrackIDs: []string{"1", "2", "3"}, ArtistIDs: []string{"4", "5", "6"}}
	if _, err := a.Recommendations(ctx, tooMany, nil, 10); err == nil {
		t.Error("accepted six seeds")
	}
}

func TestRecommendationsSendsTempoWindow(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/recommendations" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("seed_tracks") != "seed" {
			t.Errorf("seed_tracks = %q", q.Get("seed_tracks"))
		}
		if q.Get("min_tempo") == "" || q.Get("max_tempo") == "" || q.Get("target_tempo") == "" {
			t.Errorf("tempo attributes missing from %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"seeds":[],"tracks":[{"id":"r1","name":"Tempo","artists":[{"id":"a","name":"Art"}]}]}`)
	})

	got, err := a.Recommendations(context.Background(), Seeds{TrackIDs: []string{"seed"}}, &TempoRange{Min: 165, Max: 175, Target: 170}, 10)
	if err != nil {
		t.Fatalf("Recommendations() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "r1" || got[0].PrimaryArtist() != "Art" {
		t.Errorf("Recommendations() = %+v", got)
	}
}
