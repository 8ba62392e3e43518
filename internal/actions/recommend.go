package actions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stridebeat/internal/adapters"
	"stridebeat/internal/library"
	"stridebeat/internal/playlist"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v2"
)

const (
	searchResults   = 10
	recommendations = 10

	searchBySong   = "song"
	searchByArtist = "artist"
)

// RecommendFlags select the seed and the optional tempo window.
var RecommendFlags = []cli.Flag{
	&cli.StringFlag{Name: "track", Usage: "song name to base recommendations on"},
	&cli.StringFlag{Name: "artist", Usage: "artist name to base recommendations on"},
	&cli.Float64Flag{Name: "cadence", Usage: "only recommend songs near this cadence (steps/min)"},
	&cli.Float64Flag{Name: "tolerance", Usage: "BPM allowed either side of --cadence"},
}

// Recommend asks Spotify for songs similar to a track or an artist.
func (a *Actions) Recommend(c *cli.Context) error {
	ctx := c.Context

	searchBy, query, err := recommendQuery(c)
	if err != nil {
		return err
	}

	var cadence *float64
	if c.IsSet("cadence") {
		v := c.Float64("cadence")
		if v <= 0 {
			return errors.New("--cadence must be positive")
		}
		cadence = &v
	}
	tolerance := a.cfg.Match.Tolerance
	if c.IsSet("tolerance") {
		tolerance = c.Float64("tolerance")
	}

	state := newSession(ctx)
	lib, err := a.login(ctx, state)
	if err != nil {
		return err
	}

	var seeds adapters.Seeds
	var heading string
	switch searchBy {
	case searchBySong:
		track, ok, err := a.pickTrack(ctx, lib, query)
		if err != nil || !ok {
			return err
		}
		seeds.TrackIDs = []string{track.ID}
		heading = fmt.Sprintf("Recommended songs based on %s:", TrackLabel(track))
	default:
		artist, ok, err := a.pickArtist(ctx, lib, query)
		if err != nil || !ok {
			return err
		}
		seeds.ArtistIDs = []string{artist.ID}
		heading = fmt.Sprintf("Recommended songs based on artist %s:", artist.Name)
	}

	var tracks []playlist.Track
	err = withSpinner(ctx, "Finding recommendations...", func(ctx context.Context) error {
		var err error
		tracks, err = lib.Recommend(ctx, seeds, cadence, tolerance, recommendations)
		return err
	})
	if err != nil {
		return err
	}
	RenderRecommendations(a.out, heading, tracks)
	return nil
}

// recommendQuery reads the seed from flags or asks for it.
func recommendQuery(c *cli.Context) (string, string, error) {
	if c.IsSet("track") && c.IsSet("artist") {
		return "", "", errors.New("use either --track or --artist, not both")
	}
	if c.IsSet("track") {
		return searchBySong, c.String("track"), nil
	}
	if c.IsSet("artist") {
		return searchByArtist, c.String("artist"), nil
	}

	searchBy := searchBySong
	var query string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Search by").
				Options(
					huh.NewOption("Song", searchBySong),
					huh.NewOption("Artist", searchByArtist),
				).
				Value(&searchBy),
			huh.NewInput().
				Title("Enter a song or artist name").
				Value(&query).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("enter a name")
					}
					return nil
				}),
		),
	).Run()
	if err != nil {
		return "", "", err
	}
	return searchBy, strings.TrimSpace(query), nil
}

func (a *Actions) pickTrack(ctx context.Context, lib *library.Library, query string) (playlist.Track, bool, error) {
	var results []playlist.Track
	err := withSpinner(ctx, "Searching...", func(ctx context.Context) error {
		var err error
		results, err = lib.SearchTracks(ctx, query, searchResults)
		return err
	})
	if err != nil {
		return playlist.Track{}, false, err
	}
	if len(results) == 0 {
		fmt.Fprintln(a.out, warningStyle.Render(fmt.Sprintf("No songs found for %q.", query)))
		return playlist.Track{}, false, nil
	}
	if len(results) == 1 {
		return results[0], true, nil
	}

	options := make([]huh.Option[int], len(results))
	for i, t := range results {
		options[i] = huh.NewOption(TrackLabel(t), i)
	}
	var picked int
	err = huh.NewSelect[int]().
		Height(searchResults + 2).
		Title("Multiple results found. Please select one:").
		Options(options...).
		Value(&picked).
		Run()
	if err != nil {
		return playlist.Track{}, false, err
	}
	return results[picked], true, nil
}

func (a *Actions) pickArtist(ctx context.Context, lib *library.Library, query string) (playlist.Artist, bool, error) {
	var results []playlist.Artist
	err := withSpinner(ctx, "Searching...", func(ctx context.Context) error {
		var err error
		results, err = lib.SearchArtists(ctx, query, searchResults)
		return err
	})
	if err != nil {
		return playlist.Artist{}, false, err
	}
	if len(results) == 0 {
		fmt.Fprintln(a.out, warningStyle.Render(fmt.Sprintf("No artists found for %q.", query)))
		return playlist.Artist{}, false, nil
	}
	if len(results) == 1 {
		return results[0], true, nil
	}

	options := make([]huh.Option[int], len(results))
	for i, ar := range results {
		options[i] = huh.NewOption(ar.Name, i)
	}
	var picked int
	err = huh.NewSelect[int]().
		Height(searchResults + 2).
		Title("Multiple results found. Please select one:").
		Options(options...).
		Value(&picked).
		Run()
	if err != nil {
		return playlist.Artist{}, false, err
	}
	return results[picked], true, nil
}
