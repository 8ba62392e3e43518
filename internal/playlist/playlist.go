package playlist

import "math"

// Track is a candidate song from the catalog. Tempo is nil when the
// catalog has no audio features for the track.
type Track struct {
	Name      string   `csv:"name"`
	Artists   []string `csv:"artists"`
	ID        string   `csv:"id"`
	ArtistIDs []string `csv:"artist_ids"`
	URL       string   `csv:"url"`
	Tempo     *float64 `csv:"tempo"`
}

// PrimaryArtist returns the first credited artist, or "" when the track
// carries no artist list.
func (t Track) PrimaryArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0]
}

// TempoBPM reports the track tempo and whether it is usable.
func (t Track) TempoBPM() (float64, bool) {
	if t.Tempo == nil || math.IsNaN(*t.Tempo) || math.IsInf(*t.Tempo, 0) {
		return 0, false
	}
	return *t.Tempo, true
}

// WithTempo returns a copy of the track annotated with tempo.
func (t Track) WithTempo(bpm float64) Track {
	t.Tempo = &bpm
	return t
}

// Artist is an artist search result, usable as a recommendation seed.
type Artist struct {
	ID   string
	Name string
	URL  string
}

// Playlist represents a collection of tracks
type Playlist struct {
	ID         string
	Name       string
	TrackCount int
}

// AudioFeatures holds the analysis values the catalog reports per track.
type AudioFeatures struct {
	TrackID      string
	Tempo        float64
	Energy       float64
	Danceability float64
	Valence      float64
}
