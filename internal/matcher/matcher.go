// Package matcher selects tracks whose tempo sits close to a target cadence.
package matcher

import (
	"math"
	"sort"

	"stridebeat/internal/playlist"
)

const (
	// DefaultTolerance is the half-width of the tempo window in BPM.
	DefaultTolerance = 5.0
	// DefaultLimit caps the number of returned tracks.
	DefaultLimit = 20
)

// Window returns the closed tempo range [target-tolerance, target+tolerance].
func Window(target, tolerance float64) (lower, upper float64) {
	return target - tolerance, target + tolerance
}

// Match keeps the candidates whose tempo lies in the window around target,
// in their original order, and truncates the result to limit entries.
// Tracks without a usable tempo are skipped. The result is never nil.
func Match(target float64, candidates []playlist.Track, tolerance float64, limit int) []playlist.Track {
	matched := Filter(target, candidates, tolerance)
	return Truncate(matched, limit)
}

// MatchDefault is Match with DefaultTolerance and DefaultLimit.
func MatchDefault(target float64, candidates []playlist.Track) []playlist.Track {
	return Match(target, candidates, DefaultTolerance, DefaultLimit)
}

// Filter returns every candidate inside the window, without truncation.
func Filter(target float64, candidates []playlist.Track, tolerance float64) []playlist.Track {
	lower, upper := Window(target, tolerance)
	matched := make([]playlist.Track, 0)
	for _, t := range candidates {
		bpm, ok := t.TempoBPM()
		if !ok {
			continue
		}
		if bpm >= lower && bpm <= upper {
			matched = append(matched, t)
		}
	}
	return matched
}

// Truncate keeps the first limit tracks.
func Truncate(tracks []playlist.Track, limit int) []playlist.Track {
	if limit <= 0 {
		return make([]playlist.Track, 0)
	}
	if len(tracks) > limit {
		return tracks[:limit]
	}
	return tracks
}

// SortByCloseness orders tracks by distance from target, keeping the input
// order between equally distant tracks. Tracks without a tempo sort last.
func SortByCloseness(target float64, tracks []playlist.Track) []playlist.Track {
	sorted := make([]playlist.Track, len(tracks))
	copy(sorted, tracks)
	distance := func(t playlist.Track) float64 {
		bpm, ok := t.TempoBPM()
		if !ok {
			return math.Inf(1)
		}
		return math.Abs(bpm - target)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return distance(sorted[i]) < distance(sorted[j])
	})
	return sorted
}

// Dedupe drops repeated track IDs, keeping the first occurrence.
func Dedupe(tracks []playlist.Track) []playlist.Track {
	seen := make(map[string]struct{}, len(tracks))
	out := make([]playlist.Track, 0, len(tracks))
	for _, t := range tracks {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}
