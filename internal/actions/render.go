package actions

import (
	"fmt"
	"io"
	"strconv"

	"stridebeat/internal/library"
	"stridebeat/internal/playlist"
	"stridebeat/internal/session"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// RenderLoggedIn confirms the login.
func RenderLoggedIn(w io.Writer) {
	fmt.Fprintln(w, successStyle.Render("You have successfully logged in to Spotify!"))
}

// RenderWarning shows the session's validation warning, if any.
func RenderWarning(w io.Writer, state *session.State) {
	if msg := state.Warning(); msg != "" {
		fmt.Fprintln(w, warningStyle.Render("⚠ "+msg))
	}
}

// RenderCadence shows the submitted cadence, or nothing before submission.
func RenderCadence(w io.Writer, state *session.State) {
	c, err := state.Cadence()
	if err != nil {
		return
	}
	fmt.Fprintf(w, "%s %s steps/min\n", titleStyle.Render("Your cadence:"), formatBPM(float64(c)))
}

// RenderMatches shows the window, counts and the matched tracks.
func RenderMatches(w io.Writer, state *session.State, report library.MatchReport) {
	RenderCadence(w, state)
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf(
		"Songs matching your cadence (%s-%s BPM):", formatBPM(report.Lower), formatBPM(report.Upper))))
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf(
		"%d of %d tracks in your library matched (%d had tempo data)",
		report.Matched, report.PoolSize, report.WithTempo)))

	if len(report.Tracks) == 0 {
		fmt.Fprintln(w, warningStyle.Render("No tracks in your library match this cadence."))
		return
	}
	fmt.Fprintln(w, trackTable(report.Tracks, true))
}

// RenderRecommendations lists recommended tracks under a heading.
func RenderRecommendations(w io.Writer, heading string, tracks []playlist.Track) {
	fmt.Fprintln(w, titleStyle.Render(heading))
	if len(tracks) == 0 {
		fmt.Fprintln(w, warningStyle.Render("Spotify returned no recommendations."))
		return
	}
	fmt.Fprintln(w, trackTable(tracks, false))
}

func trackTable(tracks []playlist.Track, withTempo bool) string {
	headers := []string{"#", "Track", "Artist"}
	if withTempo {
		headers = append(headers, "Tempo")
	}
	headers = append(headers, "Listen on Spotify")

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
	for i, tr := range tracks {
		row := []string{strconv.Itoa(i + 1), tr.Name, tr.PrimaryArtist()}
		if withTempo {
			tempo := "-"
			if bpm, ok := tr.TempoBPM(); ok {
				tempo = formatBPM(bpm)
			}
			row = append(row, tempo)
		}
		row = append(row, tr.URL)
		t.Row(row...)
	}
	return t.Render()
}

// TrackLabel is how a track is named in selection lists.
func TrackLabel(t playlist.Track) string {
	if artist := t.PrimaryArtist(); artist != "" {
		return fmt.Sprintf("%s by %s", t.Name, artist)
	}
	return t.Name
}

func formatBPM(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
