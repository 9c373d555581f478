package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/chromie/internal/core"
	"github.com/tessro/chromie/internal/tui/styles"
)

// Status is what the dashboard knows about the playback loop.
type Status struct {
	State    string
	Hour     core.Hour
	Weather  core.Condition
	Snapshot *core.Snapshot
	Track    *core.Track
	Index    int
	Total    int
	Counts   core.Counts
	Pending  string
	Backoff  time.Duration
}

// NowPlaying displays the hour, weather and current track
type NowPlaying struct{}

// NewNowPlaying creates a new NowPlaying component
func NewNowPlaying() *NowPlaying {
	return &NowPlaying{}
}

// Render renders the now playing panel. spin is the spinner frame shown
// while the loop is loading or waiting.
func (n *NowPlaying) Render(s Status, spin string, width, height int, focused bool) string {
	title := styles.PanelTitle("Now Playing", focused)

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		n.renderContext(s),
		"",
		n.renderTrack(s, spin, width-4),
	))
}

func (n *NowPlaying) renderContext(s Status) string {
	hour := styles.Label.Render("Hour    ") +
		styles.Hour.Render(s.Hour.String()) + " " +
		styles.Dim.Render(s.Hour.Label())

	weather := styles.Label.Render("Weather ")
	switch {
	case s.Snapshot != nil:
		weather += styles.Weather.Render(fmt.Sprintf("%s %s %d°C", s.Snapshot.Emoji, s.Snapshot.Condition, s.Snapshot.Temperature))
		if loc := s.Snapshot.Location(); loc != "" {
			weather += styles.Dim.Render("  " + loc)
		}
	case !s.Weather.IsNone():
		weather += styles.Weather.Render(s.Weather.Emoji() + " " + s.Weather.String())
	default:
		weather += styles.Dim.Render("off")
	}

	lines := []string{hour, weather}
	if s.Pending != "" {
		lines = append(lines, styles.Transition.Render("↻ "+s.Pending+" (after this track)"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (n *NowPlaying) renderTrack(s Status, spin string, width int) string {
	switch s.State {
	case "waiting":
		return lipgloss.JoinVertical(lipgloss.Left,
			spin+" "+styles.Warn.Render("No songs for this hour"),
			styles.Dim.Render(fmt.Sprintf("  checking again every %s", s.Backoff.Round(time.Second))),
		)
	case "stopped":
		return styles.StatusIcon(s.State) + " " + styles.Muted.Render("Stopped")
	}

	if s.Track == nil {
		return spin + " " + styles.Muted.Render("Loading playlist...")
	}

	titleStyle := styles.Title.Width(width - 4)
	name := titleStyle.Render(truncate(s.Track.Name, width-4))

	detail := fmt.Sprintf("track %d of %d", s.Index+1, s.Total)
	if s.Counts.Weather > 0 {
		detail += fmt.Sprintf("  (%d hour + %d %s)", s.Counts.Base, s.Counts.Weather, s.Weather)
	}
	if s.Track.IsWeather() {
		detail += "  " + s.Track.Weather.Emoji()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.StatusIcon(s.State)+" "+name,
		"  "+styles.Subtitle.Render(detail),
	)
}
