package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/chromie/internal/core"
	"github.com/tessro/chromie/internal/tui/styles"
)

// HistoryEntry represents a track in play history
type HistoryEntry struct {
	Track    *core.Track
	PlayedAt time.Time
	Failed   bool
}

// History displays recently played tracks
type History struct{}

// NewHistory creates a new History component
func NewHistory() *History {
	return &History{}
}

// Render renders the history panel
func (h *History) Render(entries []HistoryEntry, now time.Time, width, height int, focused bool) string {
	title := styles.PanelTitle("History", focused)

	var content string
	if len(entries) == 0 {
		content = styles.Muted.Render("No history yet")
	} else {
		content = h.renderHistory(entries, now, width-4, height-4)
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
	))
}

func (h *History) renderHistory(entries []HistoryEntry, now time.Time, width, maxLines int) string {
	lines := make([]string, 0, maxLines)

	// icon (2) + weather marker (3)
	const overhead = 5

	for i, entry := range entries {
		if i >= maxLines {
			break
		}

		track := entry.Track
		if track == nil {
			continue
		}

		timeAgo := formatTimeAgo(now.Sub(entry.PlayedAt), entry.PlayedAt)

		icon := styles.Dim.Render("✓")
		if entry.Failed {
			icon = styles.Failed.Render("✗")
		}

		marker := ""
		if track.IsWeather() {
			marker = " " + track.Weather.Emoji()
		}

		name := truncate(track.Name, width-overhead-len(timeAgo)-1)

		padding := width - 2 - len(name) - len(marker) - len(timeAgo)
		if padding < 1 {
			padding = 1
		}

		line := fmt.Sprintf("%s %s%s%s%s",
			icon,
			name,
			marker,
			lipgloss.NewStyle().Width(padding).Render(""),
			styles.Dim.Render(timeAgo))

		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func formatTimeAgo(d time.Duration, t time.Time) string {
	if d < time.Minute {
		return "now"
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return t.Format("Jan 2")
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
