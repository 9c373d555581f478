package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/chromie/internal/tui/styles"
)

// Activity displays the scheduler event log, newest last
type Activity struct {
	offset int
}

// NewActivity creates a new Activity component
func NewActivity() *Activity {
	return &Activity{}
}

// ScrollUp scrolls back through older lines
func (a *Activity) ScrollUp() {
	a.offset++
}

// ScrollDown scrolls towards the newest line
func (a *Activity) ScrollDown() {
	if a.offset > 0 {
		a.offset--
	}
}

// Render renders the activity panel
func (a *Activity) Render(lines []string, width, height int, focused bool) string {
	title := styles.PanelTitle("Activity", focused)

	var content string
	if len(lines) == 0 {
		content = styles.Muted.Render("Waiting for events")
	} else {
		content = a.renderLines(lines, width-4, height-4)
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

func (a *Activity) renderLines(lines []string, width, maxLines int) string {
	if maxLines < 1 {
		maxLines = 1
	}

	if a.offset > len(lines)-1 {
		a.offset = len(lines) - 1
	}

	end := len(lines) - a.offset
	start := end - maxLines
	if start < 0 {
		start = 0
	}

	out := make([]string, 0, end-start+1)
	if start > 0 {
		start++
		out = append(out, styles.Dim.Render(fmt.Sprintf("... %d earlier", start)))
	}
	for i := start; i < end; i++ {
		out = append(out, truncate(lines[i], width))
	}

	return lipgloss.JoinVertical(lipgloss.Left, out...)
}
