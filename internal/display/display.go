// Package display renders playback events and command output as styled
// terminal lines.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/chromie/internal/core"
	chromieerrors "github.com/tessro/chromie/internal/errors"
	"github.com/tessro/chromie/internal/tui/styles"
	"golang.org/x/term"
)

// Display writes events to an io.Writer. It implements core.Presenter.
// Write errors are ignored.
type Display struct {
	out       io.Writer
	formatter *Formatter
	color     bool
	json      bool

	mu sync.Mutex
}

// Option configures a Display.
type Option func(*Display)

// WithFormatter sets the event formatter.
func WithFormatter(f *Formatter) Option {
	return func(d *Display) {
		if f != nil {
			d.formatter = f
		}
	}
}

// WithColor forces styled output on or off.
func WithColor(enabled bool) Option {
	return func(d *Display) {
		d.color = enabled
	}
}

// WithJSON writes one JSON object per event instead of styled lines.
func WithJSON(enabled bool) Option {
	return func(d *Display) {
		d.json = enabled
	}
}

// New creates a display writing to out. Color is enabled when out is a terminal.
func New(out io.Writer, opts ...Option) *Display {
	d := &Display{
		out:       out,
		formatter: NewFormatter(),
		color:     isTerminal(out),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Notify renders one event.
func (d *Display) Notify(e core.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.json {
		d.writeJSON(e)
		return
	}
	if d.formatter.HasTemplate() {
		d.println(d.formatter.Format(e))
		return
	}

	switch e.Type {
	case core.EventHeader:
		d.header(e)
	case core.EventHourChange:
		d.println("")
		d.line(styles.Transition, d.formatter.Format(e))
	case core.EventWeatherChange, core.EventWeatherApplied:
		d.line(styles.Weather, d.formatter.Format(e))
	case core.EventPlaylist:
		d.line(styles.Highlight, d.formatter.Format(e))
		d.println("")
	case core.EventNowPlaying:
		d.line(styles.Playing, d.formatter.Format(e))
	case core.EventTrackFailed:
		d.line(styles.Failed, d.formatter.Format(e))
	case core.EventEmpty:
		d.line(styles.Warn, d.formatter.Format(e))
	case core.EventShutdown:
		d.println("")
		d.line(styles.Dim, d.formatter.Format(e))
		d.line(styles.Highlight, "Goodbye!")
		d.println("")
	default:
		d.line(styles.Muted, d.formatter.Format(e))
	}
}

func (d *Display) header(e core.Event) {
	banner := d.render(styles.Banner, "C H R O M I E\n"+d.render(styles.Subtitle, "24-Hour Music Player"))
	if !d.color {
		banner = plainBanner()
	}

	d.println("")
	for _, l := range strings.Split(banner, "\n") {
		d.println("  " + l)
	}
	d.println("")
	d.println("  " + d.render(styles.Title, "Current Hour: ") +
		d.render(styles.Hour, e.Hour.String()) + " " +
		d.render(styles.Dim, "("+e.Hour.Label()+")"))
	if !e.Condition.IsNone() {
		d.println("  " + d.render(styles.Title, "Weather: ") +
			d.render(styles.Weather, e.Condition.Emoji()+" "+e.Condition.String()))
	}
	d.println("")
}

func plainBanner() string {
	const width = 39
	center := func(s string) string {
		pad := width - len([]rune(s))
		left := pad / 2
		return "║" + strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left) + "║"
	}
	return strings.Join([]string{
		"╔" + strings.Repeat("═", width) + "╗",
		center("C H R O M I E"),
		center("24-Hour Music Player"),
		"╚" + strings.Repeat("═", width) + "╝",
	}, "\n")
}

// ShowMusicDir prints the music directory in use.
func (d *Display) ShowMusicDir(dir string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.println("  " + d.render(styles.Title, "Music Directory: ") + d.render(styles.Path, dir))
}

// ShowWeather prints a weather snapshot.
func (d *Display) ShowWeather(s core.Snapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.json {
		d.encode(s)
		return
	}

	line := fmt.Sprintf("%s %s, %d°C", s.Emoji, s.Condition, s.Temperature)
	if loc := s.Location(); loc != "" {
		line += " in " + loc
	}
	d.println("  " + d.render(styles.Title, "Weather: ") + d.render(styles.Weather, line))
}

// ShowInfo prints a dim informational line.
func (d *Display) ShowInfo(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.line(styles.Dim, msg)
}

// ShowList prints the tracks for an hour and weather pair.
func (d *Display) ShowList(hour core.Hour, weather core.Condition, tracks []core.Track) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.json {
		d.encode(struct {
			Hour    string       `json:"hour"`
			Weather string       `json:"weather,omitempty"`
			Tracks  []core.Track `json:"tracks"`
		}{hour.String(), string(weather), nonNil(tracks)})
		return
	}

	title := fmt.Sprintf("Songs for hour %s:", hour)
	if !weather.IsNone() {
		title = fmt.Sprintf("Songs for hour %s (%s):", hour, weather)
	}

	d.println("")
	d.line(styles.Highlight, title)
	if len(tracks) == 0 {
		d.line(styles.Muted, "(no songs)")
	}
	for i, t := range tracks {
		entry := fmt.Sprintf("%3d. %s", i+1, t.Name)
		if t.IsWeather() {
			entry += " " + d.render(styles.Weather, t.Weather.Emoji())
		}
		d.println("  " + entry)
	}
	d.println("")
}

// ShowInitComplete reports the result of creating the folder layout.
func (d *Display) ShowInitComplete(dir string, created int, withWeather bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.println("  " + d.render(styles.Playing, fmt.Sprintf("✓ Created %d directories in: ", created)) +
		d.render(styles.Title, dir))
	d.line(styles.Dim, "Add your music files to the corresponding hour folders (00-23)")
	if withWeather {
		d.line(styles.Dim, "Weather folders (sunny, rainy, cloudy, snowy, foggy) add tracks when the weather matches")
	}
}

// ShowError prints an error with its suggestion, if any.
func (d *Display) ShowError(err error) {
	if err == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	d.println("  " + d.render(styles.Failed, "Error: ") + err.Error())
	if s := chromieerrors.GetSuggestion(err); s != "" {
		d.line(styles.Dim, s)
	}
}

// ShowShutdown prints the goodbye banner.
func (d *Display) ShowShutdown() {
	d.Notify(core.NewEvent(core.EventShutdown))
}

func (d *Display) line(style lipgloss.Style, text string) {
	d.println("  " + d.render(style, text))
}

func (d *Display) render(style lipgloss.Style, text string) string {
	if !d.color {
		return text
	}
	return style.Render(text)
}

func (d *Display) println(s string) {
	_, _ = fmt.Fprintln(d.out, s)
}

type eventJSON struct {
	Type          string         `json:"type"`
	Timestamp     time.Time      `json:"timestamp"`
	Hour          string         `json:"hour"`
	PrevHour      string         `json:"prev_hour,omitempty"`
	Condition     string         `json:"weather,omitempty"`
	PrevCondition string         `json:"prev_weather,omitempty"`
	Snapshot      *core.Snapshot `json:"snapshot,omitempty"`
	Track         *core.Track    `json:"track,omitempty"`
	Index         int            `json:"index,omitempty"`
	Total         int            `json:"total,omitempty"`
	Counts        *core.Counts   `json:"counts,omitempty"`
	Backoff       string         `json:"backoff,omitempty"`
	Error         string         `json:"error,omitempty"`
}

func (d *Display) writeJSON(e core.Event) {
	out := eventJSON{
		Type:          e.Type.String(),
		Timestamp:     e.Timestamp,
		Hour:          e.Hour.String(),
		Condition:     string(e.Condition),
		PrevCondition: string(e.PrevCondition),
		Snapshot:      e.Weather,
		Track:         e.Track,
		Total:         e.Total,
	}
	if e.Type == core.EventHourChange {
		out.PrevHour = e.PrevHour.String()
	}
	if e.Track != nil {
		out.Index = e.Index + 1
	}
	if e.Type == core.EventPlaylist {
		out.Counts = &e.Counts
	}
	if e.Backoff > 0 {
		out.Backoff = e.Backoff.String()
	}
	if e.Err != nil {
		out.Error = e.Err.Error()
	}
	d.encode(out)
}

func (d *Display) encode(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	d.println(string(data))
}

func nonNil(tracks []core.Track) []core.Track {
	if tracks == nil {
		return []core.Track{}
	}
	return tracks
}
