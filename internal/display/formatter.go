package display

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/tessro/chromie/internal/core"
)

// Formatter formats events for output.
type Formatter struct {
	showEmoji     bool
	showTimestamp bool
	template      *template.Template
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithEmoji enables emoji output.
func WithEmoji(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showEmoji = enabled
	}
}

// WithTimestamp enables timestamp output.
func WithTimestamp(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showTimestamp = enabled
	}
}

// WithTemplate sets a custom format template. An invalid template is ignored.
func WithTemplate(tmpl string) FormatterOption {
	return func(f *Formatter) {
		if tmpl != "" {
			t, err := template.New("format").Parse(tmpl)
			if err == nil {
				f.template = t
			}
		}
	}
}

// NewFormatter creates a new formatter with the given options.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{
		showEmoji:     true,
		showTimestamp: false,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// HasTemplate returns true if a custom template is set.
func (f *Formatter) HasTemplate() bool {
	return f.template != nil
}

// Format formats an event as a string.
func (f *Formatter) Format(e core.Event) string {
	if f.template != nil {
		return f.formatTemplate(e)
	}
	return f.formatLine(e)
}

// formatLine formats an event as a simple line.
func (f *Formatter) formatLine(e core.Event) string {
	var parts []string

	if f.showTimestamp {
		parts = append(parts, e.Timestamp.Format("15:04:05"))
	}

	if f.showEmoji {
		parts = append(parts, eventEmoji(e))
	}

	parts = append(parts, Describe(e))

	return strings.Join(parts, " ")
}

// formatTemplate formats an event using a custom template.
func (f *Formatter) formatTemplate(e core.Event) string {
	data := newTemplateData(e)

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		return f.formatLine(e)
	}
	return buf.String()
}

type templateData struct {
	Type        string
	Emoji       string
	Timestamp   time.Time
	Time        string
	Hour        string
	HourLabel   string
	PrevHour    string
	Weather     string
	PrevWeather string
	Temperature int
	Location    string
	Track       string
	Path        string
	Index       int
	Total       int
	Error       string
}

func newTemplateData(e core.Event) templateData {
	data := templateData{
		Type:        e.Type.String(),
		Emoji:       eventEmoji(e),
		Timestamp:   e.Timestamp,
		Time:        e.Timestamp.Format("15:04:05"),
		Hour:        e.Hour.String(),
		HourLabel:   e.Hour.Label(),
		PrevHour:    e.PrevHour.String(),
		Weather:     e.Condition.String(),
		PrevWeather: e.PrevCondition.String(),
		Total:       e.Total,
	}

	if e.Weather != nil {
		data.Temperature = e.Weather.Temperature
		data.Location = e.Weather.Location()
	}

	if e.Track != nil {
		data.Track = e.Track.Name
		data.Path = e.Track.Path
		data.Index = e.Index + 1
	}

	if e.Err != nil {
		data.Error = e.Err.Error()
	}

	return data
}

// Describe returns a human-readable description of the event.
func Describe(e core.Event) string {
	switch e.Type {
	case core.EventHeader:
		desc := fmt.Sprintf("Current hour: %s (%s)", e.Hour, e.Hour.Label())
		if !e.Condition.IsNone() {
			desc += fmt.Sprintf(", weather: %s", e.Condition)
		}
		return desc

	case core.EventHourChange:
		return fmt.Sprintf("Hour changed: %s → %s", e.PrevHour, e.Hour)

	case core.EventWeatherChange:
		desc := fmt.Sprintf("Weather changed: %s → %s", e.PrevCondition, e.Condition)
		if e.Weather != nil {
			desc += fmt.Sprintf(" (%d°C)", e.Weather.Temperature)
		}
		return desc

	case core.EventWeatherApplied:
		if e.Condition.IsNone() {
			return "Weather tracks off"
		}
		return fmt.Sprintf("Weather tracks: %s", e.Condition)

	case core.EventPlaylist:
		if e.Counts.Weather > 0 {
			return fmt.Sprintf("Songs found: %d (%d hour + %d %s)",
				e.Counts.Total, e.Counts.Base, e.Counts.Weather, e.Condition)
		}
		return fmt.Sprintf("Songs found: %d", e.Total)

	case core.EventNowPlaying:
		if e.Track != nil {
			return fmt.Sprintf("Now Playing: %s (%d/%d)", trackName(e.Track), e.Index+1, e.Total)
		}
		return "Now Playing"

	case core.EventTrackFailed:
		name := "track"
		if e.Track != nil {
			name = trackName(e.Track)
		}
		if e.Err != nil {
			return fmt.Sprintf("Failed to play: %s: %v", name, e.Err)
		}
		return fmt.Sprintf("Failed to play: %s", name)

	case core.EventEmpty:
		folder := e.Hour.String()
		if !e.Condition.IsNone() {
			folder += "/" + string(e.Condition)
		}
		return fmt.Sprintf("No songs found in hour %s directory. Checking again in %s",
			folder, formatBackoff(e.Backoff))

	case core.EventShutdown:
		return "Stopping playback..."

	default:
		return "Unknown event"
	}
}

// eventEmoji returns an emoji for the event.
func eventEmoji(e core.Event) string {
	switch e.Type {
	case core.EventHeader:
		return "🕐"
	case core.EventHourChange:
		return "⏰"
	case core.EventWeatherChange, core.EventWeatherApplied:
		return e.Condition.Emoji()
	case core.EventPlaylist:
		return "📂"
	case core.EventNowPlaying:
		return "🎵"
	case core.EventTrackFailed:
		return "❌"
	case core.EventEmpty:
		return "⏳"
	case core.EventShutdown:
		return "👋"
	default:
		return "❓"
	}
}

func trackName(t *core.Track) string {
	if t.Name != "" {
		return t.Name
	}
	return filepath.Base(t.Path)
}

func formatBackoff(d time.Duration) string {
	if d <= 0 {
		return "a moment"
	}
	return d.Round(time.Second).String()
}
