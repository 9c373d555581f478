// Package tui is a live terminal dashboard for the playback loop.
package tui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/chromie/internal/core"
	"github.com/tessro/chromie/internal/display"
	"github.com/tessro/chromie/internal/tui/components"
	"github.com/tessro/chromie/internal/tui/styles"
)

// Panel represents which panel is focused
type Panel int

const (
	PanelNowPlaying Panel = iota
	PanelActivity
	PanelHistory
)

const (
	maxHistory  = 50
	maxActivity = 200
)

// Presenter forwards events to the dashboard. It implements core.Presenter.
// Events are dropped when the buffer is full or the dashboard has exited.
type Presenter struct {
	events    chan core.Event
	done      chan struct{}
	closeOnce sync.Once
	weather   *core.Snapshot
}

// NewPresenter creates a presenter buffering up to size events.
func NewPresenter(size int) *Presenter {
	if size <= 0 {
		size = 64
	}
	return &Presenter{
		events: make(chan core.Event, size),
		done:   make(chan struct{}),
	}
}

// Notify queues an event without blocking.
func (p *Presenter) Notify(e core.Event) {
	select {
	case <-p.done:
		return
	default:
	}
	select {
	case p.events <- e:
	default:
		// Drop event if channel is full
	}
}

// SetWeather seeds the dashboard with the weather resolved at startup.
// Call it before Run.
func (p *Presenter) SetWeather(s core.Snapshot) {
	p.weather = &s
}

func (p *Presenter) close() {
	p.closeOnce.Do(func() { close(p.done) })
}

// Model is the main TUI model
type Model struct {
	presenter    *Presenter
	formatter    *display.Formatter
	now          func() time.Time
	width        int
	height       int
	focusedPanel Panel

	// State
	status   components.Status
	history  []components.HistoryEntry
	activity []string

	// Components
	spinner      spinner.Model
	nowPlaying   *components.NowPlaying
	activityView *components.Activity
	historyView  *components.History

	showHelp bool
	quitting bool
}

// NewModel creates a new TUI model
func NewModel(p *Presenter, f *display.Formatter) Model {
	if f == nil {
		f = display.NewFormatter(display.WithTimestamp(true))
	}
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Primary)),
	)

	return Model{
		presenter:    p,
		formatter:    f,
		now:          time.Now,
		focusedPanel: PanelNowPlaying,
		status:       components.Status{State: core.StateIdle.String(), Snapshot: p.weather},
		spinner:      s,
		nowPlaying:   components.NewNowPlaying(),
		activityView: components.NewActivity(),
		historyView:  components.NewHistory(),
		history:      make([]components.HistoryEntry, 0),
	}
}

// Messages
type eventMsg core.Event
type closedMsg struct{}

func (m Model) waitForEvent() tea.Cmd {
	p := m.presenter
	return func() tea.Msg {
		select {
		case e := <-p.events:
			return eventMsg(e)
		case <-p.done:
			return closedMsg{}
		}
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.waitForEvent(),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case eventMsg:
		m.apply(core.Event(msg))
		return m, m.waitForEvent()

	case closedMsg:
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// apply folds an event into the dashboard state.
func (m *Model) apply(e core.Event) {
	s := &m.status

	switch e.Type {
	case core.EventHeader:
		s.Hour = e.Hour
		s.Weather = e.Condition
		s.State = core.StateLoading.String()
		s.Track = nil
		s.Pending = ""

	case core.EventHourChange:
		s.Pending = fmt.Sprintf("hour %s → %s", e.PrevHour, e.Hour)

	case core.EventWeatherChange:
		s.Snapshot = e.Weather
		s.Pending = fmt.Sprintf("weather %s → %s", e.PrevCondition, e.Condition)

	case core.EventWeatherApplied:
		s.Weather = e.Condition
		s.Pending = ""

	case core.EventPlaylist:
		s.Counts = e.Counts
		s.Total = e.Total
		s.Pending = ""

	case core.EventNowPlaying:
		s.State = core.StatePlaying.String()
		s.Track = e.Track
		s.Index = e.Index
		s.Total = e.Total
		if e.Track != nil {
			m.addToHistory(e.Track, e.Timestamp)
		}

	case core.EventTrackFailed:
		if len(m.history) > 0 && e.Track != nil && m.history[0].Track != nil &&
			m.history[0].Track.Path == e.Track.Path {
			m.history[0].Failed = true
		}

	case core.EventEmpty:
		s.State = core.StateWaiting.String()
		s.Track = nil
		s.Backoff = e.Backoff

	case core.EventShutdown:
		s.State = core.StateStopped.String()
		s.Track = nil
	}

	m.activity = append(m.activity, m.formatter.Format(e))
	if len(m.activity) > maxActivity {
		m.activity = m.activity[len(m.activity)-maxActivity:]
	}
}

func (m *Model) addToHistory(track *core.Track, at time.Time) {
	if at.IsZero() {
		at = m.now()
	}
	entry := components.HistoryEntry{
		Track:    track,
		PlayedAt: at,
	}

	// Add to front
	m.history = append([]components.HistoryEntry{entry}, m.history...)
	if len(m.history) > maxHistory {
		m.history = m.history[:maxHistory]
	}
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	}

	if m.showHelp {
		switch msg.String() {
		case "?", "esc":
			m.showHelp = false
		}
		return m, nil
	}

	switch msg.String() {
	case "?":
		m.showHelp = true
	case "tab":
		m.focusedPanel = (m.focusedPanel + 1) % 3
	case "shift+tab":
		m.focusedPanel = (m.focusedPanel + 2) % 3
	case "k", "up":
		if m.focusedPanel == PanelActivity {
			m.activityView.ScrollUp()
		}
	case "j", "down":
		if m.focusedPanel == PanelActivity {
			m.activityView.ScrollDown()
		}
	}

	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	// Left: Now Playing (top), Activity (bottom). Right: History.
	leftWidth := m.width * 60 / 100
	rightWidth := m.width - leftWidth - 2
	topHeight := m.height * 40 / 100
	bottomHeight := m.height - topHeight - 2

	nowPlaying := m.nowPlaying.Render(m.status, m.spinner.View(), leftWidth-2, topHeight-2, m.focusedPanel == PanelNowPlaying)
	activity := m.activityView.Render(m.activity, leftWidth-2, bottomHeight-2, m.focusedPanel == PanelActivity)
	history := m.historyView.Render(m.history, m.now(), rightWidth-2, m.height-4, m.focusedPanel == PanelHistory)

	leftCol := lipgloss.JoinVertical(lipgloss.Left, nowPlaying, activity)
	main := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, history)

	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m Model) renderStatusBar() string {
	status := styles.Dim.Render("q:quit  ?:help  tab:switch panel  j/k:scroll activity")

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(status)
}

func (m Model) renderHelp() string {
	title := "Chromie - Keyboard Shortcuts"
	divider := styles.Repeat("═", len(title))

	help := `
  ` + title + `
  ` + divider + `

  q, Ctrl+C    Stop playback and quit
  ?            Toggle help
  Tab          Next panel
  Shift+Tab    Previous panel
  j/↓, k/↑     Scroll activity

  The playlist follows the clock. When the hour
  or the weather changes, the new playlist starts
  after the current track.

  Press ? or Esc to close
`

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.BorderStyle.Render(help))
}

// Run starts the dashboard and blocks until the user quits or ctx is done.
// The presenter stops accepting events once Run returns.
func Run(ctx context.Context, p *Presenter, f *display.Formatter) error {
	defer p.close()

	program := tea.NewProgram(NewModel(p, f), tea.WithAltScreen())

	go func() {
		select {
		case <-ctx.Done():
			p.close()
		case <-p.done:
		}
	}()

	_, err := program.Run()
	return err
}
