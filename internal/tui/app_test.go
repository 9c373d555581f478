package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tessro/chromie/internal/core"
	"github.com/tessro/chromie/internal/display"
)

func TestPresenterDropsWhenFull(t *testing.T) {
	p := NewPresenter(2)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			p.Notify(core.NewEvent(core.EventNowPlaying))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a full buffer")
	}
	if n := len(p.events); n != 2 {
		t.Errorf("buffered %d events, want 2", n)
	}
}

func TestPresenterAfterClose(t *testing.T) {
	p := NewPresenter(4)
	p.close()
	p.close()

	p.Notify(core.NewEvent(core.EventHeader))
	if n := len(p.events); n != 0 {
		t.Errorf("buffered %d events after close, want 0", n)
	}
}

func newTestModel() Model {
	m := NewModel(NewPresenter(8), display.NewFormatter(display.WithEmoji(false)))
	m.now = func() time.Time { return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC) }
	return m
}

func TestApplySequence(t *testing.T) {
	m := newTestModel()
	track := &core.Track{Path: "/music/09/coffee.flac", Name: "coffee.flac"}

	m.apply(core.Event{Type: core.EventHeader, Hour: 9, Condition: core.ConditionSunny})
	m.apply(core.Event{Type: core.EventPlaylist, Hour: 9, Total: 3, Counts: core.Counts{Base: 2, Weather: 1, Total: 3}})
	m.apply(core.Event{Type: core.EventNowPlaying, Track: track, Index: 1, Total: 3})

	if m.status.State != "playing" {
		t.Errorf("State = %q, want playing", m.status.State)
	}
	if m.status.Track != track || m.status.Index != 1 {
		t.Errorf("Track = %+v at %d, want coffee.flac at 1", m.status.Track, m.status.Index)
	}
	if len(m.history) != 1 || m.history[0].Track != track {
		t.Fatalf("history = %+v, want coffee.flac", m.history)
	}

	m.apply(core.Event{Type: core.EventTrackFailed, Track: track, Err: errors.New("boom")})
	if !m.history[0].Failed {
		t.Error("history entry not marked failed")
	}

	m.apply(core.Event{Type: core.EventHourChange, PrevHour: 9, Hour: 10})
	if !strings.Contains(m.status.Pending, "09 → 10") {
		t.Errorf("Pending = %q, want hour transition", m.status.Pending)
	}
	m.apply(core.Event{Type: core.EventHeader, Hour: 10})
	if m.status.Pending != "" || m.status.Hour != 10 {
		t.Errorf("after header: Pending = %q, Hour = %v", m.status.Pending, m.status.Hour)
	}

	if len(m.activity) != 6 {
		t.Errorf("activity has %d lines, want 6", len(m.activity))
	}
	if m.activity[2] != "Now Playing: coffee.flac (2/3)" {
		t.Errorf("activity[2] = %q", m.activity[2])
	}
}

func TestApplyEmptyAndShutdown(t *testing.T) {
	m := newTestModel()

	m.apply(core.Event{Type: core.EventEmpty, Hour: 4, Backoff: 30 * time.Second})
	if m.status.State != "waiting" || m.status.Backoff != 30*time.Second {
		t.Errorf("status = %+v, want waiting with backoff", m.status)
	}

	m.apply(core.Event{Type: core.EventShutdown})
	if m.status.State != "stopped" {
		t.Errorf("State = %q, want stopped", m.status.State)
	}
}

func TestHistoryIsCapped(t *testing.T) {
	m := newTestModel()
	for i := 0; i < maxHistory+5; i++ {
		m.apply(core.Event{Type: core.EventNowPlaying, Track: &core.Track{Name: "a.mp3"}, Total: 1})
	}
	if len(m.history) != maxHistory {
		t.Errorf("history length = %d, want %d", len(m.history), maxHistory)
	}
}

func TestUpdate(t *testing.T) {
	m := newTestModel()

	next, cmd := m.Update(eventMsg(core.Event{Type: core.EventHeader, Hour: 22}))
	if cmd == nil {
		t.Error("event message did not re-arm the event listener")
	}
	if got := next.(Model).status.Hour; got != 22 {
		t.Errorf("Hour = %v, want 22", got)
	}

	next, _ = next.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	view := next.View()
	if !strings.Contains(view, "Now Playing") || !strings.Contains(view, "History") {
		t.Errorf("view missing panels:\n%s", view)
	}

	next, cmd = next.Update(closedMsg{})
	if cmd == nil || !next.(Model).quitting {
		t.Error("closed presenter did not quit the program")
	}
}

func TestQuitKey(t *testing.T) {
	m := newTestModel()
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil || !next.(Model).quitting {
		t.Error("q did not quit")
	}
}
