// Package engine runs the hour and weather aware playback loop.
//
// The loop resolves a playlist for the current hour and weather condition,
// plays it track by track and repeats. Hour and weather changes are queued
// from other goroutines and observed at two checkpoints: the top of the
// loop, where pending values are applied, and before each track, where a
// pending value abandons the rest of the current playlist. A track that is
// already playing always finishes.
package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/tessro/chromie/internal/core"
	chromieerrors "github.com/tessro/chromie/internal/errors"
	"github.com/tessro/chromie/internal/logger"
)

// DefaultBackoff is how long the loop waits before rescanning an empty playlist.
const DefaultBackoff = 30 * time.Second

// Engine is the playback loop. The zero value is not usable; use New.
type Engine struct {
	catalog   core.Catalog
	player    core.Player
	presenter core.Presenter
	backoff   time.Duration

	pendingHour    core.Mailbox[core.Hour]
	pendingWeather core.Mailbox[core.Condition]

	state   atomic.Int32
	hour    atomic.Int32
	weather atomic.Pointer[core.Condition]
	running atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
}

// Option configures an Engine.
type Option func(*Engine)

// WithBackoff sets the wait between scans of an empty playlist.
func WithBackoff(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.backoff = d
		}
	}
}

// New creates an engine. A nil presenter discards events.
func New(catalog core.Catalog, player core.Player, presenter core.Presenter, opts ...Option) *Engine {
	if presenter == nil {
		presenter = core.Discard
	}
	e := &Engine{
		catalog:   catalog,
		player:    player,
		presenter: presenter,
		backoff:   DefaultBackoff,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start runs the playback loop for the given hour and weather condition.
// It blocks until Stop is called or ctx is cancelled, then returns nil.
// Track failures are reported to the presenter and never returned.
func (e *Engine) Start(ctx context.Context, hour core.Hour, weather core.Condition) error {
	if !hour.Valid() {
		return chromieerrors.ErrInvalidHour
	}

	// running and cancel are published together so a Stop that sees the
	// loop as running always has something to cancel.
	e.mu.Lock()
	if e.running.Load() {
		e.mu.Unlock()
		return chromieerrors.ErrAlreadyRunning
	}
	runCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.running.Store(true)
	e.mu.Unlock()

	defer func() {
		cancel()
		e.setState(core.StateStopped)
		e.mu.Lock()
		e.cancel = nil
		e.running.Store(false)
		e.mu.Unlock()
	}()

	e.hour.Store(int32(hour))
	e.setWeather(weather)

	runLog := logger.With("run", uuid.NewString())
	runLog.Info("playback started", "hour", hour, "weather", weather)
	defer runLog.Info("playback stopped")

	first := true
	for {
		if runCtx.Err() != nil {
			return nil
		}
		e.setState(core.StateLoading)

		// Checkpoint 1: apply whatever is pending.
		hourApplied := first
		first = false
		if h, ok := e.pendingHour.Take(); ok {
			e.hour.Store(int32(h))
			hourApplied = true
			runLog.Debug("hour applied", "hour", h)
		}
		cur, curWeather := e.Hour(), e.Weather()
		if hourApplied {
			ev := core.NewEvent(core.EventHeader)
			ev.Hour = cur
			ev.Condition = curWeather
			e.notify(ev)
		}
		if c, ok := e.pendingWeather.Take(); ok {
			prev := curWeather
			e.setWeather(c)
			curWeather = c
			if c != prev {
				runLog.Debug("weather applied", "weather", c)
				ev := core.NewEvent(core.EventWeatherApplied)
				ev.Hour = cur
				ev.Condition = c
				ev.PrevCondition = prev
				e.notify(ev)
			}
		}

		playlist := core.Playlist{
			Hour:    cur,
			Weather: curWeather,
			Tracks:  e.catalog.SongsFor(cur, curWeather),
		}

		if playlist.IsEmpty() {
			e.setState(core.StateWaiting)
			ev := core.NewEvent(core.EventEmpty)
			ev.Hour = cur
			ev.Condition = curWeather
			ev.Backoff = e.backoff
			e.notify(ev)
			runLog.Debug("playlist empty", "hour", cur, "weather", curWeather, "backoff", e.backoff)

			if !sleep(runCtx, e.backoff) {
				return nil
			}
			continue
		}

		ev := core.NewEvent(core.EventPlaylist)
		ev.Hour = cur
		ev.Condition = curWeather
		ev.Total = playlist.Len()
		ev.Counts = e.catalog.CountsFor(cur, curWeather)
		e.notify(ev)

		e.setState(core.StatePlaying)
		if !e.playAll(runCtx, runLog, &playlist) {
			return nil
		}
	}
}

// playAll plays the playlist in order. It returns false when the run was
// stopped, true when the playlist ended or a change is pending.
func (e *Engine) playAll(ctx context.Context, runLog *log.Logger, playlist *core.Playlist) bool {
	for i := 0; i < playlist.Len(); i++ {
		if ctx.Err() != nil {
			return false
		}
		// Checkpoint 2: a pending change abandons the rest of the playlist.
		if e.pendingHour.Pending() || e.pendingWeather.Pending() {
			runLog.Debug("change pending, rebuilding playlist", "remaining", playlist.Len()-i)
			return true
		}

		track := playlist.At(i)
		ev := core.NewEvent(core.EventNowPlaying)
		ev.Hour = playlist.Hour
		ev.Condition = playlist.Weather
		ev.Track = track
		ev.Index = i
		ev.Total = playlist.Len()
		e.notify(ev)

		if err := e.player.Play(ctx, *track); err != nil {
			if ctx.Err() != nil {
				return false
			}
			runLog.Warn("track failed", "path", track.Path, "err", err)
			ev := core.NewEvent(core.EventTrackFailed)
			ev.Hour = playlist.Hour
			ev.Condition = playlist.Weather
			ev.Track = track
			ev.Index = i
			ev.Total = playlist.Len()
			ev.Err = err
			e.notify(ev)
		}
	}
	return ctx.Err() == nil
}

// QueueHourChange records h to be applied at the next checkpoint. Only the
// latest queued value is kept.
func (e *Engine) QueueHourChange(h core.Hour) {
	e.pendingHour.Put(h)
}

// QueueWeatherChange records c to be applied at the next checkpoint. Only
// the latest queued value is kept.
func (e *Engine) QueueWeatherChange(c core.Condition) {
	e.pendingWeather.Put(c)
}

// Stop ends the loop and cancels the track in flight. It is idempotent and
// a no-op when the loop is not running.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
	}
}

// Running returns true while Start is executing.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// State returns the current lifecycle state.
func (e *Engine) State() core.State {
	return core.State(e.state.Load())
}

// Hour returns the hour the loop is playing for.
func (e *Engine) Hour() core.Hour {
	return core.Hour(e.hour.Load())
}

// Weather returns the weather condition the loop is playing for.
func (e *Engine) Weather() core.Condition {
	if c := e.weather.Load(); c != nil {
		return *c
	}
	return core.ConditionNone
}

func (e *Engine) setState(s core.State) {
	e.state.Store(int32(s))
}

func (e *Engine) setWeather(c core.Condition) {
	e.weather.Store(&c)
}

func (e *Engine) notify(ev core.Event) {
	e.presenter.Notify(ev)
}

// sleep waits for d and returns false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
