// Package monitor polls the clock and the weather and queues changes into
// the playback engine.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/tessro/chromie/internal/core"
	chromieerrors "github.com/tessro/chromie/internal/errors"
	"github.com/tessro/chromie/internal/logger"
)

const (
	DefaultHourInterval    = time.Minute
	DefaultWeatherInterval = 15 * time.Minute
)

// Queuer accepts hour and weather changes. *engine.Engine satisfies it.
type Queuer interface {
	QueueHourChange(h core.Hour)
	QueueWeatherChange(c core.Condition)
}

// Monitor detects hour and weather transitions on a schedule.
type Monitor struct {
	engine    Queuer
	source    core.WeatherSource
	presenter core.Presenter

	now             func() time.Time
	hourInterval    time.Duration
	weatherInterval time.Duration

	mu         sync.Mutex
	scheduler  *gocron.Scheduler
	lastHour   core.Hour
	weather    core.Snapshot
	hasWeather bool
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		m.now = now
	}
}

// WithHourInterval sets how often the hour is checked.
func WithHourInterval(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.hourInterval = d
		}
	}
}

// WithWeatherInterval sets how often the weather is checked.
func WithWeatherInterval(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.weatherInterval = d
		}
	}
}

// New creates a monitor. source may be nil when weather is never enabled,
// and a nil presenter discards events.
func New(engine Queuer, source core.WeatherSource, presenter core.Presenter, opts ...Option) *Monitor {
	if presenter == nil {
		presenter = core.Discard
	}
	m := &Monitor{
		engine:          engine,
		source:          source,
		presenter:       presenter,
		now:             time.Now,
		hourInterval:    DefaultHourInterval,
		weatherInterval: DefaultWeatherInterval,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start begins monitoring from the current hour. See StartWithHour.
func (m *Monitor) Start(ctx context.Context, weatherEnabled bool) error {
	return m.StartWithHour(ctx, core.HourOf(m.now()), weatherEnabled)
}

// StartWithHour begins monitoring with hour as the last known hour. When
// weather is enabled the weather is resolved once before returning and,
// if available, queued into the engine. The hour check is then scheduled,
// and the weather check too when enabled.
func (m *Monitor) StartWithHour(ctx context.Context, hour core.Hour, weatherEnabled bool) error {
	if !hour.Valid() {
		return chromieerrors.ErrInvalidHour
	}

	m.mu.Lock()
	if m.scheduler != nil {
		m.mu.Unlock()
		return chromieerrors.ErrAlreadyRunning
	}
	m.lastHour = hour
	m.mu.Unlock()

	weatherEnabled = weatherEnabled && m.source != nil
	if weatherEnabled {
		if snap, ok := m.source.CurrentWeather(ctx); ok {
			m.mu.Lock()
			m.weather = snap
			m.hasWeather = true
			m.mu.Unlock()
			m.engine.QueueWeatherChange(snap.Condition)
		} else {
			logger.Warn("weather unavailable at startup, playing without weather")
		}
	}

	s := gocron.NewScheduler(time.Local)
	s.SingletonModeAll()

	if _, err := s.Every(m.hourInterval).WaitForSchedule().Do(m.checkHour); err != nil {
		return err
	}
	if weatherEnabled {
		if _, err := s.Every(m.weatherInterval).WaitForSchedule().Do(func() {
			m.checkWeather(ctx)
		}); err != nil {
			return err
		}
	}

	m.mu.Lock()
	m.scheduler = s
	m.mu.Unlock()

	s.StartAsync()
	logger.Debug("monitor started", "hour", hour, "weather", weatherEnabled,
		"hour_interval", m.hourInterval, "weather_interval", m.weatherInterval)
	return nil
}

// Stop cancels both checks. It is idempotent and safe before Start.
func (m *Monitor) Stop() {
	m.mu.Lock()
	s := m.scheduler
	m.scheduler = nil
	m.mu.Unlock()

	if s != nil {
		s.Stop()
		logger.Debug("monitor stopped")
	}
}

// Hour returns the last known hour.
func (m *Monitor) Hour() core.Hour {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastHour
}

// Weather returns the last known weather snapshot.
func (m *Monitor) Weather() (core.Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.weather, m.hasWeather
}

// Condition returns the last known condition, or ConditionNone.
func (m *Monitor) Condition() core.Condition {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasWeather {
		return core.ConditionNone
	}
	return m.weather.Condition
}

func (m *Monitor) checkHour() {
	current := core.HourOf(m.now())

	m.mu.Lock()
	prev := m.lastHour
	if current == prev {
		m.mu.Unlock()
		return
	}
	m.lastHour = current
	m.mu.Unlock()

	logger.Info("hour changed", "from", prev, "to", current)
	ev := core.NewEvent(core.EventHourChange)
	ev.Hour = current
	ev.PrevHour = prev
	m.presenter.Notify(ev)
	m.engine.QueueHourChange(current)
}

func (m *Monitor) checkWeather(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	snap, ok := m.source.CurrentWeather(ctx)
	if !ok {
		return
	}

	m.mu.Lock()
	prev := core.ConditionNone
	if m.hasWeather {
		prev = m.weather.Condition
	}
	m.weather = snap
	m.hasWeather = true
	hour := m.lastHour
	m.mu.Unlock()

	if snap.Condition == prev {
		return
	}

	logger.Info("weather changed", "from", prev, "to", snap.Condition)
	ev := core.NewEvent(core.EventWeatherChange)
	ev.Hour = hour
	ev.Condition = snap.Condition
	ev.PrevCondition = prev
	ev.Weather = &snap
	m.presenter.Notify(ev)
	m.engine.QueueWeatherChange(snap.Condition)
}
