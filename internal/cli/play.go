package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tessro/chromie/internal/audio"
	"github.com/tessro/chromie/internal/catalog"
	"github.com/tessro/chromie/internal/core"
	"github.com/tessro/chromie/internal/engine"
	chromieerrors "github.com/tessro/chromie/internal/errors"
	"github.com/tessro/chromie/internal/logger"
	"github.com/tessro/chromie/internal/monitor"
	"github.com/tessro/chromie/internal/weather"
)

var (
	playHour      int
	playWeather   bool
	playNoWeather bool
	playCondition string
)

// addPlayFlags registers the playback flags shared by the root and ui commands.
func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&playHour, "hour", "H", -1, "start at a specific hour (0-23)")
	cmd.Flags().BoolVarP(&playWeather, "weather", "w", false, "mix in tracks for the current weather")
	cmd.Flags().BoolVar(&playNoWeather, "no-weather", false, "disable weather even if enabled in config")
	cmd.Flags().StringVar(&playCondition, "condition", "", "force a weather condition (sunny, rainy, cloudy, snowy, foggy)")
}

// playback holds the collaborators of one playback session.
type playback struct {
	catalog   *catalog.Catalog
	engine    *engine.Engine
	monitor   *monitor.Monitor
	hour      core.Hour
	pinned    bool
	condition core.Condition
	weatherOn bool
}

func newPlayback(presenter core.Presenter) (*playback, error) {
	pb := &playback{}

	if playHour != -1 {
		pb.hour = core.Hour(playHour)
		if !pb.hour.Valid() {
			return nil, fmt.Errorf("%w: got %d", chromieerrors.ErrInvalidHour, playHour)
		}
		pb.pinned = true
	}

	condition, err := core.ParseCondition(playCondition)
	if err != nil {
		return nil, chromieerrors.WithSuggestion(err, "Use one of: sunny, rainy, cloudy, snowy, foggy")
	}
	pb.condition = condition
	pb.weatherOn = weatherEnabled() && condition.IsNone()

	pb.catalog = prepareCatalog(pb.weatherOn)

	player, err := audio.New(cfg.Player.Command, cfg.Player.Args)
	if err != nil {
		return nil, err
	}
	logger.Debug("audio player selected", "command", player.Command())

	pb.engine = engine.New(pb.catalog, player, presenter,
		engine.WithBackoff(cfg.Schedule.Backoff()))

	// A forced condition replaces lookups entirely.
	var source core.WeatherSource
	if pb.weatherOn {
		source = newWeatherSource()
	}
	pb.monitor = monitor.New(pb.engine, source, presenter,
		monitor.WithHourInterval(cfg.Schedule.HourCheck()),
		monitor.WithWeatherInterval(cfg.Schedule.WeatherCheck()))

	return pb, nil
}

// start starts the monitor, resolving the startup weather when enabled.
func (pb *playback) start(ctx context.Context) error {
	if pb.pinned {
		return pb.monitor.StartWithHour(ctx, pb.hour, pb.weatherOn)
	}
	return pb.monitor.Start(ctx, pb.weatherOn)
}

// play runs the engine until ctx is done.
func (pb *playback) play(ctx context.Context) error {
	condition := pb.condition
	if condition.IsNone() {
		condition = pb.monitor.Condition()
	}
	return pb.engine.Start(ctx, pb.monitor.Hour(), condition)
}

func runPlay(cmd *cobra.Command, args []string) error {
	d := newDisplay()

	pb, err := newPlayback(d)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if !JSONOutput() {
		d.ShowMusicDir(pb.catalog.Dir())
	}
	if err := pb.start(ctx); err != nil {
		return err
	}
	defer pb.monitor.Stop()

	if snap, ok := pb.monitor.Weather(); ok {
		d.ShowWeather(snap)
	}

	// The engine and its player stop with ctx.
	if err := pb.play(ctx); err != nil {
		return err
	}
	if ctx.Err() != nil {
		d.ShowShutdown()
	}
	return nil
}

// weatherEnabled resolves the weather flags against the config.
func weatherEnabled() bool {
	switch {
	case playNoWeather:
		return false
	case playWeather:
		return true
	default:
		return cfg.Weather.Enabled
	}
}

func newWeatherSource() *weather.Source {
	opts := []weather.Option{
		weather.WithCacheTTL(cfg.Weather.CacheDuration()),
		weather.WithTimeout(cfg.Weather.TimeoutDuration()),
	}
	if cfg.Weather.HasCoordinates() {
		opts = append(opts, weather.WithLocation(*cfg.Weather.Latitude, *cfg.Weather.Longitude, cfg.Weather.City))
	}
	return weather.New(opts...)
}

// prepareCatalog returns the catalog for the configured music directory,
// creating the music directory and hour folders on first run. Folders that
// cannot be created are logged and skipped.
func prepareCatalog(withWeather bool) *catalog.Catalog {
	cat := catalog.New(cfg.Music.Dir)
	result := cat.InitDirectories(withWeather)
	if n := len(result.Data); n > 0 {
		logger.Info("created music folders", "dir", cat.Dir(), "count", n)
	}
	for _, err := range result.Errors {
		logger.Warn("failed to create music folder", "err", err)
	}
	return cat
}

// openCatalog returns the catalog for the configured music directory,
// which must exist.
func openCatalog() (*catalog.Catalog, error) {
	dir := cfg.Music.Dir
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, chromieerrors.WithSuggestion(
			fmt.Errorf("%w: %s", chromieerrors.ErrMusicDirNotFound, dir),
			fmt.Sprintf("Run 'chromie init --dir %s' to create the hour folders", dir))
	}
	return catalog.New(dir), nil
}
