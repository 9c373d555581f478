package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tessro/chromie/internal/logger"
	"github.com/tessro/chromie/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:     "ui",
	Aliases: []string{"tui"},
	Short:   "Play with the interactive dashboard",
	Long: `Play music with a live terminal dashboard.

The dashboard shows:
  • Now Playing - hour, weather, current track and playlist position
  • Activity - hour and weather transitions as they happen
  • History - recently played tracks

Keyboard shortcuts:
  q, Ctrl+C    Quit
  ?            Help
  Tab          Switch panel
  j/k          Scroll activity`,
	RunE: runTUI,
}

func init() {
	addPlayFlags(tuiCmd)
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Console logging would tear the alt screen.
	if cfg.Log.File == "" {
		if err := logger.Init(logger.Config{Level: cfg.Log.Level, Writer: io.Discard}); err != nil {
			return err
		}
	}

	presenter := tui.NewPresenter(128)
	pb, err := newPlayback(presenter)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := pb.start(ctx); err != nil {
		return err
	}
	defer pb.monitor.Stop()

	if snap, ok := pb.monitor.Weather(); ok {
		presenter.SetWeather(snap)
	}

	playErr := make(chan error, 1)
	go func() {
		playErr <- pb.play(ctx)
		// Close the dashboard if playback ends on its own.
		cancel()
	}()

	uiErr := tui.Run(ctx, presenter, newFormatter())
	cancel()
	if pb.engine.Running() {
		logger.Debug("waiting for playback to stop")
	}

	if err := <-playErr; err != nil {
		return err
	}
	return uiErr
}
