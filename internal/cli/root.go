package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tessro/chromie/internal/config"
	chromieerrors "github.com/tessro/chromie/internal/errors"
	"github.com/tessro/chromie/internal/logger"
)

var (
	cfgFile  string
	jsonOut  bool
	verbose  bool
	musicDir string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "chromie",
	Short: "Play music that follows the clock and the weather",
	Long: `Chromie plays the songs in the folder for the current hour, looping
until the hour changes. With weather enabled, tracks from a matching
weather subfolder (sunny, rainy, cloudy, snowy, foggy) are mixed in.

Music directory layout:
  ~/Music/chromie/
    09/
      morning.mp3
      sunny/
        brightside.ogg

Examples:
  chromie                     # Play the current hour
  chromie --hour 9            # Start at 9 AM and follow the clock from there
  chromie --weather           # Mix in weather tracks
  chromie --condition rainy   # Pretend it is raining
  chromie ui                  # Interactive dashboard`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	RunE:          runPlay,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.chromierc)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&musicDir, "dir", "d", "", "music directory (default from config)")
	addPlayFlags(rootCmd)
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if musicDir != "" {
		dir, err := filepath.Abs(config.ExpandPath(musicDir))
		if err != nil {
			return fmt.Errorf("invalid music directory: %w", err)
		}
		cfg.Music.Dir = dir
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", chromieerrors.ErrInvalidConfig, err)
	}

	if err := logger.Init(logger.Config{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Verbose: verbose,
	}); err != nil {
		return err
	}
	for _, w := range cfg.Warnings {
		logger.Warn("config", "err", w)
	}
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, chromieerrors.Format(err))
		os.Exit(1)
	}
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}
