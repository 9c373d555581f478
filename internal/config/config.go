package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.chromierc, $XDG_CONFIG_HOME/chromie/config.toml, ~/.config/chromie/config.toml
func Load() (*Config, error) {
	cfg := defaultDisplay()

	// Try loading from file
	path := FindConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	// Apply defaults, then environment variable overrides
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	expandPaths(cfg)

	return cfg, nil
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := defaultDisplay()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	expandPaths(cfg)
	return cfg, nil
}

func expandPaths(cfg *Config) {
	cfg.Music.Dir = ExpandPath(cfg.Music.Dir)
	cfg.Log.File = ExpandPath(cfg.Log.File)
}

// defaultDisplay seeds the boolean display settings, which cannot be told
// apart from an explicit false once decoded.
func defaultDisplay() *Config {
	return &Config{Display: Default().Display}
}

// FindConfigFile returns the first existing config file path.
func FindConfigFile() string {
	for _, p := range configPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// DefaultPath returns the path `config init` writes to.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".chromierc"
	}
	return filepath.Join(home, ".chromierc")
}

func configPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	paths := []string{
		filepath.Join(home, ".chromierc"),
	}

	// XDG_CONFIG_HOME or default
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	return append(paths, filepath.Join(xdgConfig, "chromie", "config.toml"))
}

// loadDotEnv loads .env from the working directory. A missing file is fine.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Variables may also come from a .env file in the working directory.
func applyEnvOverrides(cfg *Config) {
	if err := loadDotEnv(); err != nil {
		cfg.Warnings = append(cfg.Warnings, err)
	}

	// Music
	if v := os.Getenv("CHROMIE_MUSIC_DIR"); v != "" {
		cfg.Music.Dir = v
	}

	// Weather
	if v := os.Getenv("CHROMIE_WEATHER_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Weather.Enabled = b
		}
	}
	if v := os.Getenv("CHROMIE_WEATHER_LATITUDE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Weather.Latitude = &f
		}
	}
	if v := os.Getenv("CHROMIE_WEATHER_LONGITUDE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Weather.Longitude = &f
		}
	}
	if v := os.Getenv("CHROMIE_WEATHER_CITY"); v != "" {
		cfg.Weather.City = v
	}

	// Schedule
	if v := os.Getenv("CHROMIE_EMPTY_BACKOFF"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Schedule.EmptyBackoff = i
		}
	}

	// Player
	if v := os.Getenv("CHROMIE_PLAYER_COMMAND"); v != "" {
		cfg.Player.Command = v
	}
	if v := os.Getenv("CHROMIE_PLAYER_ARGS"); v != "" {
		cfg.Player.Args = strings.Fields(v)
	}

	// Log
	if v := os.Getenv("CHROMIE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CHROMIE_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
