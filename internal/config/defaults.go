package config

import (
	"os"
	"path/filepath"
)

// DefaultMusicDir returns ~/chromie-music, or a relative fallback.
func DefaultMusicDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "chromie-music"
	}
	return filepath.Join(home, "chromie-music")
}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Music: MusicConfig{
			Dir: DefaultMusicDir(),
		},
		Weather: WeatherConfig{
			Enabled:  false,
			CacheTTL: 15 * 60,
			Timeout:  10,
		},
		Schedule: ScheduleConfig{
			HourCheckInterval:    60,
			WeatherCheckInterval: 15 * 60,
			EmptyBackoff:         30,
		},
		Display: DisplayConfig{
			Emoji:     true,
			Timestamp: false,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Music
	if c.Music.Dir == "" {
		c.Music.Dir = d.Music.Dir
	}

	// Weather
	if c.Weather.CacheTTL == 0 {
		c.Weather.CacheTTL = d.Weather.CacheTTL
	}
	if c.Weather.Timeout == 0 {
		c.Weather.Timeout = d.Weather.Timeout
	}

	// Schedule
	if c.Schedule.HourCheckInterval == 0 {
		c.Schedule.HourCheckInterval = d.Schedule.HourCheckInterval
	}
	if c.Schedule.WeatherCheckInterval == 0 {
		c.Schedule.WeatherCheckInterval = d.Schedule.WeatherCheckInterval
	}
	if c.Schedule.EmptyBackoff == 0 {
		c.Schedule.EmptyBackoff = d.Schedule.EmptyBackoff
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}
