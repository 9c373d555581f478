package config

import "time"

// Config is the root configuration structure.
type Config struct {
	Music    MusicConfig    `toml:"music" json:"music"`
	Weather  WeatherConfig  `toml:"weather" json:"weather"`
	Schedule ScheduleConfig `toml:"schedule" json:"schedule"`
	Player   PlayerConfig   `toml:"player" json:"player"`
	Display  DisplayConfig  `toml:"display" json:"display"`
	Log      LogConfig      `toml:"log" json:"log"`

	// Warnings collects non-fatal problems found while loading.
	Warnings []error `toml:"-" json:"-"`
}

// MusicConfig holds music library settings.
type MusicConfig struct {
	Dir string `toml:"dir" json:"dir"`
}

// WeatherConfig holds weather lookup settings.
type WeatherConfig struct {
	Enabled   bool     `toml:"enabled" json:"enabled"`
	Latitude  *float64 `toml:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude *float64 `toml:"longitude,omitempty" json:"longitude,omitempty"`
	City      string   `toml:"city" json:"city"`
	CacheTTL  int      `toml:"cache_ttl" json:"cache_ttl"` // seconds
	Timeout   int      `toml:"timeout" json:"timeout"`     // seconds
}

// HasCoordinates returns true if a fixed location is configured.
func (c *WeatherConfig) HasCoordinates() bool {
	return c.Latitude != nil && c.Longitude != nil
}

// CacheDuration returns CacheTTL as a duration.
func (c *WeatherConfig) CacheDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// TimeoutDuration returns Timeout as a duration.
func (c *WeatherConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// ScheduleConfig holds polling and backoff intervals, in seconds.
type ScheduleConfig struct {
	HourCheckInterval    int `toml:"hour_check_interval" json:"hour_check_interval"`
	WeatherCheckInterval int `toml:"weather_check_interval" json:"weather_check_interval"`
	EmptyBackoff         int `toml:"empty_backoff" json:"empty_backoff"`
}

// HourCheck returns HourCheckInterval as a duration.
func (c *ScheduleConfig) HourCheck() time.Duration {
	return time.Duration(c.HourCheckInterval) * time.Second
}

// WeatherCheck returns WeatherCheckInterval as a duration.
func (c *ScheduleConfig) WeatherCheck() time.Duration {
	return time.Duration(c.WeatherCheckInterval) * time.Second
}

// Backoff returns EmptyBackoff as a duration.
func (c *ScheduleConfig) Backoff() time.Duration {
	return time.Duration(c.EmptyBackoff) * time.Second
}

// PlayerConfig holds the external audio player settings.
type PlayerConfig struct {
	Command string   `toml:"command" json:"command"`
	Args    []string `toml:"args" json:"args"`
}

// DisplayConfig holds terminal output settings.
type DisplayConfig struct {
	Emoji     bool   `toml:"emoji" json:"emoji"`
	Timestamp bool   `toml:"timestamp" json:"timestamp"`
	Format    string `toml:"format" json:"format"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level" json:"level"`
	File  string `toml:"file" json:"file"`
}
