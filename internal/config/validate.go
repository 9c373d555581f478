package config

import (
	"errors"
	"fmt"
	"strings"
	"text/template"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Music.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("music: %w", err))
	}
	if err := c.Weather.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("weather: %w", err))
	}
	if err := c.Schedule.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("schedule: %w", err))
	}
	if err := c.Player.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("player: %w", err))
	}
	if err := c.Display.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("display: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks MusicConfig for errors.
func (c *MusicConfig) Validate() error {
	if strings.TrimSpace(c.Dir) == "" {
		return errors.New("dir must not be empty")
	}
	return nil
}

// Validate checks WeatherConfig for errors.
func (c *WeatherConfig) Validate() error {
	if (c.Latitude == nil) != (c.Longitude == nil) {
		return errors.New("latitude and longitude must be set together")
	}
	if c.Latitude != nil && (*c.Latitude < -90 || *c.Latitude > 90) {
		return errors.New("latitude must be between -90 and 90")
	}
	if c.Longitude != nil && (*c.Longitude < -180 || *c.Longitude > 180) {
		return errors.New("longitude must be between -180 and 180")
	}
	if c.CacheTTL < 0 {
		return errors.New("cache_ttl must be non-negative")
	}
	if c.Timeout < 0 {
		return errors.New("timeout must be non-negative")
	}
	return nil
}

// Validate checks ScheduleConfig for errors.
func (c *ScheduleConfig) Validate() error {
	if c.HourCheckInterval < 0 || c.HourCheckInterval > 3600 {
		return errors.New("hour_check_interval must be between 0 and 3600")
	}
	if c.WeatherCheckInterval < 0 {
		return errors.New("weather_check_interval must be non-negative")
	}
	if c.EmptyBackoff < 0 {
		return errors.New("empty_backoff must be non-negative")
	}
	return nil
}

// Validate checks PlayerConfig for errors.
func (c *PlayerConfig) Validate() error {
	if c.Command == "" && len(c.Args) > 0 {
		return errors.New("args requires command")
	}
	return nil
}

// Validate checks DisplayConfig for errors.
func (c *DisplayConfig) Validate() error {
	if c.Format == "" {
		return nil
	}
	if _, err := template.New("format").Parse(c.Format); err != nil {
		return fmt.Errorf("invalid format template: %w", err)
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	return nil
}
