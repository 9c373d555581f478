package core

import (
	"fmt"
	"strings"
	"time"
)

// Condition is a coarse weather category used to pick supplementary tracks.
type Condition string

const (
	// ConditionNone means there is no weather signal.
	ConditionNone   Condition = ""
	ConditionSunny  Condition = "sunny"
	ConditionRainy  Condition = "rainy"
	ConditionCloudy Condition = "cloudy"
	ConditionSnowy  Condition = "snowy"
	ConditionFoggy  Condition = "foggy"
)

// Conditions returns every known weather condition.
func Conditions() []Condition {
	return []Condition{ConditionSunny, ConditionRainy, ConditionCloudy, ConditionSnowy, ConditionFoggy}
}

// ParseCondition parses a condition name. The empty string and "none" map to ConditionNone.
func ParseCondition(s string) (Condition, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "none" {
		return ConditionNone, nil
	}
	for _, c := range Conditions() {
		if string(c) == s {
			return c, nil
		}
	}
	return ConditionNone, fmt.Errorf("unknown weather condition: %s (must be sunny, rainy, cloudy, snowy, or foggy)", s)
}

// IsNone returns true if there is no weather signal.
func (c Condition) IsNone() bool {
	return c == ConditionNone
}

// Valid returns true for ConditionNone and the known conditions.
func (c Condition) Valid() bool {
	_, err := ParseCondition(string(c))
	return err == nil
}

// String returns the condition name, or "none".
func (c Condition) String() string {
	if c.IsNone() {
		return "none"
	}
	return string(c)
}

// Emoji returns a display glyph for the condition.
func (c Condition) Emoji() string {
	switch c {
	case ConditionSunny:
		return "☀️"
	case ConditionRainy:
		return "🌧️"
	case ConditionCloudy:
		return "☁️"
	case ConditionSnowy:
		return "❄️"
	case ConditionFoggy:
		return "🌫️"
	default:
		return "🌡️"
	}
}

// Snapshot is a resolved weather reading.
type Snapshot struct {
	Condition   Condition `json:"condition"`
	Temperature int       `json:"temperature"`
	WindSpeed   float64   `json:"wind_speed"`
	WeatherCode int       `json:"weather_code"`
	Emoji       string    `json:"emoji"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Location returns a human-readable location label.
func (s Snapshot) Location() string {
	switch {
	case s.City != "" && s.Country != "":
		return s.City + ", " + s.Country
	case s.City != "":
		return s.City
	default:
		return s.Country
	}
}
