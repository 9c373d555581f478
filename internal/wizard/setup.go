// Package wizard implements interactive prompts for first-time setup.
package wizard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/tessro/chromie/internal/config"
)

// Answers holds the raw values collected by the setup form.
type Answers struct {
	MusicDir  string
	Weather   bool
	Location  bool
	Latitude  string
	Longitude string
	City      string
}

// AnswersFrom seeds the form from an existing config.
func AnswersFrom(cfg *config.Config) Answers {
	a := Answers{
		MusicDir: cfg.Music.Dir,
		Weather:  cfg.Weather.Enabled,
		City:     cfg.Weather.City,
	}
	if cfg.Weather.HasCoordinates() {
		a.Location = true
		a.Latitude = strconv.FormatFloat(*cfg.Weather.Latitude, 'f', -1, 64)
		a.Longitude = strconv.FormatFloat(*cfg.Weather.Longitude, 'f', -1, 64)
	}
	return a
}

// Apply copies the answers into cfg.
func (a Answers) Apply(cfg *config.Config) error {
	dir := strings.TrimSpace(a.MusicDir)
	if dir == "" {
		return fmt.Errorf("music directory is required")
	}
	cfg.Music.Dir = config.ExpandPath(dir)
	cfg.Weather.Enabled = a.Weather

	cfg.Weather.Latitude = nil
	cfg.Weather.Longitude = nil
	cfg.Weather.City = ""
	if !a.Weather || !a.Location {
		return nil
	}

	lat, err := parseCoordinate(a.Latitude, 90)
	if err != nil {
		return fmt.Errorf("latitude: %w", err)
	}
	lon, err := parseCoordinate(a.Longitude, 180)
	if err != nil {
		return fmt.Errorf("longitude: %w", err)
	}
	cfg.Weather.Latitude = &lat
	cfg.Weather.Longitude = &lon
	cfg.Weather.City = strings.TrimSpace(a.City)
	return nil
}

func parseCoordinate(s string, limit float64) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if v < -limit || v > limit {
		return 0, fmt.Errorf("%v is outside [-%v, %v]", v, limit, limit)
	}
	return v, nil
}

func validateCoordinate(limit float64) func(string) error {
	return func(s string) error {
		_, err := parseCoordinate(s, limit)
		return err
	}
}

// RunSetup shows the setup form seeded from cfg and applies the answers.
func RunSetup(cfg *config.Config) error {
	a := AnswersFrom(cfg)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Music directory").
				Description("Holds one folder per hour, 00 to 23").
				Value(&a.MusicDir).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("music directory is required")
					}
					return nil
				}),
			huh.NewConfirm().
				Title("Mix in weather tracks?").
				Description("Adds songs from sunny, rainy, cloudy, snowy and foggy subfolders").
				Value(&a.Weather),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Set your location?").
				Description("Otherwise it is looked up from your IP address").
				Value(&a.Location),
		).WithHideFunc(func() bool { return !a.Weather }),
		huh.NewGroup(
			huh.NewInput().
				Title("Latitude").
				Value(&a.Latitude).
				Validate(validateCoordinate(90)),
			huh.NewInput().
				Title("Longitude").
				Value(&a.Longitude).
				Validate(validateCoordinate(180)),
			huh.NewInput().
				Title("City label (optional)").
				Value(&a.City),
		).WithHideFunc(func() bool { return !a.Weather || !a.Location }),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}

	return a.Apply(cfg)
}
