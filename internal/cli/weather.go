package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tessro/chromie/internal/core"
)

var weatherCmd = &cobra.Command{
	Use:   "weather",
	Short: "Show the current weather and the folder it selects",
	Long: `Look up the current weather for your location and show which
weather folder would be mixed into the current hour.

The location comes from weather.latitude and weather.longitude in the
config, or from IP geolocation when they are not set.`,
	Args: cobra.NoArgs,
	RunE: runWeather,
}

func init() {
	rootCmd.AddCommand(weatherCmd)
}

func runWeather(cmd *cobra.Command, args []string) error {
	source := newWeatherSource()
	snap, err := source.Fetch(cmd.Context())
	if err != nil {
		return err
	}

	d := newDisplay()
	d.ShowWeather(snap)
	if JSONOutput() {
		return nil
	}

	hour := core.HourOf(time.Now())
	d.ShowInfo(fmt.Sprintf("Weather folder for this hour: %s/%s", hour, snap.Condition))
	if Verbose() {
		d.ShowInfo(fmt.Sprintf("WMO code %d, wind %.1f km/h", snap.WeatherCode, snap.WindSpeed))
		// Resolved by Fetch, so this does not hit the network again.
		if loc, err := source.Location(cmd.Context()); err == nil {
			d.ShowInfo(fmt.Sprintf("Coordinates %.4f, %.4f", loc.Lat, loc.Lon))
		}
	}
	return nil
}
