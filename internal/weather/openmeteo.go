package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"

	"github.com/tessro/chromie/internal/core"
)

const (
	// DefaultForecastURL is the Open-Meteo forecast endpoint.
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"

	// DefaultLocationURL is the IP geolocation endpoint.
	DefaultLocationURL = "http://ip-api.com/json/"
)

// Location is a resolved place to look weather up for.
type Location struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	City    string  `json:"city"`
	Country string  `json:"country"`
}

type ipAPIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	City    string  `json:"city"`
	Country string  `json:"country"`
}

type openMeteoResponse struct {
	CurrentWeather *struct {
		Temperature float64 `json:"temperature"`
		WindSpeed   float64 `json:"windspeed"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
}

// reading is the part of a snapshot that comes from the forecast API.
type reading struct {
	temperature float64
	windSpeed   float64
	code        int
}

func (s *Source) fetchLocation(ctx context.Context) (Location, error) {
	resp, err := doRequest(ctx, s.httpCfg, s.locationBreaker, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, s.locationURL, nil)
	})
	if err != nil {
		return Location{}, err
	}
	defer resp.Body.Close()

	var payload ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Location{}, fmt.Errorf("parse location: %w", err)
	}
	if payload.Status == "fail" {
		msg := payload.Message
		if msg == "" {
			msg = "location lookup failed"
		}
		return Location{}, fmt.Errorf("ip-api: %s", msg)
	}

	return Location{
		Lat:     payload.Lat,
		Lon:     payload.Lon,
		City:    payload.City,
		Country: payload.Country,
	}, nil
}

func (s *Source) fetchReading(ctx context.Context, loc Location) (reading, error) {
	resp, err := doRequest(ctx, s.httpCfg, s.forecastBreaker, func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", loc.Lat))
		values.Set("longitude", fmt.Sprintf("%f", loc.Lon))
		values.Set("current_weather", "true")
		return http.NewRequestWithContext(ctx, http.MethodGet, s.forecastURL+"?"+values.Encode(), nil)
	})
	if err != nil {
		return reading{}, err
	}
	defer resp.Body.Close()

	var payload openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return reading{}, fmt.Errorf("parse weather: %w", err)
	}
	if payload.CurrentWeather == nil {
		return reading{}, fmt.Errorf("open-meteo: response has no current_weather")
	}

	return reading{
		temperature: payload.CurrentWeather.Temperature,
		windSpeed:   payload.CurrentWeather.WindSpeed,
		code:        payload.CurrentWeather.WeatherCode,
	}, nil
}

// MapWeatherCode maps a WMO weather interpretation code to a condition.
// Unknown codes map to cloudy.
func MapWeatherCode(code int) core.Condition {
	switch {
	case code == 0 || code == 1:
		return core.ConditionSunny
	case code == 2 || code == 3:
		return core.ConditionCloudy
	case code == 45 || code == 48:
		return core.ConditionFoggy
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return core.ConditionRainy
	case (code >= 71 && code <= 77) || (code >= 85 && code <= 86):
		return core.ConditionSnowy
	case code >= 95 && code <= 99:
		// thunderstorms
		return core.ConditionRainy
	default:
		return core.ConditionCloudy
	}
}

func (r reading) snapshot(loc Location) core.Snapshot {
	cond := MapWeatherCode(r.code)
	return core.Snapshot{
		Condition:   cond,
		Temperature: int(math.Round(r.temperature)),
		WindSpeed:   r.windSpeed,
		WeatherCode: r.code,
		Emoji:       cond.Emoji(),
		City:        loc.City,
		Country:     loc.Country,
	}
}
