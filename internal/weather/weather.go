// Package weather resolves the current weather condition for the machine's
// location using IP geolocation and the Open-Meteo API.
package weather

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"github.com/tessro/chromie/internal/core"
	chromieerrors "github.com/tessro/chromie/internal/errors"
	"github.com/tessro/chromie/internal/logger"
)

const (
	DefaultCacheTTL = 15 * time.Minute
	DefaultTimeout  = 10 * time.Second
)

// Source is a cached, circuit-broken weather lookup. It implements
// core.WeatherSource.
type Source struct {
	httpCfg         HTTPClientConfig
	locationBreaker *gobreaker.CircuitBreaker
	forecastBreaker *gobreaker.CircuitBreaker

	locationURL string
	forecastURL string
	cacheTTL    time.Duration
	now         func() time.Time

	mu       sync.Mutex
	location *Location
	cached   *core.Snapshot
	cachedAt time.Time
}

// Option configures a Source.
type Option func(*Source)

// WithLocation pins the location instead of resolving it from the IP address.
func WithLocation(lat, lon float64, city string) Option {
	return func(s *Source) {
		s.location = &Location{Lat: lat, Lon: lon, City: city}
	}
}

// WithCacheTTL sets how long a snapshot is served without a network call.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Source) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Source) {
		if d > 0 {
			s.httpCfg.Client = &http.Client{Timeout: d}
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Source) {
		s.httpCfg.Client = c
	}
}

// WithBackoff sets the retry policy for upstream calls.
func WithBackoff(b BackoffConfig) Option {
	return func(s *Source) {
		s.httpCfg.Backoff = b
	}
}

// WithEndpoints overrides the geolocation and forecast URLs.
func WithEndpoints(locationURL, forecastURL string) Option {
	return func(s *Source) {
		if locationURL != "" {
			s.locationURL = locationURL
		}
		if forecastURL != "" {
			s.forecastURL = forecastURL
		}
	}
}

// WithClock sets the time source used for cache expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Source) {
		s.now = now
	}
}

// New creates a weather source.
func New(opts ...Option) *Source {
	s := &Source{
		httpCfg: HTTPClientConfig{
			Client: &http.Client{Timeout: DefaultTimeout},
			Backoff: BackoffConfig{
				MaxRetries:      2,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		locationBreaker: newBreaker("ip-api"),
		forecastBreaker: newBreaker("open-meteo"),
		locationURL:     DefaultLocationURL,
		forecastURL:     DefaultForecastURL,
		cacheTTL:        DefaultCacheTTL,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CurrentWeather returns the current snapshot. A fresh cached value is
// returned without a network call. When the lookup fails the last good
// snapshot is returned even if expired; with none, ok is false.
func (s *Source) CurrentWeather(ctx context.Context) (core.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && s.now().Sub(s.cachedAt) < s.cacheTTL {
		return *s.cached, true
	}

	snap, err := s.fetchLocked(ctx)
	if err != nil {
		logger.Warn("weather lookup failed", "err", err)
		if s.cached != nil {
			return *s.cached, true
		}
		return core.Snapshot{}, false
	}

	s.cached = &snap
	s.cachedAt = snap.FetchedAt
	return snap, true
}

// Fetch performs an uncached lookup and refreshes the cache on success.
func (s *Source) Fetch(ctx context.Context) (core.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.fetchLocked(ctx)
	if err != nil {
		return core.Snapshot{}, err
	}
	s.cached = &snap
	s.cachedAt = snap.FetchedAt
	return snap, nil
}

// Location returns the resolved location, looking it up if needed.
func (s *Source) Location(ctx context.Context) (Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locationLocked(ctx)
}

// ClearCache drops the cached snapshot. A pinned or resolved location is kept.
func (s *Source) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = nil
	s.cachedAt = time.Time{}
}

func (s *Source) fetchLocked(ctx context.Context) (core.Snapshot, error) {
	loc, err := s.locationLocked(ctx)
	if err != nil {
		return core.Snapshot{}, err
	}

	r, err := s.fetchReading(ctx, loc)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("%w: %v", chromieerrors.ErrWeatherUnavailable, err)
	}

	snap := r.snapshot(loc)
	snap.FetchedAt = s.now()
	logger.Debug("weather resolved", "condition", snap.Condition, "temp", snap.Temperature, "code", snap.WeatherCode)
	return snap, nil
}

func (s *Source) locationLocked(ctx context.Context) (Location, error) {
	if s.location != nil {
		return *s.location, nil
	}

	loc, err := s.fetchLocation(ctx)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %v", chromieerrors.ErrLocationUnavailable, err)
	}
	logger.Debug("location resolved", "city", loc.City, "country", loc.Country)
	s.location = &loc
	return loc, nil
}
