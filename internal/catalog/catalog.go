// Package catalog resolves tracks from a music directory laid out as one
// folder per hour (00-23), each with optional weather subfolders:
//
//	<dir>/09/morning.mp3
//	<dir>/09/rainy/drizzle.flac
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tessro/chromie/internal/core"
	chromieerrors "github.com/tessro/chromie/internal/errors"
	"github.com/tessro/chromie/internal/logger"
)

// SupportedFormats lists the file extensions treated as playable.
var SupportedFormats = []string{".mp3", ".wav", ".flac", ".ogg", ".m4a", ".aac", ".wma"}

// Catalog implements core.Catalog over a music directory.
type Catalog struct {
	dir string
}

// New creates a catalog rooted at dir.
func New(dir string) *Catalog {
	return &Catalog{dir: dir}
}

// Dir returns the music directory.
func (c *Catalog) Dir() string {
	return c.dir
}

// HourDir returns the folder holding base tracks for an hour.
func (c *Catalog) HourDir(hour core.Hour) string {
	return filepath.Join(c.dir, hour.String())
}

// WeatherDir returns the folder holding weather tracks for an hour.
func (c *Catalog) WeatherDir(hour core.Hour, weather core.Condition) string {
	return filepath.Join(c.HourDir(hour), string(weather))
}

// Exists returns true if the hour folder exists.
func (c *Catalog) Exists(hour core.Hour) bool {
	info, err := os.Stat(c.HourDir(hour))
	return err == nil && info.IsDir()
}

// SongsFor returns the base tracks for hour merged with the weather tracks for
// weather, sorted case-insensitively by name.
func (c *Catalog) SongsFor(hour core.Hour, weather core.Condition) []core.Track {
	tracks := scan(c.HourDir(hour), core.ConditionNone)
	if !weather.IsNone() {
		tracks = append(tracks, scan(c.WeatherDir(hour, weather), weather)...)
	}
	sortTracks(tracks)
	return tracks
}

// CountsFor returns how many base and weather tracks are available.
func (c *Catalog) CountsFor(hour core.Hour, weather core.Condition) core.Counts {
	counts := core.Counts{Base: len(scan(c.HourDir(hour), core.ConditionNone))}
	if !weather.IsNone() {
		counts.Weather = len(scan(c.WeatherDir(hour, weather), weather))
	}
	counts.Total = counts.Base + counts.Weather
	return counts
}

// InitDirectories creates the music directory and the 24 hour folders, plus
// one folder per weather condition inside each hour when withWeather is set.
// It returns the folders that were created.
func (c *Catalog) InitDirectories(withWeather bool) *chromieerrors.PartialResult[[]string] {
	result := &chromieerrors.PartialResult[[]string]{}

	mkdir := func(path string) {
		if _, err := os.Stat(path); err == nil {
			return
		}
		if err := os.MkdirAll(path, 0755); err != nil {
			result.AddError(fmt.Errorf("create %s: %w", path, err))
			return
		}
		result.Data = append(result.Data, path)
	}

	mkdir(c.dir)
	for h := core.Hour(0); h < core.HoursPerDay; h++ {
		mkdir(c.HourDir(h))
		if !withWeather {
			continue
		}
		for _, cond := range core.Conditions() {
			mkdir(c.WeatherDir(h, cond))
		}
	}

	return result
}

// IsSupported returns true if name has a playable extension.
func IsSupported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, f := range SupportedFormats {
		if ext == f {
			return true
		}
	}
	return false
}

// scan lists playable files directly inside dir. Missing or unreadable
// folders yield no tracks.
func scan(dir string, weather core.Condition) []core.Track {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("cannot read music folder", "dir", dir, "err", err)
		}
		return nil
	}

	tracks := make([]core.Track, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !IsSupported(e.Name()) {
			continue
		}
		tracks = append(tracks, core.Track{
			Path:    filepath.Join(dir, e.Name()),
			Name:    e.Name(),
			Weather: weather,
		})
	}
	return tracks
}

// sortTracks orders tracks by case-insensitive name, falling back to the
// exact name and then the path so the order is total.
func sortTracks(tracks []core.Track) {
	sort.SliceStable(tracks, func(i, j int) bool {
		a, b := strings.ToLower(tracks[i].Name), strings.ToLower(tracks[j].Name)
		if a != b {
			return a < b
		}
		if tracks[i].Name != tracks[j].Name {
			return tracks[i].Name < tracks[j].Name
		}
		return tracks[i].Path < tracks[j].Path
	})
}
