package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tessro/chromie/internal/config"
	"github.com/tessro/chromie/internal/core"
	chromieerrors "github.com/tessro/chromie/internal/errors"
)

func TestWeatherEnabled(t *testing.T) {
	defer func() { playWeather, playNoWeather = false, false }()

	tests := []struct {
		name      string
		config    bool
		weather   bool
		noWeather bool
		want      bool
	}{
		{"config off", false, false, false, false},
		{"config on", true, false, false, true},
		{"flag enables", false, true, false, true},
		{"no-weather wins over config", true, false, true, false},
		{"no-weather wins over flag", false, true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg = config.Default()
			cfg.Weather.Enabled = tt.config
			playWeather, playNoWeather = tt.weather, tt.noWeather

			if got := weatherEnabled(); got != tt.want {
				t.Errorf("weatherEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOpenCatalogMissingDir(t *testing.T) {
	cfg = config.Default()
	cfg.Music.Dir = filepath.Join(t.TempDir(), "missing")

	_, err := openCatalog()
	if !errors.Is(err, chromieerrors.ErrMusicDirNotFound) {
		t.Fatalf("openCatalog() error = %v, want ErrMusicDirNotFound", err)
	}
	if s := chromieerrors.GetSuggestion(err); !strings.Contains(s, "chromie init") {
		t.Errorf("suggestion = %q, want mention of chromie init", s)
	}
}

func TestOpenCatalog(t *testing.T) {
	dir := t.TempDir()
	cfg = config.Default()
	cfg.Music.Dir = dir

	cat, err := openCatalog()
	if err != nil {
		t.Fatalf("openCatalog() error = %v", err)
	}
	if cat.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", cat.Dir(), dir)
	}
}

func TestNewPlaybackRejectsBadFlags(t *testing.T) {
	defer func() { playHour, playCondition = -1, "" }()

	cfg = config.Default()
	cfg.Music.Dir = t.TempDir()

	playHour, playCondition = 24, ""
	if _, err := newPlayback(nil); !errors.Is(err, chromieerrors.ErrInvalidHour) {
		t.Errorf("hour 24: error = %v, want ErrInvalidHour", err)
	}

	playHour, playCondition = 9, "windy"
	if _, err := newPlayback(nil); err == nil {
		t.Error("condition windy: expected error")
	}
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTableWriter(&buf, "HOUR", "TOTAL")
	table.Row("09", "3")
	table.Row("10", "12")
	table.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "HOUR  ") {
		t.Errorf("header = %q, want padded HOUR column", lines[0])
	}
	if !strings.HasPrefix(lines[2], "10    12") {
		t.Errorf("row = %q, want aligned columns", lines[2])
	}
}

func TestNewPlaybackCreatesHourFolders(t *testing.T) {
	defer func() { playNoWeather = false }()

	cfg = config.Default()
	cfg.Music.Dir = filepath.Join(t.TempDir(), "music")
	cfg.Player.Command = "sh"
	playHour, playCondition, playNoWeather = -1, "", true

	pb, err := newPlayback(nil)
	if err != nil {
		t.Fatalf("newPlayback() error = %v", err)
	}
	if pb.catalog.Dir() != cfg.Music.Dir {
		t.Errorf("Dir() = %q, want %q", pb.catalog.Dir(), cfg.Music.Dir)
	}
	for h := core.Hour(0); h < core.HoursPerDay; h++ {
		if !pb.catalog.Exists(h) {
			t.Errorf("hour folder %s was not created", h)
		}
	}
	if _, err := os.Stat(pb.catalog.WeatherDir(9, core.ConditionSunny)); !os.IsNotExist(err) {
		t.Errorf("weather folder created with weather off: stat error = %v", err)
	}
}

func TestPrepareCatalogWithWeather(t *testing.T) {
	cfg = config.Default()
	cfg.Music.Dir = filepath.Join(t.TempDir(), "music")

	cat := prepareCatalog(true)
	for _, c := range core.Conditions() {
		info, err := os.Stat(cat.WeatherDir(23, c))
		if err != nil || !info.IsDir() {
			t.Errorf("weather folder %s missing: %v", c, err)
		}
	}

	// A second run leaves the layout alone.
	if cat := prepareCatalog(true); !cat.Exists(0) {
		t.Error("hour 00 missing after second run")
	}
}

func TestPlayerName(t *testing.T) {
	cfg = config.Default()

	cfg.Player.Command = "sh"
	if got := playerName(); filepath.Base(got) != "sh" {
		t.Errorf("playerName() = %q, want path to sh", got)
	}

	cfg.Player.Command = "chromie-no-such-player"
	if got := playerName(); got != "none" {
		t.Errorf("playerName() = %q, want none", got)
	}
}
