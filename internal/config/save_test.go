package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	lat, lon := 48.85, 2.35
	cfg := Default()
	cfg.Music.Dir = "/srv/music"
	cfg.Weather.Enabled = true
	cfg.Weather.Latitude = &lat
	cfg.Weather.Longitude = &lon
	cfg.Display.Emoji = false

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.HasPrefix(string(data), "# Chromie Configuration") {
		t.Errorf("config file missing header:\n%s", data)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if got.Music.Dir != "/srv/music" {
		t.Errorf("Music.Dir = %q, want /srv/music", got.Music.Dir)
	}
	if !got.Weather.Enabled || !got.Weather.HasCoordinates() || *got.Weather.Latitude != 48.85 {
		t.Errorf("Weather = %+v, want enabled at 48.85,2.35", got.Weather)
	}
	if got.Display.Emoji {
		t.Error("Display.Emoji = true, want the saved false")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/music", filepath.Join(home, "music")},
		{"/abs/music", "/abs/music"},
		{"rel/~music", "rel/~music"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
