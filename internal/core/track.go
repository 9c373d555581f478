package core

// Track represents a playable audio file.
type Track struct {
	Path    string    `json:"path"`
	Name    string    `json:"name"`
	Weather Condition `json:"weather,omitempty"`
}

// IsWeather returns true if the track comes from a weather folder.
func (t Track) IsWeather() bool {
	return !t.Weather.IsNone()
}

// Counts summarizes the tracks available for an hour and weather pair.
type Counts struct {
	Base    int `json:"base"`
	Weather int `json:"weather"`
	Total   int `json:"total"`
}
