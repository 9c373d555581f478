package core

import (
	"context"
)

// Catalog resolves the tracks for an hour and weather pair.
type Catalog interface {
	// SongsFor returns base and weather tracks merged into one sequence
	// sorted case-insensitively by name. It returns an empty slice, never an
	// error, when nothing is found.
	SongsFor(hour Hour, weather Condition) []Track
	CountsFor(hour Hour, weather Condition) Counts
}

// WeatherSource resolves the current weather. The boolean is false when no
// snapshot has ever been obtained.
type WeatherSource interface {
	CurrentWeather(ctx context.Context) (Snapshot, bool)
}

// Player runs one track to completion. Cancelling ctx terminates playback.
type Player interface {
	Play(ctx context.Context, track Track) error
}

// Presenter receives state transitions. Implementations must not block.
type Presenter interface {
	Notify(e Event)
}

// PresenterFunc adapts a function to the Presenter interface.
type PresenterFunc func(Event)

// Notify calls f(e).
func (f PresenterFunc) Notify(e Event) {
	f(e)
}

// Discard is a Presenter that drops every event.
var Discard Presenter = PresenterFunc(func(Event) {})
