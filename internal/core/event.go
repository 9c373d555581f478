package core

import (
	"time"
)

// EventType represents the type of scheduler event.
type EventType int

const (
	EventHeader EventType = iota
	EventHourChange
	EventWeatherChange
	EventWeatherApplied
	EventPlaylist
	EventNowPlaying
	EventTrackFailed
	EventEmpty
	EventShutdown
)

func (t EventType) String() string {
	switch t {
	case EventHeader:
		return "header"
	case EventHourChange:
		return "hour_change"
	case EventWeatherChange:
		return "weather_change"
	case EventWeatherApplied:
		return "weather_applied"
	case EventPlaylist:
		return "playlist"
	case EventNowPlaying:
		return "now_playing"
	case EventTrackFailed:
		return "track_failed"
	case EventEmpty:
		return "empty"
	case EventShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// Event represents a scheduler or playback state transition.
type Event struct {
	Type      EventType
	Timestamp time.Time

	Hour     Hour
	PrevHour Hour

	Condition     Condition
	PrevCondition Condition
	Weather       *Snapshot

	Track *Track
	Index int
	Total int

	Counts  Counts
	Backoff time.Duration
	Err     error
}

// NewEvent returns an event of the given type stamped with the current time.
func NewEvent(t EventType) Event {
	return Event{Type: t, Timestamp: time.Now()}
}
