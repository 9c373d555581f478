package core

import (
	"fmt"
	"time"
)

// HoursPerDay is the number of hour slots in a day.
const HoursPerDay = 24

// Hour is a one-hour wall-clock bucket in [0,23].
type Hour int

// HourOf returns the hour slot containing t, in t's location.
func HourOf(t time.Time) Hour {
	return Hour(t.Hour())
}

// Valid returns true if h is within [0,23].
func (h Hour) Valid() bool {
	return h >= 0 && h < HoursPerDay
}

// String returns the zero-padded hour, e.g. "09".
func (h Hour) String() string {
	return fmt.Sprintf("%02d", int(h))
}

// Label returns the 12-hour range covered by the slot, e.g. "9:00 AM - 9:59 AM".
func (h Hour) Label() string {
	period := "AM"
	if h >= 12 {
		period = "PM"
	}
	h12 := int(h) % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:00 %s - %d:59 %s", h12, period, h12, period)
}
