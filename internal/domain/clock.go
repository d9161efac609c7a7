package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is the time source for default trip dates and export filenames.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Now returns the current time from the configured clock.
func Now() time.Time {
	return clock.Now()
}

// Today returns the current UTC date formatted as DateLayout.
func Today() string {
	return clock.Now().UTC().Format(DateLayout)
}
