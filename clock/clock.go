// Package clock provides the scheduled-timeout abstraction that drives
// playback: a Clock arms one-shot callbacks and returns cancellation
// handles.
//
// System returns the wall clock. Manual is a virtual clock whose time only
// moves when told to; it drives tests and offline frame export.
package clock

import "time"

// Timer is a cancellation handle for a scheduled callback.
type Timer interface {
	// Stop prevents the callback from firing. It returns false if the
	// callback already fired or the timer was already stopped.
	Stop() bool
}

// Clock tells time and schedules callbacks.
type Clock interface {
	Now() time.Time

	// AfterFunc calls f once, after d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer
}

// System returns a Clock backed by the time package.
func System() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
