package sigplay

import "time"

// Tween is a scalar animated linearly from From to To over Duration,
// starting Begin after the playback state was entered. Before Begin the
// value is From; after Begin+Duration it is To.
//
// A static value is a Tween with From == To.
type Tween struct {
	From, To float64
	Begin    time.Duration
	Duration time.Duration
}

// Static returns a Tween that holds v.
func Static(v float64) Tween {
	return Tween{From: v, To: v}
}

// IsStatic reports whether the value never changes.
func (t Tween) IsStatic() bool {
	return t.From == t.To
}

// End returns the time at which the value reaches To.
func (t Tween) End() time.Duration {
	return t.Begin + t.Duration
}

// At returns the value elapsed after the state was entered.
func (t Tween) At(elapsed time.Duration) float64 {
	switch {
	case t.IsStatic() || elapsed >= t.End():
		return t.To
	case elapsed <= t.Begin:
		return t.From
	}
	f := float64(elapsed-t.Begin) / float64(t.Duration)
	return t.From + (t.To-t.From)*f
}

// Final returns the value once the animation has completed.
func (t Tween) Final() float64 {
	return t.To
}
