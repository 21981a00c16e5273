package sigplay

import (
	"time"

	"github.com/gogpu/sigplay/clock"
)

// DisplayDelay is the pause between a document finishing loading and the
// first stroke starting.
const DisplayDelay = 500 * time.Millisecond

// Config holds the playback timing of a player. The zero value is not
// useful; start from DefaultConfig.
type Config struct {
	// Loop erases the signature after writing it and starts over, forever.
	Loop bool

	// StrokeDuration is the time taken to reveal one stroke. Zero reveals
	// each stroke instantly.
	StrokeDuration time.Duration

	// InterStrokeDelay is the pause after each stroke.
	InterStrokeDelay time.Duration

	// PostWriteDwell is the pause at the fully written signature before
	// erasing starts.
	PostWriteDwell time.Duration

	// PostEraseDwell is the pause at the fully erased signature before
	// writing starts again.
	PostEraseDwell time.Duration
}

// DefaultConfig returns the default playback timing.
func DefaultConfig() Config {
	return Config{
		Loop:             true,
		StrokeDuration:   1000 * time.Millisecond,
		InterStrokeDelay: 100 * time.Millisecond,
		PostWriteDwell:   2000 * time.Millisecond,
		PostEraseDwell:   500 * time.Millisecond,
	}
}

// TickPeriod returns the time between two steps of the cursor.
func (c Config) TickPeriod() time.Duration {
	return c.StrokeDuration + c.InterStrokeDelay
}

// normalize clamps negative durations to zero.
func (c Config) normalize() Config {
	c.StrokeDuration = max(c.StrokeDuration, 0)
	c.InterStrokeDelay = max(c.InterStrokeDelay, 0)
	c.PostWriteDwell = max(c.PostWriteDwell, 0)
	c.PostEraseDwell = max(c.PostEraseDwell, 0)
	return c
}

// Option configures a Player during Mount.
//
// Example:
//
//	p := sigplay.Mount(ctx, container, "https://example.com/sig.json",
//	    sigplay.WithLoop(false),
//	    sigplay.WithStrokeDuration(600*time.Millisecond))
type Option func(*options)

// options holds optional configuration for a Player.
type options struct {
	config Config
	clock  clock.Clock
	loader Loader
}

// defaultOptions returns the default player options.
func defaultOptions() options {
	return options{
		config: DefaultConfig(),
		clock:  clock.System(),
		loader: DefaultLoader,
	}
}

// WithConfig replaces the whole playback configuration.
func WithConfig(c Config) Option {
	return func(o *options) {
		o.config = c
	}
}

// WithLoop sets whether playback loops between writing and erasing.
func WithLoop(loop bool) Option {
	return func(o *options) {
		o.config.Loop = loop
	}
}

// WithStrokeDuration sets the time taken to reveal one stroke.
func WithStrokeDuration(d time.Duration) Option {
	return func(o *options) {
		o.config.StrokeDuration = d
	}
}

// WithInterStrokeDelay sets the pause after each stroke.
func WithInterStrokeDelay(d time.Duration) Option {
	return func(o *options) {
		o.config.InterStrokeDelay = d
	}
}

// WithPostWriteDwell sets the pause before erasing starts.
func WithPostWriteDwell(d time.Duration) Option {
	return func(o *options) {
		o.config.PostWriteDwell = d
	}
}

// WithPostEraseDwell sets the pause before writing starts again.
func WithPostEraseDwell(d time.Duration) Option {
	return func(o *options) {
		o.config.PostEraseDwell = d
	}
}

// WithClock sets the clock that schedules playback. Use a clock.Manual to
// drive a player deterministically, e.g. for offline frame export.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithLoader sets the document loader.
func WithLoader(l Loader) Option {
	return func(o *options) {
		if l != nil {
			o.loader = l
		}
	}
}
