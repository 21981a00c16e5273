package sigplay

import (
	"sync"
	"time"

	"github.com/gogpu/sigplay/clock"
)

// timerKind identifies the transition a pending timer performs.
type timerKind uint8

const (
	timerStart timerKind = iota // display delay elapsed: -1 -> 0
	timerTick                   // regular step of the cursor
	timerTurn                   // dwell elapsed: reverse direction
)

// Controller drives the step cursor and play direction of one player
// through time.
//
// Transitions are strictly sequential: each one runs under the controller
// lock, notifies the observer, and only then arms the single timer for
// the next transition. Stop cancels the pending timer, and a generation
// counter rejects a callback that was already in flight.
//
// States and transitions:
//
//	Idle           -(Start, DisplayDelay)->                0/forward
//	i/forward      -(tick, i < n-1)->                      i+1/forward
//	n-1/forward    -(tick, !Loop)->                        halted
//	n-1/forward    -(tick, Loop; PostWriteDwell)->         n-1/backward
//	i/backward     -(tick, i > 0)->                        i-1/backward
//	0/backward     -(tick; PostEraseDwell)->               0/forward
//
// Ticks fire every StrokeDuration + InterStrokeDelay.
type Controller struct {
	mu       sync.Mutex
	clock    clock.Clock
	cfg      Config
	count    int
	onChange func(State, time.Time)

	state   State
	since   time.Time
	timer   clock.Timer
	gen     uint64
	started bool
	halted  bool
	stopped bool
}

// NewController creates an idle controller for a document of strokeCount
// strokes. onChange, if non-nil, is called after every state change with
// the new state and the clock time it was entered; it must not call
// Start or Stop.
func NewController(strokeCount int, cfg Config, clk clock.Clock, onChange func(State, time.Time)) *Controller {
	if clk == nil {
		clk = clock.System()
	}
	return &Controller{
		clock:    clk,
		cfg:      cfg.normalize(),
		count:    strokeCount,
		onChange: onChange,
		state:    Idle,
	}
}

// Start schedules the first stroke after DisplayDelay. It has no effect
// after the first call or after Stop.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started || c.stopped {
		return
	}
	c.started = true
	c.since = c.clock.Now()
	c.arm(DisplayDelay, timerStart)
}

// Stop cancels any pending transition. The state is frozen afterwards;
// Stop is idempotent.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopped = true
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// State returns the current playback state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Since returns the clock time at which the current state was entered.
func (c *Controller) Since() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.since
}

// Halted reports whether playback reached its terminal state.
func (c *Controller) Halted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.halted
}

// Pending reports whether a transition is scheduled.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer != nil
}

// Config returns the normalized playback configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// arm replaces the pending timer. c.mu must be held.
func (c *Controller) arm(d time.Duration, kind timerKind) {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.gen++
	gen := c.gen
	c.timer = c.clock.AfterFunc(d, func() { c.fire(gen, kind) })
}

// fire performs the transition of a timer and arms its successor.
func (c *Controller) fire(gen uint64, kind timerKind) {
	c.mu.Lock()
	if gen != c.gen || c.stopped {
		c.mu.Unlock()
		return
	}
	c.timer = nil

	changed, next, delay, ok := c.transition(kind)
	if changed {
		c.since = c.clock.Now()
	}
	st, since := c.state, c.since
	c.mu.Unlock()

	if changed {
		Logger().Debug("sigplay: transition", "state", st)
		if c.onChange != nil {
			c.onChange(st, since)
		}
	}
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen == c.gen && !c.stopped {
		c.arm(delay, next)
	}
}

// transition applies one timer's state change. It returns whether the
// state changed and which timer, if any, comes next. c.mu must be held.
func (c *Controller) transition(kind timerKind) (changed bool, next timerKind, delay time.Duration, ok bool) {
	period := c.cfg.TickPeriod()

	switch kind {
	case timerStart:
		if c.count == 0 {
			c.halted = true
			return false, 0, 0, false
		}
		c.state = State{Step: 0, Direction: Forward}
		return true, timerTick, period, true

	case timerTurn:
		if c.state.Direction == Forward {
			c.state.Direction = Backward
		} else {
			c.state.Direction = Forward
		}
		return true, timerTick, period, true
	}

	// Regular tick.
	if c.state.Direction == Forward {
		if c.state.Step < c.count-1 {
			c.state.Step++
			return true, timerTick, period, true
		}
		if !c.cfg.Loop {
			c.halted = true
			return false, 0, 0, false
		}
		return false, timerTurn, c.cfg.PostWriteDwell, true
	}

	if c.state.Step > 0 {
		c.state.Step--
		return true, timerTick, period, true
	}
	return false, timerTurn, c.cfg.PostEraseDwell, true
}
