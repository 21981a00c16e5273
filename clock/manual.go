package clock

import (
	"sort"
	"sync"
	"time"
)

// Manual is a virtual Clock. Time stands still until Advance, AdvanceTo or
// FireNext is called; due callbacks then run synchronously on the calling
// goroutine, in deadline order, with Now reporting each callback's
// deadline while it runs. Callbacks may schedule further timers; those
// fire within the same Advance when they fall due.
//
// Manual is safe for concurrent use.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*manualTimer
}

type manualTimer struct {
	m    *Manual
	when time.Time
	seq  uint64
	f    func()
}

// NewManual returns a Manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current virtual time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// AfterFunc schedules f at Now()+d. Non-positive durations fire on the
// next Advance.
func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTimer{m: m, when: m.now.Add(d), seq: m.seq, f: f}
	m.timers = append(m.timers, t)
	sort.SliceStable(m.timers, func(i, j int) bool {
		a, b := m.timers[i], m.timers[j]
		if a.when.Equal(b.when) {
			return a.seq < b.seq
		}
		return a.when.Before(b.when)
	})
	return t
}

// Stop implements Timer.
func (t *manualTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	for i, other := range t.m.timers {
		if other == t {
			t.m.timers = append(t.m.timers[:i], t.m.timers[i+1:]...)
			return true
		}
	}
	return false
}

// Advance moves the clock forward by d, firing every timer that falls due.
func (m *Manual) Advance(d time.Duration) {
	m.AdvanceTo(m.Now().Add(d))
}

// AdvanceTo moves the clock to t, firing every timer due at or before t.
// It never moves the clock backwards.
func (m *Manual) AdvanceTo(t time.Time) {
	for m.fireDue(t) {
	}
	m.mu.Lock()
	if t.After(m.now) {
		m.now = t
	}
	m.mu.Unlock()
}

// FireNext advances to the earliest pending timer and fires it.
// It reports false if no timer is pending.
func (m *Manual) FireNext() bool {
	next, ok := m.Next()
	if !ok {
		return false
	}
	return m.fireDue(next)
}

// fireDue pops and runs the earliest timer due at or before limit.
func (m *Manual) fireDue(limit time.Time) bool {
	m.mu.Lock()
	if len(m.timers) == 0 || m.timers[0].when.After(limit) {
		m.mu.Unlock()
		return false
	}
	t := m.timers[0]
	m.timers = m.timers[1:]
	if t.when.After(m.now) {
		m.now = t.when
	}
	m.mu.Unlock()

	t.f()
	return true
}

// Next returns the deadline of the earliest pending timer.
func (m *Manual) Next() (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.timers) == 0 {
		return time.Time{}, false
	}
	return m.timers[0].when, true
}

// Pending returns the number of scheduled timers.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}
