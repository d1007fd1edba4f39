package client

import (
	"sort"
	"sync"
	"time"
)

// fakeClock drives timer-based behavior deterministically in tests. Advance
// moves simulated time forward and fires due timers in deadline order.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clk      *fakeClock
	deadline time.Duration
	fn       func()
	stopped  bool
	fired    bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{}
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &fakeTimer{
		clk:      c,
		deadline: c.now + d,
		fn:       f,
	}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clk.mu.Lock()
	defer t.clk.mu.Unlock()

	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Now returns the current simulated time offset.
func (c *fakeClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

// Advance moves simulated time forward by d, firing due timers outside the
// clock lock so callbacks may take component locks.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d

	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.deadline <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].deadline < due[j].deadline })
	c.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
}
