// Package testutil provides shared test fixtures.
package testutil

import (
	"sync"
	"time"
)

// Clock is a thread-safe deterministic time source for tests.
//
// Each call to Now advances the clock by a fixed step, so repeated calls
// yield distinct, strictly increasing timestamps with reproducible values.
// Pass its Now method wherever production code accepts a now-function.
type Clock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
}

// NewClock creates a clock whose first Now() returns start.
func NewClock(start time.Time) *Clock {
	return &Clock{t: start, step: time.Second}
}

// Now returns the current instant and advances the clock by one step.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.t
	c.t = c.t.Add(c.step)
	return t
}

// Reset rewinds the clock so the next Now() returns start again.
func (c *Clock) Reset(start time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = start
}
