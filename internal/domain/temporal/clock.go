// Package temporal holds the time helpers shared by the analytics and
// scheduling code. Nothing here reads the wall clock except SystemClock.
package temporal

import (
	"sync"
	"time"
)

// Clock is the source of "now" for every time-relative computation.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock is a settable clock. It only moves when told to.
type FixedClock struct {
	mu      sync.Mutex
	current time.Time
}

// NewFixedClock returns a clock pinned at start.
func NewFixedClock(start time.Time) *FixedClock {
	return &FixedClock{current: start}
}

// Now returns the pinned instant.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d and returns the new instant.
func (c *FixedClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	c.current = c.current.Add(d)
	updated := c.current
	c.mu.Unlock()
	return updated
}

// NowFunc exposes Now for injection where a func is expected.
func (c *FixedClock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}
