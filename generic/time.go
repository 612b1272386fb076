package generic

import (
	"sync"
	"time"
)

// =============================================================================
// CLOCK - Source of "now" for stamping new records
// =============================================================================

// Clock supplies the current time. Records take their period from it.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant until Set is called.
type FixedClock struct {
	mu sync.RWMutex
	t  time.Time
}

func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{t: t}
}

func (c *FixedClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.t
}

// Set moves the clock.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

// CurrentPeriod returns the period the clock is in.
func CurrentPeriod(c Clock) Period {
	return PeriodOf(c.Now())
}
