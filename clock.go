package dynamo

import "time"

// Clock supplies the time sampled at tick entry.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// Now returns time.Now, which carries a monotonic reading.
func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock used by default.
var SystemClock Clock = systemClock{}

// ManualClock is a Clock that only moves when told to. Fixed-step hosts and
// tests advance it once per frame.
type ManualClock struct {
	now time.Time
}

// NewManualClock returns a clock reading start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current reading.
func (c *ManualClock) Now() time.Time { return c.now }

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// Set moves the clock to t.
func (c *ManualClock) Set(t time.Time) {
	c.now = t
}

