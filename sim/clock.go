package sim

import "fmt"

// Clock is the virtual time source for the whole simulation. It never moves
// on its own: the scheduler is the only caller of Advance, which makes a run
// fully deterministic given the same sequence of control-surface calls.
type Clock struct {
	now int64
}

// NewClock creates a clock at virtual time zero.
func NewClock() *Clock {
	return &Clock{}
}

// Now returns the current virtual time in ticks.
func (c *Clock) Now() int64 {
	return c.now
}

// Advance moves virtual time forward by delta ticks and returns the new time.
// A negative delta fails with ErrInvalidArgument and leaves the clock
// untouched; the clock never moves backward.
func (c *Clock) Advance(delta int64) (int64, error) {
	if delta < 0 {
		return c.now, fmt.Errorf("%w: clock delta must be non-negative, got %d", ErrInvalidArgument, delta)
	}
	c.now += delta
	return c.now, nil
}

// AdvanceTo moves virtual time forward to t. Used for idle skips to the next
// pending event deadline. A target in the past fails with ErrInvalidArgument.
func (c *Clock) AdvanceTo(t int64) (int64, error) {
	return c.Advance(t - c.now)
}
