// Package clock abstracts the time source used to name commit entries.
package clock

import "time"

// Clock provides the current time. Commit entries are named by Now().UnixNano().
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system time.
type RealClock struct{}

// Now returns the current system time.
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// FakeClock implements Clock for tests. Each call to Now returns the current
// value and then moves it forward by the configured step, so a sequence of
// commits gets strictly increasing names without sleeping.
type FakeClock struct {
	current time.Time
	step    time.Duration
}

// NewFakeClock creates a FakeClock that stays at t until moved.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{current: t}
}

// NewSteppingClock creates a FakeClock that advances by step after every Now.
func NewSteppingClock(t time.Time, step time.Duration) *FakeClock {
	return &FakeClock{current: t, step: step}
}

// Now returns the current fake time and applies the step.
func (c *FakeClock) Now() time.Time {
	now := c.current
	c.current = c.current.Add(c.step)
	return now
}

// Set replaces the current time.
func (c *FakeClock) Set(t time.Time) {
	c.current = t
}

// Advance moves the current time by d, which may be negative.
func (c *FakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}
