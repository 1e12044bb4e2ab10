package snapfit

import (
	"time"
)

// maxFrameDt caps a single step so a stalled window does not eat the timer.
const maxFrameDt = 250 * time.Millisecond

type FrameClock struct {
	Time time.Time
	Dt   time.Duration
}

func NewFrameClock(now time.Time) *FrameClock {
	return &FrameClock{Time: now}
}

// Tick records a new frame and returns the clamped frame delta.
func (c *FrameClock) Tick(now time.Time) time.Duration {
	dt := now.Sub(c.Time)
	if dt < 0 {
		dt = 0
	}
	if dt > maxFrameDt {
		dt = maxFrameDt
	}
	c.Dt = dt
	c.Time = now
	return dt
}
