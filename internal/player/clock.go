package player

import "time"

// Clock tracks the playback position: wall time since start, scaled by speed,
// with paused intervals left out.
type Clock struct {
	now     func() time.Time
	speed   float64
	started time.Time
	offset  time.Duration
	paused  bool
}

// NewClock returns a running clock. now defaults to time.Now and a
// non-positive speed to 1.
func NewClock(speed float64, now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	if speed <= 0 {
		speed = 1
	}
	c := &Clock{now: now, speed: speed}
	c.Reset()
	return c
}

func (c *Clock) Position() time.Duration {
	if c.paused {
		return c.offset
	}
	return c.offset + time.Duration(float64(c.now().Sub(c.started))*c.speed)
}

func (c *Clock) Paused() bool {
	return c.paused
}

func (c *Clock) Pause() {
	if c.paused {
		return
	}
	c.offset = c.Position()
	c.paused = true
}

func (c *Clock) Resume() {
	if !c.paused {
		return
	}
	c.started = c.now()
	c.paused = false
}

// Reset rewinds to zero, keeping the paused state.
func (c *Clock) Reset() {
	c.offset = 0
	c.started = c.now()
}
