// Package playback owns the journey clock: the single piece of mutable
// state in the system. It maps wall-clock time onto journey time with a
// speed multiplier, and is the only thing the query functions in interp
// depend on callers for.
package playback

import (
	"sync"
	"time"
)

// Clock advances journey time proportionally to elapsed wall-clock
// time while running, capped at the end of the journey. It has two
// states, stopped and running; Seek works in either.
type Clock struct {
	mu       sync.Mutex
	start    int64 // journey time bounds, epoch ms
	end      int64
	cur      int64
	speed    float64
	running  bool
	lastWall time.Time

	now func() time.Time // wall clock, replaceable in tests
}

// NewClock returns a stopped clock positioned at start. speed is the
// journey-seconds-per-wall-second multiplier and must be > 0.
func NewClock(start, end int64, speed float64) *Clock {
	return &Clock{
		start: start,
		end:   end,
		cur:   start,
		speed: speed,
		now:   time.Now,
	}
}

// Start begins (or resumes) playback. Starting a finished clock rewinds
// it to the beginning first.
func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	if c.cur >= c.end {
		c.cur = c.start
	}
	c.lastWall = c.now()
	c.running = true
}

// Pause freezes journey time at its current value.
func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.advanceLocked()
	c.running = false
}

// Seek jumps to journey time t, clamped to the journey bounds. The
// running/stopped state is unchanged.
func (c *Clock) Seek(t int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t < c.start {
		t = c.start
	}
	if t > c.end {
		t = c.end
	}
	c.cur = t
	c.lastWall = c.now()
}

// Now returns the current journey time in epoch ms, advancing it first
// if the clock is running. Reaching the end of the journey stops the
// clock there.
func (c *Clock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.advanceLocked()
	return c.cur
}

// Running reports whether the clock is advancing.
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *Clock) advanceLocked() {
	if !c.running {
		return
	}
	wall := c.now()
	elapsed := wall.Sub(c.lastWall).Seconds() * c.speed
	c.lastWall = wall
	c.cur += int64(elapsed * 1000)
	if c.cur >= c.end {
		c.cur = c.end
		c.running = false
	}
}
