package engine

import "sync/atomic"

// Clock is a monotonic logical clock. Every executed step is stamped with
// a strictly increasing seq from it, never a wall-clock timestamp, so
// recorded runs replay in identical order regardless of wall time.
//
// Execution is single-threaded, but the counter is atomic so trace sinks
// on other goroutines can read Current safely.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0; the first Next returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock resuming from a specific sequence number.
// Used by replay to continue where a recorded run left off.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and advances the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the latest issued sequence number without advancing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
