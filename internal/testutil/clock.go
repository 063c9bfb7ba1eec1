// Package testutil provides deterministic fixtures shared by scenario and
// golden tests: a resettable logical clock and a fixed run-token generator.
package testutil

import "sync"

// DeterministicClock is a resettable logical clock for tests.
//
// engine.Clock only moves forward; DeterministicClock adds Reset so one
// fixture can drive the same scenario repeatedly and observe identical
// seq values each time.
type DeterministicClock struct {
	mu  sync.Mutex
	seq int64
}

// NewDeterministicClock creates a clock at 0. The first Next returns 1.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{}
}

// Next increments and returns the next sequence number.
func (c *DeterministicClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Current returns the current sequence number without incrementing.
func (c *DeterministicClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Reset rewinds the clock to 0. The next call to Next returns 1.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
}
