package state

import "sync"

// Clock hands out increasing ids. Each Board owns its own clocks, so ids
// are deterministic per session and nothing is shared between boards.
type Clock struct {
	counter uint64
	mu      sync.Mutex
}

// Tick increments the clock and returns the new value.
func (c *Clock) Tick() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counter++
	return c.counter
}

// Update raises the clock to at least seen, so the next Tick never hands
// out an id that is already in use.
func (c *Clock) Update(seen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seen > c.counter {
		c.counter = seen
	}
}

// Current returns the last id handed out.
func (c *Clock) Current() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counter
}
