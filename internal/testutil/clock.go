package testutil

import (
	"fmt"
	"sync"
	"time"

	"tb-go/internal/tb"
)

// StubClock returns a controlled time. Safe for concurrent use.
// With a non-zero step, every call to Now advances the clock by that step
// after returning, so successive calls see strictly increasing times.
type StubClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

var _ tb.Clock = (*StubClock)(nil)

// NewStubClock creates a StubClock frozen at t.
func NewStubClock(t time.Time) *StubClock {
	return &StubClock{now: t}
}

// FixedClock returns a frozen StubClock set to 2025-03-01 09:00:00 UTC.
func FixedClock() *StubClock {
	return NewStubClock(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
}

// SteppingClock returns a StubClock starting at the FixedClock time that
// advances by step on every Now.
func SteppingClock(step time.Duration) *StubClock {
	c := FixedClock()
	c.step = step
	return c
}

func (c *StubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// Advance moves the clock forward by d.
func (c *StubClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// StubIDGenerator returns sequential project IDs: "project-1", "project-2", etc.
type StubIDGenerator struct {
	mu      sync.Mutex
	counter int
}

var _ tb.IDGenerator = (*StubIDGenerator)(nil)

func NewStubIDGenerator() *StubIDGenerator {
	return &StubIDGenerator{}
}

func (g *StubIDGenerator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("project-%d", g.counter)
}
