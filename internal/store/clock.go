package store

import (
	"sync"
	"time"

	"daytrack/internal/model"
)

// Clock is the store's time source. Today is the local calendar day the
// reset marker is compared against; every day-boundary decision derives
// from the same clock so a mutation and the rollover that follows it
// agree on what "today" is.
type Clock interface {
	Now() time.Time
	Today() model.Date
}

type RealClock struct{}

func (RealClock) Now() time.Time    { return time.Now() }
func (RealClock) Today() model.Date { return model.DateOf(time.Now()) }

// FakeClock is deterministic and test-friendly.
type FakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{t: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *FakeClock) Today() model.Date {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.DateOf(c.t)
}

func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// NextMorning jumps to 08:00 local on the following day. Day-boundary
// tests use it instead of repeating the date arithmetic.
func (c *FakeClock) NextMorning() {
	c.mu.Lock()
	y, m, d := c.t.Date()
	c.t = time.Date(y, m, d+1, 8, 0, 0, 0, c.t.Location())
	c.mu.Unlock()
}
