package rtc

import (
	"fmt"
	"sync"
	"time"

	"github.com/sweeney/gamepad-clock/internal/logic"
)

// SystemClock follows the host clock shifted by an offset. Set changes only
// the offset, never the host time.
type SystemClock struct {
	mu     sync.Mutex
	now    func() time.Time
	offset time.Duration
}

// NewSystemClock creates a SystemClock. A nil now uses time.Now.
func NewSystemClock(now func() time.Time) *SystemClock {
	if now == nil {
		now = time.Now
	}
	return &SystemClock{now: now}
}

// Get returns the shifted host time in UTC.
func (c *SystemClock) Get() (logic.WallClock, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	wc := logic.FromTime(c.now().UTC().Add(c.offset))
	if !wc.Valid() {
		return wc, fmt.Errorf("system clock: %w: %s", logic.ErrOutOfRange, wc)
	}
	return wc, nil
}

// Set moves the offset so that Get returns wc now.
func (c *SystemClock) Set(wc logic.WallClock) error {
	if !wc.Valid() {
		return fmt.Errorf("system clock: %w: %s", logic.ErrOutOfRange, wc)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Drop sub-second precision so Get returns exactly wc right after Set.
	now := c.now().UTC().Truncate(time.Second)
	c.offset = wc.Time().Sub(now)
	return nil
}

// Offset returns the current offset from the host clock.
func (c *SystemClock) Offset() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offset
}
