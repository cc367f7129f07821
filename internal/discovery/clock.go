package discovery

import (
	"sync/atomic"
	"time"
)

// MonotonicClock hands out Unix millisecond timestamps that strictly
// increase across calls, even when several calls land in the same
// millisecond or the wall clock steps backwards.
type MonotonicClock struct {
	last atomic.Int64
	now  func() time.Time
}

func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{now: time.Now}
}

func (c *MonotonicClock) UnixMilli() int64 {
	for {
		last := c.last.Load()
		next := c.now().UnixMilli()
		if next <= last {
			next = last + 1
		}
		if c.last.CompareAndSwap(last, next) {
			return next
		}
	}
}
