package signal

import (
	"sync"
	"sync/atomic"
)

// Channel is a buffered Sink read from C. When the buffer is full the
// signal is dropped and counted rather than blocking the engine.
type Channel struct {
	C chan Signal

	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
}

// NewChannel creates a Channel with the given buffer size.
func NewChannel(size int) *Channel {
	return &Channel{C: make(chan Signal, size)}
}

// Emit queues s without blocking.
func (c *Channel) Emit(s Signal) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}
	select {
	case c.C <- s:
	default:
		c.dropped.Add(1)
	}
}

// Dropped reports how many signals were lost to a full buffer.
func (c *Channel) Dropped() int64 {
	return c.dropped.Load()
}

// Close closes C. Later Emits are ignored.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.C)
	}
}
