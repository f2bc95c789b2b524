package snapshot

import "sync/atomic"

// Clock is the process-wide tick counter. The host loop sets it from each
// TICK message before rebuilding the world state; stale snapshots are
// detected by comparing against it.
type Clock struct {
	tick atomic.Uint64
}

func (c *Clock) Now() uint64     { return c.tick.Load() }
func (c *Clock) Set(tick uint64) { c.tick.Store(tick) }
