package bridge

import (
	"sync/atomic"
	"time"
)

// LedgerClock reports the current ledger time/height stamped into Locked
// events and journal records.
type LedgerClock interface {
	Height() uint64
}

// WallClock reports unix seconds. Hosts with a native block height supply
// their own LedgerClock instead.
type WallClock struct{}

func (WallClock) Height() uint64 {
	return uint64(time.Now().Unix())
}

// SimClock is a manually advanced clock for tests.
type SimClock struct {
	height atomic.Uint64
}

func (c *SimClock) Height() uint64 {
	return c.height.Load()
}

func (c *SimClock) SetHeight(h uint64) {
	c.height.Store(h)
}
