package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Process-wide counters reported on /health.
var (
	RemoteCalls       Counter
	RemoteFailures    Counter
	CartSyncFailures  Counter
	WorkspacesBuilt   Counter
	WorkspacesEvicted Counter
)

// Snapshot is the JSON shape of the counters.
type Snapshot struct {
	RemoteCalls       uint64 `json:"remote_calls"`
	RemoteFailures    uint64 `json:"remote_failures"`
	CartSyncFailures  uint64 `json:"cart_sync_failures"`
	WorkspacesBuilt   uint64 `json:"workspaces_built"`
	WorkspacesEvicted uint64 `json:"workspaces_evicted"`
}

func Read() Snapshot {
	return Snapshot{
		RemoteCalls:       RemoteCalls.Load(),
		RemoteFailures:    RemoteFailures.Load(),
		CartSyncFailures:  CartSyncFailures.Load(),
		WorkspacesBuilt:   WorkspacesBuilt.Load(),
		WorkspacesEvicted: WorkspacesEvicted.Load(),
	}
}
