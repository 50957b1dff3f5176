// Defines the Thread struct that models a single schedulable unit of
// execution owned by exactly one process. Tracks remaining work, accumulated
// ready wait, and the pending event a blocked thread is waiting on.

package sim

import "fmt"

// ThreadState represents the lifecycle state of a thread.
type ThreadState string

const (
	ThreadReady      ThreadState = "ready"
	ThreadRunning    ThreadState = "running"
	ThreadBlocked    ThreadState = "blocked"
	ThreadTerminated ThreadState = "terminated"
)

// ThreadID uniquely identifies a thread across the whole simulation.
// IDs are assigned sequentially at submission, so lower id means earlier
// creation — the deterministic tie-break order for scheduling policies.
type ThreadID int

// Thread models a single thread's lifecycle in the simulation.
// Each thread has:
// - an owning process (plain id back-reference, never shared ownership)
// - remaining simulated work units (burst length)
// - accumulated ready-wait ticks, for fairness metrics
// - an optional blocking profile that periodically issues I/O requests
type Thread struct {
	ID    ThreadID
	Owner ProcessID

	State     ThreadState
	Remaining int64 // simulated work units left
	Waited    int64 // ticks spent Ready while another thread ran
	CreatedAt int64 // virtual time of submission

	Priority int // inherited from the owning process

	// BlockedOn references the pending event that will wake this thread.
	// Zero when the thread is not Blocked.
	BlockedOn EventID

	// Blocking profile: a thread with IOEvery > 0 issues a blocking request
	// each time it completes IOEvery work units, with latency IOLatency.
	IOEvery   int64
	IOLatency int64

	sinceIO int64 // work completed since the last blocking request
}

// String returns a human-readable one-line representation of a Thread.
func (t Thread) String() string {
	return fmt.Sprintf("Thread: (ID: %d, Owner: %d, State: %s, Remaining: %d, Waited: %d)",
		t.ID, t.Owner, t.State, t.Remaining, t.Waited)
}
