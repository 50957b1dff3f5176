// Defines the Process struct and its derived state machine. A process owns
// an ordered set of threads; every process-level state except Suspended is
// derived from the states of its threads.

package sim

import "fmt"

// ProcessState represents the lifecycle state of a process.
type ProcessState string

const (
	ProcessNew        ProcessState = "new"
	ProcessReady      ProcessState = "ready"
	ProcessRunning    ProcessState = "running"
	ProcessWaiting    ProcessState = "waiting"
	ProcessSuspended  ProcessState = "suspended"
	ProcessTerminated ProcessState = "terminated"
)

// ProcessID uniquely identifies a process. IDs are assigned sequentially at
// submission and are never reused, even after a purge.
type ProcessID int

// Process models a process in the simulation. Ownership of threads is a
// strict tree: Threads holds ids in creation order, and no thread ever
// belongs to two processes.
type Process struct {
	ID    ProcessID
	State ProcessState

	// Threads lists owned thread ids in creation order.
	Threads []ThreadID

	// Priority is the scheduling class consumed by the priority policy.
	// Higher means more urgent; zero is the default class.
	Priority int

	// Resources carries opaque resource handles (memory/file/network
	// placeholders). The scheduler never interprets them.
	Resources []string

	// admitted flips true the first time any owned thread is dispatched;
	// until then the derived state is New.
	admitted bool

	// suspended is the caller-toggled flag behind the Suspended state.
	suspended bool
}

// Suspended reports whether the process is currently excluded from
// scheduling consideration.
func (p *Process) Suspended() bool {
	return p.suspended
}

// deriveState recomputes the process state from the flags and the owned
// thread states. Invariants enforced here:
//   - Terminated iff every owned thread is Terminated
//   - Running iff at least one owned thread is Running
//   - Waiting when all non-Terminated threads are Blocked
//   - Suspended overrides everything except Terminated
func (p *Process) deriveState(lookup func(ThreadID) *Thread) {
	allTerminated := true
	anyRunning := false
	anyReady := false
	for _, tid := range p.Threads {
		switch lookup(tid).State {
		case ThreadTerminated:
		case ThreadRunning:
			allTerminated = false
			anyRunning = true
		case ThreadReady:
			allTerminated = false
			anyReady = true
		default:
			allTerminated = false
		}
	}
	switch {
	case allTerminated:
		p.State = ProcessTerminated
	case p.suspended:
		p.State = ProcessSuspended
	case anyRunning:
		p.State = ProcessRunning
	case !p.admitted:
		p.State = ProcessNew
	case anyReady:
		p.State = ProcessReady
	default:
		p.State = ProcessWaiting
	}
}

// String returns a human-readable one-line representation of a Process.
func (p Process) String() string {
	return fmt.Sprintf("Process: (ID: %d, State: %s, Threads: %v)", p.ID, p.State, p.Threads)
}
