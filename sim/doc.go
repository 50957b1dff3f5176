// Package sim provides the core discrete-event engine of procsim, a
// process/thread lifecycle and scheduling simulator.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - process.go, thread.go: entity state machines (New/Ready/Running/
//     Waiting/Suspended/Terminated processes, Ready/Running/Blocked/
//     Terminated threads) and the strict ownership tree
//   - scheduler.go: the scheduling step — wake, dispatch, run slice,
//     end-of-slice transitions
//   - simulator.go: the control surface callers drive the simulation with
//
// # Architecture
//
// Entities live in an arena (table.go) indexed by id. Virtual time
// (clock.go) only moves when the scheduler advances it, so a run is fully
// deterministic: the same sequence of Submit/Step/Suspend/Resume/
// ForceTerminate calls always produces the same snapshot sequence.
// Blocking I/O is modeled by the resource simulator (iosim.go), a
// deadline-ordered heap of pending wake-ups.
//
// # Key Interfaces
//
// The extension point is a single small interface:
//   - SchedulingPolicy: select the next thread to dispatch; round-robin,
//     FCFS, and priority variants ship in policy.go
//
// Snapshots (snapshot.go) are the sole externally observed artifact; they
// are deep copies with a stable text and YAML form.
package sim
