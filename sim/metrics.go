// Tracks simulation-wide counters for final reporting.

package sim

import "fmt"

// Metrics aggregates statistics about the simulation for final reporting.
// Useful for evaluating policy behavior and debugging runs over time.
type Metrics struct {
	Steps              int   // Scheduling decisions taken
	Dispatches         int   // Ready -> Running transitions
	ContextSwitches    int   // Preemptions of a running thread back to Ready
	IdleSkips          int   // Steps that jumped the clock to the next event
	CompletedThreads   int   // Threads that exhausted their work
	CompletedProcesses int   // Processes whose threads all terminated
	ForcedTerminations int   // External kill signals applied
	TotalWait          int64 // Sum of ready-wait ticks across all threads

	// StateEntries counts entries into each thread state, in the manner of
	// a PCB state-frequency table.
	StateEntries map[ThreadState]int
}

// NewMetrics creates a zeroed metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{StateEntries: make(map[ThreadState]int)}
}

// Print displays aggregated metrics at the end of a run.
func (m *Metrics) Print(finalTime int64) {
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Virtual time         : %d ticks\n", finalTime)
	fmt.Printf("Steps                : %d\n", m.Steps)
	fmt.Printf("Dispatches           : %d\n", m.Dispatches)
	fmt.Printf("Context switches     : %d\n", m.ContextSwitches)
	fmt.Printf("Idle skips           : %d\n", m.IdleSkips)
	fmt.Printf("Completed threads    : %d\n", m.CompletedThreads)
	fmt.Printf("Completed processes  : %d\n", m.CompletedProcesses)
	fmt.Printf("Forced terminations  : %d\n", m.ForcedTerminations)
	if m.CompletedThreads > 0 {
		fmt.Printf("Average wait         : %.2f ticks\n", float64(m.TotalWait)/float64(m.CompletedThreads))
	}
	for _, st := range []ThreadState{ThreadReady, ThreadRunning, ThreadBlocked, ThreadTerminated} {
		fmt.Printf("Entries into %-11s: %d\n", st, m.StateEntries[st])
	}
}
