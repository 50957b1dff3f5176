package sim

import "fmt"

// SchedulingPolicy selects the next thread to dispatch from the eligible
// ready set. The slice is in ready-queue order (requeue order); policies are
// pure functions over it and the threads' own fields — they hold no hidden
// state. Implementations MUST NOT modify the threads or reorder the slice.
type SchedulingPolicy interface {
	// SelectNext returns the thread to dispatch, or nil if the slice is
	// empty. Ties are broken by lowest thread id.
	SelectNext(ready []*Thread, now int64) *Thread

	// Preemptive reports whether the quantum bounds a run slice. A
	// non-preemptive policy lets a dispatched thread run until it
	// terminates or blocks.
	Preemptive() bool
}

// RoundRobinPolicy dispatches the head of the ready queue. Combined with
// tail requeueing on preemption this yields the classic bound: with N ready
// threads and quantum Q, no thread waits more than (N-1)*Q ticks between
// consecutive running periods.
type RoundRobinPolicy struct{}

func (r *RoundRobinPolicy) SelectNext(ready []*Thread, _ int64) *Thread {
	if len(ready) == 0 {
		return nil
	}
	return ready[0]
}

func (r *RoundRobinPolicy) Preemptive() bool { return true }

// FCFSPolicy dispatches the thread submitted earliest, breaking creation-time
// ties by lowest id, and runs it to completion or blocking (no quantum
// preemption).
// Warning: FCFS can starve later arrivals behind a long burst.
type FCFSPolicy struct{}

func (f *FCFSPolicy) SelectNext(ready []*Thread, _ int64) *Thread {
	var best *Thread
	for _, t := range ready {
		if best == nil || t.CreatedAt < best.CreatedAt ||
			(t.CreatedAt == best.CreatedAt && t.ID < best.ID) {
			best = t
		}
	}
	return best
}

func (f *FCFSPolicy) Preemptive() bool { return false }

// PriorityPolicy dispatches from the highest priority class present, with
// round-robin inside a class: among threads of equal priority the one
// earliest in ready-queue order wins.
type PriorityPolicy struct{}

func (p *PriorityPolicy) SelectNext(ready []*Thread, _ int64) *Thread {
	var best *Thread
	for _, t := range ready {
		if best == nil || t.Priority > best.Priority {
			best = t
		}
	}
	return best
}

func (p *PriorityPolicy) Preemptive() bool { return true }

// validPolicies lists the accepted --policy names. Empty string defaults to
// round-robin for CLI flag default compatibility.
var validPolicies = []string{"", "round-robin", "fcfs", "priority"}

// IsValidPolicy reports whether name is an accepted policy name.
func IsValidPolicy(name string) bool {
	for _, v := range validPolicies {
		if name == v {
			return true
		}
	}
	return false
}

// NewPolicy creates a SchedulingPolicy by name.
// Valid names: "round-robin" (default), "fcfs", "priority".
// Panics on unrecognized names; validate user input with IsValidPolicy first.
func NewPolicy(name string) SchedulingPolicy {
	if !IsValidPolicy(name) {
		panic(fmt.Sprintf("unknown policy %q", name))
	}
	switch name {
	case "", "round-robin":
		return &RoundRobinPolicy{}
	case "fcfs":
		return &FCFSPolicy{}
	case "priority":
		return &PriorityPolicy{}
	default:
		panic(fmt.Sprintf("unhandled policy %q", name))
	}
}
