// The scheduler core. All state transitions for processes and threads happen
// here; the entity table is never mutated from outside these functions. One
// call to step() performs exactly one scheduling decision: wake due events,
// dispatch up to one thread per core, advance the clock by the run slice,
// and settle end-of-slice transitions.

package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Scheduler drives the simulated CPU. It is not safe for concurrent use;
// the Simulator facade serializes access.
type Scheduler struct {
	table   *Table
	clock   *Clock
	io      *IOSim
	policy  SchedulingPolicy
	metrics *Metrics

	quantum int64
	cores   int

	ready ReadyQueue

	// running holds the threads dispatched by the previous step, one per
	// used core slot. They stay Running across the step boundary so that
	// snapshots observe them; the next step preempts them back to Ready
	// before dispatching.
	running []ThreadID
}

// NewScheduler wires the scheduler core to its collaborators.
func NewScheduler(table *Table, clock *Clock, io *IOSim, policy SchedulingPolicy, quantum int64, cores int, metrics *Metrics) *Scheduler {
	return &Scheduler{
		table:   table,
		clock:   clock,
		io:      io,
		policy:  policy,
		metrics: metrics,
		quantum: quantum,
		cores:   cores,
	}
}

// setThreadState applies a thread transition and keeps the owning process'
// derived state and the transition counters in sync.
func (s *Scheduler) setThreadState(t *Thread, state ThreadState) {
	if t.State == state {
		return
	}
	logrus.Debugf("[tick %07d] thread %d: %s -> %s", s.clock.Now(), t.ID, t.State, state)
	t.State = state
	s.metrics.StateEntries[state]++
	owner, err := s.table.Process(t.Owner)
	if err != nil {
		panic(fmt.Sprintf("thread %d owned by unknown process %d", t.ID, t.Owner))
	}
	was := owner.State
	owner.deriveState(s.table.mustThread)
	if owner.State == ProcessTerminated && was != ProcessTerminated {
		s.metrics.CompletedProcesses++
		logrus.Infof("[tick %07d] process %d terminated", s.clock.Now(), owner.ID)
	}
}

// admit enqueues a freshly submitted thread.
func (s *Scheduler) admit(t *Thread) {
	s.ready.Enqueue(t.ID)
}

// quiesced reports whether no ready thread is eligible and no wake-up is
// pending: stepping is a no-op until new work is submitted.
func (s *Scheduler) quiesced() bool {
	if len(s.eligible()) > 0 || len(s.running) > 0 {
		return false
	}
	_, pending := s.io.EarliestDeadline()
	return !pending
}

// eligible returns, in ready-queue order, the Ready threads whose owning
// process is not suspended.
func (s *Scheduler) eligible() []*Thread {
	var out []*Thread
	for _, tid := range s.ready.Items() {
		t := s.table.mustThread(tid)
		if t.State != ThreadReady {
			continue
		}
		owner, _ := s.table.Process(t.Owner)
		if owner.suspended {
			continue
		}
		out = append(out, t)
	}
	return out
}

// preemptCarried demotes the previous step's running threads back to Ready
// and requeues them at the tail. Threads that terminated, blocked, or were
// suspended since then have already left the running set.
func (s *Scheduler) preemptCarried() {
	for _, tid := range s.running {
		t := s.table.mustThread(tid)
		if t.State != ThreadRunning {
			continue
		}
		s.setThreadState(t, ThreadReady)
		s.ready.Enqueue(t.ID)
		s.metrics.ContextSwitches++
	}
	s.running = nil
}

// wakeDue fires every pending event due at the current virtual time,
// transitioning its target thread Blocked -> Ready.
func (s *Scheduler) wakeDue() {
	now := s.clock.Now()
	for ev := range s.io.PollDueEvents(now) {
		t, err := s.table.Thread(ev.Thread)
		if err != nil || t.State != ThreadBlocked || t.BlockedOn != ev.ID {
			// stale wake-up for a purged or already-transitioned thread
			continue
		}
		t.BlockedOn = 0
		s.setThreadState(t, ThreadReady)
		s.ready.Enqueue(t.ID)
		logrus.Debugf("[tick %07d] event %d woke thread %d", now, ev.ID, ev.Thread)
	}
}

// sliceFor computes the run slice for a dispatched thread: the minimum of
// remaining work, the quantum (preemptive policies only), the distance to
// the thread's next blocking point, and the distance to the earliest pending
// event deadline.
func (s *Scheduler) sliceFor(t *Thread, now int64) int64 {
	slice := t.Remaining
	if s.policy.Preemptive() && s.quantum < slice {
		slice = s.quantum
	}
	if t.IOEvery > 0 {
		if untilIO := t.IOEvery - t.sinceIO; untilIO < slice {
			slice = untilIO
		}
	}
	if deadline, ok := s.io.EarliestDeadline(); ok {
		if until := deadline - now; until < slice {
			slice = until
		}
	}
	return slice
}

// step performs one scheduling decision and returns the new virtual time.
func (s *Scheduler) step() int64 {
	s.metrics.Steps++
	if s.policy.Preemptive() {
		s.preemptCarried()
	}
	s.wakeDue()

	now := s.clock.Now()

	// Under a non-preemptive policy, threads still Running from the last
	// step keep their cores. Under a preemptive policy the carried set was
	// just demoted, so this is empty.
	var dispatched []*Thread
	for _, tid := range s.running {
		if t := s.table.mustThread(tid); t.State == ThreadRunning {
			dispatched = append(dispatched, t)
		}
	}

	candidates := s.eligible()

	if len(candidates) == 0 && len(dispatched) == 0 {
		// Idle skip: jump straight to the earliest wake-up instead of
		// busy-waiting. With no pending events either, the simulation is
		// quiesced and the step is a no-op.
		deadline, ok := s.io.EarliestDeadline()
		if !ok {
			logrus.Debugf("[tick %07d] quiesced", now)
			return now
		}
		now, _ = s.clock.AdvanceTo(deadline)
		s.metrics.IdleSkips++
		logrus.Infof("[tick %07d] idle skip to next event", now)
		s.wakeDue()
		return now
	}

	// Dispatch one thread per free core slot. Each slot re-applies the
	// policy to the shrinking candidate set so per-slot determinism holds
	// for any core count.
	for slot := len(dispatched); slot < s.cores && len(candidates) > 0; slot++ {
		sel := s.policy.SelectNext(candidates, now)
		if sel == nil {
			break
		}
		for i, c := range candidates {
			if c.ID == sel.ID {
				candidates = append(candidates[:i], candidates[i+1:]...)
				break
			}
		}
		s.ready.Remove(sel.ID)
		if owner, _ := s.table.Process(sel.Owner); !owner.admitted {
			owner.admitted = true
		}
		s.setThreadState(sel, ThreadRunning)
		s.running = append(s.running, sel.ID)
		dispatched = append(dispatched, sel)
		s.metrics.Dispatches++
		logrus.Infof("[tick %07d] dispatch thread %d on core %d", now, sel.ID, slot)
	}

	// Cores run in parallel: each thread consumes its own slice of work and
	// the clock advances by the longest slice.
	var advance int64
	slices := make([]int64, len(dispatched))
	for i, t := range dispatched {
		slices[i] = s.sliceFor(t, now)
		if slices[i] > advance {
			advance = slices[i]
		}
	}
	now, _ = s.clock.Advance(advance)

	// Ready threads that were passed over accumulate wait.
	for _, t := range candidates {
		t.Waited += advance
		s.metrics.TotalWait += advance
	}

	// End-of-slice transitions.
	for i, t := range dispatched {
		t.Remaining -= slices[i]
		t.sinceIO += slices[i]
		switch {
		case t.Remaining == 0:
			s.finish(t)
		case t.IOEvery > 0 && t.sinceIO >= t.IOEvery:
			t.sinceIO = 0
			s.block(t, t.IOLatency)
		}
		// otherwise the thread stays Running and is preempted at the start
		// of the next step
	}
	return now
}

// finish retires a thread whose work is exhausted and drops it from the
// running set.
func (s *Scheduler) finish(t *Thread) {
	s.dropRunning(t.ID)
	s.setThreadState(t, ThreadTerminated)
	s.metrics.CompletedThreads++
	logrus.Infof("[tick %07d] thread %d finished", s.clock.Now(), t.ID)
}

// block registers a pending wake-up for t and transitions it to Blocked in
// the same atomic step. The caller has validated latency >= 0.
func (s *Scheduler) block(t *Thread, latency int64) {
	s.dropRunning(t.ID)
	s.ready.Remove(t.ID)
	ev := s.io.Register(t.ID, s.clock.Now()+latency)
	t.BlockedOn = ev.ID
	s.setThreadState(t, ThreadBlocked)
	logrus.Debugf("[tick %07d] thread %d blocked until %d (event %d)", s.clock.Now(), t.ID, ev.Deadline, ev.ID)
}

// forceTerminate models an external kill signal: permitted in every state,
// a no-op on an already terminated thread. A blocked thread's pending event
// is discarded.
func (s *Scheduler) forceTerminate(t *Thread) {
	if t.State == ThreadTerminated {
		return
	}
	if t.BlockedOn != 0 {
		s.io.Cancel(t.BlockedOn)
		t.BlockedOn = 0
	}
	s.dropRunning(t.ID)
	s.ready.Remove(t.ID)
	t.Remaining = 0
	s.setThreadState(t, ThreadTerminated)
	s.metrics.ForcedTerminations++
	logrus.Infof("[tick %07d] thread %d force-terminated", s.clock.Now(), t.ID)
}

// suspendProcess excludes a process from scheduling. Running threads are
// demoted to Ready immediately so the Running invariant holds while the
// process sits out.
func (s *Scheduler) suspendProcess(p *Process) {
	p.suspended = true
	for _, tid := range p.Threads {
		t := s.table.mustThread(tid)
		if t.State == ThreadRunning {
			s.dropRunning(t.ID)
			s.setThreadState(t, ThreadReady)
			s.ready.Enqueue(t.ID)
			s.metrics.ContextSwitches++
		}
	}
	p.deriveState(s.table.mustThread)
	logrus.Infof("[tick %07d] process %d suspended", s.clock.Now(), p.ID)
}

// resumeProcess re-admits a suspended process. Remaining work and wait
// accounting are untouched; a no-op on a non-suspended process.
func (s *Scheduler) resumeProcess(p *Process) {
	if !p.suspended {
		return
	}
	p.suspended = false
	p.deriveState(s.table.mustThread)
	logrus.Infof("[tick %07d] process %d resumed", s.clock.Now(), p.ID)
}

func (s *Scheduler) dropRunning(id ThreadID) {
	for i, r := range s.running {
		if r == id {
			s.running = append(s.running[:i], s.running[i+1:]...)
			return
		}
	}
}
