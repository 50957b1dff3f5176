// sim/simulator.go
package sim

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Simulator is the control and reporting surface: the only boundary exposed
// to outside callers. It serializes every mutating operation behind one
// exclusive critical section; a Step is a bounded synchronous computation,
// so there is nothing to cancel and no timeout belongs at this layer.
type Simulator struct {
	mu sync.Mutex

	cfg     Config
	clock   *Clock
	table   *Table
	io      *IOSim
	sched   *Scheduler
	Metrics *Metrics
}

// NewSimulator builds a simulator from a validated configuration.
func NewSimulator(cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	clock := NewClock()
	table := NewTable()
	io := NewIOSim()
	metrics := NewMetrics()
	return &Simulator{
		cfg:     cfg,
		clock:   clock,
		table:   table,
		io:      io,
		sched:   NewScheduler(table, clock, io, NewPolicy(cfg.Policy), cfg.Quantum, cfg.Cores, metrics),
		Metrics: metrics,
	}, nil
}

// SubmitProcess creates a process with one thread per burst length and
// returns its id. Fails with ErrInvalidArgument if bursts is empty or
// contains a non-positive value; nothing is created on failure.
func (s *Simulator) SubmitProcess(bursts []int64) (ProcessID, error) {
	spec := ProcessSpec{}
	for _, b := range bursts {
		spec.Threads = append(spec.Threads, ThreadSpec{Burst: b})
	}
	return s.Submit(spec)
}

// Submit creates a process from a full spec (priority, blocking profiles,
// resource handles) and returns its id. Validation is all-or-nothing: a
// rejected spec creates no entities.
func (s *Simulator) Submit(spec ProcessSpec) (ProcessID, error) {
	if err := spec.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p := &Process{State: ProcessNew, Priority: spec.Priority, Resources: spec.Resources}
	s.table.AddProcess(p)
	for _, ts := range spec.Threads {
		t := &Thread{
			State:     ThreadReady,
			Remaining: ts.Burst,
			CreatedAt: s.clock.Now(),
			Priority:  spec.Priority,
			IOEvery:   ts.IOEvery,
			IOLatency: ts.IOLatency,
		}
		s.table.AddThread(t, p)
		s.sched.admit(t)
		s.Metrics.StateEntries[ThreadReady]++
	}
	logrus.Infof("[tick %07d] submitted process %d with %d threads", s.clock.Now(), p.ID, len(p.Threads))
	return p.ID, nil
}

// Suspend excludes a process from scheduling until resumed. Fails with
// ErrInvalidState on a terminated process and is a no-op on an already
// suspended one.
func (s *Simulator) Suspend(id ProcessID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.table.Process(id)
	if err != nil {
		return err
	}
	if p.State == ProcessTerminated {
		return fmt.Errorf("%w: cannot suspend terminated process %d", ErrInvalidState, id)
	}
	if p.suspended {
		return nil
	}
	s.sched.suspendProcess(p)
	return nil
}

// Resume re-admits a suspended process without resetting any accounting.
// A no-op on a non-suspended process.
func (s *Simulator) Resume(id ProcessID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.table.Process(id)
	if err != nil {
		return err
	}
	s.sched.resumeProcess(p)
	return nil
}

// ForceTerminate models an external kill signal for a thread. Permitted in
// every state; a no-op if the thread is already terminated.
func (s *Simulator) ForceTerminate(id ThreadID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.table.Thread(id)
	if err != nil {
		return err
	}
	s.sched.forceTerminate(t)
	return nil
}

// RequestBlockingOp registers a wake-up for thread id at now+latency and
// transitions it to Blocked in the same atomic step. Fails with
// ErrInvalidArgument on negative latency and ErrInvalidState if the thread
// is already blocked or terminated.
func (s *Simulator) RequestBlockingOp(id ThreadID, latency int64) error {
	if latency < 0 {
		return fmt.Errorf("%w: latency must be non-negative, got %d", ErrInvalidArgument, latency)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.table.Thread(id)
	if err != nil {
		return err
	}
	if t.State == ThreadBlocked || t.State == ThreadTerminated {
		return fmt.Errorf("%w: thread %d cannot block while %s", ErrInvalidState, id, t.State)
	}
	t.sinceIO = 0
	s.sched.block(t, latency)
	return nil
}

// Step runs exactly one scheduling decision and returns a snapshot of all
// entity states at the new virtual time. When the simulation is quiesced
// (no ready threads, no pending events) a step changes nothing.
func (s *Simulator) Step() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sched.step()
	return takeSnapshot(s.table, s.clock.Now())
}

// Snapshot returns a read-only deep copy of all entity states without
// advancing time. Two snapshots without an intervening mutation are
// identical.
func (s *Simulator) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return takeSnapshot(s.table, s.clock.Now())
}

// Purge removes a terminated process and its threads from the entity table.
// Until purged, terminated entities stay queryable for reporting.
func (s *Simulator) Purge(id ProcessID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Purge(id)
}

// Quiesced reports whether stepping has halted: nothing is runnable and no
// wake-up is pending.
func (s *Simulator) Quiesced() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched.quiesced()
}

// Now returns the current virtual time.
func (s *Simulator) Now() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock.Now()
}

// RunUntilQuiesced steps the simulation until it quiesces or maxSteps
// decisions have been taken, and returns the number of steps. The loop is
// the whole run driver: each iteration is one synchronous Step.
func (s *Simulator) RunUntilQuiesced(maxSteps int) int {
	steps := 0
	for steps < maxSteps && !s.Quiesced() {
		s.Step()
		steps++
	}
	logrus.Infof("[tick %07d] run ended after %d steps", s.Now(), steps)
	return steps
}
