package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitProcess_RejectsMalformedBursts(t *testing.T) {
	s := newTestSim(t, DefaultConfig())

	cases := []struct {
		name   string
		bursts []int64
	}{
		{"empty", nil},
		{"zero", []int64{3, 0}},
		{"negative", []int64{-1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.SubmitProcess(tc.bursts)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
	// all-or-nothing: nothing was created
	assert.Empty(t, s.Snapshot().Processes)
}

func TestSubmitProcess_AssignsSequentialIDs(t *testing.T) {
	s := newTestSim(t, DefaultConfig())
	p0, err := s.SubmitProcess([]int64{1, 2})
	require.NoError(t, err)
	p1, err := s.SubmitProcess([]int64{3})
	require.NoError(t, err)
	assert.Equal(t, ProcessID(0), p0)
	assert.Equal(t, ProcessID(1), p1)

	snap := s.Snapshot()
	require.Len(t, snap.Processes, 2)
	assert.Equal(t, ProcessNew, snap.Processes[0].State)
	require.Len(t, snap.Processes[0].Threads, 2)
	assert.Equal(t, ThreadID(0), snap.Processes[0].Threads[0].ID)
	assert.Equal(t, ThreadID(1), snap.Processes[0].Threads[1].ID)
	assert.Equal(t, ThreadID(2), snap.Processes[1].Threads[0].ID)
}

func TestSnapshot_IdempotentWithoutMutation(t *testing.T) {
	s := newTestSim(t, DefaultConfig())
	_, err := s.SubmitProcess([]int64{5, 7})
	require.NoError(t, err)
	s.Step()

	a := s.Snapshot()
	b := s.Snapshot()
	assert.Equal(t, a, b)
	assert.Equal(t, a.String(), b.String())
}

func TestDeterminism_IdenticalRunsIdenticalSnapshots(t *testing.T) {
	run := func() []string {
		s := newTestSim(t, Config{Quantum: 3, Cores: 2, Policy: "round-robin"})
		var trace []string
		submit := func(bursts ...int64) {
			_, err := s.SubmitProcess(bursts)
			require.NoError(t, err)
		}
		submit(7, 3)
		submit(5)
		trace = append(trace, s.Step().String())
		require.NoError(t, s.RequestBlockingOp(2, 4))
		trace = append(trace, s.Step().String())
		require.NoError(t, s.Suspend(0))
		trace = append(trace, s.Step().String())
		require.NoError(t, s.Resume(0))
		for i := 0; i < 10; i++ {
			trace = append(trace, s.Step().String())
		}
		return trace
	}

	assert.Equal(t, run(), run())
}

// Process state is Terminated if and only if every owned thread is
// Terminated, checked after every step.
func TestInvariant_ProcessTerminatedIffAllThreads(t *testing.T) {
	s := newTestSim(t, Config{Quantum: 2, Cores: 1, Policy: "round-robin"})
	_, err := s.SubmitProcess([]int64{4, 2})
	require.NoError(t, err)
	_, err = s.SubmitProcess([]int64{3})
	require.NoError(t, err)

	for i := 0; i < 50 && !s.Quiesced(); i++ {
		snap := s.Step()
		for _, p := range snap.Processes {
			allTerminated := true
			for _, th := range p.Threads {
				if th.State != ThreadTerminated {
					allTerminated = false
				}
			}
			if allTerminated != (p.State == ProcessTerminated) {
				t.Fatalf("process %d state %s with allTerminated=%v", p.ID, p.State, allTerminated)
			}
		}
	}
	require.True(t, s.Quiesced())
}

func TestSuspendResume_Lifecycle(t *testing.T) {
	s := newTestSim(t, Config{Quantum: 4, Cores: 1, Policy: "round-robin"})
	pid, err := s.SubmitProcess([]int64{10})
	require.NoError(t, err)
	other, err := s.SubmitProcess([]int64{10})
	require.NoError(t, err)

	// run pid's thread for one quantum, then suspend mid-flight
	snap := s.Step()
	require.Equal(t, ThreadRunning, findThread(snap, 0).State)
	require.NoError(t, s.Suspend(pid))

	snap = s.Snapshot()
	assert.Equal(t, ProcessSuspended, findProcess(snap, pid).State)
	assert.Equal(t, ThreadReady, findThread(snap, 0).State, "suspend must demote the running thread")

	// the suspended process is skipped on the next step
	snap = s.Step()
	assert.Equal(t, ThreadRunning, findThread(snap, 1).State)
	assert.Equal(t, ThreadReady, findThread(snap, 0).State)

	// suspending again is a no-op, resuming restores without resetting work
	require.NoError(t, s.Suspend(pid))
	require.NoError(t, s.Resume(pid))
	snap = s.Snapshot()
	assert.Equal(t, ProcessReady, findProcess(snap, pid).State)
	assert.Equal(t, int64(6), findThread(snap, 0).Remaining, "resume must not reset remaining work")

	// resume on a non-suspended process is a no-op
	require.NoError(t, s.Resume(other))
}

func TestSuspend_TerminatedProcessRejected(t *testing.T) {
	s := newTestSim(t, Config{Quantum: 5, Cores: 1, Policy: "round-robin"})
	pid, err := s.SubmitProcess([]int64{2})
	require.NoError(t, err)
	s.Step()

	err = s.Suspend(pid)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestUnknownIDs_ReturnNotFound(t *testing.T) {
	s := newTestSim(t, DefaultConfig())
	assert.ErrorIs(t, s.Suspend(99), ErrNotFound)
	assert.ErrorIs(t, s.Resume(99), ErrNotFound)
	assert.ErrorIs(t, s.ForceTerminate(99), ErrNotFound)
	assert.ErrorIs(t, s.RequestBlockingOp(99, 1), ErrNotFound)
	assert.ErrorIs(t, s.Purge(99), ErrNotFound)
}

// A blocked thread stays Blocked until virtual time reaches its wake-up
// deadline, then becomes Ready again.
func TestRequestBlockingOp_WakesAtDeadline(t *testing.T) {
	s := newTestSim(t, Config{Quantum: 5, Cores: 1, Policy: "round-robin"})
	_, err := s.SubmitProcess([]int64{20})
	require.NoError(t, err)

	snap := s.Step() // runs one quantum, clock now 5
	require.Equal(t, int64(5), snap.Time)

	require.NoError(t, s.RequestBlockingOp(0, 10)) // deadline 15
	snap = s.Snapshot()
	assert.Equal(t, ThreadBlocked, findThread(snap, 0).State)
	assert.Equal(t, ProcessWaiting, findProcess(snap, 0).State)

	snap = s.Step() // idle skip to the deadline
	assert.Equal(t, int64(15), snap.Time)
	assert.Equal(t, ThreadReady, findThread(snap, 0).State)
}

func TestRequestBlockingOp_Validation(t *testing.T) {
	s := newTestSim(t, DefaultConfig())
	_, err := s.SubmitProcess([]int64{5})
	require.NoError(t, err)

	assert.ErrorIs(t, s.RequestBlockingOp(0, -1), ErrInvalidArgument)

	require.NoError(t, s.RequestBlockingOp(0, 10))
	// already blocked
	assert.ErrorIs(t, s.RequestBlockingOp(0, 10), ErrInvalidState)
}

func TestForceTerminate_AllStates(t *testing.T) {
	s := newTestSim(t, Config{Quantum: 2, Cores: 1, Policy: "round-robin"})
	pid, err := s.SubmitProcess([]int64{10, 10})
	require.NoError(t, err)

	// blocked thread: its pending event is discarded with it
	require.NoError(t, s.RequestBlockingOp(1, 100))
	require.NoError(t, s.ForceTerminate(1))
	assert.Equal(t, ThreadTerminated, findThread(s.Snapshot(), 1).State)

	// running thread
	s.Step()
	require.Equal(t, ThreadRunning, findThread(s.Snapshot(), 0).State)
	require.NoError(t, s.ForceTerminate(0))

	snap := s.Snapshot()
	assert.Equal(t, ThreadTerminated, findThread(snap, 0).State)
	assert.Equal(t, ProcessTerminated, findProcess(snap, pid).State,
		"last thread force-terminated must terminate the process")

	// terminated thread: no-op, still no error
	require.NoError(t, s.ForceTerminate(0))
	// nothing left to do: the discarded event must not keep the sim alive
	assert.True(t, s.Quiesced())
}

func TestPurge_Lifecycle(t *testing.T) {
	s := newTestSim(t, Config{Quantum: 5, Cores: 1, Policy: "round-robin"})
	pid, err := s.SubmitProcess([]int64{2})
	require.NoError(t, err)

	err = s.Purge(pid)
	assert.ErrorIs(t, err, ErrInvalidState, "purging a live process must fail")

	s.Step()
	// terminated entities remain queryable until purged
	assert.Equal(t, ProcessTerminated, findProcess(s.Snapshot(), pid).State)

	require.NoError(t, s.Purge(pid))
	assert.Empty(t, s.Snapshot().Processes)
	assert.ErrorIs(t, s.Suspend(pid), ErrNotFound)
	assert.ErrorIs(t, s.ForceTerminate(0), ErrNotFound)
}

func TestStep_QuiescedIsNoOp(t *testing.T) {
	s := newTestSim(t, DefaultConfig())
	_, err := s.SubmitProcess([]int64{2})
	require.NoError(t, err)
	s.RunUntilQuiesced(100)

	before := s.Snapshot()
	after := s.Step()
	assert.Equal(t, before, after, "stepping a quiesced simulation must change nothing")

	// new work revives the simulation
	_, err = s.SubmitProcess([]int64{1})
	require.NoError(t, err)
	assert.False(t, s.Quiesced())
	snap := s.Step()
	assert.Equal(t, before.Time+1, snap.Time)
}

func TestSnapshot_StableTextForm(t *testing.T) {
	s := newTestSim(t, Config{Quantum: 5, Cores: 1, Policy: "round-robin"})
	_, err := s.SubmitProcess([]int64{3})
	require.NoError(t, err)

	assert.Equal(t, "t=0 | p0:new [t0:ready rem=3 wait=0]", s.Snapshot().String())
	snap := s.Step()
	assert.Equal(t, "t=3 | p0:terminated [t0:terminated rem=0 wait=0]", snap.String())

	out, err := snap.YAML()
	require.NoError(t, err)
	assert.Contains(t, string(out), "time: 3")
	assert.Contains(t, string(out), "state: terminated")
}

func TestNewSimulator_RejectsInvalidConfig(t *testing.T) {
	for _, cfg := range []Config{
		{Quantum: 0, Cores: 1, Policy: "round-robin"},
		{Quantum: 4, Cores: 0, Policy: "round-robin"},
		{Quantum: 4, Cores: 1, Policy: "lottery"},
	} {
		_, err := NewSimulator(cfg)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("config %+v: got %v, want ErrInvalidArgument", cfg, err)
		}
	}
}
