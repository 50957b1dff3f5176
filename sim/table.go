// Arena-style entity storage. Processes and threads live in dense slices
// indexed by their ids; a purged slot holds nil and its id is never reused.

package sim

import "fmt"

// Table owns every Process and Thread in the simulation. All lookups go
// through it, and the back-reference from a thread to its owner is a plain
// id lookup, never a pointer.
type Table struct {
	procs   []*Process
	threads []*Thread
}

// NewTable creates an empty entity table.
func NewTable() *Table {
	return &Table{}
}

// AddProcess stores a new process and assigns its id.
func (tb *Table) AddProcess(p *Process) ProcessID {
	p.ID = ProcessID(len(tb.procs))
	tb.procs = append(tb.procs, p)
	return p.ID
}

// AddThread stores a new thread, assigns its id, and appends it to the
// owner's thread list.
func (tb *Table) AddThread(t *Thread, owner *Process) ThreadID {
	t.ID = ThreadID(len(tb.threads))
	t.Owner = owner.ID
	tb.threads = append(tb.threads, t)
	owner.Threads = append(owner.Threads, t.ID)
	return t.ID
}

// Process looks up a process by id. Unknown and purged ids fail with
// ErrNotFound.
func (tb *Table) Process(id ProcessID) (*Process, error) {
	if id < 0 || int(id) >= len(tb.procs) || tb.procs[id] == nil {
		return nil, fmt.Errorf("%w: process %d", ErrNotFound, id)
	}
	return tb.procs[id], nil
}

// Thread looks up a thread by id. Unknown and purged ids fail with
// ErrNotFound.
func (tb *Table) Thread(id ThreadID) (*Thread, error) {
	if id < 0 || int(id) >= len(tb.threads) || tb.threads[id] == nil {
		return nil, fmt.Errorf("%w: thread %d", ErrNotFound, id)
	}
	return tb.threads[id], nil
}

// mustThread is the internal lookup for ids the table itself handed out.
func (tb *Table) mustThread(id ThreadID) *Thread {
	t, err := tb.Thread(id)
	if err != nil {
		panic(fmt.Sprintf("corrupt table: %v", err))
	}
	return t
}

// Processes iterates live processes in id order.
func (tb *Table) Processes(visit func(*Process)) {
	for _, p := range tb.procs {
		if p != nil {
			visit(p)
		}
	}
}

// Purge removes a terminated process and all of its threads from the table.
// Terminated entities stay queryable until purged; purging a non-terminated
// process fails with ErrInvalidState.
func (tb *Table) Purge(id ProcessID) error {
	p, err := tb.Process(id)
	if err != nil {
		return err
	}
	if p.State != ProcessTerminated {
		return fmt.Errorf("%w: cannot purge process %d in state %s", ErrInvalidState, id, p.State)
	}
	for _, tid := range p.Threads {
		tb.threads[tid] = nil
	}
	tb.procs[id] = nil
	return nil
}
