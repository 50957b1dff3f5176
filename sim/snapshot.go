// Read-only state snapshots: the sole externally observed artifact of the
// simulation. Snapshots are deep copies, deterministically ordered by id,
// and serialize stably for logging and test comparison.

package sim

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ThreadSnapshot is the observable state of one thread.
type ThreadSnapshot struct {
	ID        ThreadID    `yaml:"id"`
	State     ThreadState `yaml:"state"`
	Remaining int64       `yaml:"remaining"`
	Waited    int64       `yaml:"waited"`
}

// ProcessSnapshot is the observable state of one process and its threads,
// in thread creation order.
type ProcessSnapshot struct {
	ID      ProcessID        `yaml:"id"`
	State   ProcessState     `yaml:"state"`
	Threads []ThreadSnapshot `yaml:"threads"`
}

// Snapshot is the full observable state of the simulation at one virtual
// instant. Processes are ordered by ascending id; purged entities are
// absent.
type Snapshot struct {
	Time      int64             `yaml:"time"`
	Processes []ProcessSnapshot `yaml:"processes"`
}

// takeSnapshot deep-copies the observable state out of the table.
func takeSnapshot(tb *Table, now int64) Snapshot {
	snap := Snapshot{Time: now}
	tb.Processes(func(p *Process) {
		ps := ProcessSnapshot{ID: p.ID, State: p.State}
		for _, tid := range p.Threads {
			t := tb.mustThread(tid)
			ps.Threads = append(ps.Threads, ThreadSnapshot{
				ID:        t.ID,
				State:     t.State,
				Remaining: t.Remaining,
				Waited:    t.Waited,
			})
		}
		snap.Processes = append(snap.Processes, ps)
	})
	return snap
}

// String renders the snapshot as a stable single-line text form, e.g.
//
//	t=7 | p0:running [t0:running rem=2 wait=0] | p1:ready [t1:ready rem=4 wait=3]
func (s Snapshot) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "t=%d", s.Time)
	for _, p := range s.Processes {
		fmt.Fprintf(&sb, " | p%d:%s [", p.ID, p.State)
		for i, t := range p.Threads {
			if i > 0 {
				sb.WriteString(" ")
			}
			fmt.Fprintf(&sb, "t%d:%s rem=%d wait=%d", t.ID, t.State, t.Remaining, t.Waited)
		}
		sb.WriteString("]")
	}
	return sb.String()
}

// YAML serializes the snapshot as YAML for structured logging.
func (s Snapshot) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}
