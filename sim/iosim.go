// The resource/I-O simulator. It owns no threads: it only stores wake-up
// intents (pending events) on behalf of the scheduler and hands them back
// when their deadlines come due.

package sim

import (
	"container/heap"
	"iter"
)

// EventID uniquely identifies a pending event. Zero is reserved for "no
// event" so a Thread's BlockedOn field is zero-value safe.
type EventID int

// PendingEvent is a scheduled future wake-up (I/O completion, timer,
// resource availability) for a blocked thread. It is consumed exactly once,
// at or after its deadline.
type PendingEvent struct {
	ID       EventID
	Thread   ThreadID
	Deadline int64
}

// eventHeap implements heap.Interface and orders pending events by deadline,
// then by target thread id for determinism.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type eventHeap []PendingEvent

func (eh eventHeap) Len() int { return len(eh) }
func (eh eventHeap) Less(i, j int) bool {
	if eh[i].Deadline != eh[j].Deadline {
		return eh[i].Deadline < eh[j].Deadline
	}
	return eh[i].Thread < eh[j].Thread
}
func (eh eventHeap) Swap(i, j int) { eh[i], eh[j] = eh[j], eh[i] }

func (eh *eventHeap) Push(x any) {
	*eh = append(*eh, x.(PendingEvent))
}

func (eh *eventHeap) Pop() any {
	old := *eh
	n := len(old)
	item := old[n-1]
	*eh = old[0 : n-1]
	return item
}

// IOSim stores pending events in a deadline-ordered heap. Cancellation is
// lazy: a cancelled event stays in the heap and is skipped when it surfaces.
type IOSim struct {
	events    eventHeap
	cancelled map[EventID]bool
	nextID    EventID
}

// NewIOSim creates an empty resource/I-O simulator.
func NewIOSim() *IOSim {
	return &IOSim{cancelled: make(map[EventID]bool), nextID: 1}
}

// Register stores a wake-up intent for thread tid at the given deadline and
// returns the new event. The caller (the scheduler) has already validated
// the latency and transitions the thread to Blocked in the same atomic step.
func (io *IOSim) Register(tid ThreadID, deadline int64) PendingEvent {
	ev := PendingEvent{ID: io.nextID, Thread: tid, Deadline: deadline}
	io.nextID++
	heap.Push(&io.events, ev)
	return ev
}

// Cancel discards a pending event so it will never fire. Used when a blocked
// thread is force-terminated before its wake-up.
func (io *IOSim) Cancel(id EventID) {
	io.cancelled[id] = true
}

// dropCancelled pops cancelled events off the top of the heap.
func (io *IOSim) dropCancelled() {
	for len(io.events) > 0 && io.cancelled[io.events[0].ID] {
		delete(io.cancelled, io.events[0].ID)
		heap.Pop(&io.events)
	}
}

// EarliestDeadline returns the deadline of the next live pending event, or
// false when none are pending.
func (io *IOSim) EarliestDeadline() (int64, bool) {
	io.dropCancelled()
	if len(io.events) == 0 {
		return 0, false
	}
	return io.events[0].Deadline, true
}

// Pending returns the number of live pending events.
func (io *IOSim) Pending() int {
	return len(io.events) - len(io.cancelled)
}

// PollDueEvents lazily yields every pending event whose deadline is at or
// before now, in (deadline, thread id) order, removing each from the pending
// set as it is yielded. Each event is returned exactly once.
func (io *IOSim) PollDueEvents(now int64) iter.Seq[PendingEvent] {
	return func(yield func(PendingEvent) bool) {
		for {
			io.dropCancelled()
			if len(io.events) == 0 || io.events[0].Deadline > now {
				return
			}
			ev := heap.Pop(&io.events).(PendingEvent)
			if !yield(ev) {
				return
			}
		}
	}
}
