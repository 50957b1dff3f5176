// Implements the ReadyQueue, which holds the ids of all threads eligible to
// be dispatched. Order in the queue is requeue order: round-robin fairness
// falls out of enqueueing preempted threads at the tail.

package sim

import (
	"fmt"
	"strings"
)

// ReadyQueue is a FIFO queue of thread ids waiting to be dispatched.
type ReadyQueue struct {
	queue []ThreadID
}

// Enqueue adds a thread id to the back of the ready queue.
func (rq *ReadyQueue) Enqueue(id ThreadID) {
	rq.queue = append(rq.queue, id)
}

// Remove deletes a thread id from the queue wherever it sits, preserving the
// order of the rest. Used when a ready thread blocks externally, is
// force-terminated, or is dispatched out of queue order by a policy.
func (rq *ReadyQueue) Remove(id ThreadID) {
	for i, q := range rq.queue {
		if q == id {
			rq.queue = append(rq.queue[:i], rq.queue[i+1:]...)
			return
		}
	}
}

// Items returns the queue contents for iteration.
// The returned slice is the queue's internal storage -- callers within the
// sim package may iterate over it but MUST NOT append to or reslice it.
func (rq *ReadyQueue) Items() []ThreadID {
	return rq.queue
}

// Len returns the number of thread ids in the queue.
func (rq *ReadyQueue) Len() int {
	return len(rq.queue)
}

func (rq *ReadyQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, id := range rq.queue {
		sb.WriteString(fmt.Sprint(id))
		if i < len(rq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
