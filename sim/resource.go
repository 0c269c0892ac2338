package sim

import (
	"fmt"
	"sort"
)

// Request priorities. Lower value wins: machine repairs jump ahead of
// production work waiting for the same slot.
const (
	PriorityBreakdown  = 0
	PriorityProduction = 1
)

// pendingRequest is one suspended process waiting for a slot.
type pendingRequest struct {
	priority int
	seq      uint64 // arrival order within this resource, breaks priority ties
	grant    func()
}

// Resource is a capacity-limited, priority-queued lock representing a
// machine. It grants holds to at most Capacity concurrent holders, ordered by
// (priority ascending, arrival order). Admission is non-preemptive: a granted
// holder keeps its slot until it releases voluntarily, even if a
// higher-priority request arrives meanwhile.
type Resource struct {
	capacity int
	inUse    int
	nextSeq  uint64
	pending  []pendingRequest
}

// NewResource creates a resource with the given positive capacity.
func NewResource(capacity int) *Resource {
	if capacity < 1 {
		panic(fmt.Sprintf("NewResource: capacity must be >= 1, got %d", capacity))
	}
	return &Resource{capacity: capacity}
}

// Capacity returns the configured slot count.
func (r *Resource) Capacity() int {
	return r.capacity
}

// InUse returns the number of currently granted holders.
func (r *Resource) InUse() int {
	return r.inUse
}

// Pending returns the number of requests waiting for a slot.
func (r *Resource) Pending() int {
	return len(r.pending)
}

// Request asks for a slot at the given priority. If a slot is free the grant
// continuation runs inline, immediately; otherwise the request queues behind
// every earlier request of equal or higher priority and grant runs when a
// slot is released to it. A free slot with a non-empty pending queue cannot
// occur: Release hands freed slots straight to the queue head.
func (r *Resource) Request(priority int, grant func()) {
	if grant == nil {
		panic("Request: grant must not be nil")
	}
	seq := r.nextSeq
	r.nextSeq++

	if r.inUse < r.capacity {
		r.inUse++
		grant()
		return
	}

	req := pendingRequest{priority: priority, seq: seq, grant: grant}
	// Insert before the first strictly lower-priority entry; equal priority
	// stays FIFO by arrival.
	i := sort.Search(len(r.pending), func(i int) bool {
		return r.pending[i].priority > priority
	})
	r.pending = append(r.pending, pendingRequest{})
	copy(r.pending[i+1:], r.pending[i:])
	r.pending[i] = req
}

// Release returns the caller's slot. If requests are pending, the head of
// the priority queue is admitted inline before Release returns. Releasing
// more slots than were granted is a programming error.
func (r *Resource) Release() {
	if r.inUse <= 0 {
		panic("Release: no outstanding holds")
	}
	r.inUse--

	if len(r.pending) > 0 {
		next := r.pending[0]
		r.pending = r.pending[1:]
		r.inUse++
		if r.inUse > r.capacity {
			panic(fmt.Sprintf("Release: granted %d holders with capacity %d", r.inUse, r.capacity))
		}
		next.grant()
	}
}
