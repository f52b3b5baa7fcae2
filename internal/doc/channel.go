package doc

import "sync"

// Op classifies the mutation that produced a Note.
type Op int

const (
	OpApply Op = iota
	OpUndo
	OpRedo
)

func (o Op) String() string {
	switch o {
	case OpApply:
		return "apply"
	case OpUndo:
		return "undo"
	case OpRedo:
		return "redo"
	}
	return "unknown"
}

// Note tells a view that the document changed. Seq is the document's change
// counter; Relayout is set when the change moved nodes or edges and the view
// must recompute its layout before rendering.
type Note struct {
	Seq      uint64
	Relayout bool
	Summary  string
	Origin   Op
}

// ViewChannel is one view's mailbox. Broadcasts never block the writer: notes
// queue without bound and the view drains them at its own pace. Wake carries
// at most one pending signal, so a slow view coalesces bursts into a single
// drain.
type ViewChannel struct {
	mu     sync.Mutex
	queue  []Note
	wake   chan struct{}
	closed bool
}

func newViewChannel() *ViewChannel {
	return &ViewChannel{wake: make(chan struct{}, 1)}
}

// Wake returns a channel that receives after at least one note is queued.
func (v *ViewChannel) Wake() <-chan struct{} { return v.wake }

// Drain removes and returns all queued notes in broadcast order.
func (v *ViewChannel) Drain() []Note {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := v.queue
	v.queue = nil
	return out
}

// Close detaches the mailbox. Pending intents from a closed view are dropped
// by the document loop; queued notes are discarded.
func (v *ViewChannel) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	v.queue = nil
}

func (v *ViewChannel) isClosed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

func (v *ViewChannel) push(n Note) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.queue = append(v.queue, n)
	select {
	case v.wake <- struct{}{}:
	default:
	}
}
