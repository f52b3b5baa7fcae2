package doc

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	"taskweave/internal/graph"
)

// ErrViewClosed is the reply for an intent whose originating view detached
// before the intent was processed.
var ErrViewClosed = errors.New("view closed")

// Intent is one view's request to mutate the document. Cmd is nil for undo
// and redo. Reply, if non-nil, receives exactly one result.
type Intent struct {
	Op    Op
	Cmd   graph.Command
	From  *ViewChannel
	Reply chan error
}

// Submit sends an intent to the document loop and waits for its result.
func (d *Document) Submit(ctx context.Context, in Intent) error {
	if in.Reply == nil {
		in.Reply = make(chan error, 1)
	}
	select {
	case d.intents <- in:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-in.Reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run serializes intents from all views until the context is cancelled.
// Intents arriving from a detached view are dropped. A command that fails
// because its task vanished under a concurrent edit is logged and skipped;
// the loop keeps going.
func (d *Document) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case in := <-d.intents:
			d.handle(in)
		}
	}
}

func (d *Document) handle(in Intent) {
	if in.From != nil && in.From.isClosed() {
		reply(in, ErrViewClosed)
		return
	}
	var err error
	switch in.Op {
	case OpUndo:
		err = d.Undo()
	case OpRedo:
		err = d.Redo()
	default:
		if in.Cmd == nil {
			reply(in, errors.New("intent without command"))
			return
		}
		err = d.Apply(in.Cmd)
	}
	if errors.Is(err, graph.ErrUnknownTask) {
		log.Warn("dropping stale intent", "op", in.Op, "err", err)
	}
	reply(in, err)
}

func reply(in Intent, err error) {
	if in.Reply == nil {
		return
	}
	select {
	case in.Reply <- err:
	default:
	}
}
