package renderhost

import "context"

// Reply is the single result of a script evaluation. OK is false when the
// host produced no value: script error, content not loaded, host gone.
type Reply struct {
	Value string
	OK    bool
}

// Absent is the reply for "no result".
func Absent() Reply {
	return Reply{}
}

// Value wraps a present result.
func Value(v string) Reply {
	return Reply{Value: v, OK: true}
}

// Host evaluates scripts against the currently displayed content. The
// returned channel receives exactly one Reply.
type Host interface {
	Evaluate(ctx context.Context, script Script) <-chan Reply
}

// HostFunc adapts a synchronous function to Host.
type HostFunc func(ctx context.Context, script Script) Reply

func (f HostFunc) Evaluate(ctx context.Context, script Script) <-chan Reply {
	ch := make(chan Reply, 1)
	if ctx.Err() != nil {
		ch <- Absent()
		return ch
	}
	ch <- f(ctx, script)
	return ch
}

// Await waits for the reply of a pending evaluation. A cancelled context
// resolves to an absent reply.
func Await(ctx context.Context, pending <-chan Reply) Reply {
	select {
	case r, ok := <-pending:
		if !ok {
			return Absent()
		}
		return r
	case <-ctx.Done():
		return Absent()
	}
}

// Call evaluates a script and waits for its reply. A nil host replies absent.
func Call(ctx context.Context, host Host, script Script) Reply {
	if host == nil {
		return Absent()
	}
	return Await(ctx, host.Evaluate(ctx, script))
}
