package graph

import (
	"context"
	"fmt"

	logx "github.com/feedcraft/server/pkg/logger"
)

// maxSteps bounds a single invocation so a miswired cycle cannot spin forever.
const maxSteps = 64

// EventSink receives progress events emitted by nodes. Delivery is
// best-effort; implementations should not block for long.
type EventSink interface {
	Emit(event string, payload any)
}

// SinkFunc adapts a plain function to an EventSink.
type SinkFunc func(event string, payload any)

func (f SinkFunc) Emit(event string, payload any) { f(event, payload) }

// ExecContext carries per-run identity and the progress side-channel into
// every node. It holds only what nodes need; services and repositories are
// wired into nodes at construction time, not smuggled through here.
type ExecContext struct {
	SessionID string
	ThreadID  string
	Sink      EventSink
}

// Emit forwards an event to the sink. It never panics and treats a missing
// sink as a no-op, so nodes can emit unconditionally.
func (ec *ExecContext) Emit(event string, payload any) {
	if ec == nil || ec.Sink == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logx.Warn().Str("event", event).Msgf("event sink panicked: %v", r)
		}
	}()
	ec.Sink.Emit(event, payload)
}

// Runnable is a compiled, immutable graph. All per-run data lives in the
// state value passed through Invoke, so a single Runnable may serve many
// concurrent invocations.
type Runnable[S any] struct {
	merge    MergeFunc[S]
	nodes    map[string]NodeFunc[S]
	entry    string
	edges    map[string]string
	branches map[string]branch[S]
}

// Invoke runs the graph from the entry node until End, merging each node's
// partial update into the state before routing. Execution is strictly
// sequential within one call. Context cancellation is honored between steps;
// a cancelled run returns the context error and the state so far, which the
// caller must discard.
func (r *Runnable[S]) Invoke(ctx context.Context, initial S, ec *ExecContext) (S, error) {
	state := initial
	current := r.entry

	for steps := 0; current != End; steps++ {
		if err := ctx.Err(); err != nil {
			return state, err
		}
		if steps >= maxSteps {
			return state, fmt.Errorf("graph: step limit %d exceeded at node %q", maxSteps, current)
		}

		update, err := r.runNode(ctx, current, state, ec)
		if err != nil {
			return state, &NodeExecutionError{Node: current, Err: err}
		}
		state = r.merge(state, update)

		next, err := r.next(current, state)
		if err != nil {
			return state, err
		}
		current = next
	}
	return state, nil
}

// runNode executes one node, converting panics into errors so a single bad
// node cannot take down the caller.
func (r *Runnable[S]) runNode(ctx context.Context, name string, state S, ec *ExecContext) (update S, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return r.nodes[name](ctx, state, ec)
}

// next resolves the node after current: the unconditional edge if one exists,
// otherwise the branch router validated against its declared targets.
func (r *Runnable[S]) next(current string, state S) (string, error) {
	if to, ok := r.edges[current]; ok {
		return to, nil
	}
	br := r.branches[current]
	target := br.router(state)
	if !br.targets[target] {
		return "", &RoutingError{Node: current, Target: target}
	}
	return target, nil
}
