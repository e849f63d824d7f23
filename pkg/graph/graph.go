// Package graph implements a small generic executor for directed graphs of
// named nodes over a progressively merged state value. Nodes return partial
// state updates; unconditional edges and conditional branches decide the next
// node until the End sentinel is reached. A compiled graph holds no per-run
// state, so one Runnable can serve concurrent invocations.
package graph

import (
	"context"
	"fmt"
)

// End is the terminal sentinel a router or edge may point at to stop execution.
const End = "__end__"

// NodeFunc executes one step. The returned state is a partial update: its set
// fields replace the current state's fields, its zero fields leave them alone.
// How "set" is decided belongs to the MergeFunc the graph was built with.
type NodeFunc[S any] func(ctx context.Context, state S, ec *ExecContext) (S, error)

// RouterFunc picks the next node name (or End) from the current state. It must
// be pure: no side effects, no external calls.
type RouterFunc[S any] func(state S) string

// MergeFunc folds a node's partial update into the current state. It must be
// monotonic: fields absent from the update keep their current value.
type MergeFunc[S any] func(current, update S) S

type branch[S any] struct {
	router  RouterFunc[S]
	targets map[string]bool
}

// Graph accumulates nodes and edges before Compile. Not safe for concurrent
// use; build the graph once at startup, then share the compiled Runnable.
type Graph[S any] struct {
	merge    MergeFunc[S]
	nodes    map[string]NodeFunc[S]
	order    []string
	entry    string
	edges    map[string]string
	branches map[string]branch[S]
	problems []string
}

// New returns an empty graph builder using merge to fold node updates.
func New[S any](merge MergeFunc[S]) *Graph[S] {
	return &Graph[S]{
		merge:    merge,
		nodes:    make(map[string]NodeFunc[S]),
		edges:    make(map[string]string),
		branches: make(map[string]branch[S]),
	}
}

// AddNode registers a node under a unique name.
func (g *Graph[S]) AddNode(name string, fn NodeFunc[S]) error {
	if name == End {
		return fmt.Errorf("graph: %q is reserved", End)
	}
	if fn == nil {
		return fmt.Errorf("graph: node %q has nil func", name)
	}
	if _, ok := g.nodes[name]; ok {
		return &DuplicateNodeError{Node: name}
	}
	g.nodes[name] = fn
	g.order = append(g.order, name)
	return nil
}

// SetEntryPoint declares the node execution starts from. Declaring more than
// one entry point is recorded and reported by Compile.
func (g *Graph[S]) SetEntryPoint(name string) {
	if g.entry != "" && g.entry != name {
		g.problems = append(g.problems, fmt.Sprintf("entry point redeclared: %q then %q", g.entry, name))
		return
	}
	g.entry = name
}

// AddEdge declares an unconditional transition. to may be End.
func (g *Graph[S]) AddEdge(from, to string) {
	if _, ok := g.edges[from]; ok {
		g.problems = append(g.problems, fmt.Sprintf("node %q has more than one unconditional edge", from))
		return
	}
	g.edges[from] = to
}

// AddConditionalEdge declares a branch: after from runs, router picks the next
// node from the declared targets. A router result outside targets fails the
// run with a RoutingError.
func (g *Graph[S]) AddConditionalEdge(from string, router RouterFunc[S], targets ...string) {
	if _, ok := g.branches[from]; ok {
		g.problems = append(g.problems, fmt.Sprintf("node %q has more than one branch", from))
		return
	}
	if router == nil {
		g.problems = append(g.problems, fmt.Sprintf("branch at %q has nil router", from))
		return
	}
	if len(targets) == 0 {
		g.problems = append(g.problems, fmt.Sprintf("branch at %q declares no targets", from))
		return
	}
	allowed := make(map[string]bool, len(targets))
	for _, t := range targets {
		allowed[t] = true
	}
	g.branches[from] = branch[S]{router: router, targets: allowed}
}

// Compile validates the whole graph and returns an executable Runnable.
// Validation collects every problem before failing: missing entry point,
// endpoints that are neither registered nodes nor End, nodes carrying both an
// edge and a branch, dead-end nodes, and nodes unreachable from the entry.
func (g *Graph[S]) Compile() (*Runnable[S], error) {
	problems := append([]string(nil), g.problems...)

	if g.merge == nil {
		problems = append(problems, "merge func is nil")
	}
	if g.entry == "" {
		problems = append(problems, "no entry point declared")
	} else if _, ok := g.nodes[g.entry]; !ok {
		problems = append(problems, fmt.Sprintf("entry point %q is not a registered node", g.entry))
	}

	for from, to := range g.edges {
		if _, ok := g.nodes[from]; !ok {
			problems = append(problems, fmt.Sprintf("edge from unknown node %q", from))
		}
		if to != End {
			if _, ok := g.nodes[to]; !ok {
				problems = append(problems, fmt.Sprintf("edge %q->%q targets unknown node", from, to))
			}
		}
		if _, ok := g.branches[from]; ok {
			problems = append(problems, fmt.Sprintf("node %q has both an unconditional edge and a branch", from))
		}
	}
	for from, br := range g.branches {
		if _, ok := g.nodes[from]; !ok {
			problems = append(problems, fmt.Sprintf("branch from unknown node %q", from))
		}
		for t := range br.targets {
			if t == End {
				continue
			}
			if _, ok := g.nodes[t]; !ok {
				problems = append(problems, fmt.Sprintf("branch at %q declares unknown target %q", from, t))
			}
		}
	}

	for _, name := range g.order {
		_, hasEdge := g.edges[name]
		_, hasBranch := g.branches[name]
		if !hasEdge && !hasBranch {
			problems = append(problems, fmt.Sprintf("node %q has no outgoing edge", name))
		}
	}

	if g.entry != "" {
		if unreachable := g.unreachableFrom(g.entry); len(unreachable) > 0 {
			for _, name := range unreachable {
				problems = append(problems, fmt.Sprintf("node %q is unreachable from entry point", name))
			}
		}
	}

	if len(problems) > 0 {
		return nil, &GraphValidationError{Problems: problems}
	}

	return &Runnable[S]{
		merge:    g.merge,
		nodes:    g.nodes,
		entry:    g.entry,
		edges:    g.edges,
		branches: g.branches,
	}, nil
}

// unreachableFrom returns registered nodes not reachable from start, in
// registration order.
func (g *Graph[S]) unreachableFrom(start string) []string {
	seen := map[string]bool{}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == End || seen[cur] {
			continue
		}
		seen[cur] = true
		if to, ok := g.edges[cur]; ok {
			queue = append(queue, to)
		}
		if br, ok := g.branches[cur]; ok {
			for t := range br.targets {
				queue = append(queue, t)
			}
		}
	}
	var missing []string
	for _, name := range g.order {
		if !seen[name] {
			missing = append(missing, name)
		}
	}
	return missing
}
